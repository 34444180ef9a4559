package dto

// UserRequest represents the request payload for creating or replacing a user
type UserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UserResponse represents user data in API responses. The password hash is
// never included.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserListResponse wraps a page of users
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

// MessageResponse carries a short confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse represents the response after successful authentication
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
