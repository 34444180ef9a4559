package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"userhub-backend/internal/auth"
	"userhub-backend/internal/dto"
	"userhub-backend/internal/models"
	"userhub-backend/internal/repository"
	"userhub-backend/internal/utils"
)

const (
	defaultListLimit  = 10
	defaultListOffset = 0
)

// UserHandler handles user management HTTP requests
type UserHandler struct {
	repo   repository.UserRepository
	tokens *auth.TokenIssuer
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(repo repository.UserRepository, tokens *auth.TokenIssuer) *UserHandler {
	return &UserHandler{repo: repo, tokens: tokens}
}

// Root handles the service banner
// @Summary Service banner
// @Description Confirms the API is up
// @Tags root
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router / [get]
func (h *UserHandler) Root(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "User management API is running"})
}

// CreateUser handles user creation
// @Summary Create a new user
// @Description Create a new user with username, email, and password
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.UserRequest true "User data"
// @Success 201 {object} dto.UserResponse "User created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Username or email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/ [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Username, email, and password are required")
		return
	}

	// Uniqueness pre-check. Username collisions take precedence over email
	// collisions when a record matches both. The database constraint closes
	// the remaining race.
	existing, err := h.repo.GetByUsernameOrEmail(r.Context(), req.Username, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create user", "unexpected storage error")
		return
	}
	if existing != nil {
		if existing.Username == req.Username {
			utils.WriteErrorResponse(w, http.StatusConflict, "Conflict", "Username already exists")
		} else {
			utils.WriteErrorResponse(w, http.StatusConflict, "Conflict", "Email already exists")
		}
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to hash password", err.Error())
		return
	}

	user, err := h.repo.Create(r.Context(), &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			utils.WriteErrorResponse(w, http.StatusConflict, "Conflict", "Username or Email already exists")
			return
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create user", "unexpected storage error")
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, toUserResponse(user))
}

// ListUsers handles paged user listing
// @Summary List users
// @Description Get a page of users in creation order
// @Tags users
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Page start" default(0)
// @Success 200 {object} dto.UserListResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/ [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", defaultListLimit)
	offset := parseQueryInt(r, "offset", defaultListOffset)

	users, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to list users", "unexpected storage error")
		return
	}

	resp := dto.UserListResponse{Users: make([]dto.UserResponse, 0, len(users))}
	for i := range users {
		resp.Users = append(resp.Users, toUserResponse(&users[i]))
	}
	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

// GetUser handles reading a single user
// @Summary Get a user
// @Description Get a user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	user, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "User not found")
			return
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to read user", "unexpected storage error")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, toUserResponse(user))
}

// UpdateUser handles full replacement of a user's mutable fields
// @Summary Update a user
// @Description Replace a user's username, email, and password wholesale
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body dto.UserRequest true "User data"
// @Success 200 {object} dto.UserResponse "User updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Username or email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	var req dto.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Username, email, and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to hash password", err.Error())
		return
	}

	user, err := h.repo.Update(r.Context(), &models.User{
		ID:           id,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "User not found")
		case errors.Is(err, repository.ErrDuplicate):
			utils.WriteErrorResponse(w, http.StatusConflict, "Conflict", "Username or Email already exists")
		default:
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to update user", "unexpected storage error")
		}
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, toUserResponse(user))
}

// DeleteUser handles user deletion
// @Summary Delete a user
// @Description Delete a user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.MessageResponse "User deleted"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "User not found")
			return
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to delete user", "unexpected storage error")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "User deleted"})
}

// Token handles password-based token issuance. It accepts the OAuth2
// password form: the username field carries the user's email.
// @Summary Issue an access token
// @Description Exchange email and password for a Bearer access token
// @Tags authentication
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "User email"
// @Param password formData string true "Password"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} dto.ErrorResponse "Incorrect email or password"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /token [post]
func (h *UserHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.repo.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Incorrect email or password")
			return
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to authenticate", "unexpected storage error")
		return
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Incorrect email or password")
		return
	}

	token, err := h.tokens.Issue(user.Email)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to generate token", err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
	})
}

func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// parseUserID reads the {id} path value. A non-numeric id cannot reference
// an existing record, so it maps to 404.
func parseUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "User not found")
		return 0, false
	}
	return id, true
}

// parseQueryInt reads a non-negative integer query parameter, falling back
// to the default on absence or bad input.
func parseQueryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return defaultValue
	}
	return v
}
