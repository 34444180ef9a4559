package middleware

import (
	"context"
	"net/http"
	"strings"

	"userhub-backend/internal/auth"
	"userhub-backend/internal/utils"
)

type contextKey string

// SubjectKey is the request-context key under which the authenticated
// subject (the user's email) is stored.
const SubjectKey contextKey = "subject"

// Auth validates Bearer tokens in the Authorization header and stores the
// token subject in the request context.
func Auth(tokens *auth.TokenIssuer, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid authorization header format")
			return
		}

		claims, err := tokens.Validate(tokenParts[1])
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), SubjectKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
