package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"userhub-backend/internal/handlers"
)

// NewRouter configures all application routes
func NewRouter(userHandler *handlers.UserHandler, healthHandler *handlers.HealthHandler) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check routes
	mux.HandleFunc("GET /healthz", healthHandler.HealthCheck)
	mux.HandleFunc("GET /livez", healthHandler.LivenessCheck)
	mux.HandleFunc("GET /readyz", healthHandler.ReadinessCheck)

	// User management routes
	mux.HandleFunc("POST /users/{$}", userHandler.CreateUser)
	mux.HandleFunc("GET /users/{$}", userHandler.ListUsers)
	mux.HandleFunc("GET /users/{id}", userHandler.GetUser)
	mux.HandleFunc("PUT /users/{id}", userHandler.UpdateUser)
	mux.HandleFunc("DELETE /users/{id}", userHandler.DeleteUser)

	// Token issuance
	mux.HandleFunc("POST /token", userHandler.Token)

	// Swagger documentation
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Root route
	mux.HandleFunc("GET /{$}", userHandler.Root)

	return mux
}
