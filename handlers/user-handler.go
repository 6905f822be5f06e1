package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"wurkflow-project/backend/models"
	"wurkflow-project/backend/services"
)

type UserHandler struct {
	UserService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{UserService: userService}
}

// checkRole verifies the role header forwarded by the JWT middleware.
func checkRole(r *http.Request, allowedRoles []string) error {
	userRole := r.Header.Get("Role")
	if userRole == "" {
		return fmt.Errorf("role is missing in request header")
	}

	for _, role := range allowedRoles {
		if role == userRole {
			return nil
		}
	}
	return fmt.Errorf("access forbidden: user does not have the required role")
}

// currentUser resolves the authenticated principal from the Username header
// forwarded by the JWT middleware.
func currentUser(r *http.Request, userService *services.UserService) (*models.User, error) {
	username := r.Header.Get("Username")
	if username == "" {
		return nil, fmt.Errorf("username is missing in request header")
	}
	return userService.GetUserByUsername(username)
}

// GetCurrentUser returns the authenticated user's profile.
func (h *UserHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.UserService)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
