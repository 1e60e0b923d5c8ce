package users

import (
	"time"

	"arena-api/services"
)

const DatabaseTimeout = 5 * time.Second

// Error messages constants
const (
	ErrInvalidRequest = "Invalid request data"
)

// Handler serves the user routes
type Handler struct {
	users *services.UserService
}

func NewHandler(users *services.UserService) *Handler {
	return &Handler{users: users}
}

// CreateUserRequest is the profile of a new user
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Judge    bool   `json:"judge"`
}
