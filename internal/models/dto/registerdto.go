package dto

import "github.com/haguru/connectpro/internal/models"

type RegisterRequestDTO struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Bio      string `json:"bio" validate:"omitempty,max=500"`
}

// AuthResponseDTO is shared by register and login responses.
type AuthResponseDTO struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
}
