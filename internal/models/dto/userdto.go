package dto

import "github.com/haguru/connectpro/internal/models"

type UserResponseDTO struct {
	User *models.User `json:"user"`
}

type UsersResponseDTO struct {
	Users []models.User `json:"users"`
}

type PingResponseDTO struct {
	Message string `json:"message"`
}

// ErrorResponseDTO is the uniform failure body. Errors is only populated for
// validation failures; internal detail never reaches the client.
type ErrorResponseDTO struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
