package dto

import "github.com/haguru/connectpro/internal/models"

type CreatePostRequestDTO struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type PostResponseDTO struct {
	Message string           `json:"message"`
	Post    *models.PostView `json:"post"`
}

type PostsResponseDTO struct {
	Posts []models.PostView `json:"posts"`
}
