package postservice

import (
	"context"
	"fmt"

	"github.com/haguru/connectpro/internal/datastore/constants"
	"github.com/haguru/connectpro/internal/interfaces"
	"github.com/haguru/connectpro/internal/models"
	"github.com/haguru/connectpro/pkg/helper"
)

type PostService struct {
	Store  interfaces.Store
	Logger interfaces.Logger
}

// NewPostService creates a new PostService instance.
func NewPostService(store interfaces.Store, logger interfaces.Logger) *PostService {
	return &PostService{
		Store:  store,
		Logger: logger,
	}
}

// Create persists a post for the author and returns the joined view.
func (s *PostService) Create(ctx context.Context, authorID, content string) (*models.PostView, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "authorID", authorID)

	post, err := s.Store.CreatePost(ctx, authorID, content)
	if err != nil {
		s.Logger.Error(ErrFailedToCreatePost, "func", funcName, "authorID", authorID, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToCreatePost, err)
	}

	s.Logger.Info("Post created successfully", "func", funcName, "ID", post.ID)
	return post, nil
}

// Feed returns the newest posts across all authors, capped at the feed limit.
func (s *PostService) Feed(ctx context.Context) ([]models.PostView, error) {
	posts, err := s.Store.AllPosts(ctx, constants.DefaultFeedLimit)
	if err != nil {
		s.Logger.Error(ErrRetrievingPosts, "func", helper.GetFuncName(), "error", err)
		return nil, fmt.Errorf("%s: %w", ErrRetrievingPosts, err)
	}
	if posts == nil {
		posts = []models.PostView{}
	}
	return posts, nil
}

// ByAuthor returns the posts authored by authorID, newest first.
func (s *PostService) ByAuthor(ctx context.Context, authorID string) ([]models.PostView, error) {
	posts, err := s.Store.UserPosts(ctx, authorID)
	if err != nil {
		s.Logger.Error(ErrRetrievingPosts, "func", helper.GetFuncName(), "authorID", authorID, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrRetrievingPosts, err)
	}
	if posts == nil {
		posts = []models.PostView{}
	}
	return posts, nil
}
