package interfaces

import (
	"context"
	"errors"

	"github.com/haguru/connectpro/internal/models"
)

// ErrEmailExists is returned by CreateUser when the email is already taken,
// regardless of which backend enforces the uniqueness.
var ErrEmailExists = errors.New("email already registered")

// Store is the storage port every persistence backend implements. It is
// selected once at startup and injected; callers never consult connectivity
// state themselves.
//
// Not-found conditions return a nil record with a nil error; callers translate
// absence into the appropriate boundary error.
type Store interface {
	// CreateUser hashes the plaintext password, persists the user and returns
	// the stored record with the password digest cleared.
	CreateUser(ctx context.Context, input models.NewUser) (*models.User, error)

	// FindUserByEmail returns the full record including the password digest.
	// Auth-internal; the result must never be handed to callers as-is.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	// FindUserByID returns the record with the password digest cleared.
	FindUserByID(ctx context.Context, id string) (*models.User, error)

	// ListUsers returns up to limit users, newest joined first.
	ListUsers(ctx context.Context, limit int) ([]models.User, error)

	// ComparePassword verifies a candidate against the stored digest. A
	// mismatch is (false, nil); an error means the stored digest is malformed.
	ComparePassword(user *models.User, candidate string) (bool, error)

	// CreatePost persists a post for authorID and returns the joined view.
	CreatePost(ctx context.Context, authorID, content string) (*models.PostView, error)

	// AllPosts returns up to limit joined views, newest first. Posts whose
	// author no longer resolves are dropped.
	AllPosts(ctx context.Context, limit int) ([]models.PostView, error)

	// UserPosts returns the joined views of posts authored by authorID,
	// newest first.
	UserPosts(ctx context.Context, authorID string) ([]models.PostView, error)

	// EnsureIndices creates whatever schema the backend needs, in particular
	// the unique index on email.
	EnsureIndices(ctx context.Context) error

	// Close releases the backend's resources.
	Close(ctx context.Context) error
}
