// Package memory implements the storage port as an in-process, non-durable
// store for demo environments without a database. Records live in ordered
// slices guarded by a mutex; identifiers are sequential stringified integers.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/haguru/connectpro/internal/interfaces"
	"github.com/haguru/connectpro/internal/models"
	"github.com/haguru/connectpro/pkg/credentials"
)

// SeedPassword is the shared plaintext password of the seeded demo users.
const SeedPassword = "password123"

// Store holds users in insertion order and posts newest-first, so feed reads
// never need a sort. All records are lost on process exit.
type Store struct {
	mu         sync.RWMutex
	users      []models.User
	posts      []models.Post
	nextUserID int
	nextPostID int
}

// NewStore returns an empty memory store. Call Seed at most once to load the
// demo dataset.
func NewStore() *Store {
	return &Store{
		nextUserID: 1,
		nextPostID: 1,
	}
}

// Seed loads two demo users sharing a pre-hashed password and three posts
// with one like each, then moves the id counters past the seeded range.
// Seeding twice duplicates the dataset; callers seed at most once.
func (s *Store) Seed() error {
	demoDigest, err := credentials.HashPassword(SeedPassword)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = append(s.users,
		models.User{
			ID:       "1",
			Name:     "John Doe",
			Email:    "john@example.com",
			Password: demoDigest,
			Bio:      "Software developer passionate about building great products.",
			JoinedAt: now.Add(-30 * 24 * time.Hour),
		},
		models.User{
			ID:       "2",
			Name:     "Jane Smith",
			Email:    "jane@example.com",
			Password: demoDigest,
			Bio:      "Product manager who loves connecting with talented professionals.",
			JoinedAt: now.Add(-15 * 24 * time.Hour),
		},
	)

	// Stored newest-first, matching the prepend order of CreatePost.
	s.posts = append(s.posts,
		models.Post{
			ID:        "1",
			Content:   "Excited to share that I just completed a new React project! Building user interfaces has never been more fun. 🚀",
			AuthorID:  "1",
			CreatedAt: now.Add(-2 * time.Hour),
			Likes:     []string{"2"},
			Comments:  []string{},
		},
		models.Post{
			ID:        "2",
			Content:   "Just had an amazing team meeting discussing our product roadmap. Collaboration is key to building great products! 💡",
			AuthorID:  "2",
			CreatedAt: now.Add(-4 * time.Hour),
			Likes:     []string{"1"},
			Comments:  []string{},
		},
		models.Post{
			ID:        "3",
			Content:   "Pro tip: Always write clean, readable code. Your future self (and your teammates) will thank you! 🎯",
			AuthorID:  "1",
			CreatedAt: now.Add(-24 * time.Hour),
			Likes:     []string{"2"},
			Comments:  []string{},
		},
	)

	s.nextUserID = 3
	s.nextPostID = 4
	return nil
}

// CreateUser hashes the password, enforces email uniqueness and appends the
// record. The returned copy carries no password digest.
func (s *Store) CreateUser(ctx context.Context, input models.NewUser) (*models.User, error) {
	digest, err := credentials.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].Email == input.Email {
			return nil, interfaces.ErrEmailExists
		}
	}

	user := models.User{
		ID:       strconv.Itoa(s.nextUserID),
		Name:     input.Name,
		Email:    input.Email,
		Password: digest,
		Bio:      input.Bio,
		JoinedAt: time.Now(),
	}
	s.users = append(s.users, user)
	s.nextUserID++

	return user.Sanitized(), nil
}

// FindUserByEmail scans for a case-sensitive exact match and returns the full
// record including the digest, or nil when absent.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if s.users[i].Email == email {
			user := s.users[i]
			return &user, nil
		}
	}
	return nil, nil
}

// FindUserByID returns the record without the digest, or nil when absent.
func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.findUserByIDLocked(id), nil
}

// ListUsers returns up to limit users, newest joined first, without digests.
func (s *Store) ListUsers(ctx context.Context, limit int) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	// Users append in registration order, so walking backwards yields
	// newest-joined first.
	for i := len(s.users) - 1; i >= 0; i-- {
		if limit > 0 && len(users) >= limit {
			break
		}
		users = append(users, *s.users[i].Sanitized())
	}
	return users, nil
}

// ComparePassword verifies a candidate against the stored digest.
func (s *Store) ComparePassword(user *models.User, candidate string) (bool, error) {
	return credentials.VerifyPassword(user.Password, candidate)
}

// CreatePost assigns the next sequential identifier, prepends the post and
// returns the joined view.
func (s *Store) CreatePost(ctx context.Context, authorID, content string) (*models.PostView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	author := s.findUserByIDLocked(authorID)
	if author == nil {
		return nil, fmt.Errorf("author %q does not exist", authorID)
	}

	post := models.Post{
		ID:        strconv.Itoa(s.nextPostID),
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
		Likes:     []string{},
		Comments:  []string{},
	}
	s.posts = append([]models.Post{post}, s.posts...)
	s.nextPostID++

	return post.View(author), nil
}

// AllPosts returns up to limit joined views in stored (newest-first) order.
// Posts whose author no longer resolves are dropped.
func (s *Store) AllPosts(ctx context.Context, limit int) ([]models.PostView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]models.PostView, 0, len(s.posts))
	for i := range s.posts {
		if limit > 0 && len(views) >= limit {
			break
		}
		if view := s.posts[i].View(s.findUserByIDLocked(s.posts[i].AuthorID)); view != nil {
			views = append(views, *view)
		}
	}
	return views, nil
}

// UserPosts returns the joined views of posts authored by authorID, in stored
// order.
func (s *Store) UserPosts(ctx context.Context, authorID string) ([]models.PostView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	author := s.findUserByIDLocked(authorID)

	var views []models.PostView
	for i := range s.posts {
		if s.posts[i].AuthorID != authorID {
			continue
		}
		if view := s.posts[i].View(author); view != nil {
			views = append(views, *view)
		}
	}
	return views, nil
}

// EnsureIndices is a no-op; uniqueness is enforced inline on write.
func (s *Store) EnsureIndices(ctx context.Context) error {
	return nil
}

// Close is a no-op; the store has no external resources.
func (s *Store) Close(ctx context.Context) error {
	return nil
}

// findUserByIDLocked must be called with at least the read lock held. The
// returned copy carries no digest.
func (s *Store) findUserByIDLocked(id string) *models.User {
	for i := range s.users {
		if s.users[i].ID == id {
			return s.users[i].Sanitized()
		}
	}
	return nil
}
