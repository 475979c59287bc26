// Package postgres implements the storage port on top of the generic SQL
// client. Identifiers are client-generated UUID strings; email uniqueness is
// enforced by a UNIQUE constraint. Like/comment counts are materialized
// integer columns since no operation in this system mutates them.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/haguru/connectpro/internal/datastore/constants"
	"github.com/haguru/connectpro/internal/interfaces"
	"github.com/haguru/connectpro/internal/models"
	"github.com/haguru/connectpro/pkg/credentials"
	pgclient "github.com/haguru/connectpro/pkg/databases/postgres"
)

const (
	// uniqueViolation is the PostgreSQL error code for a violated UNIQUE
	// constraint.
	uniqueViolation = "23505"

	usersSchema = `CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		bio TEXT NOT NULL DEFAULT '',
		joined_at TIMESTAMPTZ NOT NULL
	)`

	postsSchema = `CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		author_id TEXT NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL,
		likes INTEGER NOT NULL DEFAULT 0,
		comments INTEGER NOT NULL DEFAULT 0
	)`
)

// Store implements interfaces.Store backed by PostgreSQL.
type Store struct {
	dbClient *pgclient.PostgresDatabaseClient
}

// pgUser is the row shape of the users table.
type pgUser struct {
	ID       string    `mapstructure:"id"`
	Name     string    `mapstructure:"name"`
	Email    string    `mapstructure:"email"`
	Password string    `mapstructure:"password"`
	Bio      string    `mapstructure:"bio"`
	JoinedAt time.Time `mapstructure:"joined_at"`
}

// pgPost is the row shape of the posts table.
type pgPost struct {
	ID        string    `mapstructure:"id"`
	Content   string    `mapstructure:"content"`
	AuthorID  string    `mapstructure:"author_id"`
	CreatedAt time.Time `mapstructure:"created_at"`
	Likes     int       `mapstructure:"likes"`
	Comments  int       `mapstructure:"comments"`
}

// NewStore creates a PostgreSQL-backed store over an already connected client.
func NewStore(dbClient *pgclient.PostgresDatabaseClient) (*Store, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	return &Store{dbClient: dbClient}, nil
}

// CreateUser hashes the password and inserts the row. A duplicate email is
// rejected by the UNIQUE constraint and mapped to ErrEmailExists.
func (s *Store) CreateUser(ctx context.Context, input models.NewUser) (*models.User, error) {
	digest, err := credentials.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	joinedAt := time.Now()
	doc := map[string]interface{}{
		"name":      input.Name,
		"email":     input.Email,
		"password":  digest,
		"bio":       input.Bio,
		"joined_at": joinedAt,
	}

	insertedID, err := s.dbClient.InsertOne(ctx, constants.UsersCollection, doc)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && string(pgErr.Code) == uniqueViolation {
			return nil, interfaces.ErrEmailExists
		}
		return nil, fmt.Errorf("failed to add user to PostgreSQL: %w", err)
	}
	id, ok := insertedID.(string)
	if !ok {
		return nil, fmt.Errorf("failed to assert inserted ID to string")
	}

	return &models.User{
		ID:       id,
		Name:     input.Name,
		Email:    input.Email,
		Bio:      input.Bio,
		JoinedAt: joinedAt,
	}, nil
}

// FindUserByEmail returns the full record including the digest, or nil when
// no row carries the email.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, map[string]interface{}{"email": email}, false)
}

// FindUserByID returns the record without the digest, or nil when absent.
func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, map[string]interface{}{"id": id}, true)
}

// ListUsers returns up to limit users, newest joined first, without digests.
func (s *Store) ListUsers(ctx context.Context, limit int) ([]models.User, error) {
	var rows []pgUser
	opts := &interfaces.FindOptions{SortField: "joined_at", SortDesc: true, Limit: int64(limit)}
	if err := s.dbClient.FindMany(ctx, constants.UsersCollection, nil, opts, &rows); err != nil {
		return nil, fmt.Errorf("failed to list users from PostgreSQL: %w", err)
	}

	users := make([]models.User, 0, len(rows))
	for i := range rows {
		users = append(users, *rows[i].toModel().Sanitized())
	}
	return users, nil
}

// ComparePassword verifies a candidate against the stored digest.
func (s *Store) ComparePassword(user *models.User, candidate string) (bool, error) {
	return credentials.VerifyPassword(user.Password, candidate)
}

// CreatePost inserts a post row and returns the joined view.
func (s *Store) CreatePost(ctx context.Context, authorID, content string) (*models.PostView, error) {
	author, err := s.FindUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, fmt.Errorf("author %q does not exist", authorID)
	}

	createdAt := time.Now()
	doc := map[string]interface{}{
		"content":    content,
		"author_id":  authorID,
		"created_at": createdAt,
		"likes":      0,
		"comments":   0,
	}

	insertedID, err := s.dbClient.InsertOne(ctx, constants.PostsCollection, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to add post to PostgreSQL: %w", err)
	}
	id, ok := insertedID.(string)
	if !ok {
		return nil, fmt.Errorf("failed to assert inserted ID to string")
	}

	return &models.PostView{
		ID:      id,
		Content: content,
		Author: models.AuthorSummary{
			ID:    author.ID,
			Name:  author.Name,
			Email: author.Email,
		},
		CreatedAt: createdAt,
	}, nil
}

// AllPosts returns up to limit joined views, newest first.
func (s *Store) AllPosts(ctx context.Context, limit int) ([]models.PostView, error) {
	return s.findPosts(ctx, nil, int64(limit))
}

// UserPosts returns the joined views of posts authored by authorID.
func (s *Store) UserPosts(ctx context.Context, authorID string) ([]models.PostView, error) {
	return s.findPosts(ctx, map[string]interface{}{"author_id": authorID}, 0)
}

// EnsureIndices creates the users and posts tables when absent; the UNIQUE
// constraint on users.email rides along with the DDL.
func (s *Store) EnsureIndices(ctx context.Context) error {
	if err := s.dbClient.EnsureSchema(ctx, constants.UsersCollection, usersSchema); err != nil {
		return fmt.Errorf("failed to ensure users table: %w", err)
	}
	if err := s.dbClient.EnsureSchema(ctx, constants.PostsCollection, postsSchema); err != nil {
		return fmt.Errorf("failed to ensure posts table: %w", err)
	}
	return nil
}

// Close closes the PostgreSQL database connection.
func (s *Store) Close(ctx context.Context) error {
	return s.dbClient.Disconnect(ctx)
}

func (s *Store) findUser(ctx context.Context, filter map[string]interface{}, sanitize bool) (*models.User, error) {
	var row pgUser
	err := s.dbClient.FindOne(ctx, constants.UsersCollection, filter, &row)
	if err != nil {
		if err == interfaces.ErrNoDocument {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user from PostgreSQL: %w", err)
	}

	user := row.toModel()
	if sanitize {
		user = user.Sanitized()
	}
	return user, nil
}

// findPosts fetches posts newest-first and resolves each distinct author once
// before building the views. Posts with dangling author references are
// dropped.
func (s *Store) findPosts(ctx context.Context, filter map[string]interface{}, limit int64) ([]models.PostView, error) {
	var rows []pgPost
	opts := &interfaces.FindOptions{SortField: "created_at", SortDesc: true, Limit: limit}
	if err := s.dbClient.FindMany(ctx, constants.PostsCollection, filter, opts, &rows); err != nil {
		return nil, fmt.Errorf("failed to list posts from PostgreSQL: %w", err)
	}

	authors := make(map[string]*models.User)
	views := make([]models.PostView, 0, len(rows))
	for i := range rows {
		author, cached := authors[rows[i].AuthorID]
		if !cached {
			var err error
			author, err = s.FindUserByID(ctx, rows[i].AuthorID)
			if err != nil {
				return nil, err
			}
			authors[rows[i].AuthorID] = author
		}
		if author == nil {
			continue
		}
		views = append(views, models.PostView{
			ID:      rows[i].ID,
			Content: rows[i].Content,
			Author: models.AuthorSummary{
				ID:    author.ID,
				Name:  author.Name,
				Email: author.Email,
			},
			CreatedAt: rows[i].CreatedAt,
			Likes:     rows[i].Likes,
			Comments:  rows[i].Comments,
		})
	}
	return views, nil
}

func (u *pgUser) toModel() *models.User {
	return &models.User{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
		Bio:      u.Bio,
		JoinedAt: u.JoinedAt,
	}
}
