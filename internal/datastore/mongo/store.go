// Package mongo implements the storage port on top of the generic MongoDB
// client. Identifiers are store-assigned ObjectIDs surfaced as opaque hex
// strings; email uniqueness is enforced server-side by a unique index.
package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haguru/connectpro/internal/datastore/constants"
	"github.com/haguru/connectpro/internal/interfaces"
	"github.com/haguru/connectpro/internal/models"
	"github.com/haguru/connectpro/pkg/credentials"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongoClient "github.com/haguru/connectpro/pkg/databases/mongo"
)

// Store implements interfaces.Store backed by MongoDB via the generic DBClient.
type Store struct {
	dbClient interfaces.DBClient
}

// mongoUser is the wire shape of a user document.
type mongoUser struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
	Bio      string             `bson:"bio,omitempty"`
	JoinedAt time.Time          `bson:"joined_at"`
}

// mongoPost is the wire shape of a post document. Author is a bare reference
// resolved into an author summary before any view leaves this package.
type mongoPost struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Content   string               `bson:"content"`
	Author    primitive.ObjectID   `bson:"author"`
	CreatedAt time.Time            `bson:"created_at"`
	Likes     []primitive.ObjectID `bson:"likes"`
	Comments  []primitive.ObjectID `bson:"comments"`
}

// NewStore creates a MongoDB-backed store over an already connected client.
func NewStore(dbClient interfaces.DBClient) (*Store, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	if _, ok := dbClient.(*mongoClient.MongoDBClient); !ok {
		return nil, fmt.Errorf("dbClient must be a MongoDB client")
	}
	return &Store{dbClient: dbClient}, nil
}

// CreateUser hashes the password and inserts the user. A duplicate email is
// rejected by the unique index and mapped to ErrEmailExists.
func (s *Store) CreateUser(ctx context.Context, input models.NewUser) (*models.User, error) {
	digest, err := credentials.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	doc := mongoUser{
		ID:       primitive.NewObjectID(),
		Name:     input.Name,
		Email:    input.Email,
		Password: digest,
		Bio:      input.Bio,
		JoinedAt: time.Now(),
	}

	insertedID, err := s.dbClient.InsertOne(ctx, constants.UsersCollection, doc)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, interfaces.ErrEmailExists
		}
		return nil, fmt.Errorf("failed to add user to MongoDB: %w", err)
	}

	objID, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to assert inserted ID to ObjectID")
	}
	doc.ID = objID

	return doc.toModel().Sanitized(), nil
}

// FindUserByEmail returns the full record including the digest, or nil when
// no user carries the email.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc mongoUser
	err := s.dbClient.FindOne(ctx, constants.UsersCollection, bson.M{"email": email}, &doc)
	if err != nil {
		if err == interfaces.ErrNoDocument {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email from MongoDB: %w", err)
	}
	return doc.toModel(), nil
}

// FindUserByID returns the record without the digest. An id that is not a
// valid ObjectID hex cannot reference any stored user and reads as absent.
func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc mongoUser
	err = s.dbClient.FindOne(ctx, constants.UsersCollection, bson.M{"_id": objID}, &doc)
	if err != nil {
		if err == interfaces.ErrNoDocument {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id from MongoDB: %w", err)
	}
	return doc.toModel().Sanitized(), nil
}

// ListUsers returns up to limit users, newest joined first, without digests.
func (s *Store) ListUsers(ctx context.Context, limit int) ([]models.User, error) {
	var docs []mongoUser
	opts := &interfaces.FindOptions{SortField: "joined_at", SortDesc: true, Limit: int64(limit)}
	if err := s.dbClient.FindMany(ctx, constants.UsersCollection, bson.M{}, opts, &docs); err != nil {
		return nil, fmt.Errorf("failed to list users from MongoDB: %w", err)
	}

	users := make([]models.User, 0, len(docs))
	for i := range docs {
		users = append(users, *docs[i].toModel().Sanitized())
	}
	return users, nil
}

// ComparePassword verifies a candidate against the stored digest.
func (s *Store) ComparePassword(user *models.User, candidate string) (bool, error) {
	return credentials.VerifyPassword(user.Password, candidate)
}

// CreatePost inserts a post referencing the author and returns the joined
// view with the author populated.
func (s *Store) CreatePost(ctx context.Context, authorID, content string) (*models.PostView, error) {
	authorObjID, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author id %q: %w", authorID, err)
	}

	doc := mongoPost{
		ID:        primitive.NewObjectID(),
		Content:   content,
		Author:    authorObjID,
		CreatedAt: time.Now(),
		Likes:     []primitive.ObjectID{},
		Comments:  []primitive.ObjectID{},
	}

	if _, err := s.dbClient.InsertOne(ctx, constants.PostsCollection, doc); err != nil {
		return nil, fmt.Errorf("failed to add post to MongoDB: %w", err)
	}

	author, err := s.FindUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, fmt.Errorf("author %q does not exist", authorID)
	}

	return doc.toModel().View(author), nil
}

// AllPosts returns up to limit joined views, newest first.
func (s *Store) AllPosts(ctx context.Context, limit int) ([]models.PostView, error) {
	return s.findPosts(ctx, bson.M{}, int64(limit))
}

// UserPosts returns the joined views of posts authored by authorID, newest
// first. An unparseable author id matches nothing.
func (s *Store) UserPosts(ctx context.Context, authorID string) ([]models.PostView, error) {
	authorObjID, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return []models.PostView{}, nil
	}
	return s.findPosts(ctx, bson.M{"author": authorObjID}, 0)
}

// EnsureIndices creates the unique index on users.email.
func (s *Store) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	}
	return s.dbClient.EnsureSchema(ctx, constants.UsersCollection, indexModel)
}

// Close disconnects the underlying MongoDB client.
func (s *Store) Close(ctx context.Context) error {
	return s.dbClient.Disconnect(ctx)
}

// findPosts fetches posts matching filter newest-first, then resolves every
// referenced author in one batched query before building the views. Posts
// with dangling author references are dropped.
func (s *Store) findPosts(ctx context.Context, filter bson.M, limit int64) ([]models.PostView, error) {
	var docs []mongoPost
	opts := &interfaces.FindOptions{SortField: "created_at", SortDesc: true, Limit: limit}
	if err := s.dbClient.FindMany(ctx, constants.PostsCollection, filter, opts, &docs); err != nil {
		return nil, fmt.Errorf("failed to list posts from MongoDB: %w", err)
	}

	authorIDs := make([]primitive.ObjectID, 0, len(docs))
	seen := make(map[primitive.ObjectID]bool, len(docs))
	for i := range docs {
		if !seen[docs[i].Author] {
			seen[docs[i].Author] = true
			authorIDs = append(authorIDs, docs[i].Author)
		}
	}

	authors := make(map[primitive.ObjectID]*models.User, len(authorIDs))
	if len(authorIDs) > 0 {
		var authorDocs []mongoUser
		authorFilter := bson.M{"_id": bson.M{"$in": authorIDs}}
		if err := s.dbClient.FindMany(ctx, constants.UsersCollection, authorFilter, nil, &authorDocs); err != nil {
			return nil, fmt.Errorf("failed to resolve post authors from MongoDB: %w", err)
		}
		for i := range authorDocs {
			authors[authorDocs[i].ID] = authorDocs[i].toModel().Sanitized()
		}
	}

	views := make([]models.PostView, 0, len(docs))
	for i := range docs {
		if view := docs[i].toModel().View(authors[docs[i].Author]); view != nil {
			views = append(views, *view)
		}
	}
	return views, nil
}

func (u *mongoUser) toModel() *models.User {
	return &models.User{
		ID:       u.ID.Hex(),
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
		Bio:      u.Bio,
		JoinedAt: u.JoinedAt,
	}
}

func (p *mongoPost) toModel() *models.Post {
	likes := make([]string, 0, len(p.Likes))
	for _, id := range p.Likes {
		likes = append(likes, id.Hex())
	}
	comments := make([]string, 0, len(p.Comments))
	for _, id := range p.Comments {
		comments = append(comments, id.Hex())
	}
	return &models.Post{
		ID:        p.ID.Hex(),
		Content:   p.Content,
		AuthorID:  p.Author.Hex(),
		CreatedAt: p.CreatedAt,
		Likes:     likes,
		Comments:  comments,
	}
}

// isDuplicateKey recognizes the server's unique-index violation.
func isDuplicateKey(err error) bool {
	return mongosdk.IsDuplicateKeyError(err) || strings.Contains(err.Error(), "E11000 duplicate key error")
}
