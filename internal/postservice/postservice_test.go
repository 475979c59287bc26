package postservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haguru/connectpro/internal/datastore/memory"
	zerologger "github.com/haguru/connectpro/pkg/zerolog"
)

func newService(t *testing.T) *PostService {
	t.Helper()
	store := memory.NewStore()
	if err := store.Seed(); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	return NewPostService(store, zerologger.NewZerologLogger("test"))
}

func TestCreate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, "1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Content)
	assert.Equal(t, "John Doe", post.Author.Name)
	assert.Zero(t, post.Likes)

	_, err = svc.Create(ctx, "999", "orphan")
	assert.Error(t, err, "an unknown author must not be able to post")
}

func TestFeed(t *testing.T) {
	svc := newService(t)

	posts, err := svc.Feed(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 3)
	for i := 1; i < len(posts); i++ {
		assert.True(t, posts[i].CreatedAt.Before(posts[i-1].CreatedAt), "feed must be newest-first")
	}
}

func TestByAuthor(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	posts, err := svc.ByAuthor(ctx, "1")
	require.NoError(t, err)
	require.NotEmpty(t, posts)
	for _, post := range posts {
		assert.Equal(t, "1", post.Author.ID)
	}

	none, err := svc.ByAuthor(ctx, "999")
	require.NoError(t, err)
	assert.NotNil(t, none, "an author with no posts gets an empty slice, not nil")
	assert.Empty(t, none)
}
