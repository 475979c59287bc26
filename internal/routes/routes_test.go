package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haguru/connectpro/internal/auth"
	"github.com/haguru/connectpro/internal/datastore/memory"
	"github.com/haguru/connectpro/internal/middleware"
	"github.com/haguru/connectpro/internal/models/dto"
	"github.com/haguru/connectpro/internal/postservice"
	"github.com/haguru/connectpro/internal/userservice"
	zerologger "github.com/haguru/connectpro/pkg/zerolog"
)

// newTestAPI wires the handlers over a freshly seeded in-memory backend, the
// same way the application composes them at startup.
func newTestAPI(t *testing.T) (http.Handler, *auth.TokenService) {
	t.Helper()

	store := memory.NewStore()
	if err := store.Seed(); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	tokens, err := auth.NewTokenService("routes-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	logger := zerologger.NewZerologLogger("test")
	route := NewRoute(nil,
		userservice.NewUserService(store, logger),
		postservice.NewPostService(store, logger),
		tokens, logger, "", structValidator.New())

	requireAuth := middleware.RequireAuth(tokens, store, logger)

	mux := http.NewServeMux()
	mux.HandleFunc(PingRouteAPI, route.Ping)
	mux.HandleFunc(RegisterRouteAPI, route.Register)
	mux.HandleFunc(LoginRouteAPI, route.Login)
	mux.Handle(FeedRouteAPI, requireAuth(http.HandlerFunc(route.Feed)))
	mux.Handle(CreatePostAPI, requireAuth(http.HandlerFunc(route.CreatePost)))
	mux.Handle(ListUsersRouteAPI, requireAuth(http.HandlerFunc(route.ListUsers)))
	mux.Handle(GetUserRouteAPI, requireAuth(http.HandlerFunc(route.GetUser)))
	mux.Handle(UserPostsRouteAPI, requireAuth(http.HandlerFunc(route.UserPosts)))

	return mux, tokens
}

func doJSON(t *testing.T, mux http.Handler, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(ContentType, ContentTypeJson)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func decodeInto(t *testing.T, rr *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), target))
}

func TestPing(t *testing.T) {
	mux, _ := newTestAPI(t)

	rr := doJSON(t, mux, http.MethodGet, "/api/ping", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body dto.PingResponseDTO
	decodeInto(t, rr, &body)
	assert.Equal(t, MsgDefaultPing, body.Message)
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantMsg    string
	}{
		{
			name: "new account",
			body: dto.RegisterRequestDTO{
				Name:     "Ada Lovelace",
				Email:    "ada@example.com",
				Password: "secret1",
				Bio:      "Analyst",
			},
			wantStatus: http.StatusCreated,
			wantMsg:    MsgUserCreated,
		},
		{
			name: "duplicate email",
			body: dto.RegisterRequestDTO{
				Name:     "John Impostor",
				Email:    "john@example.com",
				Password: "hunter22",
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    MsgEmailTaken,
		},
		{
			name: "short password fails validation",
			body: dto.RegisterRequestDTO{
				Name:     "Ada Lovelace",
				Email:    "ada@example.com",
				Password: "abc",
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    MsgValidation,
		},
		{
			name: "malformed email fails validation",
			body: dto.RegisterRequestDTO{
				Name:     "Ada Lovelace",
				Email:    "not-an-email",
				Password: "secret1",
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    MsgValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, tokens := newTestAPI(t)

			rr := doJSON(t, mux, http.MethodPost, "/api/auth/register", "", tt.body)
			require.Equal(t, tt.wantStatus, rr.Code)

			if tt.wantStatus != http.StatusCreated {
				var errBody dto.ErrorResponseDTO
				decodeInto(t, rr, &errBody)
				assert.Equal(t, tt.wantMsg, errBody.Message)
				if tt.wantMsg == MsgValidation {
					assert.NotEmpty(t, errBody.Errors, "validation failures carry field detail")
				}
				return
			}

			var body dto.AuthResponseDTO
			decodeInto(t, rr, &body)
			assert.Equal(t, tt.wantMsg, body.Message)
			require.NotNil(t, body.User)
			assert.Equal(t, "3", body.User.ID, "two seeded users precede the first signup")
			assert.Empty(t, body.User.Password, "the digest never leaves the server")

			claims, err := tokens.Verify(body.Token)
			require.NoError(t, err, "register must hand back a usable token")
			assert.Equal(t, body.User.ID, claims.UserID)
		})
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       dto.LoginRequestDTO
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "seeded credentials",
			body:       dto.LoginRequestDTO{Email: "john@example.com", Password: memory.SeedPassword},
			wantStatus: http.StatusOK,
			wantMsg:    MsgLoginOK,
		},
		{
			name:       "wrong password",
			body:       dto.LoginRequestDTO{Email: "john@example.com", Password: "wrong"},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    MsgBadCreds,
		},
		{
			name:       "unknown email",
			body:       dto.LoginRequestDTO{Email: "ghost@example.com", Password: memory.SeedPassword},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    MsgBadCreds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, tokens := newTestAPI(t)

			rr := doJSON(t, mux, http.MethodPost, "/api/auth/login", "", tt.body)
			require.Equal(t, tt.wantStatus, rr.Code)

			if tt.wantStatus != http.StatusOK {
				var errBody dto.ErrorResponseDTO
				decodeInto(t, rr, &errBody)
				assert.Equal(t, tt.wantMsg, errBody.Message)
				return
			}

			var body dto.AuthResponseDTO
			decodeInto(t, rr, &body)
			assert.Equal(t, tt.wantMsg, body.Message)
			require.NotNil(t, body.User)
			assert.Equal(t, "1", body.User.ID)

			claims, err := tokens.Verify(body.Token)
			require.NoError(t, err)
			assert.Equal(t, "1", claims.UserID)
		})
	}
}

func TestFeed(t *testing.T) {
	mux, tokens := newTestAPI(t)

	rr := doJSON(t, mux, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	var errBody dto.ErrorResponseDTO
	decodeInto(t, rr, &errBody)
	assert.Equal(t, middleware.MsgNoToken, errBody.Message)

	token, err := tokens.Issue("1")
	require.NoError(t, err)

	rr = doJSON(t, mux, http.MethodGet, "/api/posts", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body dto.PostsResponseDTO
	decodeInto(t, rr, &body)
	require.Len(t, body.Posts, 3)
	assert.Equal(t, "1", body.Posts[0].ID, "newest post first")
	for i := 1; i < len(body.Posts); i++ {
		assert.True(t, body.Posts[i].CreatedAt.Before(body.Posts[i-1].CreatedAt))
	}
	for _, post := range body.Posts {
		assert.NotEmpty(t, post.Author.Name)
		assert.Equal(t, 1, post.Likes)
	}
}

func TestCreatePost(t *testing.T) {
	mux, tokens := newTestAPI(t)

	token, err := tokens.Issue("2")
	require.NoError(t, err)

	rr := doJSON(t, mux, http.MethodPost, "/api/posts", token, dto.CreatePostRequestDTO{Content: "hello"})
	require.Equal(t, http.StatusCreated, rr.Code)

	var created dto.PostResponseDTO
	decodeInto(t, rr, &created)
	assert.Equal(t, MsgPostCreated, created.Message)
	require.NotNil(t, created.Post)
	assert.Equal(t, "hello", created.Post.Content)
	assert.Equal(t, "Jane Smith", created.Post.Author.Name)
	assert.Zero(t, created.Post.Likes)

	rr = doJSON(t, mux, http.MethodGet, "/api/posts", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var feed dto.PostsResponseDTO
	decodeInto(t, rr, &feed)
	require.Len(t, feed.Posts, 4)
	assert.Equal(t, created.Post.ID, feed.Posts[0].ID, "fresh post leads the feed")

	// Missing content never reaches the service.
	rr = doJSON(t, mux, http.MethodPost, "/api/posts", token, dto.CreatePostRequestDTO{})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var errBody dto.ErrorResponseDTO
	decodeInto(t, rr, &errBody)
	assert.Equal(t, MsgValidation, errBody.Message)

	rr = doJSON(t, mux, http.MethodPost, "/api/posts", "", dto.CreatePostRequestDTO{Content: "hello"})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetUser(t *testing.T) {
	mux, tokens := newTestAPI(t)

	token, err := tokens.Issue("1")
	require.NoError(t, err)

	rr := doJSON(t, mux, http.MethodGet, "/api/users/2", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body dto.UserResponseDTO
	decodeInto(t, rr, &body)
	require.NotNil(t, body.User)
	assert.Equal(t, "Jane Smith", body.User.Name)
	assert.Empty(t, body.User.Password)

	rr = doJSON(t, mux, http.MethodGet, "/api/users/999", token, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	var errBody dto.ErrorResponseDTO
	decodeInto(t, rr, &errBody)
	assert.Equal(t, MsgUserNotFound, errBody.Message)
}

func TestListUsers(t *testing.T) {
	mux, tokens := newTestAPI(t)

	token, err := tokens.Issue("1")
	require.NoError(t, err)

	rr := doJSON(t, mux, http.MethodGet, "/api/users", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body dto.UsersResponseDTO
	decodeInto(t, rr, &body)
	require.Len(t, body.Users, 2)
	assert.Equal(t, "Jane Smith", body.Users[0].Name, "most recently joined first")
}

func TestUserPosts(t *testing.T) {
	mux, tokens := newTestAPI(t)

	token, err := tokens.Issue("1")
	require.NoError(t, err)

	rr := doJSON(t, mux, http.MethodGet, "/api/users/1/posts", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body dto.PostsResponseDTO
	decodeInto(t, rr, &body)
	require.NotEmpty(t, body.Posts)
	for _, post := range body.Posts {
		assert.Equal(t, "1", post.Author.ID)
	}

	rr = doJSON(t, mux, http.MethodGet, "/api/users/999/posts", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeInto(t, rr, &body)
	assert.Empty(t, body.Posts)
}

func TestContentTypeEnforced(t *testing.T) {
	mux, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		bytes.NewReader([]byte(`{"email":"john@example.com","password":"password123"}`)))
	req.Header.Set(ContentType, "text/plain")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var errBody dto.ErrorResponseDTO
	decodeInto(t, rr, &errBody)
	assert.Equal(t, MsgBadContent, errBody.Message)
}
