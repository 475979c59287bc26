package models

import (
	"testing"
	"time"
)

func TestPostView(t *testing.T) {
	post := &Post{
		ID:        "7",
		Content:   "hello",
		AuthorID:  "1",
		CreatedAt: time.Now(),
		Likes:     []string{"2", "3"},
		Comments:  []string{"c1"},
	}

	if got := post.View(nil); got != nil {
		t.Fatalf("View(nil) = %v, want nil for a dangling author reference", got)
	}

	author := &User{ID: "1", Name: "John Doe", Email: "john@example.com"}
	view := post.View(author)
	if view == nil {
		t.Fatal("View() returned nil for a resolved author")
	}
	if view.Likes != 2 || view.Comments != 1 {
		t.Errorf("counts = (%d, %d), want (2, 1)", view.Likes, view.Comments)
	}
	if view.Author.ID != "1" || view.Author.Name != "John Doe" {
		t.Errorf("author summary = %+v, want the resolved author", view.Author)
	}
}

func TestUserSanitized(t *testing.T) {
	user := &User{
		ID:       "1",
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "$2a$12$digest",
	}

	clean := user.Sanitized()
	if clean.Password != "" {
		t.Error("Sanitized() must clear the digest")
	}
	if clean.ID != user.ID || clean.Email != user.Email {
		t.Error("Sanitized() must preserve every other field")
	}
	if user.Password == "" {
		t.Error("Sanitized() must not mutate the receiver")
	}
}
