package models

import "time"

// Post is the stored shape of a post. AuthorID is a non-owning reference to a
// User; Likes holds user ids (each at most once) and Comments holds comment
// ids in insertion order.
type Post struct {
	ID        string    `json:"id" bson:"_id,omitempty" mapstructure:"id" db:"id"`
	Content   string    `json:"content" bson:"content" mapstructure:"content" db:"content"`
	AuthorID  string    `json:"authorId" bson:"author_id" mapstructure:"author_id" db:"author_id"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at" mapstructure:"created_at" db:"created_at"`
	Likes     []string  `json:"likes" bson:"likes" mapstructure:"likes"`
	Comments  []string  `json:"comments" bson:"comments" mapstructure:"comments"`
}

// AuthorSummary is the displayable author slice embedded in a joined view.
type AuthorSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PostView is a post joined with its resolved author and the derived
// like/comment counts. This is the only post shape handlers return.
type PostView struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	Author    AuthorSummary `json:"author"`
	CreatedAt time.Time     `json:"createdAt"`
	Likes     int           `json:"likes"`
	Comments  int           `json:"comments"`
}

// View joins a post with its author. The caller resolves the author; a nil
// author means the reference is dangling and the post should be dropped.
func (p *Post) View(author *User) *PostView {
	if author == nil {
		return nil
	}
	return &PostView{
		ID:      p.ID,
		Content: p.Content,
		Author: AuthorSummary{
			ID:    author.ID,
			Name:  author.Name,
			Email: author.Email,
		},
		CreatedAt: p.CreatedAt,
		Likes:     len(p.Likes),
		Comments:  len(p.Comments),
	}
}
