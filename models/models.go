package models

import "time"

const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     *string   `json:"imageUrl,omitempty"`
	Category  string    `json:"category"`
	AuthorID  int64     `json:"-"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ArticleSummary is a listing row: reactor sets are summarised as counts,
// never returned as full lists.
type ArticleSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Image     *string   `json:"imageUrl,omitempty"`
	Category  string    `json:"category"`
	Likes     int64     `json:"likes"`
	Dislikes  int64     `json:"dislikes"`
	Blocks    int64     `json:"blocks"`
	Tags      []string  `json:"tags"`
	AuthorID  int64     `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Author is the populated author shape embedded in an article detail read.
type Author struct {
	ID           int64   `json:"id"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	ProfileImage *string `json:"profilePic,omitempty"`
}

// ReactionResult reports the state after a toggle: the updated counts plus
// the viewer's resulting reaction ("like", "dislike" or nil).
type ReactionResult struct {
	Likes        int64   `json:"likes"`
	Dislikes     int64   `json:"dislikes"`
	UserReaction *string `json:"userReaction"`
}
