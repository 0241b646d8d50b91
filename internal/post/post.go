// Copyright (c) 2026 Linkup. All rights reserved.

/*
Package post implements the text post and feed domain.

Posts are short text entries with likes and comments. The public feed is the
hot read path of the application and is served through a Redis page cache
that is invalidated whenever any write changes feed ordering or counts.
*/
package post

import "time"

// Content limits.
const (
	// MaxContentLength caps post bodies (Unicode characters).
	MaxContentLength = 2000
	// MaxCommentLength caps comment bodies.
	MaxCommentLength = 500
)

// Post represents a published text entry.
type Post struct {
	ID       string `json:"id"`
	AuthorID string `json:"author_id"`

	// AuthorName is joined from the account row for display; it is not
	// stored on the post itself.
	AuthorName string `json:"author_name"`

	Content      string    `json:"content"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// LikedByMe is hydrated per viewer and never cached or stored.
	LikedByMe bool `json:"liked_by_me"`
}

// Comment represents a reply attached to a post.
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
