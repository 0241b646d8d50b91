// Copyright (c) 2026 Linkup. All rights reserved.

package post

import "context"

// # Post Store Contract

// Store defines the data access contract for posts, likes, and comments.
//
// Implementations return [apperr.AppError] values for enumerable conditions
// (not-found) and wrapped internal errors for everything else.
type Store interface {

	/*
		CreatePost persists a new post.
	*/
	CreatePost(ctx context.Context, entry *Post) error

	/*
		FindPostByID returns a post with author name and counters hydrated.

		Returns:
		  - *Post: Hydrated entity
		  - error: NOT_FOUND or database retrieval failures
	*/
	FindPostByID(ctx context.Context, id string) (*Post, error)

	/*
		DeletePost removes a post and its likes and comments.
	*/
	DeletePost(ctx context.Context, id string) error

	/*
		Like records a like and bumps the counter. Liking a post twice is a
		no-op, not an error.

		Returns:
		  - bool: Whether a new like was recorded
	*/
	Like(ctx context.Context, postID, accountID string) (bool, error)

	/*
		Unlike removes a like and decrements the counter. Removing an absent
		like is a no-op.

		Returns:
		  - bool: Whether a like was actually removed
	*/
	Unlike(ctx context.Context, postID, accountID string) (bool, error)

	/*
		CreateComment persists a comment and bumps the post's counter.
	*/
	CreateComment(ctx context.Context, entry *Comment) error

	/*
		ListComments returns a page of a post's comments, oldest first, plus
		the total count.
	*/
	ListComments(ctx context.Context, postID string, limit, offset int) ([]*Comment, int, error)

	/*
		LikedPostIDs reports which of the given posts the account has liked,
		as a set keyed by post ID.
	*/
	LikedPostIDs(ctx context.Context, accountID string, postIDs []string) (map[string]bool, error)

	/*
		Feed returns a page of posts, newest first, plus the total count.
	*/
	Feed(ctx context.Context, limit, offset int) ([]*Post, int, error)
}
