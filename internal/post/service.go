// Copyright (c) 2026 Linkup. All rights reserved.

package post

import (
	"context"
	"fmt"

	"github.com/chanhlegend/linkup/internal/platform/apperr"
	"github.com/chanhlegend/linkup/pkg/pagination"
	"github.com/chanhlegend/linkup/pkg/textutil"
	"github.com/chanhlegend/linkup/pkg/uuidv7"
)

// Service implements the post and feed use cases.
//
// Writes invalidate the feed cache; reads consult it first. The cache is an
// accelerator, never an authority — the database result always wins.
type Service struct {
	posts Store
	cache *FeedCache
}

// NewService constructs a new [Service] with its dependencies.
func NewService(posts Store, cache *FeedCache) *Service {
	return &Service{posts: posts, cache: cache}
}

/*
Create publishes a new post.

Parameters:
  - ctx: context.Context
  - authorID: The authenticated author
  - content: Raw post body (normalized before storage)

Returns:
  - *Post: Created entity with author name hydrated
  - error: Storage failures
*/
func (service *Service) Create(ctx context.Context, authorID, content string) (*Post, error) {

	entry := &Post{
		ID:       uuidv7.New(),
		AuthorID: authorID,
		Content:  textutil.Clean(content),
	}

	if err := service.posts.CreatePost(ctx, entry); err != nil {
		return nil, fmt.Errorf("post_service_create_failed: %w", err)
	}

	// A new post changes feed ordering everywhere.
	service.cache.Invalidate(ctx)

	// Re-read to hydrate the author name for the response.
	return service.posts.FindPostByID(ctx, entry.ID)
}

// Get returns a single post by ID. When viewerID is non-empty, the post's
// LikedByMe flag reflects that viewer.
func (service *Service) Get(ctx context.Context, postID, viewerID string) (*Post, error) {
	entry, err := service.posts.FindPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := service.hydrateLikes(ctx, viewerID, []*Post{entry}); err != nil {
		return nil, err
	}

	return entry, nil
}

/*
Delete removes a post.

Description: Only the author or an administrator may delete a post.

Parameters:
  - ctx: context.Context
  - actorID: The authenticated requester
  - actorIsAdmin: Whether the requester holds the admin role
  - postID: The target post

Returns:
  - error: NOT_FOUND, Forbidden, or storage failures
*/
func (service *Service) Delete(ctx context.Context, actorID string, actorIsAdmin bool, postID string) error {

	entry, err := service.posts.FindPostByID(ctx, postID)
	if err != nil {
		return err
	}

	if entry.AuthorID != actorID && !actorIsAdmin {
		return apperr.Forbidden("Only the author can delete this post")
	}

	if err := service.posts.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("post_service_delete_failed: %w", err)
	}

	service.cache.Invalidate(ctx)
	return nil
}

/*
Like records a like for the given account. Liking twice is a no-op.

Returns:
  - bool: Whether a new like was recorded
*/
func (service *Service) Like(ctx context.Context, postID, accountID string) (bool, error) {
	liked, err := service.posts.Like(ctx, postID, accountID)
	if err != nil {
		return false, err
	}

	// Like counters are displayed in the feed.
	if liked {
		service.cache.Invalidate(ctx)
	}

	return liked, nil
}

/*
Unlike removes a like for the given account. Removing an absent like is a
no-op.

Returns:
  - bool: Whether a like was actually removed
*/
func (service *Service) Unlike(ctx context.Context, postID, accountID string) (bool, error) {
	removed, err := service.posts.Unlike(ctx, postID, accountID)
	if err != nil {
		return false, err
	}

	if removed {
		service.cache.Invalidate(ctx)
	}

	return removed, nil
}

/*
Comment attaches a comment to a post.

Returns:
  - *Comment: Created comment
  - error: NOT_FOUND (post gone) or storage failures
*/
func (service *Service) Comment(ctx context.Context, postID, authorID, content string) (*Comment, error) {

	entry := &Comment{
		ID:       uuidv7.New(),
		PostID:   postID,
		AuthorID: authorID,
		Content:  textutil.Clean(content),
	}

	if err := service.posts.CreateComment(ctx, entry); err != nil {
		return nil, err
	}

	service.cache.Invalidate(ctx)
	return entry, nil
}

/*
Comments returns a page of a post's comments, oldest first.
*/
func (service *Service) Comments(ctx context.Context, postID string, params pagination.Params) ([]*Comment, pagination.Meta, error) {
	comments, total, err := service.posts.ListComments(ctx, postID, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("post_service_comments_failed: %w", err)
	}

	return comments, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
Feed returns a page of the public feed, newest first.

Description: Consults the Redis page cache first; on a miss, reads from the
database and populates the cache for subsequent requests. Cached pages are
viewer-neutral: the LikedByMe flag is hydrated per request, after the cache,
so one viewer's likes never leak into another's page.
*/
func (service *Service) Feed(ctx context.Context, viewerID string, params pagination.Params) ([]*Post, pagination.Meta, error) {

	posts, total, found := service.cache.Get(ctx, params.Page, params.Limit)
	if !found {
		var err error
		posts, total, err = service.posts.Feed(ctx, params.Limit, params.Offset())
		if err != nil {
			return nil, pagination.Meta{}, fmt.Errorf("post_service_feed_failed: %w", err)
		}

		service.cache.Set(ctx, params.Page, params.Limit, posts, total)
	}

	if err := service.hydrateLikes(ctx, viewerID, posts); err != nil {
		return nil, pagination.Meta{}, err
	}

	return posts, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// hydrateLikes sets LikedByMe on each post for the given viewer. Anonymous
// viewers skip the lookup entirely.
func (service *Service) hydrateLikes(ctx context.Context, viewerID string, posts []*Post) error {
	if viewerID == "" || len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	for i, entry := range posts {
		ids[i] = entry.ID
	}

	liked, err := service.posts.LikedPostIDs(ctx, viewerID, ids)
	if err != nil {
		return fmt.Errorf("post_service_hydrate_likes_failed: %w", err)
	}

	for _, entry := range posts {
		entry.LikedByMe = liked[entry.ID]
	}

	return nil
}
