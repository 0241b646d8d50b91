// Copyright (c) 2026 Linkup. All rights reserved.

package post_test

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chanhlegend/linkup/internal/platform/apperr"
	"github.com/chanhlegend/linkup/internal/post"
	"github.com/chanhlegend/linkup/pkg/pagination"
)

// # Test Doubles

// memoryPostStore is an in-memory [post.Store] for service tests.
type memoryPostStore struct {
	mu       sync.Mutex
	posts    map[string]*post.Post
	likes    map[string]map[string]bool // postID -> accountID -> liked
	comments map[string][]*post.Comment

	feedReads int // counts database feed queries, for cache assertions
}

func newMemoryPostStore() *memoryPostStore {
	return &memoryPostStore{
		posts:    make(map[string]*post.Post),
		likes:    make(map[string]map[string]bool),
		comments: make(map[string][]*post.Comment),
	}
}

func (s *memoryPostStore) CreatePost(_ context.Context, entry *post.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *entry
	now := time.Now()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	clone.AuthorName = "Author " + entry.AuthorID
	s.posts[entry.ID] = &clone
	return nil
}

func (s *memoryPostStore) FindPostByID(_ context.Context, id string) (*post.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.posts[id]
	if !ok {
		return nil, apperr.NotFound("Post")
	}
	clone := *entry
	return &clone, nil
}

func (s *memoryPostStore) DeletePost(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return apperr.NotFound("Post")
	}
	delete(s.posts, id)
	delete(s.likes, id)
	delete(s.comments, id)
	return nil
}

func (s *memoryPostStore) Like(_ context.Context, postID, accountID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.posts[postID]
	if !ok {
		return false, apperr.NotFound("Post")
	}
	if s.likes[postID] == nil {
		s.likes[postID] = make(map[string]bool)
	}
	if s.likes[postID][accountID] {
		return false, nil
	}
	s.likes[postID][accountID] = true
	entry.LikeCount++
	return true, nil
}

func (s *memoryPostStore) Unlike(_ context.Context, postID, accountID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.posts[postID]
	if !ok {
		return false, apperr.NotFound("Post")
	}
	if !s.likes[postID][accountID] {
		return false, nil
	}
	delete(s.likes[postID], accountID)
	if entry.LikeCount > 0 {
		entry.LikeCount--
	}
	return true, nil
}

func (s *memoryPostStore) CreateComment(_ context.Context, entry *post.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.posts[entry.PostID]
	if !ok {
		return apperr.NotFound("Post")
	}
	clone := *entry
	clone.CreatedAt = time.Now()
	s.comments[entry.PostID] = append(s.comments[entry.PostID], &clone)
	parent.CommentCount++
	return nil
}

func (s *memoryPostStore) ListComments(_ context.Context, postID string, limit, offset int) ([]*post.Comment, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.comments[postID]
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *memoryPostStore) LikedPostIDs(_ context.Context, accountID string, postIDs []string) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	liked := make(map[string]bool, len(postIDs))
	for _, postID := range postIDs {
		if s.likes[postID][accountID] {
			liked[postID] = true
		}
	}
	return liked, nil
}

func (s *memoryPostStore) Feed(_ context.Context, limit, offset int) ([]*post.Post, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.feedReads++

	all := make([]*post.Post, 0, len(s.posts))
	for _, entry := range s.posts {
		clone := *entry
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// newPostService wires the service over the in-memory store with a no-op
// cache (nil Redis client degrades to pass-through).
func newPostService() (*post.Service, *memoryPostStore) {
	store := newMemoryPostStore()
	cache := post.NewFeedCache(nil, slog.Default())
	return post.NewService(store, cache), store
}

// # Posts

/*
TestCreate normalizes content and hydrates the author name.
*/
func TestCreate(t *testing.T) {
	service, _ := newPostService()

	created, err := service.Create(context.Background(), "acct-1", "  hello   world  ")
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "acct-1", created.AuthorID)
	assert.Equal(t, "hello world", created.Content)
	assert.NotEmpty(t, created.AuthorName)
}

/*
TestDelete enforces the author-or-admin rule.
*/
func TestDelete(t *testing.T) {
	service, _ := newPostService()
	created, err := service.Create(context.Background(), "acct-1", "mine")
	require.NoError(t, err)

	// A stranger cannot delete it.
	err = service.Delete(context.Background(), "acct-2", false, created.ID)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	// An admin can.
	require.NoError(t, service.Delete(context.Background(), "acct-2", true, created.ID))

	_, err = service.Get(context.Background(), created.ID, "")
	assert.NotNil(t, apperr.As(err))
}

/*
TestDelete_ByAuthor lets the author remove their own post.
*/
func TestDelete_ByAuthor(t *testing.T) {
	service, _ := newPostService()
	created, err := service.Create(context.Background(), "acct-1", "mine")
	require.NoError(t, err)

	assert.NoError(t, service.Delete(context.Background(), "acct-1", false, created.ID))
}

// # Likes

/*
TestLike_Idempotent records a like once; repeats are no-ops.
*/
func TestLike_Idempotent(t *testing.T) {
	service, _ := newPostService()
	created, err := service.Create(context.Background(), "acct-1", "likeable")
	require.NoError(t, err)

	liked, err := service.Like(context.Background(), created.ID, "acct-2")
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = service.Like(context.Background(), created.ID, "acct-2")
	require.NoError(t, err)
	assert.False(t, liked, "second like must be a no-op")

	reread, err := service.Get(context.Background(), created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, reread.LikeCount)
}

/*
TestUnlike_AbsentLike removing a like that was never recorded is a no-op.
*/
func TestUnlike_AbsentLike(t *testing.T) {
	service, _ := newPostService()
	created, err := service.Create(context.Background(), "acct-1", "post")
	require.NoError(t, err)

	removed, err := service.Unlike(context.Background(), created.ID, "acct-2")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = service.Like(context.Background(), created.ID, "acct-2")
	require.NoError(t, err)

	removed, err = service.Unlike(context.Background(), created.ID, "acct-2")
	require.NoError(t, err)
	assert.True(t, removed)
}

// # Comments

/*
TestComment attaches comments and pages them oldest first.
*/
func TestComment(t *testing.T) {
	service, _ := newPostService()
	created, err := service.Create(context.Background(), "acct-1", "discuss")
	require.NoError(t, err)

	first, err := service.Comment(context.Background(), created.ID, "acct-2", "first!")
	require.NoError(t, err)
	_, err = service.Comment(context.Background(), created.ID, "acct-3", "second")
	require.NoError(t, err)

	comments, meta, err := service.Comments(context.Background(), created.ID, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, meta.Total)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)

	reread, err := service.Get(context.Background(), created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, reread.CommentCount)
}

/*
TestComment_DeletedPost rejects commenting on a missing post.
*/
func TestComment_DeletedPost(t *testing.T) {
	service, _ := newPostService()

	_, err := service.Comment(context.Background(), "no-such-post", "acct-1", "into the void")
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

// # Feed

/*
TestFeed pages newest first and reports totals.
*/
func TestFeed(t *testing.T) {
	service, _ := newPostService()

	for i := 0; i < 3; i++ {
		_, err := service.Create(context.Background(), "acct-1", "post")
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond) // distinct CreatedAt for ordering
	}

	posts, meta, err := service.Feed(context.Background(), "", pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
	require.Len(t, posts, 2)
	assert.True(t, posts[0].CreatedAt.After(posts[1].CreatedAt) || posts[0].CreatedAt.Equal(posts[1].CreatedAt))
}

/*
TestFeed_LikedByMe hydrates the viewer's likes per request and keeps the
anonymous feed neutral.
*/
func TestFeed_LikedByMe(t *testing.T) {
	service, _ := newPostService()

	created, err := service.Create(context.Background(), "acct-1", "likeable")
	require.NoError(t, err)
	_, err = service.Like(context.Background(), created.ID, "acct-2")
	require.NoError(t, err)

	// The liker sees their like.
	posts, _, err := service.Feed(context.Background(), "acct-2", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.True(t, posts[0].LikedByMe)

	// Another viewer does not.
	posts, _, err = service.Feed(context.Background(), "acct-3", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.False(t, posts[0].LikedByMe)

	// Anonymous feed is neutral.
	posts, _, err = service.Feed(context.Background(), "", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.False(t, posts[0].LikedByMe)
}

/*
TestFeed_CacheServesRepeatReads verifies a cached page short-circuits the
database on the second read.
*/
func TestFeed_CacheServesRepeatReads(t *testing.T) {
	store := newMemoryPostStore()
	service := post.NewService(store, newTestFeedCache(t))

	_, err := service.Create(context.Background(), "acct-1", "cached")
	require.NoError(t, err)

	_, _, err = service.Feed(context.Background(), "", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	readsAfterMiss := store.feedReads

	_, _, err = service.Feed(context.Background(), "", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, readsAfterMiss, store.feedReads, "second read must hit the cache")
}
