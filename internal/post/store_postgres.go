// Copyright (c) 2026 Linkup. All rights reserved.

// PostgreSQL implementation of the post store.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, foreign-key violations) are mapped
// to domain-friendly [apperr.AppError] values to avoid leaking storage
// implementation details.
package post

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chanhlegend/linkup/internal/platform/apperr"
)

// postColumns is the canonical SELECT list for post rows joined with the
// author's display name.
const postColumns = `
	p.id, p.authorid, a.fullname, p.content,
	p.likecount, p.commentcount, p.createdat, p.updatedat`

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL implementation of the post store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

/*
CreatePost persists a new post row into the social.post table.

Returns:
  - error: NOT_FOUND when the author no longer exists, or execution errors
*/
func (store *PostgresStore) CreatePost(ctx context.Context, entry *Post) error {
	const query = `
		INSERT INTO social.post (id, authorid, content, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5)`

	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	_, err := store.pool.Exec(ctx, query,
		entry.ID,
		entry.AuthorID,
		entry.Content,
		entry.CreatedAt,
		entry.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return apperr.NotFound("Author account")
		}
		return fmt.Errorf("postgres_post_store_create_failed: %w", err)
	}

	return nil
}

/*
FindPostByID retrieves a post with author name and counters hydrated.

Returns:
  - *Post: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (store *PostgresStore) FindPostByID(ctx context.Context, id string) (*Post, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM social.post p
		JOIN users.account a ON a.id = p.authorid
		WHERE p.id = $1`

	entry := &Post{}
	err := store.pool.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.AuthorID,
		&entry.AuthorName,
		&entry.Content,
		&entry.LikeCount,
		&entry.CommentCount,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Post")
		}
		return nil, fmt.Errorf("postgres_post_store_find_failed: %w", err)
	}

	return entry, nil
}

/*
DeletePost removes a post row. Likes and comments go with it via ON DELETE
CASCADE on their foreign keys.
*/
func (store *PostgresStore) DeletePost(ctx context.Context, id string) error {
	const query = `DELETE FROM social.post WHERE id = $1`
	if _, err := store.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("postgres_post_store_delete_failed: %w", err)
	}
	return nil
}

/*
Like records a like and bumps the denormalized counter transactionally.

Description: The like row insert and the counter update commit together;
a duplicate like short-circuits without touching the counter.

Returns:
  - bool: Whether a new like was recorded
*/
func (store *PostgresStore) Like(ctx context.Context, postID, accountID string) (bool, error) {
	const insertQuery = `
		INSERT INTO social.post_like (postid, accountid, createdat)
		VALUES ($1, $2, $3)
		ON CONFLICT (postid, accountid) DO NOTHING`

	const bumpQuery = `
		UPDATE social.post SET likecount = likecount + 1, updatedat = $2
		WHERE id = $1`

	inserted := false
	err := pgx.BeginFunc(ctx, store.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, insertQuery, postID, accountID, time.Now())
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
				return apperr.NotFound("Post")
			}
			return err
		}

		// Duplicate like: nothing inserted, nothing to count.
		if tag.RowsAffected() == 0 {
			return nil
		}
		inserted = true

		_, err = tx.Exec(ctx, bumpQuery, postID, time.Now())
		return err
	})

	if err != nil {
		if apperr.IsAppError(err) {
			return false, err
		}
		return false, fmt.Errorf("postgres_post_store_like_failed: %w", err)
	}

	return inserted, nil
}

/*
Unlike removes a like and decrements the counter transactionally.

Returns:
  - bool: Whether a like was actually removed
*/
func (store *PostgresStore) Unlike(ctx context.Context, postID, accountID string) (bool, error) {
	const deleteQuery = `
		DELETE FROM social.post_like WHERE postid = $1 AND accountid = $2`

	const dropQuery = `
		UPDATE social.post
		SET likecount = GREATEST(likecount - 1, 0), updatedat = $2
		WHERE id = $1`

	removed := false
	err := pgx.BeginFunc(ctx, store.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, deleteQuery, postID, accountID)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return nil
		}
		removed = true

		_, err = tx.Exec(ctx, dropQuery, postID, time.Now())
		return err
	})

	if err != nil {
		return false, fmt.Errorf("postgres_post_store_unlike_failed: %w", err)
	}

	return removed, nil
}

/*
CreateComment persists a comment and bumps the post counter transactionally.

Returns:
  - error: NOT_FOUND when the post no longer exists, or execution errors
*/
func (store *PostgresStore) CreateComment(ctx context.Context, entry *Comment) error {
	const insertQuery = `
		INSERT INTO social.post_comment (id, postid, authorid, content, createdat)
		VALUES ($1, $2, $3, $4, $5)`

	const bumpQuery = `
		UPDATE social.post SET commentcount = commentcount + 1, updatedat = $2
		WHERE id = $1`

	entry.CreatedAt = time.Now()

	err := pgx.BeginFunc(ctx, store.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertQuery,
			entry.ID,
			entry.PostID,
			entry.AuthorID,
			entry.Content,
			entry.CreatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
				return apperr.NotFound("Post")
			}
			return err
		}

		_, err = tx.Exec(ctx, bumpQuery, entry.PostID, time.Now())
		return err
	})

	if err != nil {
		if apperr.IsAppError(err) {
			return err
		}
		return fmt.Errorf("postgres_post_store_comment_failed: %w", err)
	}

	return nil
}

/*
ListComments returns a page of a post's comments (oldest first) and the
total comment count for that post.
*/
func (store *PostgresStore) ListComments(ctx context.Context, postID string, limit, offset int) ([]*Comment, int, error) {
	const countQuery = `SELECT COUNT(*) FROM social.post_comment WHERE postid = $1`

	var total int
	if err := store.pool.QueryRow(ctx, countQuery, postID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_post_store_comment_count_failed: %w", err)
	}

	const query = `
		SELECT c.id, c.postid, c.authorid, a.fullname, c.content, c.createdat
		FROM social.post_comment c
		JOIN users.account a ON a.id = c.authorid
		WHERE c.postid = $1
		ORDER BY c.createdat ASC
		LIMIT $2 OFFSET $3`

	rows, err := store.pool.Query(ctx, query, postID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_post_store_comment_list_failed: %w", err)
	}
	defer rows.Close()

	comments := make([]*Comment, 0, limit)
	for rows.Next() {
		entry := &Comment{}
		if err := rows.Scan(
			&entry.ID,
			&entry.PostID,
			&entry.AuthorID,
			&entry.AuthorName,
			&entry.Content,
			&entry.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_post_store_comment_scan_failed: %w", err)
		}
		comments = append(comments, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_post_store_comment_rows_failed: %w", err)
	}

	return comments, total, nil
}

/*
LikedPostIDs reports which of the given posts the account has liked.

Returns:
  - map[string]bool: Present-and-true for every liked post ID
*/
func (store *PostgresStore) LikedPostIDs(ctx context.Context, accountID string, postIDs []string) (map[string]bool, error) {
	if len(postIDs) == 0 {
		return map[string]bool{}, nil
	}

	const query = `
		SELECT postid FROM social.post_like
		WHERE accountid = $1 AND postid = ANY($2)`

	rows, err := store.pool.Query(ctx, query, accountID, postIDs)
	if err != nil {
		return nil, fmt.Errorf("postgres_post_store_liked_failed: %w", err)
	}
	defer rows.Close()

	liked := make(map[string]bool, len(postIDs))
	for rows.Next() {
		var postID string
		if err := rows.Scan(&postID); err != nil {
			return nil, fmt.Errorf("postgres_post_store_liked_scan_failed: %w", err)
		}
		liked[postID] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_post_store_liked_rows_failed: %w", err)
	}

	return liked, nil
}

/*
Feed returns a page of posts (newest first) and the total post count.
*/
func (store *PostgresStore) Feed(ctx context.Context, limit, offset int) ([]*Post, int, error) {
	const countQuery = `SELECT COUNT(*) FROM social.post`

	var total int
	if err := store.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_post_store_feed_count_failed: %w", err)
	}

	const query = `
		SELECT ` + postColumns + `
		FROM social.post p
		JOIN users.account a ON a.id = p.authorid
		ORDER BY p.createdat DESC
		LIMIT $1 OFFSET $2`

	rows, err := store.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_post_store_feed_failed: %w", err)
	}
	defer rows.Close()

	posts := make([]*Post, 0, limit)
	for rows.Next() {
		entry := &Post{}
		if err := rows.Scan(
			&entry.ID,
			&entry.AuthorID,
			&entry.AuthorName,
			&entry.Content,
			&entry.LikeCount,
			&entry.CommentCount,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_post_store_feed_scan_failed: %w", err)
		}
		posts = append(posts, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_post_store_feed_rows_failed: %w", err)
	}

	return posts, total, nil
}
