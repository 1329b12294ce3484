package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"blog-api/internal/model"
)

const selectPost = `SELECT p.id, p.title, p.author, p.url, p.likes, p.created_at, p.updated_at,
        u.id, u.username, u.name
 FROM posts p
 JOIN users u ON u.id = p.user_id`

type PostRepository struct {
	q querier
}

func scanPost(row pgx.Row) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.Title, &p.Author, &p.URL, &p.Likes, &p.CreatedAt, &p.UpdatedAt,
		&p.Owner.ID, &p.Owner.Username, &p.Owner.Name)
	return p, err
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (model.Post, error) {
	p, err := scanPost(r.q.QueryRow(ctx, selectPost+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, model.ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

func (r *PostRepository) FindAll(ctx context.Context) ([]model.Post, error) {
	return r.list(ctx, selectPost+` ORDER BY p.created_at, p.id`)
}

func (r *PostRepository) FindByOwner(ctx context.Context, userID string) ([]model.Post, error) {
	return r.list(ctx, selectPost+` WHERE p.user_id = $1 ORDER BY p.created_at, p.id`, userID)
}

func (r *PostRepository) list(ctx context.Context, query string, args ...any) ([]model.Post, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) Create(ctx context.Context, p model.Post) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO posts (id, title, author, url, likes, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Title, p.Author, p.URL, p.Likes, p.Owner.ID, p.CreatedAt, p.UpdatedAt)
	if pgErrorCode(err) == foreignKeyViolation {
		return fmt.Errorf("create post: %w", model.ErrUserNotFound)
	}
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *PostRepository) UpdateByID(ctx context.Context, id string, p model.Post) (model.Post, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE posts SET title = $2, author = $3, url = $4, likes = $5, updated_at = $6 WHERE id = $1`,
		id, p.Title, p.Author, p.URL, p.Likes, p.UpdatedAt)
	if err != nil {
		return model.Post{}, fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.Post{}, model.ErrPostNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *PostRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
