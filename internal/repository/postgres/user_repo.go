package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"blog-api/internal/model"
)

const selectUser = `SELECT u.id, u.username, u.name, u.password_hash, u.created_at,
        ARRAY(SELECT up.post_id FROM user_posts up WHERE up.user_id = u.id ORDER BY up.seq)
 FROM users u`

type UserRepository struct {
	q querier
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.Blogs)
	if u.Blogs == nil {
		u.Blogs = []string{}
	}
	return u, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, selectUser+` WHERE u.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, selectUser+` WHERE u.username = $1`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO users (id, username, name, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Username, u.Name, u.PasswordHash, u.CreatedAt)
	if pgErrorCode(err) == uniqueViolation {
		return model.ErrDuplicateUsername
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) AppendOwnedPost(ctx context.Context, userID string, postID string) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO user_posts (user_id, post_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID)
	if pgErrorCode(err) == foreignKeyViolation {
		return fmt.Errorf("append owned post: %w", model.ErrUserNotFound)
	}
	if err != nil {
		return fmt.Errorf("append owned post: %w", err)
	}
	return nil
}

func (r *UserRepository) RemoveOwnedPost(ctx context.Context, userID string, postID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM user_posts WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return fmt.Errorf("remove owned post: %w", err)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.q.Query(ctx, selectUser+` ORDER BY u.created_at, u.username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}
