package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"blog-api/internal/model"
)

const selectUser = `SELECT u.id, u.username, u.name, u.password_hash, u.created_at,
        (SELECT group_concat(up.post_id, ',' ORDER BY up.seq) FROM user_posts up WHERE up.user_id = u.id)
 FROM users u`

type UserRepository struct {
	q dbtx
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		u     model.User
		blogs sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, &u.CreatedAt, &blogs); err != nil {
		return model.User{}, err
	}

	u.Blogs = []string{}
	if blogs.Valid && blogs.String != "" {
		u.Blogs = strings.Split(blogs.String, ",")
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, selectUser+` WHERE u.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, selectUser+` WHERE u.username = ?`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, username, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Name, u.PasswordHash, u.CreatedAt)
	if isUniqueViolation(err) {
		return model.ErrDuplicateUsername
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) AppendOwnedPost(ctx context.Context, userID string, postID string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO user_posts (user_id, post_id) VALUES (?, ?) ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("append owned post: %w", model.ErrUserNotFound)
	}
	if err != nil {
		return fmt.Errorf("append owned post: %w", err)
	}
	return nil
}

func (r *UserRepository) RemoveOwnedPost(ctx context.Context, userID string, postID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM user_posts WHERE user_id = ? AND post_id = ?`, userID, postID)
	if err != nil {
		return fmt.Errorf("remove owned post: %w", err)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.q.QueryContext(ctx, selectUser+` ORDER BY u.created_at, u.username`)
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
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}
