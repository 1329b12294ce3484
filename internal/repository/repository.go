// Package repository declares the credential and post stores the services
// depend on. Implementations live in the postgres, sqlite and memory
// subpackages.
package repository

import (
	"context"

	"blog-api/internal/model"
)

// UserRepository is the credential store. Lookups that miss return
// model.ErrUserNotFound; Create returns model.ErrDuplicateUsername when the
// username is taken.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	Create(ctx context.Context, u model.User) error
	AppendOwnedPost(ctx context.Context, userID string, postID string) error
	RemoveOwnedPost(ctx context.Context, userID string, postID string) error
	List(ctx context.Context) ([]model.User, error)
	Count(ctx context.Context) (int, error)
}

// PostRepository is the post store. Every returned post has its Owner
// resolved to the owning user's public fields. Lookups that miss return
// model.ErrPostNotFound.
type PostRepository interface {
	FindByID(ctx context.Context, id string) (model.Post, error)
	FindAll(ctx context.Context) ([]model.Post, error)
	FindByOwner(ctx context.Context, userID string) ([]model.Post, error)
	Create(ctx context.Context, p model.Post) error
	// UpdateByID writes title, author, url, likes and updated_at. The owner
	// column is never touched.
	UpdateByID(ctx context.Context, id string, p model.Post) (model.Post, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

type Store interface {
	Users() UserRepository
	Posts() PostRepository
	// WithinTx runs fn against a store bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
	Close() error
}
