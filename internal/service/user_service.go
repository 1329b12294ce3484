package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"blog-api/internal/model"
	"blog-api/internal/repository"
	"blog-api/internal/util"
	"blog-api/pkg/apierror"
)

type UserService struct {
	store  repository.Store
	hasher PasswordHasher
	now    func() time.Time
}

func NewUserService(store repository.Store, hasher PasswordHasher) *UserService {
	return &UserService{store: store, hasher: hasher, now: time.Now}
}

// Register creates an account. The password is hashed before it reaches the
// store and the hash never leaves this package.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	if err := model.Validate(req); err != nil {
		return model.User{}, validationError(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Name:         util.CleanText(req.Name),
		PasswordHash: hash,
		Blogs:        []string{},
		CreatedAt:    s.now().UTC(),
	}

	err = s.store.Users().Create(ctx, user)
	if errors.Is(err, model.ErrDuplicateUsername) {
		return model.User{}, apierror.DuplicateUsername(err, req.Username)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("register user: %w", err)
	}

	return user, nil
}

// List returns every user with their owned posts in ownership order.
func (s *UserService) List(ctx context.Context) ([]model.UserWithPosts, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, err
	}

	posts, err := s.store.Posts().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	out := make([]model.UserWithPosts, 0, len(users))
	for _, u := range users {
		blogs := make([]model.PostSummary, 0, len(u.Blogs))
		for _, id := range u.Blogs {
			if p, ok := byID[id]; ok {
				blogs = append(blogs, p.Summary())
			}
		}
		out = append(out, model.UserWithPosts{ID: u.ID, Username: u.Username, Name: u.Name, Blogs: blogs})
	}

	return out, nil
}

// Resolve maps a verified token subject to the caller identity.
func (s *UserService) Resolve(ctx context.Context, userID string) (model.Identity, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return model.Identity{}, err
	}
	return user.Identity(), nil
}

func validationError(err error) error {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return apierror.Validation(err, err.Error(), "")
	}
	return fmt.Errorf("validate: %w", err)
}
