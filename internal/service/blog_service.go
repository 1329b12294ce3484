package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"blog-api/internal/event"
	"blog-api/internal/model"
	"blog-api/internal/repository"
	"blog-api/internal/util"
	"blog-api/pkg/apierror"
)

const (
	updateDenied = "only the creator can update this blog post"
	deleteDenied = "only the creator can delete this blog"
)

// BlogService enforces who may change which post. Update and Delete check,
// in order: caller present (401), post exists (404), caller owns it (403).
type BlogService struct {
	store  repository.Store
	events event.Publisher
	now    func() time.Time
}

// NewBlogService publishes a post event on events after every committed
// change. events may be nil.
func NewBlogService(store repository.Store, events event.Publisher) *BlogService {
	return &BlogService{store: store, events: events, now: time.Now}
}

func (s *BlogService) List(ctx context.Context) ([]model.Post, error) {
	posts, err := s.store.Posts().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Stats summarises every stored post.
func (s *BlogService) Stats(ctx context.Context) (model.Stats, error) {
	posts, err := s.List(ctx)
	if err != nil {
		return model.Stats{}, err
	}
	return Summarize(posts), nil
}

func (s *BlogService) Get(ctx context.Context, id string) (model.Post, error) {
	return s.find(ctx, s.store, id)
}

// Create stores the post and appends it to the caller's owned list in one
// transaction.
func (s *BlogService) Create(ctx context.Context, caller *model.Identity, input model.NewPost) (model.Post, error) {
	if caller == nil {
		return model.Post{}, unauthenticated()
	}

	input.Title = util.CleanText(input.Title)
	input.Author = util.CleanText(input.Author)
	if err := model.Validate(input); err != nil {
		return model.Post{}, validationError(err)
	}

	likes := 0
	if input.Likes != nil {
		likes = *input.Likes
	}

	now := s.now().UTC()
	post := model.Post{
		ID:        uuid.NewString(),
		Title:     input.Title,
		Author:    input.Author,
		URL:       input.URL,
		Likes:     likes,
		Owner:     model.PublicUser{ID: caller.UserID},
		CreatedAt: now,
		UpdatedAt: now,
	}

	var created model.Post
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Posts().Create(ctx, post); err != nil {
			return err
		}
		if err := tx.Users().AppendOwnedPost(ctx, caller.UserID, post.ID); err != nil {
			return err
		}

		var err error
		created, err = tx.Posts().FindByID(ctx, post.ID)
		return err
	})
	if errors.Is(err, model.ErrUserNotFound) {
		return model.Post{}, unauthenticated()
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("create post: %w", err)
	}

	s.publish(event.TypePostCreated, created.ID, caller)
	return created, nil
}

// CheckUpdate runs the access checks of Update without changing anything,
// so a caller can answer 401, 404 or 403 before reading the request body.
func (s *BlogService) CheckUpdate(ctx context.Context, id string, caller *model.Identity) error {
	if caller == nil {
		return unauthenticated()
	}
	_, err := s.findOwned(ctx, s.store, id, caller, updateDenied)
	return err
}

// Update merges patch into the stored post. Absent fields keep their value
// and the owner never changes.
func (s *BlogService) Update(ctx context.Context, id string, caller *model.Identity, patch model.PostPatch) (model.Post, error) {
	if caller == nil {
		return model.Post{}, unauthenticated()
	}

	var updated model.Post
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		current, err := s.findOwned(ctx, tx, id, caller, updateDenied)
		if err != nil {
			return err
		}

		if patch.Title != nil {
			title := util.CleanText(*patch.Title)
			patch.Title = &title
		}
		if patch.Author != nil {
			author := util.CleanText(*patch.Author)
			patch.Author = &author
		}
		if err := model.Validate(patch); err != nil {
			return validationError(err)
		}

		merged := patch.Apply(current)
		merged.UpdatedAt = s.now().UTC()

		updated, err = tx.Posts().UpdateByID(ctx, id, merged)
		if errors.Is(err, model.ErrPostNotFound) {
			return postNotFound(id)
		}
		return err
	})
	if err != nil {
		return model.Post{}, err
	}

	s.publish(event.TypePostUpdated, updated.ID, caller)
	return updated, nil
}

// Delete removes the post and its entry in the owner's list together.
func (s *BlogService) Delete(ctx context.Context, id string, caller *model.Identity) error {
	if caller == nil {
		return unauthenticated()
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		post, err := s.findOwned(ctx, tx, id, caller, deleteDenied)
		if err != nil {
			return err
		}

		if err := tx.Users().RemoveOwnedPost(ctx, post.Owner.ID, post.ID); err != nil {
			return err
		}

		deleted, err := tx.Posts().DeleteByID(ctx, post.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return postNotFound(id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(event.TypePostDeleted, id, caller)
	return nil
}

func (s *BlogService) publish(t event.Type, postID string, caller *model.Identity) {
	if s.events != nil {
		s.events.Publish(event.New(t, postID, caller.UserID))
	}
}

func (s *BlogService) find(ctx context.Context, store repository.Store, id string) (model.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Post{}, postNotFound(id)
	}

	post, err := store.Posts().FindByID(ctx, id)
	if errors.Is(err, model.ErrPostNotFound) {
		return model.Post{}, postNotFound(id)
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("find post: %w", err)
	}
	return post, nil
}

func (s *BlogService) findOwned(ctx context.Context, store repository.Store, id string, caller *model.Identity, denied string) (model.Post, error) {
	post, err := s.find(ctx, store, id)
	if err != nil {
		return model.Post{}, err
	}
	if post.Owner.ID != caller.UserID {
		return model.Post{}, apierror.Forbidden(model.ErrForbidden, denied)
	}
	return post, nil
}

func unauthenticated() error {
	return apierror.Unauthorized(model.ErrUnauthorized, "token missing or invalid")
}

func postNotFound(id string) error {
	return apierror.NotFound(model.ErrPostNotFound, "blog post not found", id)
}
