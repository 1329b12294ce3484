package memory

import (
	"context"
	"fmt"
	"slices"

	"blog-api/internal/model"
)

type UserRepository struct {
	s *Store
	j *journal
}

func (r *UserRepository) FindByID(_ context.Context, id string) (model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.data.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.data.byUsername[username]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return copyUser(r.s.data.users[id]), nil
}

func (r *UserRepository) Create(_ context.Context, u model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.data.byUsername[u.Username]; taken {
		return model.ErrDuplicateUsername
	}
	if _, exists := r.s.data.users[u.ID]; exists {
		return fmt.Errorf("create user: id %s already exists", u.ID)
	}

	u.Blogs = []string{}
	r.s.data.users[u.ID] = u
	r.s.data.byUsername[u.Username] = u.ID
	r.s.data.userOrder = append(r.s.data.userOrder, u.ID)

	r.j.record(func(st *state) {
		delete(st.users, u.ID)
		if st.byUsername[u.Username] == u.ID {
			delete(st.byUsername, u.Username)
		}
		st.userOrder = removeID(st.userOrder, u.ID)
	})
	return nil
}

func (r *UserRepository) AppendOwnedPost(_ context.Context, userID string, postID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.data.users[userID]
	if !ok {
		return fmt.Errorf("append owned post: %w", model.ErrUserNotFound)
	}
	if slices.Contains(u.Blogs, postID) {
		return nil
	}
	u.Blogs = append(slices.Clone(u.Blogs), postID)
	r.s.data.users[userID] = u

	r.j.record(func(st *state) {
		if owner, ok := st.users[userID]; ok {
			owner.Blogs = removeID(owner.Blogs, postID)
			st.users[userID] = owner
		}
	})
	return nil
}

func (r *UserRepository) RemoveOwnedPost(_ context.Context, userID string, postID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.data.users[userID]
	if !ok {
		return nil
	}
	at := slices.Index(u.Blogs, postID)
	if at < 0 {
		return nil
	}
	u.Blogs = removeID(u.Blogs, postID)
	r.s.data.users[userID] = u

	r.j.record(func(st *state) {
		if owner, ok := st.users[userID]; ok {
			owner.Blogs = insertID(owner.Blogs, at, postID)
			st.users[userID] = owner
		}
	})
	return nil
}

func (r *UserRepository) List(context.Context) ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]model.User, 0, len(r.s.data.userOrder))
	for _, id := range r.s.data.userOrder {
		users = append(users, copyUser(r.s.data.users[id]))
	}
	return users, nil
}

func (r *UserRepository) Count(context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return len(r.s.data.users), nil
}

func copyUser(u model.User) model.User {
	u.Blogs = slices.Clone(u.Blogs)
	if u.Blogs == nil {
		u.Blogs = []string{}
	}
	return u
}
