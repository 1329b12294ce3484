package memory

import (
	"context"
	"fmt"
	"slices"

	"blog-api/internal/model"
)

type PostRepository struct {
	s *Store
	j *journal
}

func (r *PostRepository) FindByID(_ context.Context, id string) (model.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.data.posts[id]
	if !ok {
		return model.Post{}, model.ErrPostNotFound
	}
	return r.s.populate(p), nil
}

func (r *PostRepository) FindAll(context.Context) ([]model.Post, error) {
	return r.filter(func(model.Post) bool { return true }), nil
}

func (r *PostRepository) FindByOwner(_ context.Context, userID string) ([]model.Post, error) {
	return r.filter(func(p model.Post) bool { return p.Owner.ID == userID }), nil
}

func (r *PostRepository) filter(keep func(model.Post) bool) []model.Post {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	posts := make([]model.Post, 0, len(r.s.data.postOrder))
	for _, id := range r.s.data.postOrder {
		p := r.s.data.posts[id]
		if keep(p) {
			posts = append(posts, r.s.populate(p))
		}
	}
	return posts
}

func (r *PostRepository) Create(_ context.Context, p model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.users[p.Owner.ID]; !ok {
		return fmt.Errorf("create post: %w", model.ErrUserNotFound)
	}
	if _, exists := r.s.data.posts[p.ID]; exists {
		return fmt.Errorf("create post: id %s already exists", p.ID)
	}

	p.Owner = model.PublicUser{ID: p.Owner.ID}
	r.s.data.posts[p.ID] = p
	r.s.data.postOrder = append(r.s.data.postOrder, p.ID)

	r.j.record(func(st *state) {
		delete(st.posts, p.ID)
		st.postOrder = removeID(st.postOrder, p.ID)
	})
	return nil
}

func (r *PostRepository) UpdateByID(_ context.Context, id string, p model.Post) (model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.data.posts[id]
	if !ok {
		return model.Post{}, model.ErrPostNotFound
	}

	previous := current
	r.j.record(func(st *state) {
		if _, ok := st.posts[id]; ok {
			st.posts[id] = previous
		}
	})

	current.Title = p.Title
	current.Author = p.Author
	current.URL = p.URL
	current.Likes = p.Likes
	current.UpdatedAt = p.UpdatedAt
	r.s.data.posts[id] = current

	return r.s.populate(current), nil
}

func (r *PostRepository) DeleteByID(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	removed, ok := r.s.data.posts[id]
	if !ok {
		return false, nil
	}
	at := slices.Index(r.s.data.postOrder, id)
	delete(r.s.data.posts, id)
	r.s.data.postOrder = removeID(r.s.data.postOrder, id)

	r.j.record(func(st *state) {
		if _, taken := st.posts[id]; taken {
			return
		}
		st.posts[id] = removed
		st.postOrder = insertID(st.postOrder, at, id)
	})
	return true, nil
}
