package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"blog-api/internal/event"
	"blog-api/internal/model"
)

func validPost() model.NewPost {
	return model.NewPost{
		Title:  "Canonical string reduction",
		Author: "Edsger W. Dijkstra",
		URL:    "http://www.cs.utexas.edu/~EWD/transcriptions/EWD08xx/EWD808.html",
		Likes:  intPtr(12),
	}
}

func TestCreatePost(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	caller := f.register(t, "root")

	post, err := f.blogs.Create(ctx, caller, validPost())
	require.NoError(t, err)
	require.NoError(t, uuid.Validate(post.ID))
	require.Equal(t, 12, post.Likes)
	require.Equal(t, model.PublicUser{ID: caller.UserID, Username: "root", Name: "Name of root"}, post.Owner)

	posts, err := f.blogs.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, post.ID, posts[0].ID)
	require.Equal(t, post.Owner, posts[0].Owner)

	owner, err := f.store.Users().FindByID(ctx, caller.UserID)
	require.NoError(t, err)
	require.Equal(t, []string{post.ID}, owner.Blogs)
}

func TestCreatePostKeepsTitleVerbatim(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	caller := f.register(t, "root")

	input := validPost()
	input.Title = "Generics: func Map<T>(xs []T)"
	input.Author = "Ian <Lance> Taylor"

	post, err := f.blogs.Create(ctx, caller, input)
	require.NoError(t, err)
	require.Equal(t, "Generics: func Map<T>(xs []T)", post.Title)
	require.Equal(t, "Ian <Lance> Taylor", post.Author)

	updated, err := f.blogs.Update(ctx, post.ID, caller, model.PostPatch{Title: strPtr("Sum[T int | float64]<br>")})
	require.NoError(t, err)
	require.Equal(t, "Sum[T int | float64]<br>", updated.Title)
}

func TestCreatePostDefaultsLikes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	input := validPost()
	input.Likes = nil

	post, err := f.blogs.Create(context.Background(), f.register(t, "root"), input)
	require.NoError(t, err)
	require.Equal(t, 0, post.Likes)
}

func TestCreatePostRequiresTitleAndURL(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	caller := f.register(t, "root")

	tests := []struct {
		name   string
		mutate func(*model.NewPost)
	}{
		{name: "no title", mutate: func(p *model.NewPost) { p.Title = "" }},
		{name: "no url", mutate: func(p *model.NewPost) { p.URL = "" }},
		{name: "neither", mutate: func(p *model.NewPost) { p.Title, p.URL = "", "" }},
		{name: "title is only invisible runes", mutate: func(p *model.NewPost) { p.Title = " \u200B " }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validPost()
			tc.mutate(&input)
			_, err := f.blogs.Create(context.Background(), caller, input)
			requireAPIError(t, err, http.StatusBadRequest)
			require.ErrorIs(t, err, model.ErrValidation)
		})
	}

	posts, err := f.blogs.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, posts)
}

func TestCreatePostRequiresIdentity(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.blogs.Create(context.Background(), nil, validPost())
	requireAPIError(t, err, http.StatusUnauthorized)

	t.Run("identity of a deleted user", func(t *testing.T) {
		ghost := &model.Identity{UserID: uuid.NewString(), Username: "ghost"}
		_, err := f.blogs.Create(context.Background(), ghost, validPost())
		requireAPIError(t, err, http.StatusUnauthorized)

		posts, err := f.blogs.List(context.Background())
		require.NoError(t, err)
		require.Empty(t, posts)
	})
}

func TestGetPost(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	created, err := f.blogs.Create(ctx, f.register(t, "root"), validPost())
	require.NoError(t, err)

	got, err := f.blogs.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	_, err = f.blogs.Get(ctx, uuid.NewString())
	requireAPIError(t, err, http.StatusNotFound)

	_, err = f.blogs.Get(ctx, "not-a-uuid")
	requireAPIError(t, err, http.StatusNotFound)
}

func TestUpdatePost(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "owner")
	other := f.register(t, "other")

	created, err := f.blogs.Create(ctx, owner, validPost())
	require.NoError(t, err)

	t.Run("merge keeps absent fields", func(t *testing.T) {
		updated, err := f.blogs.Update(ctx, created.ID, owner, model.PostPatch{Likes: intPtr(13)})
		require.NoError(t, err)
		require.Equal(t, 13, updated.Likes)
		require.Equal(t, created.Title, updated.Title)
		require.Equal(t, created.Author, updated.Author)
		require.Equal(t, created.URL, updated.URL)
		require.Equal(t, created.Owner, updated.Owner)
	})

	t.Run("no identity", func(t *testing.T) {
		_, err := f.blogs.Update(ctx, created.ID, nil, model.PostPatch{Likes: intPtr(1)})
		requireAPIError(t, err, http.StatusUnauthorized)
	})

	t.Run("not the owner", func(t *testing.T) {
		_, err := f.blogs.Update(ctx, created.ID, other, model.PostPatch{Title: strPtr("hijacked")})
		requireAPIError(t, err, http.StatusForbidden)
		require.ErrorIs(t, err, model.ErrForbidden)

		got, err := f.blogs.Get(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, created.Title, got.Title)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := f.blogs.Update(ctx, uuid.NewString(), owner, model.PostPatch{Likes: intPtr(1)})
		requireAPIError(t, err, http.StatusNotFound)
	})

	t.Run("auth is checked before existence", func(t *testing.T) {
		_, err := f.blogs.Update(ctx, uuid.NewString(), nil, model.PostPatch{})
		requireAPIError(t, err, http.StatusUnauthorized)
	})

	t.Run("existence is checked before ownership", func(t *testing.T) {
		_, err := f.blogs.Update(ctx, uuid.NewString(), other, model.PostPatch{})
		requireAPIError(t, err, http.StatusNotFound)
	})

	t.Run("cannot clear title", func(t *testing.T) {
		_, err := f.blogs.Update(ctx, created.ID, owner, model.PostPatch{Title: strPtr("")})
		requireAPIError(t, err, http.StatusBadRequest)
	})

	t.Run("negative likes", func(t *testing.T) {
		_, err := f.blogs.Update(ctx, created.ID, owner, model.PostPatch{Likes: intPtr(-3)})
		requireAPIError(t, err, http.StatusBadRequest)
	})
}

func TestCheckUpdate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "owner")
	other := f.register(t, "other")

	created, err := f.blogs.Create(ctx, owner, validPost())
	require.NoError(t, err)

	require.NoError(t, f.blogs.CheckUpdate(ctx, created.ID, owner))
	requireAPIError(t, f.blogs.CheckUpdate(ctx, uuid.NewString(), nil), http.StatusUnauthorized)
	requireAPIError(t, f.blogs.CheckUpdate(ctx, uuid.NewString(), other), http.StatusNotFound)
	requireAPIError(t, f.blogs.CheckUpdate(ctx, "not-a-uuid", other), http.StatusNotFound)

	apiErr := requireAPIError(t, f.blogs.CheckUpdate(ctx, created.ID, other), http.StatusForbidden)
	require.Equal(t, "only the creator can update this blog post", apiErr.Message)
}

func TestDeletePost(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "owner")
	other := f.register(t, "other")

	created, err := f.blogs.Create(ctx, owner, validPost())
	require.NoError(t, err)

	requireAPIError(t, f.blogs.Delete(ctx, created.ID, nil), http.StatusUnauthorized)
	requireAPIError(t, f.blogs.Delete(ctx, uuid.NewString(), other), http.StatusNotFound)

	err = f.blogs.Delete(ctx, created.ID, other)
	requireAPIError(t, err, http.StatusForbidden)
	_, err = f.blogs.Get(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, f.blogs.Delete(ctx, created.ID, owner))

	_, err = f.blogs.Get(ctx, created.ID)
	requireAPIError(t, err, http.StatusNotFound)

	u, err := f.store.Users().FindByID(ctx, owner.UserID)
	require.NoError(t, err)
	require.Empty(t, u.Blogs)

	requireAPIError(t, f.blogs.Delete(ctx, created.ID, owner), http.StatusNotFound)
}

func TestStats(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	caller := f.register(t, "root")

	stats, err := f.blogs.Stats(ctx)
	require.NoError(t, err)
	require.Nil(t, stats.Favorite)
	require.Nil(t, stats.MostBlogs)

	for _, p := range samplePosts {
		_, err := f.blogs.Create(ctx, caller, model.NewPost{Title: p.Title, Author: p.Author, URL: p.URL, Likes: intPtr(p.Likes)})
		require.NoError(t, err)
	}

	stats, err = f.blogs.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 6, stats.Posts)
	require.Equal(t, 36, stats.TotalLikes)
	require.Equal(t, "Canonical string reduction", stats.Favorite.Title)
	require.Equal(t, &model.AuthorCount{Author: "Robert C. Martin", Blogs: 3}, stats.MostBlogs)
}

func TestBlogServicePublishesCommittedChanges(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "owner")
	other := f.register(t, "other")

	events, unsubscribe := f.events.Subscribe()
	defer unsubscribe()

	created, err := f.blogs.Create(ctx, owner, validPost())
	require.NoError(t, err)
	_, err = f.blogs.Update(ctx, created.ID, owner, model.PostPatch{Likes: intPtr(1)})
	require.NoError(t, err)
	require.Error(t, f.blogs.Delete(ctx, created.ID, other))
	require.NoError(t, f.blogs.Delete(ctx, created.ID, owner))

	var got []event.Type
	for len(events) > 0 {
		e := <-events
		require.Equal(t, created.ID, e.PostID)
		require.Equal(t, owner.UserID, e.ActorID)
		got = append(got, e.Type)
	}
	require.Equal(t, []event.Type{event.TypePostCreated, event.TypePostUpdated, event.TypePostDeleted}, got)
}
