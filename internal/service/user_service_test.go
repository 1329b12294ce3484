package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"blog-api/internal/model"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Register(ctx, model.RegisterRequest{Username: "mluukkai", Name: " Matti <Luukkainen>\u200B", Password: "salainen"})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "Matti <Luukkainen>", u.Name)
	require.Empty(t, u.Blogs)

	ok, err := f.hasher.Compare("salainen", u.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRegisterLongestPassword(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	password := strings.Repeat("p", 72)

	_, err := f.users.Register(context.Background(), model.RegisterRequest{Username: "root", Password: password})
	require.NoError(t, err)

	resp, err := f.auth.Login(context.Background(), "root", password)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "root")

	before, err := f.store.Users().Count(ctx)
	require.NoError(t, err)

	_, err = f.users.Register(ctx, model.RegisterRequest{Username: "root", Name: "Superuser", Password: "salainen"})
	apiErr := requireAPIError(t, err, http.StatusBadRequest)
	require.Contains(t, apiErr.Message, "expected `username` to be unique")
	require.ErrorIs(t, err, model.ErrDuplicateUsername)

	after, err := f.store.Users().Count(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	tests := []struct {
		name string
		req  model.RegisterRequest
		want string
	}{
		{name: "short username", req: model.RegisterRequest{Username: "ab", Password: "sekret"}, want: "username must be at least 3 characters long"},
		{name: "missing password", req: model.RegisterRequest{Username: "root"}, want: "password is required"},
		{name: "short password", req: model.RegisterRequest{Username: "root", Password: "pw"}, want: "password must be at least 3 characters long"},
		{name: "password over 72 bytes", req: model.RegisterRequest{Username: "root", Password: strings.Repeat("a", 80)}, want: "password must be at most 72 bytes long"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.users.Register(context.Background(), tc.req)
			apiErr := requireAPIError(t, err, http.StatusBadRequest)
			require.Contains(t, apiErr.Message, tc.want)
			require.ErrorIs(t, err, model.ErrValidation)
		})
	}

	count, err := f.store.Users().Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestListUsersPopulatesPosts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	f.register(t, "bob")

	first, err := f.blogs.Create(ctx, alice, model.NewPost{Title: "first", Author: "A", URL: "http://a/1"})
	require.NoError(t, err)
	second, err := f.blogs.Create(ctx, alice, model.NewPost{Title: "second", Author: "A", URL: "http://a/2"})
	require.NoError(t, err)

	users, err := f.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	require.Equal(t, "alice", users[0].Username)
	require.Equal(t, []model.PostSummary{first.Summary(), second.Summary()}, users[0].Blogs)
	require.Equal(t, "bob", users[1].Username)
	require.NotNil(t, users[1].Blogs)
	require.Empty(t, users[1].Blogs)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	caller := f.register(t, "root")

	id, err := f.users.Resolve(context.Background(), caller.UserID)
	require.NoError(t, err)
	require.Equal(t, *caller, id)

	_, err = f.users.Resolve(context.Background(), "missing")
	require.ErrorIs(t, err, model.ErrUserNotFound)
}
