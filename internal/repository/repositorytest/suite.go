// Package repositorytest holds the behaviour every repository.Store
// implementation must share. Backends run it from their own tests.
package repositorytest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"blog-api/internal/model"
	"blog-api/internal/repository"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// Run executes the conformance cases. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) repository.Store) {
	t.Helper()

	cases := []struct {
		name string
		fn   func(t *testing.T, s repository.Store)
	}{
		{"CreateAndFindUser", testCreateAndFindUser},
		{"DuplicateUsername", testDuplicateUsername},
		{"ListUsersInCreationOrder", testListUsers},
		{"OwnedPostsKeepOrder", testOwnedPosts},
		{"CreateAndFindPost", testCreateAndFindPost},
		{"CreatePostUnknownOwner", testCreatePostUnknownOwner},
		{"FindAllAndByOwner", testFindAllAndByOwner},
		{"UpdatePostKeepsOwner", testUpdatePost},
		{"DeletePost", testDeletePost},
		{"TxCommit", testTxCommit},
		{"TxRollback", testTxRollback},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, newStore(t))
		})
	}
}

func NewUser(username string, created time.Time) model.User {
	return model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Name:         "Name of " + username,
		PasswordHash: "$2a$04$hash-of-" + username,
		Blogs:        []string{},
		CreatedAt:    created,
	}
}

func NewPost(owner model.User, title string, likes int, created time.Time) model.Post {
	return model.Post{
		ID:        uuid.NewString(),
		Title:     title,
		Author:    "Author of " + title,
		URL:       "https://example.com/" + title,
		Likes:     likes,
		Owner:     owner.Public(),
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func mustCreateUser(t *testing.T, s repository.Store, username string, created time.Time) model.User {
	t.Helper()
	u := NewUser(username, created)
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func mustCreatePost(t *testing.T, s repository.Store, owner model.User, title string, created time.Time) model.Post {
	t.Helper()
	ctx := context.Background()
	p := NewPost(owner, title, 1, created)
	require.NoError(t, s.Posts().Create(ctx, p))
	require.NoError(t, s.Users().AppendOwnedPost(ctx, owner.ID, p.ID))
	return p
}

func testCreateAndFindUser(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustCreateUser(t, s, "root", base)

	byID, err := s.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Username, byID.Username)
	require.Equal(t, u.Name, byID.Name)
	require.Equal(t, u.PasswordHash, byID.PasswordHash)
	require.Empty(t, byID.Blogs)
	require.True(t, u.CreatedAt.Equal(byID.CreatedAt))

	byName, err := s.Users().FindByUsername(ctx, "root")
	require.NoError(t, err)
	require.Equal(t, u.ID, byName.ID)

	_, err = s.Users().FindByUsername(ctx, "nobody")
	require.ErrorIs(t, err, model.ErrUserNotFound)

	_, err = s.Users().FindByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, model.ErrUserNotFound)

	count, err := s.Users().Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func testDuplicateUsername(t *testing.T, s repository.Store) {
	mustCreateUser(t, s, "root", base)

	err := s.Users().Create(context.Background(), NewUser("root", base.Add(time.Second)))
	require.ErrorIs(t, err, model.ErrDuplicateUsername)

	count, err := s.Users().Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func testListUsers(t *testing.T, s repository.Store) {
	first := mustCreateUser(t, s, "mluukkai", base)
	second := mustCreateUser(t, s, "hellas", base.Add(time.Minute))

	users, err := s.Users().List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, first.ID, users[0].ID)
	require.Equal(t, second.ID, users[1].ID)
}

func testOwnedPosts(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustCreateUser(t, s, "root", base)
	p1 := mustCreatePost(t, s, u, "first", base.Add(time.Second))
	p2 := mustCreatePost(t, s, u, "second", base.Add(2*time.Second))
	p3 := mustCreatePost(t, s, u, "third", base.Add(3*time.Second))

	// Appending twice keeps a single entry.
	require.NoError(t, s.Users().AppendOwnedPost(ctx, u.ID, p2.ID))

	got, err := s.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, []string{p1.ID, p2.ID, p3.ID}, got.Blogs)

	require.NoError(t, s.Users().RemoveOwnedPost(ctx, u.ID, p2.ID))
	// Removing an id that is not listed is a no-op.
	require.NoError(t, s.Users().RemoveOwnedPost(ctx, u.ID, p2.ID))

	got, err = s.Users().FindByUsername(ctx, "root")
	require.NoError(t, err)
	require.Equal(t, []string{p1.ID, p3.ID}, got.Blogs)
}

func testCreateAndFindPost(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustCreateUser(t, s, "root", base)
	p := mustCreatePost(t, s, u, "react-patterns", base.Add(time.Second))

	got, err := s.Posts().FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.Title, got.Title)
	require.Equal(t, p.Author, got.Author)
	require.Equal(t, p.URL, got.URL)
	require.Equal(t, p.Likes, got.Likes)
	require.Equal(t, u.Public(), got.Owner)
	require.True(t, p.CreatedAt.Equal(got.CreatedAt))

	_, err = s.Posts().FindByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, model.ErrPostNotFound)
}

func testCreatePostUnknownOwner(t *testing.T, s repository.Store) {
	ghost := NewUser("ghost", base)
	err := s.Posts().Create(context.Background(), NewPost(ghost, "orphan", 0, base))
	require.ErrorIs(t, err, model.ErrUserNotFound)
}

func testFindAllAndByOwner(t *testing.T, s repository.Store) {
	ctx := context.Background()

	all, err := s.Posts().FindAll(ctx)
	require.NoError(t, err)
	require.NotNil(t, all)
	require.Empty(t, all)

	alice := mustCreateUser(t, s, "alice", base)
	bob := mustCreateUser(t, s, "bob", base)
	a1 := mustCreatePost(t, s, alice, "a1", base.Add(1*time.Second))
	b1 := mustCreatePost(t, s, bob, "b1", base.Add(2*time.Second))
	a2 := mustCreatePost(t, s, alice, "a2", base.Add(3*time.Second))

	all, err = s.Posts().FindAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{a1.ID, b1.ID, a2.ID}, postIDs(all))
	require.Equal(t, "bob", all[1].Owner.Username)

	mine, err := s.Posts().FindByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, []string{a1.ID, a2.ID}, postIDs(mine))
}

func testUpdatePost(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustCreateUser(t, s, "root", base)
	p := mustCreatePost(t, s, u, "draft", base)

	changed := p
	changed.Title = "final"
	changed.Likes = 42
	changed.Owner = model.PublicUser{ID: uuid.NewString()}
	changed.UpdatedAt = base.Add(time.Hour)

	got, err := s.Posts().UpdateByID(ctx, p.ID, changed)
	require.NoError(t, err)
	require.Equal(t, "final", got.Title)
	require.Equal(t, 42, got.Likes)
	require.Equal(t, p.URL, got.URL)
	require.Equal(t, u.Public(), got.Owner)
	require.True(t, changed.UpdatedAt.Equal(got.UpdatedAt))

	_, err = s.Posts().UpdateByID(ctx, uuid.NewString(), changed)
	require.ErrorIs(t, err, model.ErrPostNotFound)
}

func testDeletePost(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustCreateUser(t, s, "root", base)
	p := mustCreatePost(t, s, u, "short-lived", base)

	require.NoError(t, s.Users().RemoveOwnedPost(ctx, u.ID, p.ID))
	deleted, err := s.Posts().DeleteByID(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = s.Posts().DeleteByID(ctx, p.ID)
	require.NoError(t, err)
	require.False(t, deleted)

	_, err = s.Posts().FindByID(ctx, p.ID)
	require.ErrorIs(t, err, model.ErrPostNotFound)
}

func testTxCommit(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustCreateUser(t, s, "root", base)
	p := NewPost(u, "in-tx", 3, base)

	err := s.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Posts().Create(ctx, p); err != nil {
			return err
		}
		// Nested calls join the outer transaction.
		return tx.WithinTx(ctx, func(inner repository.Store) error {
			return inner.Users().AppendOwnedPost(ctx, u.ID, p.ID)
		})
	})
	require.NoError(t, err)

	got, err := s.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, []string{p.ID}, got.Blogs)
}

func testTxRollback(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustCreateUser(t, s, "root", base)
	p := NewPost(u, "rolled-back", 3, base)
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Posts().Create(ctx, p); err != nil {
			return err
		}
		if err := tx.Users().AppendOwnedPost(ctx, u.ID, p.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Posts().FindByID(ctx, p.ID)
	require.ErrorIs(t, err, model.ErrPostNotFound)

	got, err := s.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, got.Blogs)
}

func postIDs(posts []model.Post) []string {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
