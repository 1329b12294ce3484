package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestValidateNewPost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   NewPost
		wantErr string
	}{
		{name: "complete", input: NewPost{Title: "t", URL: "http://x", Likes: intPtr(3)}},
		{name: "likes omitted", input: NewPost{Title: "t", URL: "http://x"}},
		{name: "missing title", input: NewPost{URL: "http://x", Author: "a", Likes: intPtr(5)}, wantErr: "title is required"},
		{name: "missing url", input: NewPost{Title: "t", Author: "a"}, wantErr: "url is required"},
		{name: "negative likes", input: NewPost{Title: "t", URL: "u", Likes: intPtr(-1)}, wantErr: "likes must be 0 or greater"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.input)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrValidation))
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	t.Parallel()

	err := Validate(NewPost{Author: "only author"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.ElementsMatch(t, []string{"title is required", "url is required"}, verr.Fields)
}

func TestValidateRegisterRequest(t *testing.T) {
	t.Parallel()

	require.NoError(t, Validate(RegisterRequest{Username: "root", Password: "sekret"}))
	require.ErrorContains(t, Validate(RegisterRequest{Username: "ab", Password: "sekret"}), "username must be at least 3 characters long")
	require.ErrorContains(t, Validate(RegisterRequest{Username: "root"}), "password is required")
}

func TestValidatePasswordByteLength(t *testing.T) {
	t.Parallel()

	require.NoError(t, Validate(RegisterRequest{Username: "root", Password: strings.Repeat("a", 72)}))
	require.ErrorContains(t, Validate(RegisterRequest{Username: "root", Password: strings.Repeat("a", 73)}), "password must be at most 72 bytes long")
	// 40 runes, 80 bytes.
	require.ErrorIs(t, Validate(RegisterRequest{Username: "root", Password: strings.Repeat("é", 40)}), ErrValidation)
}

func TestPostPatchApply(t *testing.T) {
	t.Parallel()

	current := Post{
		ID:     "p1",
		Title:  "React patterns",
		Author: "Michael Chan",
		URL:    "https://reactpatterns.com/",
		Likes:  7,
		Owner:  PublicUser{ID: "u1", Username: "root"},
	}

	t.Run("likes only keeps the rest", func(t *testing.T) {
		got := PostPatch{Likes: intPtr(8)}.Apply(current)
		require.Equal(t, 8, got.Likes)
		require.Equal(t, current.Title, got.Title)
		require.Equal(t, current.Author, got.Author)
		require.Equal(t, current.URL, got.URL)
		require.Equal(t, current.Owner, got.Owner)
	})

	t.Run("explicit zero likes is applied", func(t *testing.T) {
		got := PostPatch{Likes: intPtr(0)}.Apply(current)
		require.Equal(t, 0, got.Likes)
	})

	t.Run("empty author string clears author", func(t *testing.T) {
		got := PostPatch{Author: strPtr("")}.Apply(current)
		require.Equal(t, "", got.Author)
	})

	t.Run("empty patch", func(t *testing.T) {
		require.True(t, PostPatch{}.Empty())
		require.Equal(t, current, PostPatch{}.Apply(current))
	})
}

func TestPatchRejectsClearingRequiredFields(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Validate(PostPatch{Title: strPtr("")}), ErrValidation)
	require.ErrorIs(t, Validate(PostPatch{URL: strPtr("")}), ErrValidation)
	require.NoError(t, Validate(PostPatch{Author: strPtr("")}))
}

func TestUserPublicProjectionHasNoHash(t *testing.T) {
	t.Parallel()

	u := User{ID: "u1", Username: "root", Name: "Superuser", PasswordHash: "$2a$10$secret"}
	require.Equal(t, PublicUser{ID: "u1", Username: "root", Name: "Superuser"}, u.Public())
	require.Equal(t, Identity{UserID: "u1", Username: "root", Name: "Superuser"}, u.Identity())
}
