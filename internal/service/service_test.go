package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"blog-api/internal/event"
	"blog-api/internal/model"
	"blog-api/internal/repository/memory"
	"blog-api/pkg/apierror"
)

type fixture struct {
	store  *memory.Store
	hasher BcryptHasher
	tokens *TokenService
	users  *UserService
	auth   *AuthService
	blogs  *BlogService
	events *event.InMemoryBus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	hasher := NewBcryptHasher(bcrypt.MinCost)
	tokens := NewTokenService("test-secret", time.Hour)
	bus := event.NewBus()

	return &fixture{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		users:  NewUserService(store, hasher),
		auth:   NewAuthService(store.Users(), hasher, tokens),
		blogs:  NewBlogService(store, bus),
		events: bus,
	}
}

func (f *fixture) register(t *testing.T, username string) *model.Identity {
	t.Helper()
	u, err := f.users.Register(context.Background(), model.RegisterRequest{
		Username: username,
		Name:     "Name of " + username,
		Password: "sekret",
	})
	require.NoError(t, err)
	id := u.Identity()
	return &id
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

// requireAPIError asserts err is an *apierror.APIError with the given status.
func requireAPIError(t *testing.T, err error, status int) *apierror.APIError {
	t.Helper()
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.HTTPStatus, apiErr.Error())
	return apiErr
}
