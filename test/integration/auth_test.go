//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthFlowAndProtectedEndpoints(t *testing.T) {
	server, token := newAuthedServer(t)

	anonymous := doJSON(t, http.MethodPost, server.URL+"/posts", "", map[string]string{"title": "t", "url": "u"})
	t.Cleanup(func() { _ = anonymous.Body.Close() })
	require.Equal(t, http.StatusUnauthorized, anonymous.StatusCode)

	authed := doJSON(t, http.MethodPost, server.URL+"/posts", token, map[string]string{"title": "t", "url": "u"})
	t.Cleanup(func() { _ = authed.Body.Close() })
	require.Equal(t, http.StatusCreated, authed.StatusCode)

	wrong := doJSON(t, http.MethodPost, server.URL+"/login", "", map[string]string{"username": "root", "password": "nope"})
	t.Cleanup(func() { _ = wrong.Body.Close() })
	require.Equal(t, http.StatusUnauthorized, wrong.StatusCode)
}

func TestDuplicateUsernameIsRejected(t *testing.T) {
	server, _ := newAuthedServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/users", "", map[string]string{"username": "root", "password": "other"})
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
