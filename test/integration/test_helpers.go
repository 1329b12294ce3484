//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"blog-api/internal/app"
	"blog-api/internal/config"
	"blog-api/internal/database"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	return &config.Config{
		ServerPort:       "0",
		RequestTimeout:   10 * time.Second,
		DBDriver:         config.DriverPostgres,
		DatabaseURL:      url,
		DBMaxConns:       4,
		DBMinConns:       0,
		JWTSecret:        "test-secret",
		TokenTTL:         time.Hour,
		BcryptCost:       4,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
	}
}

// resetDatabase migrates the test database and empties every table.
func resetDatabase(t *testing.T, cfg *config.Config) {
	t.Helper()

	require.NoError(t, database.MigratePostgres(cfg.DatabaseURL))

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(context.Background(), `TRUNCATE user_posts, posts, users`)
	require.NoError(t, err)
}

func newServerWithConfig(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	resetDatabase(t, cfg)

	application, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	server := httptest.NewServer(application.Handler())
	t.Cleanup(server.Close)
	return server
}

// newAuthedServer starts the API on Postgres with user root registered and
// returns root's token.
func newAuthedServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	server := newServerWithConfig(t, testConfig(t))
	registerUser(t, server, "root", "sekret")
	return server, login(t, server, "root", "sekret")
}

func registerUser(t *testing.T, server *httptest.Server, username string, password string) {
	t.Helper()

	resp := doJSON(t, http.MethodPost, server.URL+"/users", "", map[string]string{
		"username": username,
		"name":     "Name of " + username,
		"password": password,
	})
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func login(t *testing.T, server *httptest.Server, username string, password string) string {
	t.Helper()

	resp := doJSON(t, http.MethodPost, server.URL+"/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.NotEmpty(t, parsed.Token)
	require.Equal(t, username, parsed.Username)

	return parsed.Token
}

func doJSON(t *testing.T, method string, url string, token string, body any) *http.Response {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}
