//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"blog-api/internal/database"
	"blog-api/internal/repository"
	"blog-api/internal/repository/repositorytest"
)

func TestStoreConformance(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	require.NoError(t, database.MigratePostgres(url))

	pool, err := database.OpenPostgres(ctx, url, 4, 0)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repositorytest.Run(t, func(t *testing.T) repository.Store {
		_, err := pool.Exec(ctx, `TRUNCATE user_posts, posts, users`)
		require.NoError(t, err)
		return New(pool)
	})
}
