package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_EmbeddedInOrder(t *testing.T) {
	names, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"00001_accounts.sql", "00002_relationships.sql", "00003_rooms.sql"}, names)
}

func TestMigrations_HaveUpAndDown(t *testing.T) {
	names, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)

	for _, name := range names {
		body, err := fs.ReadFile(Migrations, name)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(body), "-- +goose Up"), name)
		assert.Contains(t, string(body), "-- +goose Down", name)
	}
}
