package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Fatalf("unexpected file in migrations: %s", name)
		}
	}
	require.NotEmpty(t, ups)
	require.Equal(t, ups, downs)
}

func TestMigrationsCreateTables(t *testing.T) {
	for file, table := range map[string]string{
		"migrations/000001_create_cart_snapshots.up.sql":  "cart_snapshots",
		"migrations/000002_create_event_sequences.up.sql": "event_sequences",
	} {
		raw, err := fs.ReadFile(migrationsFS, file)
		require.NoError(t, err)
		require.Contains(t, string(raw), "CREATE TABLE IF NOT EXISTS "+table)
	}
}
