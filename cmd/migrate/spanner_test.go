package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDatabasePath(t *testing.T) {
	p, err := parseDatabasePath("projects/test-project/instances/dev-instance/databases/storefront-db")
	require.NoError(t, err)
	assert.Equal(t, databasePath{Project: "test-project", Instance: "dev-instance", Database: "storefront-db"}, p)
	assert.Equal(t, "projects/test-project/instances/dev-instance", p.instanceName())
	assert.Equal(t, "projects/test-project/instances/dev-instance/databases/storefront-db", p.String())

	for _, bad := range []string{"", "storefront-db", "projects/p/instances/i", "projects//instances/i/databases/d", "projects/p/regions/i/databases/d"} {
		_, err := parseDatabasePath(bad)
		assert.Error(t, err, bad)
	}
}

func TestSplitDDLStatements(t *testing.T) {
	content := `-- header
CREATE TABLE a (
  id INT64 NOT NULL,
) PRIMARY KEY (id);

-- index
CREATE INDEX a_idx ON a (id);
`
	stmts := splitDDLStatements(content)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (\nid INT64 NOT NULL,\n) PRIMARY KEY (id)", stmts[0])
	assert.Equal(t, "CREATE INDEX a_idx ON a (id)", stmts[1])
}

func TestShippedMigrationsSplit(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "migrations", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	total := 0
	for _, f := range files {
		content, err := os.ReadFile(f)
		require.NoError(t, err)
		stmts := splitDDLStatements(string(content))
		assert.NotEmpty(t, stmts, f)
		total += len(stmts)
	}
	// six tables, three indexes
	assert.Equal(t, 9, total)
}

func TestHasTable(t *testing.T) {
	ddl := []string{
		"CREATE TABLE products (\n  product_id STRING(64) NOT NULL,\n) PRIMARY KEY (product_id)",
		"CREATE TABLE `schema_migrations` (\n  name STRING(256) NOT NULL,\n) PRIMARY KEY (name)",
		"CREATE INDEX orders_user_status_idx ON orders (user_id, status)",
	}
	assert.True(t, hasTable(ddl, "products"))
	assert.True(t, hasTable(ddl, migrationsTable))
	assert.False(t, hasTable(ddl, "orders"))
	assert.False(t, hasTable(nil, "products"))
}
