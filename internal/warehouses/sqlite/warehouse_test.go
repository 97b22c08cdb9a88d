package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
)

// openTestWarehouse creates a SQLite file with a small fixture schema.
func openTestWarehouse(t *testing.T) *Warehouse {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.db")
	wh, err := Open(context.Background(), domain.DatabaseConfig{
		Type: domain.TypeSQLite,
		Name: "app",
		Path: path,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = wh.Close() })

	ctx := context.Background()
	stmts := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			email TEXT NOT NULL,
			created_at TEXT
		)`,
		`CREATE INDEX idx_users_email ON users (email)`,
		`CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER)`,
		`INSERT INTO users (id, email, created_at) VALUES (1, 'ada@example.com', '2026-01-01')`,
		`INSERT INTO users (id, email, created_at) VALUES (2, 'bob@example.com', NULL)`,
	}
	for _, stmt := range stmts {
		_, err := wh.db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
	return wh
}

func TestWarehouse_Type(t *testing.T) {
	wh := openTestWarehouse(t)

	assert.Equal(t, domain.TypeSQLite, wh.Type())
}

func TestWarehouse_DatabaseName(t *testing.T) {
	wh := openTestWarehouse(t)
	assert.Equal(t, "app", wh.DatabaseName())

	unnamed := &Warehouse{cfg: domain.DatabaseConfig{Path: "/data/shop.db"}}
	assert.Equal(t, "shop", unnamed.DatabaseName())
}

func TestWarehouse_Schemas(t *testing.T) {
	wh := openTestWarehouse(t)

	schemas, err := wh.Schemas(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, schemas)
}

func TestWarehouse_Tables(t *testing.T) {
	wh := openTestWarehouse(t)

	tables, err := wh.Tables(context.Background(), "main")

	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "users"}, tables)
}

func TestWarehouse_Check(t *testing.T) {
	wh := openTestWarehouse(t)

	summary, err := wh.Check(context.Background())

	require.NoError(t, err)
	assert.Contains(t, summary, "2 tables")
}

func TestTableContext_Columns(t *testing.T) {
	wh := openTestWarehouse(t)
	tc := wh.TableContext("main", "users")

	cols, err := tc.Columns(context.Background())

	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, "email", cols[1].Name)
	assert.Equal(t, "text NOT NULL", cols[1].Type)
	assert.False(t, cols[1].Nullable)
	assert.True(t, cols[2].Nullable)
}

func TestTableContext_Preview(t *testing.T) {
	wh := openTestWarehouse(t)
	tc := wh.TableContext("main", "users")

	rows, err := tc.Preview(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ada@example.com", rows[0]["email"])
	assert.Nil(t, rows[1]["created_at"])
}

func TestTableContext_PreviewRespectsLimit(t *testing.T) {
	wh := openTestWarehouse(t)
	tc := wh.TableContext("main", "users")

	rows, err := tc.Preview(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestTableContext_RowCount(t *testing.T) {
	wh := openTestWarehouse(t)
	tc := wh.TableContext("main", "users")

	count, err := tc.RowCount(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestTableContext_ColumnCount(t *testing.T) {
	wh := openTestWarehouse(t)
	tc := wh.TableContext("main", "users")

	count, err := tc.ColumnCount(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestTableContext_Indexes(t *testing.T) {
	wh := openTestWarehouse(t)
	tc := wh.TableContext("main", "users")

	ddl := tc.Indexes(context.Background())

	assert.Contains(t, ddl, "CREATE TABLE users")
	assert.Contains(t, ddl, "CREATE INDEX idx_users_email")
}

func TestTableContext_NeverFailCapabilities(t *testing.T) {
	wh := openTestWarehouse(t)
	tc := wh.TableContext("main", "users")
	ctx := context.Background()

	assert.Empty(t, tc.PartitionColumns(ctx))
	assert.Empty(t, tc.Description(ctx))
}
