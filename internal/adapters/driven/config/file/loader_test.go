package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datascribe.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeConfig(t, `
output_root = "docs/databases"

[[databases]]
type = "duckdb"
name = "shop"
path = "shop.duckdb"
tables_exclude = ["*.tmp_*"]
preview_rows = 5

[[databases]]
type = "clickhouse"
name = "events"
host = "ch.internal"
port = 9440
database = "default"
user = "reader"
password = "secret"
secure = true
queries_per_second = 2.5
accessors = ["columns", "indexes"]
`)

	cfg, err := NewLoader(path).Load()

	require.NoError(t, err)
	assert.Equal(t, "docs/databases", cfg.OutputRoot)
	require.Len(t, cfg.Databases, 2)

	duck := cfg.Databases[0]
	assert.Equal(t, domain.TypeDuckDB, duck.Type)
	assert.Equal(t, "shop", duck.Name)
	assert.Equal(t, "shop.duckdb", duck.Path)
	assert.Equal(t, []string{"*.tmp_*"}, duck.TablesExclude)
	assert.Equal(t, 5, duck.PreviewRows)

	ch := cfg.Databases[1]
	assert.Equal(t, domain.TypeClickHouse, ch.Type)
	assert.Equal(t, "ch.internal", ch.Host)
	assert.Equal(t, 9440, ch.Port)
	assert.True(t, ch.Secure)
	assert.InDelta(t, 2.5, ch.QueriesPerSecond, 0.001)
	assert.Equal(t, []string{"columns", "indexes"}, ch.Accessors)
}

func TestLoader_Load_SSHTunnel(t *testing.T) {
	path := writeConfig(t, `
[[databases]]
type = "redshift"
name = "dw"
host = "dw.cluster.internal"
database = "analytics"
user = "reader"

[databases.ssh_tunnel]
host = "bastion.internal"
port = 22
user = "tunnel"
private_key_path = "~/.ssh/id_ed25519"
`)

	cfg, err := NewLoader(path).Load()

	require.NoError(t, err)
	require.Len(t, cfg.Databases, 1)
	tunnel := cfg.Databases[0].SSHTunnel
	require.NotNil(t, tunnel)
	assert.Equal(t, "bastion.internal", tunnel.Host)
	assert.Equal(t, 22, tunnel.Port)
	assert.Equal(t, "tunnel", tunnel.User)
	assert.Equal(t, "~/.ssh/id_ed25519", tunnel.PrivateKeyPath)
}

func TestLoader_Load_DefaultsOutputRoot(t *testing.T) {
	path := writeConfig(t, `
[[databases]]
type = "sqlite"
name = "app"
path = "app.db"
`)

	cfg, err := NewLoader(path).Load()

	require.NoError(t, err)
	assert.Equal(t, "databases", cfg.OutputRoot)
}

func TestLoader_Load_MissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope.toml")).Load()

	require.Error(t, err)
}

func TestLoader_Load_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "output_root = [broken")

	_, err := NewLoader(path).Load()

	require.Error(t, err)
}

func TestLoader_Load_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no databases", `output_root = "out"`},
		{"unknown type", "[[databases]]\ntype = \"oracle\"\nname = \"x\""},
		{"duckdb without path", "[[databases]]\ntype = \"duckdb\"\nname = \"x\""},
		{"clickhouse without host", "[[databases]]\ntype = \"clickhouse\"\nname = \"x\""},
		{"bigquery without project", "[[databases]]\ntype = \"bigquery\"\nname = \"x\""},
		{"unknown accessor", "[[databases]]\ntype = \"sqlite\"\nname = \"x\"\npath = \"x.db\"\naccessors = [\"bogus\"]"},
		{"negative preview rows", "[[databases]]\ntype = \"sqlite\"\nname = \"x\"\npath = \"x.db\"\npreview_rows = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)

			_, err := NewLoader(path).Load()

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestNewLoader_DefaultPath(t *testing.T) {
	assert.Equal(t, DefaultPath, NewLoader("").Path())
	assert.Equal(t, "custom.toml", NewLoader("custom.toml").Path())
}
