package domain

// Warehouse type discriminators. Each value selects a warehouse adapter
// at connection time.
const (
	TypeDuckDB     = "duckdb"
	TypeSQLite     = "sqlite"
	TypeClickHouse = "clickhouse"
	TypeRedshift   = "redshift"
	TypeBigQuery   = "bigquery"
)

// Artifact kinds a database can select. An empty selection means all
// kinds supported by the warehouse family.
const (
	AccessorColumns     = "columns"
	AccessorPreview     = "preview"
	AccessorDescription = "description"
	AccessorProfiling   = "profiling"
	AccessorIndexes     = "indexes"
)

// SSHTunnelConfig describes an SSH tunnel through which a warehouse
// connection is established (Redshift behind a bastion host).
type SSHTunnelConfig struct {
	Host                 string `toml:"host"`
	Port                 int    `toml:"port"`
	User                 string `toml:"user"`
	PrivateKeyPath       string `toml:"private_key_path"`
	PrivateKeyPassphrase string `toml:"private_key_passphrase"`
}

// DatabaseConfig describes one configured database. The Type field
// discriminates which connection fields apply; validation happens at
// config load, the core treats this as an opaque, already-valid input.
type DatabaseConfig struct {
	Type string `toml:"type"`
	Name string `toml:"name"`

	// File-backed families (duckdb, sqlite).
	Path string `toml:"path"`

	// Network families (clickhouse, redshift).
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Secure   bool   `toml:"secure"`
	SSLMode  string `toml:"sslmode"`

	// BigQuery.
	ProjectID       string `toml:"project_id"`
	DatasetID       string `toml:"dataset_id"`
	CredentialsPath string `toml:"credentials_path"`
	Location        string `toml:"location"`

	// Schema resolution: a pinned schema or an explicit include-list.
	// When either is set, exactly that set is synced; otherwise the
	// warehouse is asked for all user-visible schemas minus its system
	// deny-list.
	Schema         string   `toml:"schema"`
	SchemasInclude []string `toml:"schemas_include"`

	// Table filters, glob patterns over "schema.table".
	TablesInclude []string `toml:"tables_include"`
	TablesExclude []string `toml:"tables_exclude"`

	// Accessors selects which artifact kinds to render. Empty = all
	// supported by the family.
	Accessors []string `toml:"accessors"`

	// PreviewRows bounds the preview artifact. Zero = default (10).
	PreviewRows int `toml:"preview_rows"`

	// QueriesPerSecond paces metadata queries against this warehouse.
	// Zero = unlimited.
	QueriesPerSecond float64 `toml:"queries_per_second"`

	SSHTunnel *SSHTunnelConfig `toml:"ssh_tunnel"`
}

// TypeDir returns the on-disk directory name for this database's
// warehouse type (e.g. "type=duckdb").
func (c DatabaseConfig) TypeDir() string {
	return "type=" + c.Type
}

// Config is the project configuration supplied by the configuration
// collaborator.
type Config struct {
	// OutputRoot is the documentation tree root. Defaults to "databases".
	OutputRoot string `toml:"output_root"`

	Databases []DatabaseConfig `toml:"databases"`
}

// ActiveTypeDirs returns the set of "type=<x>" directory names that are
// still configured, the input to database-type cleanup.
func (c *Config) ActiveTypeDirs() map[string]struct{} {
	active := make(map[string]struct{}, len(c.Databases))
	for _, db := range c.Databases {
		active[db.TypeDir()] = struct{}{}
	}
	return active
}
