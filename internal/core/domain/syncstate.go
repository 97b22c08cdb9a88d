package domain

// SyncState is the per-database ledger of schemas and tables touched
// during one sync run. It is created empty when a database's sync
// starts, mutated only by the sync runner, read by cleanup afterwards,
// and discarded at the end of the run. The on-disk tree is the only
// persistent record between runs.
//
// SyncState is not safe for concurrent writers.
type SyncState struct {
	// RootPath is the output subtree root for this database
	// (e.g. out/type=duckdb/database=mydb).
	RootPath string

	// SyncedSchemas holds every schema name touched this run.
	SyncedSchemas map[string]struct{}

	// SyncedTables maps schema name to the set of table names touched
	// this run.
	SyncedTables map[string]map[string]struct{}

	// SchemasSynced counts AddSchema calls. Callers must not add the
	// same schema twice; the counter tracks add operations, not distinct
	// names.
	SchemasSynced int

	// TablesSynced counts AddTable calls.
	TablesSynced int
}

// NewSyncState creates an empty ledger rooted at the given path.
func NewSyncState(rootPath string) *SyncState {
	return &SyncState{
		RootPath:      rootPath,
		SyncedSchemas: make(map[string]struct{}),
		SyncedTables:  make(map[string]map[string]struct{}),
	}
}

// AddTable records that a table was synced. The table's schema is
// recorded implicitly, without bumping the schema counter.
func (s *SyncState) AddTable(schema, table string) {
	s.SyncedSchemas[schema] = struct{}{}
	if s.SyncedTables[schema] == nil {
		s.SyncedTables[schema] = make(map[string]struct{})
	}
	s.SyncedTables[schema][table] = struct{}{}
	s.TablesSynced++
}

// AddSchema records that a schema was synced, even if it has no tables.
func (s *SyncState) AddSchema(schema string) {
	s.SyncedSchemas[schema] = struct{}{}
	s.SchemasSynced++
}

// HasSchema reports whether a schema was recorded this run.
func (s *SyncState) HasSchema(schema string) bool {
	_, ok := s.SyncedSchemas[schema]
	return ok
}

// HasTable reports whether a table was recorded under a schema this run.
func (s *SyncState) HasTable(schema, table string) bool {
	_, ok := s.SyncedTables[schema][table]
	return ok
}
