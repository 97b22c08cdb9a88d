package driving

import "context"

// DatabaseResult summarises one database's sync.
type DatabaseResult struct {
	Name          string
	Type          string
	SchemasSynced int
	TablesSynced  int
	PathsRemoved  int

	// Err is set when the database's sync failed as a whole (connection
	// failure). Per-table and per-schema degradation does not set it.
	Err error
}

// Report aggregates a full sync run.
type Report struct {
	RunID         string
	SchemasSynced int
	TablesSynced  int
	PathsRemoved  int
	Databases     []DatabaseResult
}

// Failed returns the results of databases whose sync failed entirely.
func (r *Report) Failed() []DatabaseResult {
	var failed []DatabaseResult
	for _, db := range r.Databases {
		if db.Err != nil {
			failed = append(failed, db)
		}
	}
	return failed
}

// SyncRunner drives a full metadata sync across all configured
// databases, reconciling the output tree afterwards.
type SyncRunner interface {
	// SyncAll syncs every configured database sequentially. Database
	// failures are isolated and reported in the Report; the returned
	// error covers run-level failures only (e.g. cleanup I/O errors).
	SyncAll(ctx context.Context) (*Report, error)
}
