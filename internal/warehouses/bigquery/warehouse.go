// Package bigquery implements the warehouse ports for Google BigQuery.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"golang.org/x/time/rate"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driven"
	"github.com/datascribe-labs/datascribe-cli/internal/warehouses/sqlbase"
)

// Ensure Warehouse implements the port.
var _ driven.Warehouse = (*Warehouse)(nil)

// Warehouse is an open BigQuery session. Datasets play the role of
// schemas in the output tree.
type Warehouse struct {
	cfg     domain.DatabaseConfig
	client  *bigquery.Client
	limiter *rate.Limiter
}

// Open creates a BigQuery client. A service-account file is used when
// configured; otherwise Application Default Credentials apply.
func Open(ctx context.Context, cfg domain.DatabaseConfig) (*Warehouse, error) {
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	client, err := bigquery.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConnectionFailed, err)
	}
	if cfg.Location != "" {
		client.Location = cfg.Location
	}
	return &Warehouse{cfg: cfg, client: client, limiter: sqlbase.NewLimiter(cfg.QueriesPerSecond)}, nil
}

// Type returns the warehouse type discriminator.
func (w *Warehouse) Type() string { return domain.TypeBigQuery }

// DatabaseName returns the configured name, falling back to the GCP
// project ID.
func (w *Warehouse) DatabaseName() string {
	if w.cfg.Name != "" {
		return w.cfg.Name
	}
	return w.cfg.ProjectID
}

// pinnedDataset returns the configured dataset pin, if any.
func (w *Warehouse) pinnedDataset() string {
	if w.cfg.Schema != "" {
		return w.cfg.Schema
	}
	return w.cfg.DatasetID
}

// Schemas returns the pinned dataset or all datasets of the project.
func (w *Warehouse) Schemas(ctx context.Context) ([]string, error) {
	if pin := w.pinnedDataset(); pin != "" {
		return []string{pin}, nil
	}
	if len(w.cfg.SchemasInclude) > 0 {
		return append([]string(nil), w.cfg.SchemasInclude...), nil
	}

	var datasets []string
	it := w.client.Datasets(ctx)
	for {
		ds, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, ds.DatasetID)
	}
	return datasets, nil
}

// Tables enumerates the tables of a dataset.
func (w *Warehouse) Tables(ctx context.Context, schema string) ([]string, error) {
	var tables []string
	it := w.client.Dataset(schema).Tables(ctx)
	for {
		t, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSchemaEnumeration, err)
		}
		tables = append(tables, t.TableID)
	}
	return tables, nil
}

// TableContext builds the BigQuery capability context.
func (w *Warehouse) TableContext(schema, table string) driven.TableContext {
	return &tableContext{
		client:    w.client,
		projectID: w.cfg.ProjectID,
		dataset:   schema,
		table:     table,
		limiter:   w.limiter,
	}
}

// Check probes connectivity.
func (w *Warehouse) Check(ctx context.Context) (string, error) {
	if pin := w.pinnedDataset(); pin != "" {
		tables, err := w.Tables(ctx, pin)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("connected (%d tables found)", len(tables)), nil
	}
	datasets, err := w.Schemas(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("connected (%d datasets found)", len(datasets)), nil
}

// Close releases the client.
func (w *Warehouse) Close() error { return w.client.Close() }
