package accessors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driven"
)

// stubRenderer records the last doc per artifact kind and returns fixed
// bodies, or a configured error.
type stubRenderer struct {
	err     error
	lastDoc *domain.TableDoc
}

func (r *stubRenderer) render(doc *domain.TableDoc, body string) (string, error) {
	r.lastDoc = doc
	if r.err != nil {
		return "", r.err
	}
	return body, nil
}

func (r *stubRenderer) RenderColumns(doc *domain.TableDoc) (string, error) {
	return r.render(doc, "columns body")
}

func (r *stubRenderer) RenderPreview(doc *domain.TableDoc) (string, error) {
	return r.render(doc, "preview body")
}

func (r *stubRenderer) RenderDescription(doc *domain.TableDoc) (string, error) {
	return r.render(doc, "description body")
}

func (r *stubRenderer) RenderProfiling(doc *domain.TableDoc) (string, error) {
	return r.render(doc, "profiling body")
}

func (r *stubRenderer) RenderIndexes(doc *domain.TableDoc) (string, error) {
	return r.render(doc, "indexes body")
}

// stubContext serves static metadata with optional per-capability errors.
type stubContext struct {
	columns    []domain.Column
	columnsErr error
	rows       []domain.Row
	previewErr error
	rowCount   int64
	rowCntErr  error
	partitions []string
	descr      string
	indexes    string
}

var _ driven.TableContext = (*stubContext)(nil)

func (c *stubContext) Columns(_ context.Context) ([]domain.Column, error) {
	return c.columns, c.columnsErr
}

func (c *stubContext) Preview(_ context.Context, limit int) ([]domain.Row, error) {
	if c.previewErr != nil {
		return nil, c.previewErr
	}
	if limit < len(c.rows) {
		return c.rows[:limit], nil
	}
	return c.rows, nil
}

func (c *stubContext) RowCount(_ context.Context) (int64, error) {
	return c.rowCount, c.rowCntErr
}

func (c *stubContext) ColumnCount(_ context.Context) (int, error) {
	if c.columnsErr != nil {
		return 0, c.columnsErr
	}
	return len(c.columns), nil
}

func (c *stubContext) PartitionColumns(_ context.Context) []string { return c.partitions }
func (c *stubContext) Description(_ context.Context) string        { return c.descr }
func (c *stubContext) Indexes(_ context.Context) string            { return c.indexes }

func TestColumnsAccessor_Generate(t *testing.T) {
	renderer := &stubRenderer{}
	tc := &stubContext{
		columns: []domain.Column{
			{Name: "id", Type: "bigint NOT NULL"},
			{Name: "name", Type: "varchar", Nullable: true},
		},
		partitions: []string{"id"},
	}
	acc := NewColumnsAccessor(renderer)

	out := acc.Generate(context.Background(), tc, "main", "users")

	assert.Equal(t, "columns body", out)
	require.NotNil(t, renderer.lastDoc)
	assert.Equal(t, "users", renderer.lastDoc.Table)
	assert.Equal(t, "main", renderer.lastDoc.Schema)
	assert.Len(t, renderer.lastDoc.Columns, 2)
	assert.Equal(t, 2, renderer.lastDoc.ColumnCount)
	assert.Equal(t, []string{"id"}, renderer.lastDoc.PartitionColumns)
}

func TestColumnsAccessor_RetrievalErrorDegrades(t *testing.T) {
	acc := NewColumnsAccessor(&stubRenderer{})
	tc := &stubContext{columnsErr: errors.New("catalog offline")}

	out := acc.Generate(context.Background(), tc, "main", "users")

	assert.Equal(t, "# users\n\nError generating content: catalog offline\n", out)
}

func TestColumnsAccessor_RenderErrorDegrades(t *testing.T) {
	acc := NewColumnsAccessor(&stubRenderer{err: errors.New("template broken")})
	tc := &stubContext{columns: []domain.Column{{Name: "id"}}}

	out := acc.Generate(context.Background(), tc, "main", "users")

	assert.Contains(t, out, "Error generating content: template broken")
}

func TestPreviewAccessor_Generate(t *testing.T) {
	renderer := &stubRenderer{}
	tc := &stubContext{
		columns: []domain.Column{{Name: "id"}},
		rows:    []domain.Row{{"id": 1}, {"id": 2}, {"id": 3}},
	}
	acc := NewPreviewAccessor(renderer, 2)

	out := acc.Generate(context.Background(), tc, "main", "users")

	assert.Equal(t, "preview body", out)
	assert.Len(t, renderer.lastDoc.Rows, 2)
}

func TestPreviewAccessor_RetrievalErrorDegrades(t *testing.T) {
	acc := NewPreviewAccessor(&stubRenderer{}, 10)
	tc := &stubContext{previewErr: errors.New("read not allowed")}

	out := acc.Generate(context.Background(), tc, "main", "events")

	assert.Equal(t, "# events\n\nError generating content: read not allowed\n", out)
}

func TestDescriptionAccessor_TruncatesLongComments(t *testing.T) {
	renderer := &stubRenderer{}
	long := make([]byte, maxDescriptionLen*2)
	for i := range long {
		long[i] = 'a'
	}
	tc := &stubContext{descr: string(long)}
	acc := NewDescriptionAccessor(renderer)

	out := acc.Generate(context.Background(), tc, "main", "users")

	assert.Equal(t, "description body", out)
	assert.Len(t, renderer.lastDoc.Description, maxDescriptionLen)
}

func TestProfilingAccessor_Generate(t *testing.T) {
	renderer := &stubRenderer{}
	tc := &stubContext{
		columns:    []domain.Column{{Name: "id"}, {Name: "ts"}},
		rowCount:   42,
		partitions: []string{"ts"},
	}
	acc := NewProfilingAccessor(renderer)

	out := acc.Generate(context.Background(), tc, "main", "events")

	assert.Equal(t, "profiling body", out)
	assert.Equal(t, int64(42), renderer.lastDoc.RowCount)
	assert.Equal(t, 2, renderer.lastDoc.ColumnCount)
	assert.Equal(t, []string{"ts"}, renderer.lastDoc.PartitionColumns)
}

func TestProfilingAccessor_RowCountErrorDegrades(t *testing.T) {
	acc := NewProfilingAccessor(&stubRenderer{})
	tc := &stubContext{rowCntErr: errors.New("timeout")}

	out := acc.Generate(context.Background(), tc, "main", "events")

	assert.Contains(t, out, "Error generating content: timeout")
}

func TestIndexesAccessor_Generate(t *testing.T) {
	renderer := &stubRenderer{}
	tc := &stubContext{indexes: "CREATE TABLE t (id INTEGER)"}
	acc := NewIndexesAccessor(renderer)

	out := acc.Generate(context.Background(), tc, "main", "t")

	assert.Equal(t, "indexes body", out)
	assert.Equal(t, "CREATE TABLE t (id INTEGER)", renderer.lastDoc.Indexes)
}

func TestFilenames(t *testing.T) {
	renderer := &stubRenderer{}

	assert.Equal(t, "columns.md", NewColumnsAccessor(renderer).Filename())
	assert.Equal(t, "preview.md", NewPreviewAccessor(renderer, 10).Filename())
	assert.Equal(t, "description.md", NewDescriptionAccessor(renderer).Filename())
	assert.Equal(t, "profiling.md", NewProfilingAccessor(renderer).Filename())
	assert.Equal(t, "indexes.md", NewIndexesAccessor(renderer).Filename())
}

func TestForConfig_DefaultSelection(t *testing.T) {
	accs := ForConfig(domain.DatabaseConfig{Type: domain.TypeClickHouse}, &stubRenderer{})

	var names []string
	for _, acc := range accs {
		names = append(names, acc.Filename())
	}
	assert.Equal(t, []string{"columns.md", "preview.md", "description.md", "profiling.md", "indexes.md"}, names)
}

func TestForConfig_IndexesOnlyWhereSupported(t *testing.T) {
	accs := ForConfig(domain.DatabaseConfig{Type: domain.TypeBigQuery}, &stubRenderer{})

	for _, acc := range accs {
		assert.NotEqual(t, "indexes.md", acc.Filename())
	}
	assert.Len(t, accs, 4)
}

func TestForConfig_ExplicitSelection(t *testing.T) {
	cfg := domain.DatabaseConfig{
		Type:      domain.TypeDuckDB,
		Accessors: []string{domain.AccessorColumns, domain.AccessorPreview},
	}

	accs := ForConfig(cfg, &stubRenderer{})

	require.Len(t, accs, 2)
	assert.Equal(t, "columns.md", accs[0].Filename())
	assert.Equal(t, "preview.md", accs[1].Filename())
}

func TestForConfig_PreviewRowsDefault(t *testing.T) {
	accs := ForConfig(domain.DatabaseConfig{
		Type:      domain.TypeDuckDB,
		Accessors: []string{domain.AccessorPreview},
	}, &stubRenderer{})

	require.Len(t, accs, 1)
	preview, ok := accs[0].(*PreviewAccessor)
	require.True(t, ok)
	assert.Equal(t, DefaultPreviewRows, preview.NumRows())
}

func TestForConfig_PreviewRowsOverride(t *testing.T) {
	accs := ForConfig(domain.DatabaseConfig{
		Type:        domain.TypeDuckDB,
		Accessors:   []string{domain.AccessorPreview},
		PreviewRows: 3,
	}, &stubRenderer{})

	require.Len(t, accs, 1)
	assert.Equal(t, 3, accs[0].(*PreviewAccessor).NumRows())
}
