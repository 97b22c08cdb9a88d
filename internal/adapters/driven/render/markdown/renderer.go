// Package markdown renders table documentation artifacts as Markdown
// using embedded templates.
package markdown

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/core/ports/driven"
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

// Ensure Renderer implements the port.
var _ driven.Renderer = (*Renderer)(nil)

// Renderer renders TableDoc values through the embedded templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates. Parsing only fails if the
// embedded files are broken, so the error is surfaced at construction.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"join": strings.Join,
	}
	tmpl, err := template.New("markdown").Funcs(funcs).ParseFS(templateFS, "templates/*.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

func (r *Renderer) render(name string, data any) (string, error) {
	var buf strings.Builder
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

// RenderColumns renders the column list artifact.
func (r *Renderer) RenderColumns(doc *domain.TableDoc) (string, error) {
	return r.render("columns.md.tmpl", doc)
}

// previewView is the template model for the preview artifact. Rows are
// flattened into a header plus cell grid so the template stays simple.
type previewView struct {
	Table  string
	Schema string
	Rows   []domain.Row
	Header []string
	Cells  [][]string
}

// RenderPreview renders the sample rows artifact.
func (r *Renderer) RenderPreview(doc *domain.TableDoc) (string, error) {
	header := previewHeader(doc)
	view := previewView{
		Table:  doc.Table,
		Schema: doc.Schema,
		Rows:   doc.Rows,
		Header: header,
		Cells:  previewCells(doc.Rows, header),
	}
	return r.render("preview.md.tmpl", view)
}

// RenderDescription renders the table description artifact.
func (r *Renderer) RenderDescription(doc *domain.TableDoc) (string, error) {
	return r.render("description.md.tmpl", doc)
}

// RenderProfiling renders the table shape artifact.
func (r *Renderer) RenderProfiling(doc *domain.TableDoc) (string, error) {
	return r.render("profiling.md.tmpl", doc)
}

// RenderIndexes renders the structural definition artifact.
func (r *Renderer) RenderIndexes(doc *domain.TableDoc) (string, error) {
	return r.render("indexes.md.tmpl", doc)
}

// previewHeader derives the column order for the preview grid. Catalog
// order wins when the rows actually carry those columns; otherwise the
// keys of the first row are used, sorted for stable output. A preview
// can hold a synthetic row whose keys are not catalog columns (a DDL
// dump standing in for table data), and its keys must drive the grid
// or the content is dropped.
func previewHeader(doc *domain.TableDoc) []string {
	if len(doc.Columns) > 0 && rowsMatchColumns(doc.Rows, doc.Columns) {
		header := make([]string, 0, len(doc.Columns))
		for _, col := range doc.Columns {
			header = append(header, col.Name)
		}
		return header
	}
	if len(doc.Rows) == 0 {
		return nil
	}
	header := make([]string, 0, len(doc.Rows[0]))
	for name := range doc.Rows[0] {
		header = append(header, name)
	}
	sort.Strings(header)
	return header
}

// rowsMatchColumns reports whether the first row shares at least one
// key with the column metadata. Empty previews trivially match.
func rowsMatchColumns(rows []domain.Row, cols []domain.Column) bool {
	if len(rows) == 0 {
		return true
	}
	for _, col := range cols {
		if _, ok := rows[0][col.Name]; ok {
			return true
		}
	}
	return false
}

func previewCells(rows []domain.Row, header []string) [][]string {
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, 0, len(header))
		for _, name := range header {
			line = append(line, formatCell(row[name]))
		}
		cells = append(cells, line)
	}
	return cells
}

// formatCell renders a single value for a Markdown table cell. Pipes
// and newlines would break the grid, so they are escaped or replaced.
func formatCell(value any) string {
	if value == nil {
		return ""
	}
	text := fmt.Sprintf("%v", value)
	text = strings.ReplaceAll(text, "|", "\\|")
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return text
}
