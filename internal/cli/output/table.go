package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
)

// Tabular is implemented by values with their own table layout.
type Tabular interface {
	Table() *Table
}

// TableFormatter formats data as aligned columns.
type TableFormatter struct {
	NoHeaders bool
}

func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case nil:
		return nil
	case *Table:
		return v.RenderWithOptions(w, f.NoHeaders)
	case Tabular:
		return v.Table().RenderWithOptions(w, f.NoHeaders)
	case map[string]string:
		t := &Table{Headers: []string{"KEY", "VALUE"}}
		for _, k := range sortedKeys(v) {
			t.AddRow(k, cell(v[k]))
		}
		return t.RenderWithOptions(w, f.NoHeaders)
	case map[string]any:
		t := &Table{Headers: []string{"KEY", "VALUE"}}
		for _, k := range sortedKeys(v) {
			t.AddRow(k, cell(v[k]))
		}
		return t.RenderWithOptions(w, f.NoHeaders)
	case []string:
		t := &Table{Headers: []string{"KEY"}}
		for _, s := range v {
			t.AddRow(s)
		}
		return t.RenderWithOptions(w, f.NoHeaders)
	default:
		_, err := fmt.Fprintln(w, cell(v))
		return err
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// cell renders one value. Empty strings show as "-".
func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		if x == "" {
			return "-"
		}
		return x
	case float64:
		return fmt.Sprintf("%g", x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table with headers.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table, optionally without the header row.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		if _, err := fmt.Fprintln(tw, strings.Join(t.Headers, "\t")); err != nil {
			return err
		}
	}
	for _, row := range t.Rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}
