// Package output renders command results as tables, JSON or YAML.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/redpush/internal/cmd/table"
	"github.com/agentstation/redpush/pkg/records"
)

// Format is an output format selected with --format.
type Format string

const (
	// FormatTable renders aligned columns.
	FormatTable Format = "table"
	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"
	// FormatYAML renders block YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value. The empty string means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml", s)
	}
}

// Structured reports whether f is a machine readable format.
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}

// Formatter writes one value in a given format.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(io.Writer, any) error

// Format calls f.
func (f FormatterFunc) Format(w io.Writer, data any) error {
	return f(w, data)
}

// NewFormatter returns the formatter for format. Unknown formats render
// tables.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return FormatterFunc(writeJSON)
	case FormatYAML:
		return FormatterFunc(writeYAML)
	default:
		return FormatterFunc(writeTable)
	}
}

func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// writeYAML keeps multi-line strings (SQL mostly) as literal blocks.
func writeYAML(w io.Writer, data any) error {
	if r, ok := data.(*records.Record); ok {
		data = r.MapSlice()
	}
	out, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
		yaml.UseLiteralStyleIfMultiline(true),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// writeTable renders table.Data as is. Any other value is shown as a
// Property/Value table of its JSON fields, in field order.
func writeTable(w io.Writer, data any) error {
	switch v := data.(type) {
	case table.Data:
		return render(w, v)
	case *table.Data:
		return render(w, *v)
	}
	props, err := properties(data)
	if err != nil {
		return err
	}
	return render(w, props)
}

func properties(data any) (table.Data, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return table.Data{}, err
	}
	rec := records.New()
	if err := json.Unmarshal(raw, rec); err != nil {
		// not an object: print the JSON itself
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return table.Data{}, err
		}
		return table.Data{Headers: []string{"Value"}, Rows: [][]string{{buf.String()}}}, nil
	}

	title := cases.Title(language.English)
	props := table.Data{
		Headers:         []string{"Property", "Value"},
		ColumnAlignment: []table.Align{table.AlignLeft, table.AlignLeft},
	}
	for _, f := range rec.Fields() {
		props.Rows = append(props.Rows, []string{
			title.String(strings.ReplaceAll(f.Key, "_", " ")),
			fmt.Sprint(f.Value),
		})
	}
	return props, nil
}

func render(w io.Writer, data table.Data) error {
	cfg := tablewriter.Config{}
	if len(data.ColumnAlignment) > 0 {
		align := make([]tw.Align, len(data.ColumnAlignment))
		for i, a := range data.ColumnAlignment {
			align[i] = twAlign(a)
		}
		cfg.Header.Alignment = tw.CellAlignment{PerColumn: align}
		cfg.Row.Alignment = tw.CellAlignment{PerColumn: align}
	}

	t := tablewriter.NewTable(w, tablewriter.WithConfig(cfg))
	if len(data.Headers) > 0 {
		t.Header(toAny(data.Headers)...)
	}
	for _, row := range data.Rows {
		if err := t.Append(toAny(row)...); err != nil {
			return err
		}
	}
	return t.Render()
}

func twAlign(a table.Align) tw.Align {
	switch a {
	case table.AlignLeft:
		return tw.AlignLeft
	case table.AlignCenter:
		return tw.AlignCenter
	case table.AlignRight:
		return tw.AlignRight
	default:
		return tw.Skip
	}
}

func toAny(cells []string) []any {
	out := make([]any, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
