package differ

import (
	"fmt"
	"html/template"
	"io"

	"github.com/pmezard/go-difflib/difflib"
)

// Row classes of the side-by-side table.
const (
	ClassEqual  = ""
	ClassAdd    = "add"
	ClassDelete = "del"
	ClassChange = "chg"
)

// Cell is one side of a table row. A zero Num means the side is blank.
type Cell struct {
	Num   int
	Text  string
	Class string
}

// Row is one line of the side-by-side table.
type Row struct {
	Left  Cell
	Right Cell
	// Break marks a gap between context groups.
	Break bool
}

// SideBySide aligns both sides into table rows. A negative context shows
// whole files.
func SideBySide(from, to []string, context int) []Row {
	a, b := trimmed(from), trimmed(to)
	m := difflib.NewMatcher(a, b)

	var groups [][]difflib.OpCode
	if context < 0 {
		groups = [][]difflib.OpCode{m.GetOpCodes()}
	} else {
		groups = m.GetGroupedOpCodes(context)
	}

	var rows []Row
	for gi, group := range groups {
		if gi > 0 {
			rows = append(rows, Row{Break: true})
		}
		for _, op := range group {
			rows = append(rows, opRows(a, b, op)...)
		}
	}
	return rows
}

func opRows(a, b []string, op difflib.OpCode) []Row {
	var rows []Row
	switch op.Tag {
	case 'e':
		for i, j := op.I1, op.J1; i < op.I2; i, j = i+1, j+1 {
			rows = append(rows, Row{
				Left:  Cell{Num: i + 1, Text: a[i]},
				Right: Cell{Num: j + 1, Text: b[j]},
			})
		}
	case 'd':
		for i := op.I1; i < op.I2; i++ {
			rows = append(rows, Row{Left: Cell{Num: i + 1, Text: a[i], Class: ClassDelete}})
		}
	case 'i':
		for j := op.J1; j < op.J2; j++ {
			rows = append(rows, Row{Right: Cell{Num: j + 1, Text: b[j], Class: ClassAdd}})
		}
	case 'r':
		n := max(op.I2-op.I1, op.J2-op.J1)
		for k := 0; k < n; k++ {
			var row Row
			if i := op.I1 + k; i < op.I2 {
				row.Left = Cell{Num: i + 1, Text: a[i], Class: ClassChange}
			}
			if j := op.J1 + k; j < op.J2 {
				row.Right = Cell{Num: j + 1, Text: b[j], Class: ClassChange}
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// RenderHTML writes a complete HTML document with a side-by-side table of
// both sides and a legend.
func RenderHTML(w io.Writer, from, to []string, opts ...Option) error {
	o := newOptions(opts...)
	data := struct {
		Title string
		From  string
		To    string
		Rows  []Row
	}{
		Title: o.title,
		From:  o.fromLabel,
		To:    o.toLabel,
		Rows:  SideBySide(from, to, o.contextOr(-1)),
	}
	if err := htmlTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering html diff: %w", err)
	}
	return nil
}

var htmlTemplate = template.Must(template.New("diff").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style type="text/css">
  table.diff { font-family: Courier, monospace; border: medium; border-collapse: collapse; }
  table.diff td { padding: 0 4px; white-space: pre; vertical-align: top; }
  table.diff td.num { color: #888; text-align: right; border-right: 1px solid #ccc; }
  .add { background-color: #aaffaa; }
  .chg { background-color: #ffff77; }
  .del { background-color: #ffaaaa; }
  tr.break td { border-top: 1px dashed #ccc; height: 4px; }
</style>
</head>
<body>
<table class="diff" summary="Side by side differences">
<thead><tr><th></th><th>{{.From}}</th><th></th><th>{{.To}}</th></tr></thead>
<tbody>
{{- range .Rows}}
{{- if .Break}}
<tr class="break"><td colspan="4"></td></tr>
{{- else}}
<tr>{{template "cell" .Left}}{{template "cell" .Right}}</tr>
{{- end}}
{{- end}}
</tbody>
</table>
<table class="diff" summary="Legends">
<tr><th>Legend</th></tr>
<tr><td class="add">Added</td></tr>
<tr><td class="chg">Changed</td></tr>
<tr><td class="del">Deleted</td></tr>
</table>
</body>
</html>
{{define "cell"}}<td class="num">{{if .Num}}{{.Num}}{{end}}</td><td{{if .Class}} class="{{.Class}}"{{end}}>{{.Text}}</td>{{end}}`))
