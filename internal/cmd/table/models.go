// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"strconv"
	"strings"

	"github.com/agentstation/redpush/pkg/reconciler"
	"github.com/agentstation/redpush/pkg/records"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

var actionAlignment = []Align{AlignLeft, AlignRight, AlignRight, AlignLeft, AlignLeft}

// PlanToTableData converts a plan to table format. Unchanged actions are
// listed only when showUnchanged is set.
func PlanToTableData(plan *reconciler.Plan, showUnchanged bool) Data {
	rows := make([][]string, 0, len(plan.Actions))
	for _, a := range plan.Actions {
		if a.Type == reconciler.ActionUnchanged && !showUnchanged {
			continue
		}
		rows = append(rows, []string{
			string(a.Type),
			FormatKey(a),
			FormatID(a.RemoteID),
			a.Name(),
			FormatChanged(a.Changed),
		})
	}
	return Data{
		Headers:         []string{"Action", "Redpush ID", "ID", "Name", "Changed"},
		Rows:            rows,
		ColumnAlignment: actionAlignment,
	}
}

// ResultToTableData converts applied outcomes to table format. The failed
// action, if any, is the last row.
func ResultToTableData(result *reconciler.Result) Data {
	rows := make([][]string, 0, len(result.Applied)+1)
	for _, o := range result.Applied {
		rows = append(rows, []string{string(o.Action.Type), FormatKey(o.Action), FormatID(o.RemoteID), o.Action.Name(), "ok"})
	}
	if f := result.Failed; f != nil {
		msg := "not applied"
		if f.Err != nil {
			msg = f.Err.Error()
		}
		rows = append(rows, []string{string(f.Action.Type), FormatKey(f.Action), FormatID(f.RemoteID), f.Action.Name(), "failed: " + msg})
	}
	return Data{
		Headers:         []string{"Action", "Redpush ID", "ID", "Name", "Status"},
		Rows:            rows,
		ColumnAlignment: actionAlignment,
	}
}

// UsersToTableData converts created users to table format.
func UsersToTableData(users records.Collection) Data {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		id, _ := u.ID()
		email, _ := u.Get("email")
		s, _ := email.(string)
		rows = append(rows, []string{FormatID(id), u.Name(), s})
	}
	return Data{
		Headers:         []string{"ID", "Name", "Email"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft},
	}
}

// FilesToTableData lists written files.
func FilesToTableData(files []string) Data {
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{f})
	}
	return Data{Headers: []string{"File"}, Rows: rows}
}

// FormatKey renders the redpush_id of an action, "-" when absent.
func FormatKey(a reconciler.Action) string {
	if !a.HasKey {
		return "-"
	}
	return a.Key.String()
}

// FormatID renders a remote id, "-" when not assigned.
func FormatID(id int64) string {
	if id <= 0 {
		return "-"
	}
	return strconv.FormatInt(id, 10)
}

// FormatChanged joins changed field names.
func FormatChanged(fields []string) string {
	if len(fields) == 0 {
		return "-"
	}
	return strings.Join(fields, ", ")
}
