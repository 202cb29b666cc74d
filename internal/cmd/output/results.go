package output

import (
	"io"

	"github.com/agentstation/redpush"
	"github.com/agentstation/redpush/internal/cmd/table"
	"github.com/agentstation/redpush/pkg/reconciler"
	"github.com/agentstation/redpush/pkg/records"
)

// ActionView is the json/yaml shape of one planned or applied action.
type ActionView struct {
	Action    string   `json:"action" yaml:"action"`
	RedpushID any      `json:"redpush_id,omitempty" yaml:"redpush_id,omitempty"`
	ID        int64    `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	Changed   []string `json:"changed,omitempty" yaml:"changed,omitempty"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// OperationView is the json/yaml shape of a push or archive.
type OperationView struct {
	Operation    string       `json:"operation" yaml:"operation"`
	DryRun       bool         `json:"dry_run" yaml:"dry_run"`
	Destructive  bool         `json:"destructive,omitempty" yaml:"destructive,omitempty"`
	Summary      string       `json:"summary" yaml:"summary"`
	Planned      []ActionView `json:"planned" yaml:"planned"`
	Applied      []ActionView `json:"applied" yaml:"applied"`
	Failed       *ActionView  `json:"failed,omitempty" yaml:"failed,omitempty"`
	NotAttempted int          `json:"not_attempted,omitempty" yaml:"not_attempted,omitempty"`
}

func actionView(a reconciler.Action, id int64) ActionView {
	v := ActionView{Action: string(a.Type), ID: id, Name: a.Name(), Changed: a.Changed}
	if a.HasKey {
		v.RedpushID = a.Key.Value()
	}
	return v
}

// NewOperationView flattens a plan and its result.
func NewOperationView(res *redpush.OperationResult) OperationView {
	view := OperationView{Planned: []ActionView{}, Applied: []ActionView{}}
	if res == nil || res.Plan == nil {
		return view
	}
	view.Operation = string(res.Plan.Operation)
	view.Destructive = res.Plan.Destructive
	view.Summary = res.Plan.Summary().String()
	for _, a := range res.Plan.Actions {
		view.Planned = append(view.Planned, actionView(a, a.RemoteID))
	}
	if r := res.Result; r != nil {
		view.DryRun = r.DryRun
		view.Summary = r.String()
		for _, o := range r.Applied {
			view.Applied = append(view.Applied, actionView(o.Action, o.RemoteID))
		}
		if r.Failed != nil {
			f := actionView(r.Failed.Action, r.Failed.RemoteID)
			if r.Failed.Err != nil {
				f.Error = r.Failed.Err.Error()
			}
			view.Failed = &f
			view.NotAttempted = r.NotAttempted
		}
	}
	return view
}

// FormatOperation writes a push or archive result in the given format.
// Tables show the applied actions, or the plan when nothing was applied.
func FormatOperation(w io.Writer, format string, res *redpush.OperationResult, showUnchanged bool) error {
	formatter := NewFormatter(Format(format))

	switch Format(format) {
	case FormatJSON, FormatYAML:
		return formatter.Format(w, NewOperationView(res))
	}
	if res.Result != nil && !res.Result.DryRun && (len(res.Result.Applied) > 0 || res.Result.Failed != nil) {
		return formatter.Format(w, table.ResultToTableData(res.Result))
	}
	return formatter.Format(w, table.PlanToTableData(res.Plan, showUnchanged))
}

// FormatUsers writes created users in the given format.
func FormatUsers(w io.Writer, format string, users records.Collection) error {
	formatter := NewFormatter(Format(format))

	switch Format(format) {
	case FormatJSON, FormatYAML:
		return formatter.Format(w, users.Value())
	}
	return formatter.Format(w, table.UsersToTableData(users))
}

// FormatDump writes what a dump wrote in the given format.
func FormatDump(w io.Writer, format string, res *redpush.DumpResult) error {
	formatter := NewFormatter(Format(format))

	switch Format(format) {
	case FormatJSON, FormatYAML:
		return formatter.Format(w, struct {
			Queries    int      `json:"queries" yaml:"queries"`
			Dashboards int      `json:"dashboards" yaml:"dashboards"`
			Files      []string `json:"files" yaml:"files"`
		}{res.Queries, res.Dashboards, res.Files})
	}
	return formatter.Format(w, table.FilesToTableData(res.Files))
}
