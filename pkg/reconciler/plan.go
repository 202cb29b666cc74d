package reconciler

import (
	"fmt"
	"strings"

	"github.com/agentstation/redpush/pkg/records"
)

// Operation names the kind of plan.
type Operation string

const (
	// OperationPush creates and updates remote records from local ones.
	OperationPush Operation = "push"
	// OperationArchive archives remote records missing locally.
	OperationArchive Operation = "archive"
)

// ActionType is the decision taken for a single record.
type ActionType string

const (
	// ActionCreate creates a new remote record.
	ActionCreate ActionType = "create"
	// ActionUpdate updates the matched remote record.
	ActionUpdate ActionType = "update"
	// ActionUnchanged means the remote already holds every local value.
	ActionUnchanged ActionType = "unchanged"
	// ActionArchive archives a remote record with no local match.
	ActionArchive ActionType = "archive"
	// ActionSkip marks a remote record without redpush_id; it is never archived.
	ActionSkip ActionType = "skip"
	// ActionReintroduced marks an archived remote record that is present locally again.
	ActionReintroduced ActionType = "reintroduced"
)

// Mutates reports whether the action issues a remote write.
func (t ActionType) Mutates() bool {
	switch t {
	case ActionCreate, ActionUpdate, ActionArchive:
		return true
	}
	return false
}

// Action is one planned step.
type Action struct {
	Type     ActionType
	Key      records.Key
	HasKey   bool
	RemoteID int64

	Local  *records.Record // local definition, nil for archive-side actions
	Remote *records.Record // matched remote record, nil for creates

	// Payload is what gets sent for create and update.
	Payload *records.Record

	// Changed lists the local fields whose value differs remotely (updates).
	Changed []string
}

// Label describes the record targeted by the action.
func (a Action) Label() string {
	var parts []string
	if a.HasKey {
		parts = append(parts, "redpush_id="+a.Key.String())
	}
	if a.RemoteID > 0 {
		parts = append(parts, fmt.Sprintf("id=%d", a.RemoteID))
	}
	if name := a.Name(); name != "" {
		parts = append(parts, fmt.Sprintf("name=%q", name))
	}
	return strings.Join(parts, " ")
}

// Name returns the best known display name.
func (a Action) Name() string {
	if a.Local != nil && a.Local.Name() != "" {
		return a.Local.Name()
	}
	return a.Remote.Name()
}

// Plan is the ordered list of actions produced for one operation.
type Plan struct {
	Operation Operation
	Resource  string
	Actions   []Action

	RemoteCount int
	LocalCount  int

	// Destructive is set when the local side is empty and every remote
	// record is about to be archived.
	Destructive bool
}

// Summary counts actions per type.
type Summary struct {
	Created      int
	Updated      int
	Unchanged    int
	Archived     int
	Skipped      int
	Reintroduced int
}

// Total is the number of remote writes.
func (s Summary) Total() int {
	return s.Created + s.Updated + s.Archived
}

func (s Summary) String() string {
	if s.Total() == 0 {
		return "No changes"
	}
	var parts []string
	if s.Created > 0 {
		parts = append(parts, fmt.Sprintf("%d created", s.Created))
	}
	if s.Updated > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", s.Updated))
	}
	if s.Archived > 0 {
		parts = append(parts, fmt.Sprintf("%d archived", s.Archived))
	}
	if s.Unchanged > 0 {
		parts = append(parts, fmt.Sprintf("%d unchanged", s.Unchanged))
	}
	return strings.Join(parts, ", ")
}

func (s *Summary) add(t ActionType) {
	switch t {
	case ActionCreate:
		s.Created++
	case ActionUpdate:
		s.Updated++
	case ActionUnchanged:
		s.Unchanged++
	case ActionArchive:
		s.Archived++
	case ActionSkip:
		s.Skipped++
	case ActionReintroduced:
		s.Reintroduced++
	}
}

// Summary counts the plan's actions per type.
func (p *Plan) Summary() Summary {
	var s Summary
	for _, a := range p.Actions {
		s.add(a.Type)
	}
	return s
}

// Pending returns the actions that write to the remote, in order.
func (p *Plan) Pending() []Action {
	var out []Action
	for _, a := range p.Actions {
		if a.Type.Mutates() {
			out = append(out, a)
		}
	}
	return out
}

// HasChanges reports whether applying the plan would write anything.
func (p *Plan) HasChanges() bool {
	return len(p.Pending()) > 0
}

// Filter returns the actions of the given types.
func (p *Plan) Filter(types ...ActionType) []Action {
	var out []Action
	for _, a := range p.Actions {
		for _, t := range types {
			if a.Type == t {
				out = append(out, a)
				break
			}
		}
	}
	return out
}
