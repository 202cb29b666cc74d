package redpush

import (
	"context"
	"sync"

	"github.com/agentstation/redpush/pkg/records"
)

// Hook function types for remote write events
type (
	// SavedHook is called after a query was created or updated remotely.
	// created tells the two apart.
	SavedHook func(saved *records.Record, created bool)

	// ArchivedHook is called after a query was archived remotely
	ArchivedHook func(archived *records.Record)

	// UserCreatedHook is called after a user was created remotely
	UserCreatedHook func(user *records.Record)
)

// hooks manages event callbacks for remote writes
type hooks struct {
	mu            sync.RWMutex
	onSaved       []SavedHook
	onArchived    []ArchivedHook
	onUserCreated []UserCreatedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnSaved registers a callback for created or updated queries
func (h *hooks) OnSaved(fn SavedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSaved = append(h.onSaved, fn)
}

// OnArchived registers a callback for archived queries
func (h *hooks) OnArchived(fn ArchivedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onArchived = append(h.onArchived, fn)
}

// OnUserCreated registers a callback for created users
func (h *hooks) OnUserCreated(fn UserCreatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onUserCreated = append(h.onUserCreated, fn)
}

func (h *hooks) triggerSaved(saved *records.Record, created bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onSaved {
		fn(saved, created)
	}
}

func (h *hooks) triggerArchived(rec *records.Record) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onArchived {
		fn(rec)
	}
}

func (h *hooks) triggerUserCreated(user *records.Record) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onUserCreated {
		fn(user)
	}
}

// hookedWriter fires hooks around the writes of a plan.
type hookedWriter struct {
	remote Remote
	hooks  *hooks
}

func (w *hookedWriter) CreateOrUpdate(ctx context.Context, rec *records.Record) (*records.Record, error) {
	_, isUpdate := rec.ID()
	saved, err := w.remote.CreateOrUpdate(ctx, rec)
	if err != nil {
		return nil, err
	}
	w.hooks.triggerSaved(saved, !isUpdate)
	return saved, nil
}

func (w *hookedWriter) Archive(ctx context.Context, rec *records.Record) error {
	if err := w.remote.Archive(ctx, rec); err != nil {
		return err
	}
	w.hooks.triggerArchived(rec)
	return nil
}
