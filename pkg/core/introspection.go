package core

import (
	"github.com/aretw0/introspection"
)

// EngineState exposes internal state for observability.
type EngineState struct {
	Status    SyncStatus `json:"status"`
	Online    bool       `json:"online"`
	Loading   bool       `json:"loading"`
	NoteCount int        `json:"note_count"`
	Selected  string     `json:"selected,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	HasCache  bool       `json:"has_cache"`
}

// State implements introspection.Introspectable.
func (e *Engine) State() any {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := EngineState{
		Status:    e.status,
		Online:    e.online,
		Loading:   e.loading,
		NoteCount: len(e.notes),
		Selected:  e.selected,
		HasCache:  e.cache != nil,
	}
	if e.lastErr != nil {
		st.LastError = e.lastErr.Error()
	}
	return st
}

// ComponentType implements introspection.Component.
func (e *Engine) ComponentType() string {
	return "engine"
}

var _ introspection.Introspectable = (*Engine)(nil)
var _ introspection.Component = (*Engine)(nil)
