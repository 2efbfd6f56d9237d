package bidsify

import (
	"sync"

	"github.com/agentstation/bidsify/pkg/sidecar"
	"github.com/agentstation/bidsify/pkg/tables"
)

// Hook function types for conversion events.
type (
	// SidecarHook is called once per planned sidecar after a commit.
	SidecarHook func(outcome sidecar.Outcome)

	// WarningHook is called for each recoverable problem of a conversion.
	WarningHook func(path string, warning tables.Warning)
)

// Hooks registers conversion callbacks.
type Hooks interface {
	// OnSidecar registers a callback for sidecar outcomes
	OnSidecar(SidecarHook)

	// OnWarning registers a callback for recoverable warnings
	OnWarning(WarningHook)
}

// hooks manages event callbacks.
type hooks struct {
	mu        sync.RWMutex
	onSidecar []SidecarHook
	onWarning []WarningHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnSidecar implements Hooks.
func (c *client) OnSidecar(fn SidecarHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onSidecar = append(c.hooks.onSidecar, fn)
}

// OnWarning implements Hooks.
func (c *client) OnWarning(fn WarningHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onWarning = append(c.hooks.onWarning, fn)
}

func (h *hooks) triggerSidecar(outcomes []sidecar.Outcome) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, o := range outcomes {
		for _, fn := range h.onSidecar {
			fn(o)
		}
	}
}

func (h *hooks) triggerWarnings(path string, warnings []tables.Warning) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, w := range warnings {
		for _, fn := range h.onWarning {
			fn(path, w)
		}
	}
}
