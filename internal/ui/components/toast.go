// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package components

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luke-chia/leximind-knowledge-hub/internal/ui/styles"
)

// ToastKind classifies a transient notification.
type ToastKind int

const (
	ToastError ToastKind = iota
	ToastWarning
	ToastSuccess
	ToastStatus
)

// toastTTL is how long each kind stays visible.
var toastTTL = map[ToastKind]time.Duration{
	ToastError:   6 * time.Second,
	ToastWarning: 5 * time.Second,
	ToastSuccess: 3 * time.Second,
	ToastStatus:  3 * time.Second,
}

// Toast is one transient notification.
type Toast struct {
	Kind      ToastKind
	Message   string
	ExpiresAt time.Time
}

// ToastTickMsg drives toast expiry.
type ToastTickMsg struct{ Time time.Time }

// ToastTickCmd schedules the next expiry check.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// ToastManager holds the active toast stack. Not safe for concurrent use;
// it lives on the update loop.
type ToastManager struct {
	toasts []Toast
}

// NewToastManager returns an empty stack.
func NewToastManager() *ToastManager {
	return &ToastManager{}
}

// Add pushes a toast of the given kind.
func (m *ToastManager) Add(kind ToastKind, message string) {
	if strings.TrimSpace(message) == "" {
		return
	}
	m.toasts = append(m.toasts, Toast{
		Kind:      kind,
		Message:   message,
		ExpiresAt: time.Now().Add(toastTTL[kind]),
	})
	// Keep the stack short; oldest drop first.
	if len(m.toasts) > 4 {
		m.toasts = m.toasts[len(m.toasts)-4:]
	}
}

// AddError is shorthand for Add(ToastError, ...).
func (m *ToastManager) AddError(message string) { m.Add(ToastError, message) }

// AddSuccess is shorthand for Add(ToastSuccess, ...).
func (m *ToastManager) AddSuccess(message string) { m.Add(ToastSuccess, message) }

// AddStatus is shorthand for Add(ToastStatus, ...).
func (m *ToastManager) AddStatus(message string) { m.Add(ToastStatus, message) }

// Tick drops expired toasts and reports whether any remain.
func (m *ToastManager) Tick(now time.Time) bool {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if now.Before(t.ExpiresAt) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
	return len(m.toasts) > 0
}

// Active reports whether any toast is visible.
func (m *ToastManager) Active() bool {
	return len(m.toasts) > 0
}

// Render draws the stack, newest last.
func (m *ToastManager) Render(theme *styles.Theme) string {
	if len(m.toasts) == 0 {
		return ""
	}
	var b strings.Builder
	for i, t := range m.toasts {
		if i > 0 {
			b.WriteString("\n")
		}
		switch t.Kind {
		case ToastError:
			b.WriteString(theme.ToastError.Render("✗ " + t.Message))
		case ToastWarning:
			b.WriteString(theme.ToastWarning.Render("! " + t.Message))
		case ToastSuccess:
			b.WriteString(theme.ToastSuccess.Render("✓ " + t.Message))
		default:
			b.WriteString(theme.ToastStatus.Render("· " + t.Message))
		}
	}
	return b.String()
}
