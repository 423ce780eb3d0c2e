package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/miosa/joi-tui/style"
)

// ToastLevel classifies toast severity.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastWarning
	ToastError
)

const (
	maxToasts = 3
	toastTTL  = 4 * time.Second
)

type toast struct {
	message string
	level   ToastLevel
	expiry  time.Time
}

// ToastsModel manages a queue of auto-dismissing notifications: parse
// warnings, refused sends, connection notices.
type ToastsModel struct {
	queue []toast
	now   func() time.Time
}

// NewToasts creates an empty ToastsModel.
func NewToasts() ToastsModel {
	return ToastsModel{now: time.Now}
}

// Add enqueues a toast. Repeating a visible toast moves it to the end with a
// fresh expiry instead of stacking a copy. The oldest toasts are dropped past
// maxToasts.
func (m *ToastsModel) Add(message string, level ToastLevel) {
	for i, t := range m.queue {
		if t.message == message && t.level == level {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			break
		}
	}
	m.queue = append(m.queue, toast{
		message: message,
		level:   level,
		expiry:  m.clock().Add(toastTTL),
	})
	if len(m.queue) > maxToasts {
		m.queue = m.queue[len(m.queue)-maxToasts:]
	}
}

// Tick prunes expired toasts. Call on every msg.TickMsg.
func (m *ToastsModel) Tick() {
	now := m.clock()
	alive := m.queue[:0]
	for _, t := range m.queue {
		if now.Before(t.expiry) {
			alive = append(alive, t)
		}
	}
	m.queue = alive
}

// HasToasts reports whether any toasts are visible.
func (m ToastsModel) HasToasts() bool {
	return len(m.queue) > 0
}

// Messages returns the visible toast texts, oldest first.
func (m ToastsModel) Messages() []string {
	out := make([]string, len(m.queue))
	for i, t := range m.queue {
		out[i] = t.message
	}
	return out
}

func (m ToastsModel) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

// View renders visible toasts as right-aligned colored lines.
func (m ToastsModel) View(termWidth int) string {
	if len(m.queue) == 0 {
		return ""
	}
	var lines []string
	for _, t := range m.queue {
		icon, color := toastIconColor(t.level)
		text := fmt.Sprintf(" %s %s ", icon, t.message)
		rendered := lipgloss.NewStyle().Foreground(color).Render(text)
		lines = append(lines, lipgloss.PlaceHorizontal(termWidth, lipgloss.Right, rendered))
	}
	return strings.Join(lines, "\n")
}

func toastIconColor(level ToastLevel) (string, lipgloss.TerminalColor) {
	switch level {
	case ToastWarning:
		return "\u26A0", style.Warning // ⚠
	case ToastError:
		return "\u2718", style.Error // ✘
	default:
		return "\u2713", style.Success // ✓
	}
}
