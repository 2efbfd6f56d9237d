// Package alerts prints short status lines (conversion summaries, table
// warnings) on stderr next to a command's regular output.
package alerts

import (
	"fmt"

	"github.com/agentstation/bidsify/internal/cmd/emoji"
)

// Level is the severity of an alert.
type Level int

// Alert levels, most severe first.
const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelSuccess
)

const resetColor = "\033[0m"

var levels = [...]struct {
	name, icon, color string
}{
	LevelError:   {"error", emoji.Error, "\033[31m"},
	LevelWarning: {"warning", emoji.Warning, "\033[33m"},
	LevelInfo:    {"info", emoji.Info, "\033[36m"},
	LevelSuccess: {"success", emoji.Success, "\033[32m"},
}

func (l Level) known() bool { return l >= 0 && int(l) < len(levels) }

func (l Level) String() string {
	if !l.known() {
		return fmt.Sprintf("unknown(%d)", int(l))
	}
	return levels[l].name
}

// Icon is the symbol printed before a plain-text alert.
func (l Level) Icon() string {
	if !l.known() {
		return "?"
	}
	return levels[l].icon
}

// Color is the ANSI color sequence for l, or a reset for unknown levels.
func (l Level) Color() string {
	if !l.known() {
		return resetColor
	}
	return levels[l].color
}

// Alert is one status line with optional detail lines and cause.
type Alert struct {
	Level   Level
	Message string
	Details []string
	Err     error
}

func newAlert(level Level, format string, args ...any) *Alert {
	return &Alert{Level: level, Message: fmt.Sprintf(format, args...)}
}

// NewError returns an error alert.
func NewError(format string, args ...any) *Alert { return newAlert(LevelError, format, args...) }

// NewWarning returns a warning alert.
func NewWarning(format string, args ...any) *Alert { return newAlert(LevelWarning, format, args...) }

// NewInfo returns an info alert.
func NewInfo(format string, args ...any) *Alert { return newAlert(LevelInfo, format, args...) }

// NewSuccess returns a success alert.
func NewSuccess(format string, args ...any) *Alert { return newAlert(LevelSuccess, format, args...) }

// WithError records the cause, appended to the message when printed.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails appends detail lines.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

func (a *Alert) String() string {
	s := a.Level.Icon() + " " + a.Message
	if a.Err != nil {
		s += ": " + a.Err.Error()
	}
	return s
}

// Writer prints alerts.
type Writer interface {
	WriteAlert(alert *Alert) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(*Alert) error

// WriteAlert calls f.
func (f WriterFunc) WriteAlert(alert *Alert) error { return f(alert) }

// DiscardWriter drops every alert.
var DiscardWriter Writer = WriterFunc(func(*Alert) error { return nil })
