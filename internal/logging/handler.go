// Package logging provides a custom slog handler that integrates with the event log.
// It copies logs at WARN level and above into a bounded in-memory log admins can read.
package logging

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth    = "auth"
	EventCategoryContent = "content"
	EventCategoryConfig  = "config"
	EventCategoryFetch   = "fetch"
	EventCategoryCache   = "cache"
	EventCategorySystem  = "system"
)

// DefaultCapacity is the number of events kept when no capacity is given.
const DefaultCapacity = 200

// Event is one recorded log entry.
type Event struct {
	ID        int64             `json:"id"`
	Level     string            `json:"level"`
	Category  string            `json:"category"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// EventLog is a fixed-size ring of recent events.
type EventLog struct {
	mu     sync.Mutex
	events []Event
	next   int
	full   bool
	lastID int64
}

// NewEventLog creates an event log holding at most capacity events.
func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &EventLog{events: make([]Event, capacity)}
}

// Add records e, dropping the oldest event when full.
func (l *EventLog) Add(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastID++
	e.ID = l.lastID
	l.events[l.next] = e
	l.next = (l.next + 1) % len(l.events)
	if l.next == 0 {
		l.full = true
	}
}

// Recent returns up to limit events, newest first. limit <= 0 returns all.
func (l *EventLog) Recent(limit int) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.next
	if l.full {
		n = len(l.events)
	}
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]Event, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (l.next - i + len(l.events)) % len(l.events)
		out = append(out, l.events[idx])
	}
	return out
}

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// WARN and ERROR level logs to the event log.
type EventLogHandler struct {
	inner slog.Handler
	log   *EventLog
	level slog.Level // Minimum level to forward to the event log (default: WARN)
	attrs []slog.Attr
}

// NewEventLogHandler creates a new EventLogHandler that wraps the given handler.
func NewEventLogHandler(inner slog.Handler, log *EventLog) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, log, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a new EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, log *EventLog, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner: inner,
		log:   log,
		level: level,
	}
}

// Enabled implements slog.Handler. Records at the event log level are
// enabled even when the wrapped handler filters them out.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level || h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.inner.Enabled(ctx, r.Level) {
		if err := h.inner.Handle(ctx, r); err != nil {
			return err
		}
	}

	if r.Level >= h.level {
		h.writeToEventLog(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{
		inner: h.inner.WithAttrs(attrs),
		log:   h.log,
		level: h.level,
		attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner: h.inner.WithGroup(name),
		log:   h.log,
		level: h.level,
		attrs: h.attrs,
	}
}

func (h *EventLogHandler) writeToEventLog(r slog.Record) {
	metadata := make(map[string]string, len(h.attrs)+r.NumAttrs())
	var category string
	collect := func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return true
		}
		metadata[a.Key] = a.Value.String()
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)

	if category == "" {
		category = inferCategory(r.Message)
	}
	if len(metadata) == 0 {
		metadata = nil
	}

	h.log.Add(Event{
		Level:     levelName(r.Level),
		Category:  category,
		Message:   r.Message,
		Metadata:  metadata,
		CreatedAt: r.Time,
	})
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return EventLevelError
	case level >= slog.LevelWarn:
		return EventLevelWarning
	default:
		return EventLevelInfo
	}
}

// inferCategory guesses a category from the message when none was given.
func inferCategory(message string) string {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "auth") || strings.Contains(msg, "login") || strings.Contains(msg, "logout"):
		return EventCategoryAuth
	case strings.Contains(msg, "cache"):
		return EventCategoryCache
	case strings.Contains(msg, "fetch") || strings.Contains(msg, "backend"):
		return EventCategoryFetch
	case strings.Contains(msg, "page") || strings.Contains(msg, "post") || strings.Contains(msg, "content"):
		return EventCategoryContent
	case strings.Contains(msg, "config") || strings.Contains(msg, "setting"):
		return EventCategoryConfig
	default:
		return EventCategorySystem
	}
}
