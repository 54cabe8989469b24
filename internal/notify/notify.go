package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Urgency is the freedesktop urgency level of a notification.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// ParseUrgency maps "low", "normal" or "critical" to an Urgency.
func ParseUrgency(s string) (Urgency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return UrgencyLow, nil
	case "", "normal":
		return UrgencyNormal, nil
	case "critical":
		return UrgencyCritical, nil
	default:
		return UrgencyNormal, fmt.Errorf("unknown urgency %q", s)
	}
}

func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyCritical:
		return "critical"
	default:
		return "normal"
	}
}

// Notification is a message to show the user.
type Notification struct {
	Title      string
	Body       string
	Icon       string
	Urgency    Urgency
	Persistent bool // stays on screen until dismissed
}

// Notifier delivers notifications.
type Notifier interface {
	Show(ctx context.Context, n Notification) error
}

// New returns the notifier for kind ("desktop" or "log").
func New(kind string, logger *slog.Logger) (Notifier, error) {
	switch kind {
	case "desktop":
		return NewDesktop("pharm"), nil
	case "log":
		return NewLog(logger), nil
	default:
		return nil, fmt.Errorf("unknown notifier %q", kind)
	}
}

// Log writes notifications to a logger instead of the desktop.
type Log struct {
	logger *slog.Logger
}

// NewLog returns a notifier that logs at info level.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

func (l *Log) Show(ctx context.Context, n Notification) error {
	l.logger.InfoContext(ctx, n.Title,
		"body", n.Body,
		"urgency", n.Urgency.String(),
		"persistent", n.Persistent)
	return nil
}
