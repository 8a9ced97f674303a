// Package notify publishes "artifact written" events.
package notify

import (
	"context"
	"time"
)

// Event describes one generated audio file.
type Event struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"` // "sine"
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Frequency  float64   `json:"frequency"`
	Duration   float64   `json:"duration"`
	SampleRate int       `json:"sample_rate"`
	Samples    int       `json:"samples"`
	CreatedAt  time.Time `json:"created_at"`
}

// Notifier delivers events to interested parties.
type Notifier interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
