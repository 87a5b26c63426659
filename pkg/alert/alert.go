package alert

import (
	"context"
	"errors"
	"fmt"
)

// Signal is the trade-signal payload sent to alert destinations.
type Signal struct {
	Show           string  `json:"show"`
	Recommendation string  `json:"recommendation"`
	FairPrice      float64 `json:"fair_price"`
	MarketPrice    float64 `json:"market_price"`
	Edge           float64 `json:"edge"`
	RunID          string  `json:"run_id"`
}

// Notifier delivers signals to a specific destination.
type Notifier interface {
	Name() string
	Send(ctx context.Context, s *Signal) error
}

// Manager broadcasts signals to all registered notifiers.
type Manager struct {
	notifiers []Notifier
}

// NewManager creates a new alert manager.
func NewManager(notifiers []Notifier) *Manager {
	return &Manager{notifiers: notifiers}
}

// HasNotifiers returns true if at least one notifier is configured.
func (m *Manager) HasNotifiers() bool {
	return len(m.notifiers) > 0
}

// Broadcast sends a signal to all registered notifiers.
func (m *Manager) Broadcast(ctx context.Context, s *Signal) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, s); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", notifier.Name(), err))
		}
	}
	return errors.Join(errs...)
}
