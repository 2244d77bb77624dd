package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kduhealth/medportal/internal/registration"
)

// Metrics records what the registration service observed.
type Metrics struct {
	mu       sync.Mutex
	Attempts int
	Outcomes []registration.Outcome
	Orphans  []string
}

func (m *Metrics) ObserveAttempt() {
	m.mu.Lock()
	m.Attempts++
	m.mu.Unlock()
}

func (m *Metrics) ObserveOutcome(outcome registration.Outcome, _ time.Duration) {
	m.mu.Lock()
	m.Outcomes = append(m.Outcomes, outcome)
	m.mu.Unlock()
}

func (m *Metrics) ObserveOrphan(uid string) {
	m.mu.Lock()
	m.Orphans = append(m.Orphans, uid)
	m.mu.Unlock()
}

// Publisher records published registration events.
type Publisher struct {
	// Err is returned from every publish when set.
	Err error

	mu     sync.Mutex
	events []registration.UserRegistered
}

func (p *Publisher) PublishRegistered(_ context.Context, evt registration.UserRegistered) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.Err
}

// Events returns the events published so far.
func (p *Publisher) Events() []registration.UserRegistered {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]registration.UserRegistered(nil), p.events...)
}
