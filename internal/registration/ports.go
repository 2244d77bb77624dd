package registration

import (
	"context"
	"time"
)

// Credential is what the identity service returns for a new account.
type Credential struct {
	UID string
}

// DocumentRef locates a stored document.
type DocumentRef struct {
	Collection string
	ID         string
}

// IdentityService creates login credentials.
type IdentityService interface {
	CreateUser(ctx context.Context, email, password string) (Credential, error)
}

// DocumentStore persists documents. The store assigns the document id and
// resolves ServerTimestamp fields with its own clock.
type DocumentStore interface {
	AddDocument(ctx context.Context, collection string, doc Document) (DocumentRef, error)
}

// DocumentFinder looks documents up by a top-level field value.
type DocumentFinder interface {
	FindByField(ctx context.Context, collection, field string, value any) ([]StoredDocument, error)
}

// Outcome labels how a registration attempt ended.
type Outcome string

const (
	OutcomeSuccess       Outcome = "success"
	OutcomeInvalid       Outcome = "validation_error"
	OutcomeIdentityError Outcome = "identity_error"
	OutcomeProfileError  Outcome = "profile_error"
	OutcomeRejected      Outcome = "rejected"
)

// Metrics records registration attempts.
type Metrics interface {
	ObserveAttempt()
	ObserveOutcome(outcome Outcome, elapsed time.Duration)
	ObserveOrphan(uid string)
}

// UserRegistered is published after both writes succeed.
type UserRegistered struct {
	UID        string    `json:"uid"`
	DocumentID string    `json:"documentId"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Route      string    `json:"route"`
	At         time.Time `json:"at"`
}

// EventPublisher announces completed registrations.
type EventPublisher interface {
	PublishRegistered(ctx context.Context, evt UserRegistered) error
}

type noopMetrics struct{}

func (noopMetrics) ObserveAttempt()                       {}
func (noopMetrics) ObserveOutcome(Outcome, time.Duration) {}
func (noopMetrics) ObserveOrphan(string)                  {}

type noopPublisher struct{}

func (noopPublisher) PublishRegistered(context.Context, UserRegistered) error { return nil }
