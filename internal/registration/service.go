// Package registration implements the KDU account sign-up workflow: form
// snapshots, local validation, the submission state machine, and the
// two-step sequence that creates an identity and then a Users profile.
package registration

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/kduhealth/medportal/internal/clock"
	"github.com/kduhealth/medportal/internal/log"
)

// Deps are the collaborators of a Service. Identity and Store are required;
// the rest default to no-ops.
type Deps struct {
	Identity IdentityService
	Store    DocumentStore
	Clock    clock.Clock
	Tracer   trace.Tracer
	Metrics  Metrics
	Events   EventPublisher
	// Domain is the required email domain. Empty means DefaultEmailDomain.
	Domain string
}

// Result describes a completed registration.
type Result struct {
	UID        string
	DocumentID string
	Route      string
	Profile    Profile
}

// Service runs one sign-up form's submissions. At most one submission is in
// flight at a time and a successful submission is final.
type Service struct {
	deps Deps

	mu     sync.Mutex
	status Status
}

// NewService creates a Service in the idle state.
func NewService(deps Deps) *Service {
	if deps.Clock == nil {
		deps.Clock = clock.Real{}
	}
	if deps.Tracer == nil {
		deps.Tracer = noop.NewTracerProvider().Tracer("registration")
	}
	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}
	if deps.Events == nil {
		deps.Events = noopPublisher{}
	}
	if deps.Domain == "" {
		deps.Domain = DefaultEmailDomain
	}
	return &Service{deps: deps}
}

// Status returns a snapshot of the submission status.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Domain is the email domain the service validates against.
func (s *Service) Domain() string {
	return s.deps.Domain
}

func (s *Service) transition(to State, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.status.Transition(to, msg)
	if err != nil {
		return err
	}
	s.status = next
	return nil
}

// Register validates the form, creates the identity, writes the profile
// document and returns the landing route. On failure the service moves to
// StateFailed and the returned error is one of *ValidationError,
// *IdentityError or *ProfileWriteError.
func (s *Service) Register(ctx context.Context, form Form) (res Result, err error) {
	if err := s.transition(StateValidating, ""); err != nil {
		s.deps.Metrics.ObserveOutcome(OutcomeRejected, 0)
		log.Warn(log.CatAuth, "registration rejected", "reason", err.Error())
		return Result{}, err
	}

	start := s.deps.Clock.Now()
	s.deps.Metrics.ObserveAttempt()

	ctx, span := s.deps.Tracer.Start(ctx, "registration.register",
		trace.WithAttributes(attribute.String("registration.role", string(form.UserType))))
	defer span.End()

	// Whatever happens below, never leave the service loading.
	defer func() {
		if r := recover(); r != nil {
			_ = s.transition(StateFailed, FallbackMessage)
			panic(r)
		}
		if err != nil {
			_ = s.transition(StateFailed, UserMessage(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, UserMessage(err))
		}
		s.deps.Metrics.ObserveOutcome(outcomeFor(err), s.deps.Clock.Now().Sub(start))
	}()

	// The identity and the Users document must record the same address.
	form.Email = strings.TrimSpace(form.Email)

	if err := ValidateRequired(form); err != nil {
		log.Debug(log.CatAuth, "required field missing", "error", err.Error())
		return Result{}, err
	}
	if err := Validate(form, s.deps.Domain); err != nil {
		log.Debug(log.CatAuth, "validation failed", "error", err.Error())
		return Result{}, err
	}

	if err := s.transition(StateSubmitting, ""); err != nil {
		return Result{}, err
	}

	cred, err := s.createUser(ctx, form)
	if err != nil {
		return Result{}, err
	}

	profile, err := BuildProfile(cred.UID, form)
	if err != nil {
		return Result{}, &ProfileWriteError{UID: cred.UID, Err: err}
	}

	ref, err := s.addProfile(ctx, profile)
	if err != nil {
		return Result{}, err
	}

	if err := s.transition(StateSucceeded, ""); err != nil {
		return Result{}, err
	}

	res = Result{
		UID:        cred.UID,
		DocumentID: ref.ID,
		Route:      profile.Role().Route(),
		Profile:    profile,
	}
	span.SetAttributes(attribute.String("registration.uid", res.UID))
	log.Info(log.CatAuth, "registration complete", "uid", res.UID, "doc", res.DocumentID, "route", res.Route)

	s.publish(ctx, res)
	return res, nil
}

func (s *Service) createUser(ctx context.Context, form Form) (Credential, error) {
	ctx, span := s.deps.Tracer.Start(ctx, "identity.create_user")
	defer span.End()

	cred, err := s.deps.Identity.CreateUser(ctx, form.Email, form.Password)
	if err != nil {
		span.RecordError(err)
		log.ErrorErr(log.CatAuth, "create user failed", err, "email", form.Email)
		var ie *IdentityError
		if errors.As(err, &ie) {
			return Credential{}, err
		}
		return Credential{}, &IdentityError{Code: CodeInternalError, Message: err.Error(), Err: err}
	}
	if cred.UID == "" {
		return Credential{}, &IdentityError{Code: CodeInternalError, Message: FallbackMessage}
	}
	return cred, nil
}

func (s *Service) addProfile(ctx context.Context, profile Profile) (DocumentRef, error) {
	ctx, span := s.deps.Tracer.Start(ctx, "store.add_document",
		trace.WithAttributes(attribute.String("store.collection", UsersCollection)))
	defer span.End()

	uid := profile.Base().UID
	ref, err := s.deps.Store.AddDocument(ctx, UsersCollection, profile.Document())
	if err != nil {
		span.RecordError(err)
		// The identity exists without a profile from here on.
		log.ErrorErr(log.CatStore, "profile write failed", err, "uid", uid)
		log.Warn(log.CatStore, "orphaned identity", "uid", uid)
		s.deps.Metrics.ObserveOrphan(uid)
		return DocumentRef{}, &ProfileWriteError{UID: uid, Err: err}
	}
	return ref, nil
}

func (s *Service) publish(ctx context.Context, res Result) {
	evt := UserRegistered{
		UID:        res.UID,
		DocumentID: res.DocumentID,
		Email:      res.Profile.Base().Email,
		Role:       res.Profile.Role(),
		Route:      res.Route,
		At:         s.deps.Clock.Now(),
	}
	if err := s.deps.Events.PublishRegistered(ctx, evt); err != nil {
		log.ErrorErr(log.CatEvents, "publish registration event failed", err, "uid", res.UID)
	}
}

func outcomeFor(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	var (
		ve *ValidationError
		ie *IdentityError
	)
	switch {
	case errors.As(err, &ve):
		return OutcomeInvalid
	case errors.As(err, &ie):
		return OutcomeIdentityError
	default:
		return OutcomeProfileError
	}
}
