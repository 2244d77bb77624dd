// Package events announces completed registrations. Events always go to the
// in-process broker the TUI listens on and, when a NATS URL is configured,
// are also published as JSON to a NATS subject.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kduhealth/medportal/internal/log"
	"github.com/kduhealth/medportal/internal/pubsub"
	"github.com/kduhealth/medportal/internal/registration"
)

// DefaultSubject is the NATS subject for registration events.
const DefaultSubject = "medportal.users.registered"

// Broker is the in-process broker for registration events.
type Broker = pubsub.Broker[registration.UserRegistered]

// NewBroker creates an in-process registration event broker.
func NewBroker() *Broker {
	return pubsub.NewBroker[registration.UserRegistered]()
}

// BrokerPublisher publishes to an in-process broker.
type BrokerPublisher struct {
	broker pubsub.Publisher[registration.UserRegistered]
}

var _ registration.EventPublisher = (*BrokerPublisher)(nil)

// NewBrokerPublisher wraps broker.
func NewBrokerPublisher(broker pubsub.Publisher[registration.UserRegistered]) *BrokerPublisher {
	return &BrokerPublisher{broker: broker}
}

func (p *BrokerPublisher) PublishRegistered(_ context.Context, evt registration.UserRegistered) error {
	p.broker.Publish(pubsub.RegisteredEvent, evt)
	return nil
}

// natsConn is the part of *nats.Conn the publisher needs.
type natsConn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes JSON-encoded events to a subject.
type NATSPublisher struct {
	conn    natsConn
	subject string
}

var _ registration.EventPublisher = (*NATSPublisher)(nil)

// DialNATS connects to url and returns a publisher for subject.
func DialNATS(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("medportal"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(10),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.ErrorErr(log.CatEvents, "nats disconnected", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}
	log.Info(log.CatEvents, "connected to nats", "url", url, "subject", subject)
	return newNATSPublisher(nc, subject), nil
}

func newNATSPublisher(conn natsConn, subject string) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSPublisher{conn: conn, subject: subject}
}

// PublishRegistered publishes evt and waits for the server to acknowledge
// the flush or ctx to end.
func (p *NATSPublisher) PublishRegistered(ctx context.Context, evt registration.UserRegistered) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush %s: %w", p.subject, err)
	}
	log.Debug(log.CatEvents, "published registration", "subject", p.subject, "uid", evt.UID)
	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() {
	p.conn.Close()
}

// Fanout publishes to every publisher and joins their errors.
type Fanout []registration.EventPublisher

var _ registration.EventPublisher = Fanout(nil)

func (f Fanout) PublishRegistered(ctx context.Context, evt registration.UserRegistered) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishRegistered(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
