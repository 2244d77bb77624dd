package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kduhealth/medportal/internal/pubsub"
	"github.com/kduhealth/medportal/internal/registration"
)

type fakeConn struct {
	subject  string
	data     []byte
	flushErr error
	closed   bool
}

func (c *fakeConn) Publish(subject string, data []byte) error {
	c.subject = subject
	c.data = data
	return nil
}

func (c *fakeConn) FlushWithContext(context.Context) error { return c.flushErr }

func (c *fakeConn) Close() { c.closed = true }

var evt = registration.UserRegistered{
	UID:        "uid-1",
	DocumentID: "doc-1",
	Email:      "dr@kdu.ac.lk",
	Role:       registration.RoleDoctor,
	Route:      registration.RouteDoctor,
	At:         time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC),
}

func TestNATSPublisher_EncodesJSON(t *testing.T) {
	conn := &fakeConn{}
	p := newNATSPublisher(conn, "")

	require.NoError(t, p.PublishRegistered(context.Background(), evt))
	require.Equal(t, DefaultSubject, conn.subject)

	var got map[string]any
	require.NoError(t, json.Unmarshal(conn.data, &got))
	require.Equal(t, "uid-1", got["uid"])
	require.Equal(t, "doctor", got["role"])
	require.Equal(t, "/doctor", got["route"])
	require.Equal(t, "2026-10-17T08:00:00Z", got["at"])

	p.Close()
	require.True(t, conn.closed)
}

func TestNATSPublisher_FlushError(t *testing.T) {
	p := newNATSPublisher(&fakeConn{flushErr: errors.New("timeout")}, "custom.subject")
	err := p.PublishRegistered(context.Background(), evt)
	require.ErrorContains(t, err, "flush custom.subject")
}

func TestBrokerPublisher(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe(context.Background())

	require.NoError(t, NewBrokerPublisher(b).PublishRegistered(context.Background(), evt))

	got := <-ch
	require.Equal(t, pubsub.RegisteredEvent, got.Type)
	require.Equal(t, evt, got.Payload)
}

type failing struct{ err error }

func (f failing) PublishRegistered(context.Context, registration.UserRegistered) error { return f.err }

func TestFanout_JoinsErrors(t *testing.T) {
	a := errors.New("a down")
	c := errors.New("c down")
	b := NewBroker()
	defer b.Close()

	err := Fanout{failing{a}, NewBrokerPublisher(b), failing{c}}.PublishRegistered(context.Background(), evt)
	require.ErrorIs(t, err, a)
	require.ErrorIs(t, err, c)

	require.NoError(t, Fanout{NewBrokerPublisher(b)}.PublishRegistered(context.Background(), evt))
}
