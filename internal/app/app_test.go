package app

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/kduhealth/medportal/internal/clock"
	"github.com/kduhealth/medportal/internal/events"
	"github.com/kduhealth/medportal/internal/mock"
	"github.com/kduhealth/medportal/internal/nav"
	"github.com/kduhealth/medportal/internal/profiles"
	"github.com/kduhealth/medportal/internal/pubsub"
	"github.com/kduhealth/medportal/internal/registration"
	"github.com/kduhealth/medportal/internal/testutil"
	"github.com/kduhealth/medportal/internal/ui/toaster"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	zone.NewGlobal()
	os.Exit(m.Run())
}

var now = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

type env struct {
	identity *mock.Identity
	store    *mock.Store
	broker   *events.Broker
	services Services
}

func newEnv() *env {
	e := &env{
		identity: mock.NewIdentity(),
		store:    mock.NewStore(clock.NewFixed(now)),
		broker:   events.NewBroker(),
	}
	e.services = Services{
		NewService: func() *registration.Service {
			return registration.NewService(registration.Deps{
				Identity: e.identity,
				Store:    e.store,
				Events:   events.NewBrokerPublisher(e.broker),
			})
		},
		Profiles:      profiles.NewDirectory(e.store, time.Minute),
		Registrations: e.broker,
		Clock:         clock.NewFixed(now),
		Institution:   "KDU",
		MarkdownStyle: "notty",
	}
	return e
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestApp_StartsOnSignup(t *testing.T) {
	m := New(t.Context(), newEnv().services)
	require.Equal(t, nav.Signup, m.Route())
	require.Contains(t, ansi.Strip(m.View()), "Create Account")
}

func TestApp_NavigateToLandingLoadsProfile(t *testing.T) {
	e := newEnv()
	res, err := e.services.NewService().Register(t.Context(), testutil.DoctorForm("nimal@kdu.ac.lk"))
	require.NoError(t, err)

	m := New(t.Context(), e.services)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 90, Height: 40})
	m, cmd := update(t, m, nav.NavigateMsg{Route: nav.Doctor, UID: res.UID})
	require.Equal(t, nav.Doctor, m.Route())

	m, _ = update(t, m, cmd())
	view := ansi.Strip(m.View())
	require.Contains(t, view, "Welcome, Dr. Perera")
	require.Contains(t, view, "Cardiology")
}

func TestApp_BackToSignupGetsFreshForm(t *testing.T) {
	e := newEnv()
	calls := 0
	inner := e.services.NewService
	e.services.NewService = func() *registration.Service {
		calls++
		return inner()
	}

	m := New(t.Context(), e.services)
	m, _ = update(t, m, nav.NavigateMsg{Route: nav.Login})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = update(t, m, cmd())

	require.Equal(t, nav.Signup, m.Route())
	require.Equal(t, 2, calls)
}

func TestApp_QuitKeys(t *testing.T) {
	m := New(t.Context(), newEnv().services)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.Equal(t, tea.Quit(), cmd())

	// "q" only quits off the form, where it is not typed text.
	m, _ = update(t, m, nav.NavigateMsg{Route: nav.Login})
	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.Equal(t, tea.Quit(), cmd())
}

func TestApp_RegisteredEventShowsToast(t *testing.T) {
	m := New(t.Context(), newEnv().services)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 90, Height: 30})

	evt := pubsub.Event[registration.UserRegistered]{
		Type:    pubsub.RegisteredEvent,
		Payload: registration.UserRegistered{UID: "uid-1", Email: "amaya@kdu.ac.lk", Role: registration.RoleStudent},
	}
	m, cmd := update(t, m, evt)
	require.NotNil(t, cmd)
	require.Contains(t, ansi.Strip(m.View()), "Account created for amaya@kdu.ac.lk (student)")
}

func TestApp_OrphanReportToastAndGauge(t *testing.T) {
	e := newEnv()
	gauge := &recordingGauge{n: -1}
	e.services.Gauge = gauge

	m := New(t.Context(), e.services)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 90, Height: 30})
	m, _ = update(t, m, orphanReportMsg{report: registration.OrphanReport{
		Orphans: []registration.Account{{UID: "u1"}, {UID: "u2"}},
	}})

	require.Equal(t, 2, gauge.n)
	require.Contains(t, ansi.Strip(m.View()), "2 account(s) have no profile")
}

func TestApp_OrphanReportEmptyIsQuiet(t *testing.T) {
	m := New(t.Context(), newEnv().services)
	m, cmd := update(t, m, orphanReportMsg{})
	require.Nil(t, cmd)
	require.NotContains(t, ansi.Strip(m.View()), "no profile")
}

func TestApp_ToastDismiss(t *testing.T) {
	m := New(t.Context(), newEnv().services)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 90, Height: 30})
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show("hello", toaster.StyleInfo, time.Millisecond)

	m, _ = update(t, m, cmd())
	require.False(t, m.toaster.Visible())
}

func TestApp_LogOverlayOnlyInDebug(t *testing.T) {
	e := newEnv()
	m := New(t.Context(), e.services)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	require.False(t, m.logOverlay.Visible())

	e.services.Debug = true
	m = New(t.Context(), e.services)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	require.True(t, m.logOverlay.Visible())
	require.Contains(t, ansi.Strip(m.View()), "Logs")
}

type recordingGauge struct{ n int }

func (g *recordingGauge) SetOrphanCount(n int) { g.n = n }

// The full sign-up flow through a running program.
func TestApp_SignupFlow(t *testing.T) {
	e := newEnv()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tm := teatest.NewTestModel(t, New(ctx, e.services), teatest.WithInitialTermSize(100, 50))

	for _, v := range []string{"Amaya", "Silva", "amaya@kdu.ac.lk", "secret123", "secret123"} {
		tm.Type(v)
		tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	}
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains([]byte(ansi.Strip(string(out))), []byte("Welcome, Amaya"))
	}, teatest.WithDuration(5*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(5*time.Second))

	final := tm.FinalModel(t).(Model)
	require.Equal(t, nav.Student, final.Route())
	require.Equal(t, []string{"amaya@kdu.ac.lk"}, e.identity.Emails())
	docs := e.store.Documents(registration.UsersCollection)
	require.Len(t, docs, 1)
	require.True(t, strings.HasPrefix(docs[0].Ref.ID, "doc-"))
}
