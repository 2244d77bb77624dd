// Package app contains the root application model. It owns the current
// route, the sign-up and landing screens, the toaster and the log overlay.
package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/kduhealth/medportal/internal/clock"
	"github.com/kduhealth/medportal/internal/keys"
	"github.com/kduhealth/medportal/internal/log"
	"github.com/kduhealth/medportal/internal/nav"
	"github.com/kduhealth/medportal/internal/pubsub"
	"github.com/kduhealth/medportal/internal/registration"
	"github.com/kduhealth/medportal/internal/ui/landing"
	"github.com/kduhealth/medportal/internal/ui/logoverlay"
	"github.com/kduhealth/medportal/internal/ui/signup"
	"github.com/kduhealth/medportal/internal/ui/toaster"
)

// OrphanGauge receives the size of the latest orphan report.
type OrphanGauge interface {
	SetOrphanCount(n int)
}

// Services are the collaborators shared by the screens.
type Services struct {
	// NewService returns a fresh registration service for each visit to the
	// sign-up form.
	NewService func() *registration.Service
	Profiles   landing.ProfileSource

	// Registrations delivers UserRegistered events. Nil disables the toast.
	Registrations pubsub.Subscriber[registration.UserRegistered]
	// Reconciler runs the orphan report at start-up when non-nil.
	Reconciler *registration.Reconciler
	Gauge      OrphanGauge

	Clock         clock.Clock
	Institution   string
	MarkdownStyle string
	// Debug enables the log overlay (ctrl+x).
	Debug bool
}

// Model is the root application state.
type Model struct {
	ctx  context.Context
	svcs Services

	route   nav.Route
	signup  signup.Model
	landing landing.Model

	toaster     toaster.Model
	logOverlay  logoverlay.Model
	logListener *pubsub.ContinuousListener[string]
	regListener *pubsub.ContinuousListener[registration.UserRegistered]

	width  int
	height int
}

// orphanReportMsg carries the start-up reconciliation result.
type orphanReportMsg struct {
	report registration.OrphanReport
	err    error
}

// New creates the application model on the sign-up screen. Subscriptions
// live as long as ctx.
func New(ctx context.Context, svcs Services) Model {
	if svcs.Clock == nil {
		svcs.Clock = clock.Real{}
	}
	m := Model{
		ctx:        ctx,
		svcs:       svcs,
		route:      nav.Signup,
		signup:     signup.New(ctx, svcs.NewService(), svcs.Institution),
		toaster:    toaster.New(),
		logOverlay: logoverlay.New(),
		landing: landing.New(ctx, landing.Config{
			Profiles:      svcs.Profiles,
			Clock:         svcs.Clock,
			Institution:   svcs.Institution,
			MarkdownStyle: svcs.MarkdownStyle,
		}),
	}
	if svcs.Debug {
		m.logListener = log.NewListener(ctx)
	}
	if svcs.Registrations != nil {
		m.regListener = pubsub.NewContinuousListener[registration.UserRegistered](ctx, svcs.Registrations)
	}
	return m
}

// Route returns the screen being shown.
func (m Model) Route() nav.Route {
	return m.route
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.signup.Init()}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.regListener != nil {
		cmds = append(cmds, m.regListener.Listen())
	}
	if m.svcs.Reconciler != nil {
		ctx, rec := m.ctx, m.svcs.Reconciler
		cmds = append(cmds, func() tea.Msg {
			report, err := rec.FindOrphans(ctx)
			return orphanReportMsg{report: report, err: err}
		})
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.signup = m.signup.SetSize(msg.Width, msg.Height)
		m.landing = m.landing.SetSize(msg.Width, msg.Height)
		m.logOverlay = m.logOverlay.SetSize(msg.Width, msg.Height)
		return m, nil

	case pubsub.Event[string]:
		m.logOverlay = m.logOverlay.Append(msg.Payload)
		return m, m.logListener.Listen()

	case pubsub.Event[registration.UserRegistered]:
		evt := msg.Payload
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(
			fmt.Sprintf("Account created for %s (%s)", evt.Email, evt.Role), toaster.StyleSuccess, toaster.DefaultDuration)
		return m, tea.Batch(cmd, m.regListener.Listen())

	case orphanReportMsg:
		return m.handleOrphanReport(msg)

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case nav.NavigateMsg:
		return m.navigate(msg)

	case tea.KeyMsg:
		if m.svcs.Debug && key.Matches(msg, keys.Form.Logs) {
			m.logOverlay = m.logOverlay.Toggle()
			return m, nil
		}
		if m.logOverlay.Visible() {
			var cmd tea.Cmd
			m.logOverlay, cmd = m.logOverlay.Update(msg)
			return m, cmd
		}
		if key.Matches(msg, keys.Form.Quit) {
			return m, tea.Quit
		}
		if m.route != nav.Signup && key.Matches(msg, keys.Landing.Quit) {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	if m.route == nav.Signup {
		m.signup, cmd = m.signup.Update(msg)
	} else {
		m.landing, cmd = m.landing.Update(msg)
	}
	return m, cmd
}

func (m Model) navigate(msg nav.NavigateMsg) (tea.Model, tea.Cmd) {
	log.Info(log.CatNav, "route change", "from", m.route, "to", msg.Route)
	m.route = msg.Route

	if msg.Route == nav.Signup {
		m.signup = signup.New(m.ctx, m.svcs.NewService(), m.svcs.Institution).SetSize(m.width, m.height)
		return m, m.signup.Init()
	}
	var cmd tea.Cmd
	m.landing, cmd = m.landing.Show(msg.Route, msg.UID)
	return m, cmd
}

func (m Model) handleOrphanReport(msg orphanReportMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.ErrorErr(log.CatStore, "orphan report failed", msg.err)
		return m, nil
	}
	n := len(msg.report.Orphans)
	if m.svcs.Gauge != nil {
		m.svcs.Gauge.SetOrphanCount(n)
	}
	if n == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show(
		fmt.Sprintf("%d account(s) have no profile; run `medportal orphans`", n), toaster.StyleWarn, toaster.DefaultDuration)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	var view string
	if m.route == nav.Signup {
		view = m.signup.View()
	} else {
		view = m.landing.View()
	}
	view = m.logOverlay.Overlay(view)
	view = m.toaster.Overlay(view, m.width, m.height)
	return zone.Scan(view)
}
