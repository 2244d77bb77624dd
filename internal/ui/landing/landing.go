// Package landing renders the screens a user reaches after signing up, plus
// the login placeholder.
package landing

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kduhealth/medportal/internal/clock"
	"github.com/kduhealth/medportal/internal/keys"
	"github.com/kduhealth/medportal/internal/log"
	"github.com/kduhealth/medportal/internal/nav"
	"github.com/kduhealth/medportal/internal/registration"
	"github.com/kduhealth/medportal/internal/templates"
	"github.com/kduhealth/medportal/internal/ui/markdown"
	"github.com/kduhealth/medportal/internal/ui/styles"
)

const defaultWidth = 72

// ProfileSource resolves a uid to its stored profile.
type ProfileSource interface {
	Lookup(ctx context.Context, uid string) (registration.StoredProfile, error)
}

// Config holds the landing screen's collaborators.
type Config struct {
	Profiles      ProfileSource
	Clock         clock.Clock
	Institution   string
	MarkdownStyle string
}

// Model shows one landing page.
type Model struct {
	ctx context.Context
	cfg Config

	route   nav.Route
	uid     string
	profile *registration.StoredProfile
	loading bool
	err     string

	width  int
	height int
}

// New creates an empty landing model.
func New(ctx context.Context, cfg Config) Model {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}
	return Model{ctx: ctx, cfg: cfg}
}

// loadedMsg carries a profile lookup result.
type loadedMsg struct {
	uid     string
	profile registration.StoredProfile
	err     error
}

// Show switches to route. Landing routes load the profile for uid.
func (m Model) Show(route nav.Route, uid string) (Model, tea.Cmd) {
	m.route = route
	m.uid = uid
	m.profile = nil
	m.err = ""
	m.loading = route.Landing()
	if !m.loading {
		return m, nil
	}

	ctx, src := m.ctx, m.cfg.Profiles
	return m, func() tea.Msg {
		p, err := src.Lookup(ctx, uid)
		return loadedMsg{uid: uid, profile: p, err: err}
	}
}

// Route returns the route being shown.
func (m Model) Route() nav.Route {
	return m.route
}

// Loading reports whether the profile is still being fetched.
func (m Model) Loading() bool {
	return m.loading
}

// SetSize updates the available area.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Update handles the profile result and the back key.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.uid != m.uid {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			log.ErrorErr(log.CatUI, "profile lookup failed", msg.err, "uid", msg.uid)
			m.err = profileErrorMessage(msg.err)
			return m, nil
		}
		m.profile = &msg.profile
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Landing.Back) {
			return m, nav.To(nav.Signup, "")
		}
	}
	return m, nil
}

func profileErrorMessage(err error) string {
	if registration.IsProfileNotFound(err) {
		return "Your account exists but its profile could not be found. Please contact the registry office."
	}
	return "Could not load your profile: " + err.Error()
}

// View renders the page.
func (m Model) View() string {
	width := defaultWidth
	if m.width > 0 {
		width = min(defaultWidth, max(m.width-2, 30))
	}

	var body string
	switch {
	case m.loading:
		body = styles.HintStyle.Render("Loading your profile...")
	case m.err != "":
		body = styles.ErrorStyle.Render(m.err)
	default:
		body = m.renderPage(width - 4)
	}

	panel := styles.Panel(body, m.title(), width, true)
	return lipgloss.JoinVertical(lipgloss.Left, panel, styles.StatusBarStyle.Render(help.New().View(keys.Landing)))
}

func (m Model) title() string {
	switch m.route {
	case nav.Doctor:
		return "Doctor Portal"
	case nav.Student:
		return "Student Portal"
	case nav.Login:
		return "Log In"
	default:
		return string(m.route)
	}
}

func (m Model) renderPage(width int) string {
	name, page := m.page()
	md, err := templates.Render(name, page)
	if err != nil {
		log.ErrorErr(log.CatUI, "render landing template", err, "page", name)
		return styles.ErrorStyle.Render(err.Error())
	}
	r, err := markdown.New(width, m.cfg.MarkdownStyle)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// page picks the template and fills its data from the loaded profile.
func (m Model) page() (string, templates.Page) {
	data := templates.Page{Institution: m.cfg.Institution}
	if m.profile == nil {
		return templates.PageLogin, data
	}

	base := m.profile.Profile.Base()
	data.FirstName = base.FirstName
	data.LastName = base.LastName
	data.Email = base.Email
	data.Since = clock.Since(m.cfg.Clock, m.profile.CreatedAt)

	if doc, ok := m.profile.Profile.(registration.DoctorProfile); ok {
		data.Specialization = doc.Specialization
		return templates.PageDoctor, data
	}
	return templates.PageStudent, data
}
