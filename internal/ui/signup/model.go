// Package signup implements the account registration form.
package signup

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/kduhealth/medportal/internal/keys"
	"github.com/kduhealth/medportal/internal/log"
	"github.com/kduhealth/medportal/internal/nav"
	"github.com/kduhealth/medportal/internal/registration"
)

const (
	SpecializationPlaceholder = "e.g., Cardiology, Pediatrics, General Medicine"
	SpecializationHint        = "Enter your medical specialization"
	SubmitLabel               = "Sign Up"
	SubmittingLabel           = "Creating account..."
)

// Zone IDs for mouse handling.
const (
	zoneSubmit      = "signup-submit"
	zoneLogin       = "signup-login"
	zoneRolePrefix  = "signup-role-"
	zoneFieldPrefix = "signup-field-"
)

// slot is one focusable element. Text fields use their registration.Field;
// the role selector and the submit button have their own names.
type slot string

const (
	slotRole   slot = "role"
	slotSubmit slot = "submit"
)

type input struct {
	field registration.Field
	label string
	model textinput.Model
}

// SubmittedMsg carries the outcome of a Register call.
type SubmittedMsg struct {
	Result registration.Result
	Err    error
}

// Model is the sign-up form. Form is the single source of truth; the text
// inputs mirror it.
type Model struct {
	ctx         context.Context
	svc         *registration.Service
	institution string

	form    registration.Form
	inputs  []input
	focus   slot
	pending bool
	err     string

	width  int
	height int
}

// New creates an empty form that submits through svc.
func New(ctx context.Context, svc *registration.Service, institution string) Model {
	m := Model{
		ctx:         ctx,
		svc:         svc,
		institution: institution,
		form:        registration.NewForm(),
		inputs: []input{
			newInput(registration.FieldFirstName, "First Name", "", false),
			newInput(registration.FieldLastName, "Last Name", "", false),
			newInput(registration.FieldEmail, "Email", "you@"+svc.Domain(), false),
			newInput(registration.FieldPassword, "Password", "at least 6 characters", true),
			newInput(registration.FieldConfirmPassword, "Confirm Password", "", true),
			newInput(registration.FieldSpecialization, "Specialization", SpecializationPlaceholder, false),
		},
	}
	m.setFocus(slot(registration.FieldFirstName))
	return m
}

func newInput(field registration.Field, label, placeholder string, secret bool) input {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 120
	ti.Width = 40
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return input{field: field, label: label, model: ti}
}

// Form returns the current form snapshot.
func (m Model) Form() registration.Form {
	return m.form
}

// Loading reports whether a submission is running.
func (m Model) Loading() bool {
	return m.pending || m.svc.Status().Loading
}

// Error returns the message currently shown, if any.
func (m Model) Error() string {
	return m.err
}

// Focused returns the name of the focused element.
func (m Model) Focused() string {
	return string(m.focus)
}

// SetSize updates the available area.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SubmittedMsg:
		return m.handleSubmitted(msg)

	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease {
			return m.handleClick(msg)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Form.NextField):
		m.moveFocus(1)
		return m, nil
	case key.Matches(msg, keys.Form.PrevField):
		m.moveFocus(-1)
		return m, nil
	case key.Matches(msg, keys.Form.ToggleRole):
		m.toggleRole()
		return m, nil
	case key.Matches(msg, keys.Form.Login):
		return m, nav.To(nav.Login, "")
	case key.Matches(msg, keys.Form.Submit):
		return m.submit()
	}

	if m.focus == slotRole {
		switch msg.String() {
		case " ", "left", "right", "h", "l":
			m.toggleRole()
		}
		return m, nil
	}

	idx := m.inputIndex(registration.Field(m.focus))
	if idx < 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[idx].model, cmd = m.inputs[idx].model.Update(msg)
	m.form = m.form.With(m.inputs[idx].field, m.inputs[idx].model.Value())
	return m, cmd
}

func (m Model) handleClick(msg tea.MouseMsg) (Model, tea.Cmd) {
	if inZone(zoneSubmit, msg) {
		m.setFocus(slotSubmit)
		return m.submit()
	}
	if inZone(zoneLogin, msg) {
		return m, nav.To(nav.Login, "")
	}
	for _, r := range registration.Roles() {
		if inZone(zoneRolePrefix+string(r), msg) {
			m.setRole(r)
			m.setFocus(slotRole)
			return m, nil
		}
	}
	for _, s := range m.slots() {
		if inZone(zoneFieldPrefix+string(s), msg) {
			m.setFocus(s)
			return m, nil
		}
	}
	return m, nil
}

func inZone(id string, msg tea.MouseMsg) bool {
	z := zone.Get(id)
	return z != nil && z.InBounds(msg)
}

// submit starts a registration unless one is already running.
func (m Model) submit() (Model, tea.Cmd) {
	if m.Loading() {
		log.Debug(log.CatUI, "submit ignored while loading")
		return m, nil
	}
	m.pending = true
	m.err = ""

	ctx, svc, form := m.ctx, m.svc, m.form
	return m, func() tea.Msg {
		res, err := svc.Register(ctx, form)
		return SubmittedMsg{Result: res, Err: err}
	}
}

func (m Model) handleSubmitted(msg SubmittedMsg) (Model, tea.Cmd) {
	m.pending = false
	if msg.Err != nil {
		m.err = registration.UserMessage(msg.Err)
		log.Debug(log.CatUI, "sign-up failed", "message", m.err)
		return m, nil
	}
	return m, nav.To(nav.Route(msg.Result.Route), msg.Result.UID)
}

// slots lists the focusable elements in tab order for the current role.
func (m Model) slots() []slot {
	out := []slot{
		slot(registration.FieldFirstName),
		slot(registration.FieldLastName),
		slot(registration.FieldEmail),
		slot(registration.FieldPassword),
		slot(registration.FieldConfirmPassword),
		slotRole,
	}
	if m.form.ShowsSpecialization() {
		out = append(out, slot(registration.FieldSpecialization))
	}
	return append(out, slotSubmit)
}

func (m *Model) moveFocus(delta int) {
	slots := m.slots()
	cur := 0
	for i, s := range slots {
		if s == m.focus {
			cur = i
			break
		}
	}
	next := (cur + delta + len(slots)) % len(slots)
	m.setFocus(slots[next])
}

func (m *Model) setFocus(s slot) {
	m.focus = s
	for i := range m.inputs {
		if slot(m.inputs[i].field) == s {
			m.inputs[i].model.Focus()
		} else {
			m.inputs[i].model.Blur()
		}
	}
}

func (m *Model) toggleRole() {
	if m.form.UserType == registration.RoleDoctor {
		m.setRole(registration.RoleStudent)
	} else {
		m.setRole(registration.RoleDoctor)
	}
}

func (m *Model) setRole(r registration.Role) {
	m.form = m.form.With(registration.FieldUserType, string(r))
	// The specialization input can vanish while focused.
	if m.focus == slot(registration.FieldSpecialization) && !m.form.ShowsSpecialization() {
		m.setFocus(slotRole)
	}
}

func (m Model) inputIndex(f registration.Field) int {
	for i, in := range m.inputs {
		if in.field == f {
			return i
		}
	}
	return -1
}
