package signup

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/kduhealth/medportal/internal/keys"
	"github.com/kduhealth/medportal/internal/registration"
	"github.com/kduhealth/medportal/internal/ui/styles"
)

const (
	panelWidth  = 56
	panelMargin = 2
)

// View renders the form.
func (m Model) View() string {
	width := panelWidth
	if m.width > 0 {
		width = min(panelWidth, max(m.width-panelMargin, 24))
	}
	inner := width - 4

	var b strings.Builder
	b.WriteString(styles.HintStyle.Render("Join the "+m.institution+" medical portal") + "\n\n")

	for _, in := range m.inputs {
		if in.field != registration.FieldSpecialization {
			b.WriteString(m.renderInput(in, inner))
		}
	}
	b.WriteString(m.renderRole())
	if m.form.ShowsSpecialization() {
		if idx := m.inputIndex(registration.FieldSpecialization); idx >= 0 {
			b.WriteString(m.renderInput(m.inputs[idx], inner))
			b.WriteString(styles.HintStyle.Render(SpecializationHint) + "\n\n")
		}
	}

	if m.err != "" {
		b.WriteString(styles.ErrorStyle.Render(wordwrap.String(m.err, inner)) + "\n\n")
	}

	b.WriteString(m.renderSubmit() + "\n\n")
	b.WriteString("Already have an account? " + zone.Mark(zoneLogin, styles.LinkStyle.Render("Log In")))

	panel := styles.Panel(b.String(), "Create Account", width, true)
	helpView := help.New().View(keys.Form)
	return lipgloss.JoinVertical(lipgloss.Left, panel, styles.StatusBarStyle.Render(helpView))
}

func (m Model) renderInput(in input, width int) string {
	label := styles.LabelStyle
	if m.focus == slot(in.field) {
		label = styles.LabelFocusedStyle
	}
	ti := in.model
	ti.Width = width - 2
	line := label.Render(in.label) + "\n" + "> " + ti.View()
	return zone.Mark(zoneFieldPrefix+string(in.field), line) + "\n\n"
}

func (m Model) renderRole() string {
	label := styles.LabelStyle
	if m.focus == slotRole {
		label = styles.LabelFocusedStyle
	}
	opts := make([]string, 0, len(registration.Roles()))
	for _, r := range registration.Roles() {
		text := "( ) " + r.Label()
		style := styles.RoleUnselectedStyle
		if r == m.form.UserType {
			text = "(•) " + r.Label()
			style = styles.RoleSelectedStyle
		}
		opts = append(opts, zone.Mark(zoneRolePrefix+string(r), style.Render(text)))
	}
	return label.Render("I am a") + "\n" + strings.Join(opts, "   ") + "\n\n"
}

func (m Model) renderSubmit() string {
	var text string
	var style lipgloss.Style
	switch {
	case m.Loading():
		text, style = SubmittingLabel, styles.DisabledButtonStyle
	case m.focus == slotSubmit:
		text, style = SubmitLabel, styles.PrimaryButtonFocusedStyle
	default:
		text, style = SubmitLabel, styles.PrimaryButtonStyle
	}
	return zone.Mark(zoneSubmit, style.Render(text))
}
