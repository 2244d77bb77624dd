// Package nav defines the screens medportal can route to and the message
// used to move between them.
package nav

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kduhealth/medportal/internal/log"
	"github.com/kduhealth/medportal/internal/registration"
)

// Route is a screen path.
type Route string

// Known routes.
const (
	Signup  Route = registration.RouteSignup
	Login   Route = registration.RouteLogin
	Student Route = registration.RouteStudent
	Doctor  Route = registration.RouteDoctor
)

// Routes lists every known route.
func Routes() []Route {
	return []Route{Signup, Login, Student, Doctor}
}

// Parse converts a path into a Route.
func Parse(path string) (Route, error) {
	for _, r := range Routes() {
		if string(r) == path {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown route %q", path)
}

// Landing reports whether r is a post-registration landing screen.
func (r Route) Landing() bool {
	return r == Student || r == Doctor
}

// NavigateMsg asks the app to show Route. UID identifies the user whose
// profile a landing screen should load.
type NavigateMsg struct {
	Route Route
	UID   string
}

// To returns a command that navigates to route.
func To(route Route, uid string) tea.Cmd {
	return func() tea.Msg {
		log.Debug(log.CatNav, "navigate", "route", route, "uid", uid)
		return NavigateMsg{Route: route, UID: uid}
	}
}
