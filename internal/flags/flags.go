// Package flags holds feature toggles read from the flags section of the
// config file. Unknown flags fall back to their built-in default.
package flags

import (
	"maps"
	"slices"

	"github.com/kduhealth/medportal/internal/log"
)

const (
	// FlagRegistrationEvents publishes a UserRegistered event (in-process
	// and, when configured, NATS) after each successful sign-up.
	FlagRegistrationEvents = "registration-events"

	// FlagOrphanReportOnStart runs the orphaned-identity report when the
	// TUI starts and shows the result as a toast.
	FlagOrphanReportOnStart = "orphan-report-on-start"
)

// Defaults are the values used for flags missing from the config.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagRegistrationEvents:  true,
		FlagOrphanReportOnStart: true,
	}
}

// Registry is a read-only set of flag values.
type Registry struct {
	flags map[string]bool
}

// New merges configured values over Defaults.
func New(configured map[string]bool) *Registry {
	flags := Defaults()
	maps.Copy(flags, configured)
	r := &Registry{flags: flags}
	log.Debug(log.CatConfig, "feature flags loaded", "flags", r.Names())
	return r
}

// Enabled reports whether name is on. Nil registries and unknown names are off.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	on, ok := r.flags[name]
	if !ok {
		log.Debug(log.CatConfig, "unknown flag", "flag", name)
	}
	return on
}

// All returns a copy of the flag values.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}

// Names lists the enabled flags, sorted.
func (r *Registry) Names() []string {
	var out []string
	for name, on := range r.All() {
		if on {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
