// Package templates holds the markdown shown on the screens a user lands on
// after signing up.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"text/template"
)

// Page names, one per file under landing/.
const (
	PageStudent = "student"
	PageDoctor  = "doctor"
	PageLogin   = "login"
)

//go:embed landing
var landingTemplates embed.FS

// LandingFS returns the embedded landing pages.
func LandingFS() fs.FS {
	sub, err := fs.Sub(landingTemplates, "landing")
	if err != nil {
		// Sub only fails on an invalid path literal.
		panic(err)
	}
	return sub
}

// Page is the data available to landing templates.
type Page struct {
	Institution    string
	FirstName      string
	LastName       string
	Email          string
	Specialization string
	Since          string
}

// Render executes the named page template with data and returns markdown.
func Render(name string, data Page) (string, error) {
	content, err := fs.ReadFile(LandingFS(), name+".md")
	if err != nil {
		return "", fmt.Errorf("landing page %q: %w", name, err)
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("parsing landing page %q: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering landing page %q: %w", name, err)
	}
	return buf.String(), nil
}
