package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	asJSON bool
}

// NewFormatter creates a new formatter. asJSON selects indented JSON over
// the human-readable text layout.
func NewFormatter(writer io.Writer, asJSON bool) *Formatter {
	return &Formatter{
		writer: writer,
		asJSON: asJSON,
	}
}

// FormatOrphanReport writes an orphan report.
func (f *Formatter) FormatOrphanReport(report OrphanReportDTO) error {
	if f.asJSON {
		return f.encode(report)
	}

	if _, err := fmt.Fprintf(f.writer, "%s  accounts=%d profiles=%d orphans=%d\n",
		report.GeneratedAt.Format(time.RFC3339), report.Accounts, report.Profiles, len(report.Orphans)); err != nil {
		return err
	}
	if len(report.Orphans) == 0 {
		_, err := fmt.Fprintln(f.writer, "No orphaned accounts.")
		return err
	}

	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "UID\tEMAIL\tCREATED")
	for _, o := range report.Orphans {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", o.UID, o.Email, o.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

// FormatRegistration writes the outcome of a headless sign-up.
func (f *Formatter) FormatRegistration(reg RegistrationDTO) error {
	if f.asJSON {
		return f.encode(reg)
	}
	_, err := fmt.Fprintf(f.writer, "Registered %s as %s (document %s)\nNext: %s\n",
		reg.UID, reg.Role, reg.DocumentID, reg.Route)
	return err
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
