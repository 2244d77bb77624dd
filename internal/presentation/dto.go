package presentation

import (
	"time"

	"github.com/samber/lo"

	"github.com/kduhealth/medportal/internal/registration"
)

// OrphanDTO is one identity without a Users profile.
type OrphanDTO struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// OrphanReportDTO is the JSON shape of an orphan report.
type OrphanReportDTO struct {
	GeneratedAt time.Time   `json:"generatedAt"`
	Accounts    int         `json:"accounts"`
	Profiles    int         `json:"profiles"`
	Orphans     []OrphanDTO `json:"orphans"` // always present, empty when none
}

// FromOrphanReport converts a reconciliation report to its DTO.
func FromOrphanReport(r registration.OrphanReport) OrphanReportDTO {
	return OrphanReportDTO{
		GeneratedAt: r.GeneratedAt,
		Accounts:    r.Accounts,
		Profiles:    r.Profiles,
		Orphans: lo.Map(r.Orphans, func(a registration.Account, _ int) OrphanDTO {
			return OrphanDTO{UID: a.UID, Email: a.Email, CreatedAt: a.CreatedAt}
		}),
	}
}

// RegistrationDTO is the outcome of a headless sign-up.
type RegistrationDTO struct {
	UID        string            `json:"uid"`
	DocumentID string            `json:"documentId"`
	Route      string            `json:"route"`
	Role       registration.Role `json:"role"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// FromResult converts a registration result to its DTO.
func FromResult(res registration.Result) RegistrationDTO {
	dto := RegistrationDTO{UID: res.UID, DocumentID: res.DocumentID, Route: res.Route}
	if res.Profile != nil {
		dto.Role = res.Profile.Role()
	}
	return dto
}
