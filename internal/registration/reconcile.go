package registration

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/kduhealth/medportal/internal/clock"
	"github.com/kduhealth/medportal/internal/log"
)

// Account is an identity known to the identity service.
type Account struct {
	UID       string
	Email     string
	CreatedAt time.Time
}

// AccountLister enumerates identities.
type AccountLister interface {
	ListAccounts(ctx context.Context) ([]Account, error)
}

// DocumentLister enumerates the documents of a collection.
type DocumentLister interface {
	ListDocuments(ctx context.Context, collection string) ([]StoredDocument, error)
}

// OrphanReport lists identities that have no Users document.
type OrphanReport struct {
	GeneratedAt time.Time
	Accounts    int
	Profiles    int
	Orphans     []Account
}

// Reconciler detects orphaned identities left behind by failed profile
// writes. It only reports; it never deletes accounts or documents.
type Reconciler struct {
	accounts  AccountLister
	documents DocumentLister
	clock     clock.Clock
}

// NewReconciler creates a Reconciler. A nil clock uses the wall clock.
func NewReconciler(accounts AccountLister, documents DocumentLister, c clock.Clock) *Reconciler {
	if c == nil {
		c = clock.Real{}
	}
	return &Reconciler{accounts: accounts, documents: documents, clock: c}
}

// FindOrphans returns the accounts whose uid appears in no Users document,
// oldest first.
func (r *Reconciler) FindOrphans(ctx context.Context) (OrphanReport, error) {
	accounts, err := r.accounts.ListAccounts(ctx)
	if err != nil {
		return OrphanReport{}, fmt.Errorf("failed to list accounts: %w", err)
	}
	docs, err := r.documents.ListDocuments(ctx, UsersCollection)
	if err != nil {
		return OrphanReport{}, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiled := lo.SliceToMap(docs, func(d StoredDocument) (string, struct{}) {
		uid, _ := d.Data[KeyUID].(string)
		return uid, struct{}{}
	})
	orphans := lo.Filter(accounts, func(a Account, _ int) bool {
		_, ok := profiled[a.UID]
		return !ok
	})
	sort.SliceStable(orphans, func(i, j int) bool {
		return orphans[i].CreatedAt.Before(orphans[j].CreatedAt)
	})

	if len(orphans) > 0 {
		log.Warn(log.CatStore, "orphaned identities found", "count", len(orphans),
			"uids", lo.Map(orphans, func(a Account, _ int) string { return a.UID }))
	}

	return OrphanReport{
		GeneratedAt: r.clock.Now(),
		Accounts:    len(accounts),
		Profiles:    len(docs),
		Orphans:     orphans,
	}, nil
}
