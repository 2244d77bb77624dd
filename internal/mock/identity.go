package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/kduhealth/medportal/internal/registration"
)

// Identity is a fake registration.IdentityService.
type Identity struct {
	// CreateUserFunc overrides CreateUser when set.
	CreateUserFunc func(ctx context.Context, email, password string) (registration.Credential, error)

	mu     sync.Mutex
	calls  int
	emails []string
	uids   map[string]string
}

// NewIdentity returns a fake that issues uid-1, uid-2, ... and rejects
// emails it has already seen.
func NewIdentity() *Identity {
	return &Identity{uids: make(map[string]string)}
}

// CreateUser records the call and creates an account.
func (i *Identity) CreateUser(ctx context.Context, email, password string) (registration.Credential, error) {
	i.mu.Lock()
	i.calls++
	fn := i.CreateUserFunc
	i.mu.Unlock()

	if fn != nil {
		return fn(ctx, email, password)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if _, exists := i.uids[email]; exists {
		return registration.Credential{}, &registration.IdentityError{
			Code:    registration.CodeEmailInUse,
			Message: "The email address is already in use by another account.",
		}
	}
	uid := fmt.Sprintf("uid-%d", len(i.uids)+1)
	i.uids[email] = uid
	i.emails = append(i.emails, email)
	return registration.Credential{UID: uid}, nil
}

// Calls returns how many times CreateUser was invoked.
func (i *Identity) Calls() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.calls
}

// Emails returns the emails of accounts the default behaviour created.
func (i *Identity) Emails() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]string(nil), i.emails...)
}

// UID returns the uid issued for email, if any.
func (i *Identity) UID(email string) (string, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	uid, ok := i.uids[email]
	return uid, ok
}

// ListAccounts returns the accounts the default behaviour created, in order.
func (i *Identity) ListAccounts(context.Context) ([]registration.Account, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]registration.Account, 0, len(i.emails))
	for _, email := range i.emails {
		out = append(out, registration.Account{UID: i.uids[email], Email: email})
	}
	return out, nil
}
