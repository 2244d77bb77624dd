package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ncruces/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"github.com/kduhealth/medportal/internal/clock"
	"github.com/kduhealth/medportal/internal/log"
	"github.com/kduhealth/medportal/internal/registration"
)

// credentials are the sign-up inputs the identity service checks itself.
// Passwords shorter than six characters are rejected as weak.
type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

var credentialValidator = validator.New(validator.WithRequiredStructEnabled())

// Identity service messages, worded like the hosted auth service's.
const (
	msgEmailInUse   = "The email address is already in use by another account."
	msgInvalidEmail = "The email address is badly formatted."
	msgWeakPassword = "Password should be at least 6 characters"
)

// IdentityService stores accounts with bcrypt password hashes.
type IdentityService struct {
	db    *sql.DB
	clock clock.Clock
	cost  int
}

var (
	_ registration.IdentityService = (*IdentityService)(nil)
	_ registration.AccountLister   = (*IdentityService)(nil)
)

func newIdentityService(db *sql.DB, c clock.Clock, cost int) *IdentityService {
	return &IdentityService{db: db, clock: c, cost: cost}
}

// CreateUser creates an account and returns its new uid. Failures the user
// can act on are returned as *registration.IdentityError.
func (s *IdentityService) CreateUser(ctx context.Context, email, password string) (registration.Credential, error) {
	email = strings.TrimSpace(email)
	if err := checkCredentials(email, password); err != nil {
		return registration.Credential{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return registration.Credential{}, fmt.Errorf("failed to hash password: %w", err)
	}

	uid := strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO identities (uid, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		uid, email, hash, s.clock.Now().UnixMilli(),
	)
	if err != nil {
		if errors.Is(err, sqlite3.CONSTRAINT_UNIQUE) {
			return registration.Credential{}, &registration.IdentityError{
				Code: registration.CodeEmailInUse, Message: msgEmailInUse, Err: err,
			}
		}
		return registration.Credential{}, fmt.Errorf("failed to insert identity: %w", err)
	}

	log.Debug(log.CatAuth, "identity created", "uid", uid)
	return registration.Credential{UID: uid}, nil
}

// checkCredentials maps the first failing rule to the identity error the
// hosted service would return.
func checkCredentials(email, password string) error {
	err := credentialValidator.Struct(credentials{Email: email, Password: password})
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 && fieldErrs[0].StructField() == "Password" {
		return &registration.IdentityError{Code: registration.CodeWeakPassword, Message: msgWeakPassword, Err: err}
	}
	return &registration.IdentityError{Code: registration.CodeInvalidEmail, Message: msgInvalidEmail, Err: err}
}

// ListAccounts returns every account, oldest first.
func (s *IdentityService) ListAccounts(ctx context.Context) ([]registration.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uid, email, created_at FROM identities ORDER BY created_at, uid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []registration.Account
	for rows.Next() {
		var (
			a       registration.Account
			created int64
		)
		if err := rows.Scan(&a.UID, &a.Email, &created); err != nil {
			return nil, fmt.Errorf("failed to scan identity: %w", err)
		}
		a.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate identities: %w", err)
	}
	return out, nil
}
