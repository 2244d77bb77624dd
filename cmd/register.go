package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kduhealth/medportal/internal/log"
	"github.com/kduhealth/medportal/internal/presentation"
	"github.com/kduhealth/medportal/internal/registration"
)

var registerOpts struct {
	firstName      string
	lastName       string
	email          string
	password       string
	role           string
	specialization string
	json           bool
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register an account without the TUI",
	Long: `Register a student or doctor account from the command line.

The same checks as the sign-up form apply: every name field is required,
the email must belong to the institution domain and doctors must give a
specialization.

Examples:
  medportal register --first-name Amaya --last-name Silva \
    --email amaya@kdu.ac.lk --password secret123

  medportal register --role doctor --specialization Cardiology \
    --first-name Nimal --last-name Perera \
    --email nimal@kdu.ac.lk --password secret123 --json`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

func init() {
	f := registerCmd.Flags()
	f.StringVar(&registerOpts.firstName, "first-name", "", "first name")
	f.StringVar(&registerOpts.lastName, "last-name", "", "last name")
	f.StringVar(&registerOpts.email, "email", "", "institution email address")
	f.StringVar(&registerOpts.password, "password", "", "account password")
	f.StringVar(&registerOpts.role, "role", string(registration.RoleStudent), "student or doctor")
	f.StringVar(&registerOpts.specialization, "specialization", "", "medical specialization (doctors only)")
	f.BoolVar(&registerOpts.json, "json", false, "print the result as JSON")
	for _, name := range []string{"first-name", "last-name", "email", "password"} {
		_ = registerCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, _ []string) error {
	role, err := registration.ParseRole(registerOpts.role)
	if err != nil {
		return err
	}
	initHeadlessLog(cmd)

	rt, err := openRuntime(cmd.Context(), loaded.Config)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(cmd.Context()) }()

	form := registrationForm(registerOpts.firstName, registerOpts.lastName, registerOpts.email,
		registerOpts.password, role, registerOpts.specialization)

	res, err := rt.newService().Register(cmd.Context(), form)
	if err != nil {
		log.ErrorErr(log.CatAuth, "headless registration failed", err, "email", registerOpts.email)
		return errors.New(registration.UserMessage(err))
	}

	// Read the profile back so the output carries the store's timestamp.
	stored, err := rt.db.Documents().GetDocument(cmd.Context(), registration.DocumentRef{
		Collection: registration.UsersCollection,
		ID:         res.DocumentID,
	})
	if err != nil {
		return fmt.Errorf("reading profile %s: %w", res.DocumentID, err)
	}

	dto := presentation.FromResult(res)
	dto.CreatedAt = stored.CreatedAt
	formatter := presentation.NewFormatter(cmd.OutOrStdout(), registerOpts.json)
	if err := formatter.FormatRegistration(dto); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}

// registrationForm builds a form snapshot with matching passwords.
func registrationForm(first, last, email, password string, role registration.Role, specialization string) registration.Form {
	return registration.NewForm().
		With(registration.FieldFirstName, first).
		With(registration.FieldLastName, last).
		With(registration.FieldEmail, email).
		With(registration.FieldPassword, password).
		With(registration.FieldConfirmPassword, password).
		With(registration.FieldUserType, string(role)).
		With(registration.FieldSpecialization, specialization)
}

// initHeadlessLog sends debug logs to stderr for the non-TUI commands.
func initHeadlessLog(cmd *cobra.Command) {
	if loaded.Config.Debug {
		log.InitWriter(cmd.ErrOrStderr())
	}
}
