package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/kduhealth/medportal/internal/app"
	"github.com/kduhealth/medportal/internal/config"
	"github.com/kduhealth/medportal/internal/flags"
	"github.com/kduhealth/medportal/internal/log"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	debug   bool
	loaded  config.Loaded
)

var rootCmd = &cobra.Command{
	Use:   "medportal",
	Short: "KDU account registration",
	Long: `medportal registers student and doctor accounts for the KDU medical portal.

Run without a subcommand to open the sign-up form in the terminal.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE:              runApp,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/medportal/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write debug logs (also MEDPORTAL_DEBUG)")
}

func initConfig(cmd *cobra.Command, _ []string) error {
	l, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	loaded = l
	if debug {
		loaded.Config.Debug = true
	}
	if loaded.Created {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote default config to %s\n", loaded.Path)
	}
	return nil
}

// debugLogPath sits next to the database.
func debugLogPath(cfg config.Config) string {
	return filepath.Join(filepath.Dir(cfg.Storage.Path), "debug.log")
}

func runApp(cmd *cobra.Command, _ []string) error {
	cfg := loaded.Config
	if cfg.Debug {
		cleanup, err := log.InitWithTeaLog(debugLogPath(cfg), "medportal")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer cleanup()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt, err := openRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(context.Background()) }()

	zone.NewGlobal()
	model := app.New(ctx, appServices(rt))
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func appServices(rt *runtime) app.Services {
	svcs := app.Services{
		NewService:    rt.newService,
		Profiles:      rt.profiles,
		Gauge:         rt.metrics,
		Institution:   rt.cfg.Institution.Name,
		MarkdownStyle: rt.cfg.UI.MarkdownStyle,
		Debug:         rt.cfg.Debug,
	}
	if rt.flags.Enabled(flags.FlagRegistrationEvents) {
		svcs.Registrations = rt.broker
	}
	if rt.flags.Enabled(flags.FlagOrphanReportOnStart) {
		svcs.Reconciler = rt.reconciler()
	}
	return svcs
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
