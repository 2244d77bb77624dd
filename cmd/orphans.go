package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kduhealth/medportal/internal/log"
	"github.com/kduhealth/medportal/internal/presentation"
	"github.com/kduhealth/medportal/internal/watcher"
)

var orphansOpts struct {
	watch bool
	json  bool
}

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List accounts that have no profile",
	Long: `List identities whose profile document was never written.

A sign-up creates the login identity first and the Users profile second.
When the second write fails the identity is left without a profile. This
command only reports those accounts; it never deletes anything.

Examples:
  medportal orphans
  medportal orphans --json
  medportal orphans --watch`,
	Args: cobra.NoArgs,
	RunE: runOrphans,
}

func init() {
	orphansCmd.Flags().BoolVarP(&orphansOpts.watch, "watch", "w", false,
		"rerun the report whenever the database changes")
	orphansCmd.Flags().BoolVar(&orphansOpts.json, "json", false, "print the report as JSON")
	rootCmd.AddCommand(orphansCmd)
}

func runOrphans(cmd *cobra.Command, _ []string) error {
	initHeadlessLog(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := openRuntime(ctx, loaded.Config)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(context.Background()) }()

	formatter := presentation.NewFormatter(cmd.OutOrStdout(), orphansOpts.json)
	if err := reportOrphans(ctx, rt, formatter); err != nil {
		return err
	}
	if !orphansOpts.watch {
		return nil
	}

	w, err := watcher.New(watcher.DefaultConfig(rt.db.Path()))
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			log.Debug(log.CatWatcher, "database changed, rerunning orphan report")
			if err := reportOrphans(ctx, rt, formatter); err != nil {
				return err
			}
		}
	}
}

func reportOrphans(ctx context.Context, rt *runtime, formatter *presentation.Formatter) error {
	report, err := rt.reconciler().FindOrphans(ctx)
	if err != nil {
		return fmt.Errorf("building orphan report: %w", err)
	}
	rt.metrics.SetOrphanCount(len(report.Orphans))
	return formatter.FormatOrphanReport(presentation.FromOrphanReport(report))
}
