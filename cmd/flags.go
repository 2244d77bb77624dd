package cmd

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/kduhealth/medportal/internal/config"
	"github.com/kduhealth/medportal/internal/flags"
	"github.com/kduhealth/medportal/internal/log"
)

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "Show feature flags",
	Long: `Show the feature flags in effect, with config values merged over the defaults.

Examples:
  medportal flags
  medportal flags set orphan-report-on-start false`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		all := flags.New(loaded.Config.Flags).All()
		names := lo.Keys(all)
		slices.Sort(names)
		for _, name := range names {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", name, onOff(all[name])); err != nil {
				return err
			}
		}
		return nil
	},
}

var flagsSetCmd = &cobra.Command{
	Use:   "set <name> <true|false>",
	Short: "Turn a feature flag on or off in the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if _, known := flags.Defaults()[name]; !known {
			known := lo.Keys(flags.Defaults())
			slices.Sort(known)
			return fmt.Errorf("unknown flag %q (known: %v)", name, known)
		}
		on, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("flag value must be true or false: %w", err)
		}
		if err := config.SaveFlag(loaded.Path, name, on); err != nil {
			return fmt.Errorf("saving flag: %w", err)
		}
		log.Info(log.CatConfig, "flag saved", "flag", name, "on", on, "path", loaded.Path)
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", name, onOff(on), loaded.Path)
		return err
	},
}

func init() {
	flagsCmd.AddCommand(flagsSetCmd)
	rootCmd.AddCommand(flagsCmd)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
