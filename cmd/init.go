package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omnidive/omnidive/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize omnidive configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to pick a provider, models and overlap policy, and writes a .omnidive.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (provider %s). Set %s before running `omnidive serve`.\n",
			cfgFile, cfg.Provider, config.APIKeyEnvVar(cfg.Provider))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
