package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/isbnscan/internal/api"
	"github.com/jackzampolin/isbnscan/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage isbnscan configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config to the home directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := homePath.EnsureExists(); err != nil {
			return err
		}
		path := homePath.ConfigPath()
		if homePath.ConfigExists() && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		cmd.Println("Wrote", path)
		return nil
	},
}

// ConfigShowResponse is the output of config show.
type ConfigShowResponse struct {
	File   string         `json:"file,omitempty" yaml:"file,omitempty"`
	Config *config.Config `json:"config" yaml:"config"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, the config file and
ISBNSCAN_ environment variables are merged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return api.Output(ConfigShowResponse{
			File:   cfgMgr.ConfigFile(),
			Config: cfgMgr.Get(),
		})
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
