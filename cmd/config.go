package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/conneroisu/embedloader/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect embedloader configuration",
	Long: `Inspect embedloader configuration.

Examples:
  embedloader config show              # Show resolved configuration as YAML
  embedloader config show -o json      # Show it as JSON
  embedloader config validate          # Check the configuration and exit`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the configuration after loading the configuration file,
applying EMBEDLOADER_* environment variables, command-line flags and
defaults.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var configShowFlags *StandardFlags

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)

	configShowFlags = AddStandardFlags(configShowCmd, "yaml", "json")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	w := cmd.OutOrStdout()
	if configShowFlags.Format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(cfg)
	}

	if !configShowFlags.Quiet {
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(w, "# Loaded from %s\n", used)
		}
	}
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	return encoder.Encode(cfg)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if _, err := config.Load(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
	return nil
}
