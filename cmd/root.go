// Package cmd provides the command-line interface for embedloader with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --root, --archive, etc.) - highest priority
//	2. EMBEDLOADER_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (EMBEDLOADER_LOADER_ROOT, etc.)
//	4. Configuration files (.embedloader.yml) - lowest priority
//
// Environment Variables:
//
//	EMBEDLOADER_CONFIG_FILE: Path to custom configuration file
//	EMBEDLOADER_LOADER_ROOT: Root container identifier
//	EMBEDLOADER_LOADER_ENCODING: Template encoding
//	EMBEDLOADER_BUNDLE_ARCHIVE: Bundle archive to read containers from
//	And more following the EMBEDLOADER_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "embedloader",
	Short: "Resolve and render templates bundled inside containers",
	Long: `embedloader resolves slash separated template names against resources
bundled in containers (packages) instead of files on disk.

A name such as foo/bar/x.html is looked up as a nested path in the root
container first. When the root does not have it, the directory part becomes
a nested container (root.foo.bar) and only x.html is looked up there.

Quick Start:
  embedloader containers --resources          List bundled containers
  embedloader get foo/test.html               Print a template source
  embedloader render page.html --data d.yaml  Render a template

Bundles are zip archives. Directories holding a package marker
(__init__.py by default) become containers; bundle.yaml can declare more.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .embedloader.yml, can also use EMBEDLOADER_CONFIG_FILE env var)")
	flags.StringP("log-level", "l", "info", "log level (debug, info, warn, error, off)")
	flags.String("log-format", "text", "log format (text, json)")
	flags.StringP("root", "r", "", "root container identifier, e.g. app.templates")
	flags.StringP("archive", "a", "", "bundle archive (.zip)")
	flags.StringP("encoding", "e", "", "template encoding (default utf-8)")

	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("log.format", flags.Lookup("log-format"))
	viper.BindPFlag("loader.root", flags.Lookup("root"))
	viper.BindPFlag("bundle.archive", flags.Lookup("archive"))
	viper.BindPFlag("loader.encoding", flags.Lookup("encoding"))
}

// initConfig initializes the configuration system with support for multiple config sources.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. EMBEDLOADER_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .embedloader.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("EMBEDLOADER_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".embedloader")
	}

	// EMBEDLOADER_LOADER_ROOT, EMBEDLOADER_BUNDLE_ARCHIVE, ...
	viper.SetEnvPrefix("EMBEDLOADER")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing or unreadable config file falls back to defaults
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
