package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/conneroisu/embedloader/internal/version"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display the version, git commit, build time, Go version and target
platform of this binary.

Examples:
  embedloader version              # Version and build details
  embedloader version --short      # Version only
  embedloader version -o json      # Output as JSON`,
	Args: cobra.NoArgs,
	RunE: runVersionCommand,
}

var (
	versionFlags *StandardFlags
	versionShort bool
)

func init() {
	rootCmd.AddCommand(versionCmd)

	versionFlags = AddStandardFlags(versionCmd, "text", "json", "yaml")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	info := version.GetBuildInfo()

	switch versionFlags.Format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(info)
	}

	if versionShort {
		fmt.Fprintln(w, version.GetShortVersion())
		return nil
	}

	fmt.Fprintf(w, "embedloader %s", version.GetShortVersion())
	if info.Dirty {
		fmt.Fprint(w, " (dirty)")
	}
	fmt.Fprintln(w)

	if !info.BuildTime.IsZero() {
		fmt.Fprintf(w, "Built: %s\n", info.BuildTime.UTC().Format("2006-01-02 15:04:05 UTC"))
	}
	fmt.Fprintf(w, "Go: %s\n", info.GoVersion)
	fmt.Fprintf(w, "Platform: %s\n", info.Platform)
	if version.IsRelease() {
		fmt.Fprintln(w, "Build type: release")
	} else {
		fmt.Fprintln(w, "Build type: development")
	}

	return nil
}
