package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// StandardFlags provides consistent flag definitions across commands
type StandardFlags struct {
	// Output flags
	Format string `flag:"output,o" desc:"Output format" default:"table"`
	Quiet  bool   `flag:"quiet,q" desc:"Suppress informational output" default:"false"`
}

// AddStandardFlags adds the output flags to a command. formats lists the
// accepted values of --output; the first one is the default.
func AddStandardFlags(cmd *cobra.Command, formats ...string) *StandardFlags {
	flags := &StandardFlags{}
	if len(formats) == 0 {
		formats = []string{"table", "json", "yaml"}
	}

	cmd.Flags().StringVarP(&flags.Format, "output", "o", formats[0],
		fmt.Sprintf("Output format (%s)", strings.Join(formats, "|")))
	cmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress informational output")

	AddFlagValidation(cmd, "output", func(format string) error {
		return ValidateFormatWithSuggestion(format, formats)
	})

	return flags
}

// AddFlagValidation adds validation for a specific flag
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:       flag.Value,
		validator:   validator,
		originalSet: flag.Value.Set,
	}
}

type validatingValue struct {
	pflag.Value
	validator   func(string) error
	originalSet func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.originalSet(val)
}

// ValidateFormatWithSuggestion checks format against the allowed values,
// suggesting the closest one by prefix.
func ValidateFormatWithSuggestion(format string, allowed []string) error {
	lower := strings.ToLower(format)
	for _, a := range allowed {
		if lower == a {
			return nil
		}
	}

	for _, a := range allowed {
		if lower != "" && strings.HasPrefix(a, lower) {
			return fmt.Errorf("invalid format %q, did you mean %q? (supported: %s)",
				format, a, strings.Join(allowed, ", "))
		}
	}

	return fmt.Errorf("invalid format %q (supported: %s)", format, strings.Join(allowed, ", "))
}
