package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/conneroisu/embedloader/internal/bundle"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var getCmd = &cobra.Command{
	Use:   "get <template>",
	Short: "Print the source of a bundled template",
	Long: `Resolve a slash separated template name against the root container and
print its decoded source.

The name is first looked up as a nested path in the root container. If the
root does not contain it, the leading segments select a nested container and
only the last segment is read from there.

Examples:
  embedloader get test.html                  # Root container lookup
  embedloader get foo/bar/x.html             # Falls back to <root>.foo.bar
  embedloader get foo/test.html -o json      # Source with metadata as JSON
  embedloader get foo/test.html --digest     # Include a BLAKE3 digest`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var (
	getFlags  *StandardFlags
	getDigest bool
)

func init() {
	rootCmd.AddCommand(getCmd)

	getFlags = AddStandardFlags(getCmd, "text", "json", "yaml")
	getCmd.Flags().BoolVarP(&getDigest, "digest", "d", false, "Include the BLAKE3 digest of the source")
}

// templateOutput is the structured form of a resolved template.
type templateOutput struct {
	Name     string `json:"name" yaml:"name"`
	Path     string `json:"path" yaml:"path"`
	Root     string `json:"root" yaml:"root"`
	Encoding string `json:"encoding" yaml:"encoding"`
	Digest   string `json:"digest,omitempty" yaml:"digest,omitempty"`
	Text     string `json:"text" yaml:"text"`
}

func runGet(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	l, err := s.loader()
	if err != nil {
		return s.explain(args[0], err)
	}

	src, err := l.GetSource(cmd.Context(), args[0])
	if err != nil {
		return s.explain(args[0], err)
	}

	out := templateOutput{
		Name:     args[0],
		Path:     src.Path,
		Root:     l.Root(),
		Encoding: l.Encoding(),
		Text:     src.Text,
	}
	if getDigest {
		out.Digest = bundle.Digest([]byte(src.Text))
	}

	w := cmd.OutOrStdout()
	switch getFlags.Format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(out)
	default:
		if out.Digest != "" && !getFlags.Quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "blake3:%s\n", out.Digest)
		}
		_, err := fmt.Fprint(w, out.Text)
		return err
	}
}
