package cmd

import (
	"github.com/conneroisu/embedloader/internal/render"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <template>",
	Short: "Render a bundled template with data",
	Long: `Resolve a template like 'get' does and execute it with data loaded from
a YAML or JSON file.

Examples:
  embedloader render hello.txt --data data.yaml
  embedloader render page.html --html --data data.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var (
	renderData string
	renderHTML bool
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderData, "data", "d", "", "YAML or JSON file with template data")
	renderCmd.Flags().BoolVar(&renderHTML, "html", false, "Use html/template with contextual escaping")
}

func runRender(cmd *cobra.Command, args []string) error {
	data, err := render.LoadData(renderData)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	l, err := s.loader()
	if err != nil {
		return s.explain(args[0], err)
	}

	r := &render.Renderer{Loader: l, HTML: renderHTML}
	if err := r.Render(cmd.Context(), cmd.OutOrStdout(), args[0], data); err != nil {
		return s.explain(args[0], err)
	}

	return nil
}
