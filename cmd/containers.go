package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/conneroisu/embedloader/internal/bundle"
	"github.com/conneroisu/embedloader/pkg/loader"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var containersCmd = &cobra.Command{
	Use:     "containers",
	Aliases: []string{"ls"},
	Short:   "List the containers of the bundle archive",
	Long: `List every container the bundle archive exposes, optionally with the
resources stored in each of them.

Examples:
  embedloader containers                      # Table of containers
  embedloader containers -R                   # Include resources
  embedloader containers -R --digests -o json # Resources with BLAKE3 digests`,
	Args: cobra.NoArgs,
	RunE: runContainers,
}

var (
	containersFlags     *StandardFlags
	containersResources bool
	containersDigests   bool
)

func init() {
	rootCmd.AddCommand(containersCmd)

	containersFlags = AddStandardFlags(containersCmd)
	containersCmd.Flags().BoolVarP(&containersResources, "resources", "R", false, "Include the resources of each container")
	containersCmd.Flags().BoolVar(&containersDigests, "digests", false, "Include BLAKE3 digests of resources (implies --resources)")
}

type containerOutput struct {
	ID        string           `json:"id" yaml:"id"`
	Resources []resourceOutput `json:"resources,omitempty" yaml:"resources,omitempty"`
}

type resourceOutput struct {
	Name   string `json:"name" yaml:"name"`
	Digest string `json:"digest,omitempty" yaml:"digest,omitempty"`
}

func runContainers(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	withResources := containersResources || containersDigests

	var containers []containerOutput
	for _, id := range s.archive.Containers() {
		c := containerOutput{ID: id}
		if withResources {
			if c.Resources, err = listResources(s.archive.Registry, id, containersDigests); err != nil {
				return err
			}
		}
		containers = append(containers, c)
	}

	w := cmd.OutOrStdout()
	switch containersFlags.Format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(containers)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(containers)
	default:
		return outputContainersTable(w, containers, withResources, containersFlags.Quiet)
	}
}

func listResources(registry *bundle.Registry, id string, digests bool) ([]resourceOutput, error) {
	names, err := registry.Resources(id)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}

	var reader loader.ResourceReader
	if digests {
		container, err := registry.ResolveContainer(id)
		if err != nil {
			return nil, err
		}
		if reader, err = container.ResourceReader(id); err != nil {
			return nil, err
		}
	}

	resources := make([]resourceOutput, len(names))
	for i, name := range names {
		resources[i].Name = name
		if reader == nil {
			continue
		}

		data, err := readAll(reader.OpenResource(name))
		if err != nil {
			return nil, fmt.Errorf("read %s from %s: %w", name, id, err)
		}
		resources[i].Digest = bundle.Digest(data)
	}

	return resources, nil
}

func readAll(rc io.ReadCloser, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func outputContainersTable(w io.Writer, containers []containerOutput, withResources, quiet bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if withResources {
		fmt.Fprintln(tw, "CONTAINER\tRESOURCE\tDIGEST")
		fmt.Fprintln(tw, strings.Repeat("-", 9)+"\t"+strings.Repeat("-", 8)+"\t"+strings.Repeat("-", 6))
		for _, c := range containers {
			if len(c.Resources) == 0 {
				fmt.Fprintf(tw, "%s\t\t\n", c.ID)
			}
			for _, r := range c.Resources {
				digest := r.Digest
				if len(digest) > 16 {
					digest = digest[:16]
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, r.Name, digest)
			}
		}
	} else {
		fmt.Fprintln(tw, "CONTAINER")
		fmt.Fprintln(tw, strings.Repeat("-", 9))
		for _, c := range containers {
			fmt.Fprintln(tw, c.ID)
		}
	}

	if !quiet {
		fmt.Fprintf(tw, "\nTotal: %d containers\n", len(containers))
	}

	return tw.Flush()
}
