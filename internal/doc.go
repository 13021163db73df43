// Package internal contains the implementation packages behind the
// embedloader CLI.
//
// # Package Organization
//
//   - bundle: Container registry over fs.FS, package marker discovery,
//     bundle.yaml manifests, zip archives and BLAKE3 digests
//   - config: Viper backed configuration with EMBEDLOADER_* overrides
//   - errors: Structured LoaderError values and user facing suggestions
//   - logging: log/slog based structured logging
//   - render: text/template and html/template execution of resolved templates
//   - testutils: Bundle fixtures shared by tests
//   - version: Build metadata
//
// The resolver itself lives in pkg/loader so other modules can import it.
// bundle implements its ContainerResolver contract; the CLI wires the two
// together.
package internal
