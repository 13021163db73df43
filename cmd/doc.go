// # Available Commands
//
//   - get: Print the decoded source of a bundled template
//   - render: Execute a bundled template with YAML or JSON data
//   - containers: List the containers (and resources) of a bundle archive
//   - config show, config validate: Inspect the resolved configuration
//   - version: Show build information
//
// # Command Examples
//
//	// Print a template found through the nested container fallback
//	embedloader get foo/bar/x.html --archive dist/bundle.zip --root app.templates
//
//	// Render with data
//	embedloader render page.html --html --data page.yaml
//
//	// List resources with their BLAKE3 digests as JSON
//	embedloader containers --digests -o json
//
// # Error Handling
//
// Lookup failures are reported with suggestions: the containers in the
// bundle, the nested container a name would fall back to, and similarly
// named templates.
package cmd
