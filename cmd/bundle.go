package cmd

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/conneroisu/embedloader/internal/bundle"
	"github.com/conneroisu/embedloader/internal/config"
	loaderrors "github.com/conneroisu/embedloader/internal/errors"
	"github.com/conneroisu/embedloader/internal/logging"
	"github.com/conneroisu/embedloader/pkg/loader"
)

// session holds everything a command needs to resolve templates from the
// configured bundle archive.
type session struct {
	cfg     *config.Config
	archive *bundle.Archive
	logger  logging.Logger
}

// openSession loads the configuration and opens the bundle archive it
// names. Callers must Close the session.
func openSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cfg.Bundle.Archive == "" {
		return nil, loaderrors.NewEnhancedError("No bundle archive configured",
			loaderrors.NewConfigurationError(loaderrors.ErrCodeConfigInvalid, "bundle.archive is empty", nil),
			loaderrors.ConfigurationSuggestions("archive", nil))
	}

	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}

	archive, err := bundle.OpenArchive(cfg.Bundle.Archive, cfg.Manifest())
	if err != nil {
		return nil, err
	}

	logger.Debug(context.Background(), "Opened bundle archive",
		"archive", cfg.Bundle.Archive,
		"containers", archive.Len())

	return &session{cfg: cfg, archive: archive, logger: logger.WithComponent("cli")}, nil
}

// Close releases the bundle archive.
func (s *session) Close() error {
	return s.archive.Close()
}

// loader builds a Loader anchored at the configured root container.
func (s *session) loader() (*loader.Loader, error) {
	if s.cfg.Loader.Root == "" {
		return nil, loaderrors.NewEnhancedError("No root container configured",
			loaderrors.NewConfigurationError(loaderrors.ErrCodeConfigInvalid, "loader.root is empty", nil),
			loaderrors.ConfigurationSuggestions("root", s.suggestionContext()))
	}

	return loader.New(s.archive, &loader.Config{
		Root:     s.cfg.Loader.Root,
		Encoding: s.cfg.Loader.Encoding,
		Logger:   s.logger,
	})
}

// available lists every template name reachable from the root container,
// through either lookup tier.
func (s *session) available() []string {
	root := s.cfg.Loader.Root
	seen := make(map[string]struct{})

	for _, id := range s.archive.Containers() {
		var prefix string
		switch {
		case id == root:
		case root != "" && strings.HasPrefix(id, root+"."):
			prefix = strings.ReplaceAll(strings.TrimPrefix(id, root+"."), ".", "/")
		default:
			continue
		}

		resources, err := s.archive.Resources(id)
		if err != nil {
			continue
		}
		for _, name := range resources {
			seen[path.Join(prefix, name)] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *session) suggestionContext() *loaderrors.SuggestionContext {
	return &loaderrors.SuggestionContext{
		Root:       s.cfg.Loader.Root,
		Containers: s.archive.Containers(),
		Available:  s.available(),
		ConfigPath: s.cfg.Bundle.Archive,
	}
}

// explain decorates a lookup failure with suggestions. Errors that already
// carry suggestions are returned unchanged.
func (s *session) explain(name string, err error) error {
	var enhanced *loaderrors.EnhancedError
	if errors.As(err, &enhanced) {
		return err
	}

	s.logger.Debug(context.Background(), "Lookup failed",
		"template", name,
		"cause", loaderrors.ExtractCause(err),
		"details", loaderrors.GetErrorContext(err))

	switch {
	case loader.IsNotFound(err):
		return loaderrors.NewEnhancedError(
			fmt.Sprintf("Template '%s' not found", name), err,
			loaderrors.TemplateNotFoundSuggestions(name, s.suggestionContext()))
	case loader.IsConfigurationError(err):
		return loaderrors.NewEnhancedError("Cannot load root container", err,
			loaderrors.ConfigurationSuggestions("root", s.suggestionContext()))
	default:
		return err
	}
}
