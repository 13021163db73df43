package errors

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// ErrorSuggestion represents a suggestion for fixing an error
type ErrorSuggestion struct {
	Title       string
	Description string
	Command     string
	Example     string
}

// SuggestionContext provides context for generating suggestions
type SuggestionContext struct {
	Root       string
	Containers []string
	// Available lists every resource reachable from the root, slash separated.
	Available  []string
	ConfigPath string
}

// TemplateNotFoundSuggestions generates suggestions for a template that
// neither lookup tier could locate.
func TemplateNotFoundSuggestions(name string, ctx *SuggestionContext) []ErrorSuggestion {
	suggestions := []ErrorSuggestion{
		{
			Title:       "List bundled containers",
			Description: "See which containers and resources the bundle exposes",
			Command:     "embedloader containers --resources",
		},
	}

	if ctx == nil {
		return suggestions
	}

	if dir := path.Dir(name); dir != "." && ctx.Root != "" {
		nested := ctx.Root + "." + strings.ReplaceAll(dir, "/", ".")
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Check the nested container",
			Description: "Subdirectories bundled as their own container are looked up as " + nested,
			Example:     dir + "/__init__.py",
		})
	}

	if similar := similarNames(name, ctx.Available); len(similar) > 0 {
		for _, candidate := range similar {
			suggestions = append(suggestions, ErrorSuggestion{
				Title:       "Did you mean '" + candidate + "'?",
				Description: "Similar template found",
				Command:     "embedloader get " + candidate,
			})
		}
	}

	return suggestions
}

// ConfigurationSuggestions generates suggestions for configuration issues
func ConfigurationSuggestions(configError string, ctx *SuggestionContext) []ErrorSuggestion {
	suggestions := []ErrorSuggestion{
		{
			Title:       "Validate configuration",
			Description: "Print the effective configuration",
			Command:     "embedloader config show",
		},
	}

	if ctx != nil && ctx.ConfigPath != "" {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Check configuration file",
			Description: "Verify the configuration file exists and has valid syntax",
			Command:     "cat " + ctx.ConfigPath,
		})
	}

	if strings.Contains(configError, "marker") || strings.Contains(configError, "root") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Mark the root container",
			Description: "The root directory must carry the package marker; subdirectories need not",
			Example:     "app/templates/__init__.py",
		})
	}

	if ctx != nil && len(ctx.Containers) > 0 {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Available containers",
			Description: strings.Join(ctx.Containers, ", "),
		})
	}

	return suggestions
}

// similarNames returns up to three candidates sharing the base name or
// containing one another, in sorted order.
func similarNames(name string, available []string) []string {
	base := strings.ToLower(path.Base(name))
	lower := strings.ToLower(name)

	var matches []string
	for _, candidate := range available {
		c := strings.ToLower(candidate)
		if c == lower {
			continue
		}
		if strings.ToLower(path.Base(candidate)) == base ||
			strings.Contains(c, lower) || strings.Contains(lower, c) {
			matches = append(matches, candidate)
		}
	}

	sort.Strings(matches)
	if len(matches) > 3 {
		matches = matches[:3]
	}

	return matches
}

// FormatSuggestions formats suggestions into a user-friendly string
func FormatSuggestions(title string, suggestions []ErrorSuggestion) string {
	if len(suggestions) == 0 {
		return title
	}

	var output strings.Builder
	output.WriteString(title + "\n\n")
	output.WriteString("Suggestions:\n")

	for i, suggestion := range suggestions {
		output.WriteString(fmt.Sprintf("  %d. %s\n", i+1, suggestion.Title))
		if suggestion.Description != "" {
			output.WriteString(fmt.Sprintf("     %s\n", suggestion.Description))
		}
		if suggestion.Command != "" {
			output.WriteString(fmt.Sprintf("     Run: %s\n", suggestion.Command))
		}
		if suggestion.Example != "" {
			output.WriteString(fmt.Sprintf("     Example: %s\n", suggestion.Example))
		}
		output.WriteString("\n")
	}

	return output.String()
}

// EnhancedError wraps an error with suggestions
type EnhancedError struct {
	OriginalError error
	Title         string
	Suggestions   []ErrorSuggestion
}

// Error implements the error interface
func (e *EnhancedError) Error() string {
	return FormatSuggestions(e.Title, e.Suggestions)
}

// Unwrap returns the original error
func (e *EnhancedError) Unwrap() error {
	return e.OriginalError
}

// NewEnhancedError creates a new enhanced error with suggestions
func NewEnhancedError(title string, originalError error, suggestions []ErrorSuggestion) *EnhancedError {
	return &EnhancedError{
		OriginalError: originalError,
		Title:         title,
		Suggestions:   suggestions,
	}
}
