package poem

import (
	"fmt"
	"strings"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// newValidationError creates a new ValidationError.
func newValidationError(path, message string) error {
	return &ValidationError{Path: path, Message: message}
}

// ValidatePoem validates a Poem as card-generation input and returns all
// validation errors. A valid poem has a title, at least one stanza, and no
// empty stanzas. Generation must not begin for a poem that fails validation.
func ValidatePoem(p *Poem) []error {
	var errs []error

	if p == nil {
		return []error{newValidationError("poem", "poem is nil")}
	}

	if strings.TrimSpace(p.Title) == "" {
		errs = append(errs, newValidationError("poem.title", "title is required"))
	}

	if len(p.Stanzas) == 0 {
		errs = append(errs, newValidationError("poem.stanzas", "poem has no stanzas"))
	}

	for i, s := range p.Stanzas {
		path := fmt.Sprintf("poem.stanzas[%d]", i)
		if len(s.Lines) == 0 {
			errs = append(errs, newValidationError(path, "stanza has no lines"))
			continue
		}
		for j, l := range s.Lines {
			if strings.TrimSpace(l.Text) == "" {
				errs = append(errs, newValidationError(
					fmt.Sprintf("%s.lines[%d]", path, j), "line is blank"))
			}
			if l.Continuation {
				errs = append(errs, newValidationError(
					fmt.Sprintf("%s.lines[%d]", path, j),
					"continuation marker on a source line"))
			}
		}
	}

	return errs
}
