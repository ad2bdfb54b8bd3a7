package validate

import (
	"fmt"
	"strings"
)

// FieldError is one failing field of a producer batch.
type FieldError struct {
	// Path locates the field, e.g. "[0].showings[2].film.title". "$" is the whole document.
	Path string `json:"path"`
	// Rule is the failed constraint (required, langcode, type, json, unique, ...).
	Rule string `json:"rule"`
	// Message is a human readable description.
	Message string `json:"message"`
}

// ValidationError rejects a whole producer batch. It lists every failing field.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "batch failed validation"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Path, f.Message))
	}
	return fmt.Sprintf("batch failed validation with %d field error(s): %s", len(e.Fields), strings.Join(parts, "; "))
}

// Paths returns the failing field paths in report order.
func (e *ValidationError) Paths() []string {
	paths := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		paths[i] = f.Path
	}
	return paths
}

func (e *ValidationError) add(path, rule, msg string) {
	e.Fields = append(e.Fields, FieldError{Path: path, Rule: rule, Message: msg})
}

func (e *ValidationError) has(path, rule string) bool {
	for _, f := range e.Fields {
		if f.Path == path && f.Rule == rule {
			return true
		}
	}
	return false
}
