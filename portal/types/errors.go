package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Workflow error taxonomy. All of these are surfaced to the user as
// transient failures; none of them terminates the process or the workflow.
var (
	ErrUnauthenticated    = errors.New("no valid session token")
	ErrTemplateLoadFailed = errors.New("failed to load template")
	ErrFillFailed         = errors.New("failed to fill consent document")
	ErrSubmissionFailed   = errors.New("failed to store submission")
	ErrWorkflowClosed     = errors.New("workflow is closed")
	ErrRequestPending     = errors.New("request already in flight")
)

// ValidationError carries per-field messages. It blocks a transition
// locally, before any network call is made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
