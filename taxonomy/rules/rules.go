// Package rules provides the declarative publish-validation framework shared
// by the tag catalogs and the curriculum graph.
//
// A rule is a named pure function from an entity to violations. Each entity
// family composes its own rule set; adding a rule never touches control flow.
// Rules read a snapshot and are idempotent: running them twice on an
// unmodified entity yields identical results.
package rules

import (
	"fmt"
	"strings"

	"github.com/strata-hq/compass/errors"
)

// Violation is one human-readable finding, tagged with the scope the author
// must navigate to: a stage name, a ladder index ("P7"), or a field name.
type Violation struct {
	Scope   string `json:"scope"`
	Message string `json:"message"`
	Warning bool   `json:"warning,omitempty"` // advisory only, never blocks publish
}

// String renders the violation for logs and test failure output.
func (v Violation) String() string {
	kind := "violation"
	if v.Warning {
		kind = "warning"
	}
	return fmt.Sprintf("[%s] %s: %s", kind, v.Scope, v.Message)
}

// Blockingf builds a blocking violation.
func Blockingf(scope, format string, args ...interface{}) Violation {
	return Violation{Scope: scope, Message: fmt.Sprintf(format, args...)}
}

// Warningf builds an advisory violation that does not block publish.
func Warningf(scope, format string, args ...interface{}) Violation {
	return Violation{Scope: scope, Message: fmt.Sprintf(format, args...), Warning: true}
}

// Result is the outcome of running a rule set.
type Result struct {
	Violations []Violation `json:"violations"`
}

// Eligible reports whether publish may proceed (warnings do not block).
func (r Result) Eligible() bool {
	return len(r.Blocking()) == 0
}

// Blocking returns the violations that gate publish.
func (r Result) Blocking() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if !v.Warning {
			out = append(out, v)
		}
	}
	return out
}

// Warnings returns the advisory findings.
func (r Result) Warnings() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Warning {
			out = append(out, v)
		}
	}
	return out
}

// Rule is a named pure check over one entity.
type Rule[T any] struct {
	Name  string
	Check func(T) []Violation
}

// RunAll evaluates every rule against the entity and concatenates findings
// in rule order.
func RunAll[T any](ruleSet []Rule[T], entity T) Result {
	var result Result
	for _, rule := range ruleSet {
		result.Violations = append(result.Violations, rule.Check(entity)...)
	}
	return result
}

// ValidationError carries the structured violation list of a blocked publish.
// It is marked errors.ErrValidationFailed, so callers may either check
// errors.IsValidationFailed or unwrap the full result for display.
type ValidationError struct {
	Entity string // e.g. `behavior tag "Coaching"` or `learning map for position "P-CS"`
	Result Result
}

// Error summarizes the blocking violations on one line per finding.
func (e *ValidationError) Error() string {
	blocking := e.Result.Blocking()
	var b strings.Builder
	fmt.Fprintf(&b, "cannot publish %s: %d violation(s)", e.Entity, len(blocking))
	for _, v := range blocking {
		fmt.Fprintf(&b, "\n  %s: %s", v.Scope, v.Message)
	}
	return b.String()
}

// NewValidationError wraps a non-eligible result as an error.
func NewValidationError(entity string, result Result) error {
	return errors.Mark(&ValidationError{Entity: entity, Result: result}, errors.ErrValidationFailed)
}

// AsValidationError extracts the structured result from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
