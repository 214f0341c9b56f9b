package strips

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedSchema indicates an action or description violating the
	// structural invariants, e.g. an undeclared parameter.
	ErrMalformedSchema = errors.New("malformed schema")

	// ErrUnboundParameters indicates grounding produced a binding that leaves
	// declared parameters unbound: some parameter is not constrained by any
	// positive precondition. This is a modeling defect in the domain.
	ErrUnboundParameters = errors.New("parameters left unbound after grounding")

	// ErrPreconditionNotFound is returned by Action.BindingsFrom for a
	// predicate the action does not have as a precondition.
	ErrPreconditionNotFound = errors.New("predicate is not a precondition")

	// ErrUnknownAction is returned when an action name is not in a domain.
	ErrUnknownAction = errors.New("unknown action")

	// ErrArity is returned when the number of objects does not match the
	// number of parameters.
	ErrArity = errors.New("wrong number of objects")

	// ErrIllegalStep is wrapped by IllegalStepError.
	ErrIllegalStep = errors.New("illegal plan step")
)

// SchemaError reports a malformed action schema.
type SchemaError struct {
	Action string
	Detail string
}

func (e *SchemaError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("malformed schema: %s", e.Detail)
	}
	return fmt.Sprintf("malformed schema for action %s: %s", e.Action, e.Detail)
}

func (e *SchemaError) Unwrap() error { return ErrMalformedSchema }

// UnboundError reports a binding that does not cover every parameter.
type UnboundError struct {
	Action  string
	Unbound []string
	Binding Binding
}

func (e *UnboundError) Error() string {
	return fmt.Sprintf("grounding %s: parameters %s unbound under %s",
		e.Action, strings.Join(e.Unbound, ", "), e.Binding)
}

func (e *UnboundError) Unwrap() error { return ErrUnboundParameters }

// IllegalStepError describes the first step of a plan whose preconditions do
// not hold.
type IllegalStepError struct {
	Index  int
	Action *Action
	Unmet  []Predicate
}

func (e *IllegalStepError) Error() string {
	return fmt.Sprintf("step %d %s is illegal; unmet preconditions: %s",
		e.Index, e.Action.NameAndParams(), formatPredicates(e.Unmet))
}

func (e *IllegalStepError) Unwrap() error { return ErrIllegalStep }

func formatPredicates(preds []Predicate) string {
	parts := make([]string, len(preds))
	for i, p := range preds {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
