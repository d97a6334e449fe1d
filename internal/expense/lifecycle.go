package expense

import (
	"fmt"
	"strings"
)

// DecisionKind classifies the outcome of a requested transition.
type DecisionKind int

const (
	// Allowed means the transition may be committed as-is.
	Allowed DecisionKind = iota
	// RequiresAnnotation means the transition is legal but needs a
	// non-empty comment before it may be committed.
	RequiresAnnotation
	// Rejected means the transition is illegal and must not reach the
	// network at all.
	Rejected
)

// Decision is the verdict of the lifecycle state machine for a single
// (from, to) pair.
type Decision struct {
	Kind   DecisionKind
	Reason string
}

// TransitionError reports an illegal transition target. It resolves
// locally and never reaches the gateway.
type TransitionError struct {
	From   Status
	To     Status
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s rejected: %s", e.From, e.To, e.Reason)
}

// ValidationError reports locally missing or malformed input, such as
// the mandatory annotation on a decline.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// AnnotationRequired reports whether entering the target status needs a
// mandatory comment.
func AnnotationRequired(to Status) bool {
	return to == StatusDeclined || to == StatusRevision
}

// Transition decides whether a request currently in `from` may move to
// `to`. The workflow is deliberately permissive: every non-archived
// status is reachable from every other one, the only universal rules
// being the mandatory annotation on declined/revision and that leaving
// the archive always returns to the intake state.
func Transition(from, to Status) Decision {
	if !from.Valid() || !to.Valid() {
		return Decision{Kind: Rejected, Reason: "unknown status"}
	}

	if from == to {
		return Decision{Kind: Rejected, Reason: "already in target status"}
	}

	if from == StatusArchived && to != StatusRequest {
		return Decision{Kind: Rejected, Reason: "archived requests may only return to request"}
	}

	if AnnotationRequired(to) {
		return Decision{Kind: RequiresAnnotation}
	}

	return Decision{}
}

// Authorize resolves a decision against the supplied annotation text.
// A nil return means the transition may be committed, with the trimmed
// annotation (possibly empty) attached.
func Authorize(from, to Status, annotation string) error {
	switch dec := Transition(from, to); dec.Kind {
	case Rejected:
		return &TransitionError{From: from, To: to, Reason: dec.Reason}
	case RequiresAnnotation:
		if strings.TrimSpace(annotation) == "" {
			return &ValidationError{Field: "comment", Msg: "a comment is required for this status"}
		}
	}

	return nil
}

// ActionTargets lists the statuses reachable from `from`, in canonical
// order. Both the board and the detail-view action buttons derive their
// choices from this single table.
func ActionTargets(from Status) []Status {
	if from == StatusArchived {
		return []Status{StatusRequest}
	}

	targets := make([]Status, 0, len(Statuses)-1)

	for _, s := range Statuses {
		if s == from {
			continue
		}

		targets = append(targets, s)
	}

	return targets
}
