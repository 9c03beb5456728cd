// Package rules is the policy and validation engine gating every document
// mutation. Given an actor, an operation, a storage path and the prior and
// candidate document snapshots, it returns an allow/deny decision with a
// typed reason. Evaluation is pure: no I/O, no shared state, safe to call
// concurrently and speculatively.
package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Decision sentinel errors. Decision.Err wraps one of these; callers check
// them with errors.Is:
//
//	if errors.Is(err, rules.ErrUnauthorized) { ... }
var (
	ErrUnauthenticated      = errors.New("rules: unauthenticated")
	ErrUnauthorized         = errors.New("rules: unauthorized")
	ErrSchemaViolation      = errors.New("rules: schema violation")
	ErrImmutableField       = errors.New("rules: immutable field changed")
	ErrReferentialIntegrity = errors.New("rules: referential integrity violation")
)

// Reason classifies a decision.
type Reason string

const (
	ReasonAllow                Reason = "allow"
	ReasonUnauthenticated      Reason = "unauthenticated"
	ReasonUnauthorized         Reason = "unauthorized"
	ReasonSchemaViolation      Reason = "schema_violation"
	ReasonImmutableField       Reason = "immutable_field_changed"
	ReasonReferentialIntegrity Reason = "referential_integrity_violation"
)

// ViolationKind classifies a single failing check.
type ViolationKind string

const (
	// KindSchema is a field or cross-field check failure.
	KindSchema ViolationKind = "schema"
	// KindImmutable is an update altering a field that is fixed once written.
	KindImmutable ViolationKind = "immutable"
	// KindReference is a reference that does not resolve.
	KindReference ViolationKind = "reference"
)

// Violation names one failing check on one field.
type Violation struct {
	Kind   ViolationKind `json:"kind"`
	Field  string        `json:"field"`
	Check  string        `json:"check"`
	Detail string        `json:"detail,omitempty"`
}

// Decision is the engine's verdict on a candidate mutation. When the
// mutation is denied for schema reasons, Violations enumerates every failing
// check, not just the first.
type Decision struct {
	Allowed    bool        `json:"allowed"`
	Reason     Reason      `json:"reason"`
	Violations []Violation `json:"violations,omitempty"`
}

// Allow is the decision permitting the mutation.
func Allow() Decision {
	return Decision{Allowed: true, Reason: ReasonAllow}
}

// Unauthenticated denies a request with no actor identity.
func Unauthenticated() Decision {
	return Decision{Reason: ReasonUnauthenticated}
}

// Unauthorized denies an actor whose role does not permit the operation.
// It deliberately carries no field detail: non-members must not learn the
// document's schema structure.
func Unauthorized() Decision {
	return Decision{Reason: ReasonUnauthorized}
}

// Denied builds a deny decision from a non-empty violation list. The reason
// reflects the violations: all-immutable reports ImmutableFieldChanged,
// all-reference reports ReferentialIntegrityViolation, any mix falls back to
// the general SchemaViolation.
func Denied(violations []Violation) Decision {
	reason := ReasonSchemaViolation
	allImmutable, allReference := true, true
	for _, v := range violations {
		if v.Kind != KindImmutable {
			allImmutable = false
		}
		if v.Kind != KindReference {
			allReference = false
		}
	}
	if len(violations) > 0 {
		switch {
		case allImmutable:
			reason = ReasonImmutableField
		case allReference:
			reason = ReasonReferentialIntegrity
		}
	}
	return Decision{Reason: reason, Violations: violations}
}

// Err returns nil for an allowed decision, and otherwise a *DecisionError
// wrapping the sentinel matching the reason.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DecisionError{Decision: d}
}

func (d Decision) sentinel() error {
	switch d.Reason {
	case ReasonUnauthenticated:
		return ErrUnauthenticated
	case ReasonUnauthorized:
		return ErrUnauthorized
	case ReasonImmutableField:
		return ErrImmutableField
	case ReasonReferentialIntegrity:
		return ErrReferentialIntegrity
	default:
		return ErrSchemaViolation
	}
}

// DecisionError carries a deny decision across error-returning boundaries,
// such as the storage layer rejecting a gated write.
type DecisionError struct {
	Decision Decision
}

func (e *DecisionError) Error() string {
	if len(e.Decision.Violations) == 0 {
		return e.Decision.sentinel().Error()
	}
	parts := make([]string, 0, len(e.Decision.Violations))
	for _, v := range e.Decision.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Check))
	}
	return fmt.Sprintf("%s (%s)", e.Decision.sentinel().Error(), strings.Join(parts, "; "))
}

func (e *DecisionError) Unwrap() error {
	return e.Decision.sentinel()
}
