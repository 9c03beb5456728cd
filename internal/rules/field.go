package rules

import (
	"unicode/utf8"

	"github.com/tablekeep/tablekeep/internal/document"
)

// Field validators are pure predicates over a single field value. Optional
// variants take pointers; an absent field and an explicit null both decode to
// a nil pointer, so the two are treated identically on purpose.

// BoundedString reports whether v is non-empty and at most max characters.
func BoundedString(v string, max int) bool {
	n := utf8.RuneCountInString(v)
	return n >= 1 && n <= max
}

// OptionalBoundedString accepts an unset value, and otherwise only bounds the
// length. Unlike BoundedString it permits the empty string; the asymmetry is
// deliberate.
func OptionalBoundedString(v *string, max int) bool {
	return v == nil || utf8.RuneCountInString(*v) <= max
}

// NonNegative reports whether v is zero or greater.
func NonNegative(v float64) bool {
	return v >= 0
}

// OptionalNonNegative accepts an unset value or a non-negative number.
func OptionalNonNegative(v *float64) bool {
	return v == nil || *v >= 0
}

// OptionalInRange accepts an unset value or a number within [lo, hi].
// Fractional values inside the range are valid.
func OptionalInRange(v *float64, lo, hi float64) bool {
	return v == nil || (*v >= lo && *v <= hi)
}

// OptionalNonNegativeInt accepts an unset value or a non-negative integer.
func OptionalNonNegativeInt(v *int) bool {
	return v == nil || *v >= 0
}

// TimestampLike accepts an unset value, a client-supplied time string, or the
// assign-server-time sentinel. The two set representations are equivalent;
// the engine never requires a specific one.
func TimestampLike(t *document.Timestamp) bool {
	return t == nil || t.Valid()
}

// BoundedList accepts an unset list or one with at most max entries.
func BoundedList[T any](v []T, max int) bool {
	return len(v) <= max
}

// EnumMember reports whether v is one of the allowed values.
func EnumMember[T comparable](v T, allowed ...T) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// OptionalEnumMember accepts an unset value or a member of the allowed set.
func OptionalEnumMember[T comparable](v *T, allowed ...T) bool {
	if v == nil {
		return true
	}
	return EnumMember(*v, allowed...)
}
