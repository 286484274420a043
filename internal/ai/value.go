package ai

import (
	"math"
	"strings"
)

// Value holds an optional collaborator field. The zero Value is unset.
type Value[T any] struct {
	value T
	set   bool
}

// Some returns a set Value.
func Some[T any](v T) Value[T] {
	return Value[T]{value: v, set: true}
}

// None returns an unset Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// Get returns the value and whether it was set.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.set
}

// IsSet reports whether the value was provided.
func (v Value[T]) IsSet() bool {
	return v.set
}

// Or returns the value when set and fallback otherwise.
func (v Value[T]) Or(fallback T) T {
	if v.set {
		return v.value
	}
	return fallback
}

// PreferPositive returns the model value only if it is set, finite and
// positive; otherwise fallback. The bool reports whether the model value won.
func PreferPositive(model Value[float64], fallback float64) (float64, bool) {
	if v, ok := model.Get(); ok && !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0 {
		return v, true
	}
	return fallback, false
}

// FirstString returns the first set, non-blank string value.
func FirstString(values ...Value[string]) Value[string] {
	for _, v := range values {
		if s, ok := v.Get(); ok && strings.TrimSpace(s) != "" {
			return Some(strings.TrimSpace(s))
		}
	}
	return None[string]()
}

// NonBlank wraps s as a set value unless it is blank.
func NonBlank(s string) Value[string] {
	s = strings.TrimSpace(s)
	if s == "" {
		return None[string]()
	}
	return Some(s)
}
