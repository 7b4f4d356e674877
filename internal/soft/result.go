// Package soft provides a result type for subsystems that degrade instead
// of failing: callers always receive a usable value, and any fault that was
// absorbed along the way stays attached for logging and inspection.
package soft

// Result carries a value plus an optional recorded-but-swallowed fault.
type Result[T any] struct {
	value T
	fault error
}

// Ok wraps a value produced without any fault.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Degraded wraps a fallback value together with the fault it replaces.
func Degraded[T any](value T, fault error) Result[T] {
	return Result[T]{value: value, fault: fault}
}

// Value returns the usable value, fallback or not.
func (r Result[T]) Value() T {
	return r.value
}

// Fault returns the recorded fault, or nil if the value is authoritative.
func (r Result[T]) Fault() error {
	return r.fault
}

// IsDegraded reports whether the value is a fallback.
func (r Result[T]) IsDegraded() bool {
	return r.fault != nil
}
