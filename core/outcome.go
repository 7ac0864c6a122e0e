package core

// Outcome wraps a computation that can fail. It holds either the value or
// the error, never both, so callback-style steps can be carried around as
// plain values and unwrapped at the point of use.
type Outcome[T any] struct {
	value T
	err   error
}

// Ok wraps a success value.
func Ok[T any](value T) Outcome[T] {
	return Outcome[T]{value: value}
}

// Err wraps a failure.
func Err[T any](err error) Outcome[T] {
	return Outcome[T]{err: err}
}

// NewOutcome runs fn and captures whichever side it produces.
func NewOutcome[T any](fn func() (T, error)) Outcome[T] {
	value, err := fn()
	if err != nil {
		return Err[T](err)
	}
	return Ok(value)
}

// Resolve unwraps the outcome: the success value, or the captured error.
func (o Outcome[T]) Resolve() (T, error) {
	return o.value, o.err
}
