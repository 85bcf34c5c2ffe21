package gateway

// Result is the outcome of a gateway read: either data or the reason it is
// missing. Value always returns something renderable, so callers that only
// care about "what to show" can ignore Err.
type Result[T any] struct {
	value    T
	fallback T
	err      error
}

// Success wraps fetched data.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Failure records err and the safe default returned by Value.
func Failure[T any](err error, fallback T) Result[T] {
	return Result[T]{fallback: fallback, err: err}
}

// OK reports whether the fetch succeeded.
func (r Result[T]) OK() bool { return r.err == nil }

// Err is the failure reason, nil on success.
func (r Result[T]) Err() error { return r.err }

// Value returns the data, or the safe default (empty list, nil) on failure.
func (r Result[T]) Value() T {
	if r.err != nil {
		return r.fallback
	}
	return r.value
}

// Unwrap returns (data, nil) or (zero, err), for callers that treat a
// failed fetch as an error.
func (r Result[T]) Unwrap() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}
