// Package upstream holds the plumbing shared by the market-data clients: a best-effort
// result type, tolerant JSON scalars and a rate-limited circuit breaker.
package upstream

// Status tells an empty answer apart from a failed call.
type Status string

const (
	StatusOK     Status = "ok"
	StatusEmpty  Status = "empty"
	StatusFailed Status = "failed"
)

// Result is what every provider fetch returns. Fetches never return an error directly;
// a failure is recorded in Err and Items is empty.
type Result[T any] struct {
	Items []T
	Err   error
}

// OK wraps a successful fetch.
func OK[T any](items []T) Result[T] {
	return Result[T]{Items: items}
}

// Failed wraps a failed fetch.
func Failed[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Status classifies the result.
func (r Result[T]) Status() Status {
	switch {
	case r.Err != nil:
		return StatusFailed
	case len(r.Items) == 0:
		return StatusEmpty
	default:
		return StatusOK
	}
}

// Failed reports whether the fetch failed.
func (r Result[T]) Failed() bool {
	return r.Err != nil
}

// First returns the first item, if any.
func (r Result[T]) First() (T, bool) {
	var zero T
	if len(r.Items) == 0 {
		return zero, false
	}
	return r.Items[0], true
}
