package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
)

// Outcome is the result of a best-effort computation: either a value or
// the reason it was skipped.
type Outcome[T any] struct {
	value  T
	reason error
	ok     bool
}

// Ok wraps a computed value
func Ok[T any](v T) Outcome[T] { return Outcome[T]{value: v, ok: true} }

// Skipped records why a value is missing
func Skipped[T any](reason error) Outcome[T] { return Outcome[T]{reason: reason} }

// Get returns the value and whether it was computed
func (o Outcome[T]) Get() (T, bool) { return o.value, o.ok }

// IsOk reports whether the value was computed
func (o Outcome[T]) IsOk() bool { return o.ok }

// Reason returns the error that caused the skip, nil when Ok
func (o Outcome[T]) Reason() error { return o.reason }

// MarshalJSON encodes the value, or null when skipped
func (o Outcome[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// attempt runs fn, turning errors and panics into a Skipped outcome that is
// logged at WARN and counted.
func attempt[T any](a *Analyzer, metric string, fn func() (T, error)) (out Outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			out = Skipped[T](fmt.Errorf("%s: panic: %v", metric, r))
		}
		if !out.ok {
			a.logger.Warn("could not calculate "+metric, logging.Metric(metric), logging.Error(out.reason))
			a.recorder.RecordSkip(metric)
		}
	}()
	v, err := fn()
	if err != nil {
		return Skipped[T](err)
	}
	return Ok(v)
}
