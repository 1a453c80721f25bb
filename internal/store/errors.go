package store

import (
	"errors"
	"fmt"
)

// NotFoundError reports a display index or entry ID that does not resolve.
type NotFoundError struct {
	Ref   string
	Count int // entries available when the lookup failed
}

func (e NotFoundError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("entry not found: %s (no entries)", e.Ref)
	}
	return fmt.Sprintf("entry not found: %s (valid range: 1-%d)", e.Ref, e.Count)
}

// AllocationError reports that no entry ID could be allocated or the new file
// could not be created.
type AllocationError struct {
	Date string
	Err  error
}

func (e AllocationError) Error() string {
	return fmt.Sprintf("allocate entry for %s: %v", e.Date, e.Err)
}

func (e AllocationError) Unwrap() error { return e.Err }

// ValidationError reports an entry whose file content is malformed, usually
// after a round trip through an external editor.
type ValidationError struct {
	Path string
	Err  error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid entry %s: %v", e.Path, e.Err)
}

func (e ValidationError) Unwrap() error { return e.Err }

// IOError wraps a filesystem failure. The on-disk entry is left as it was.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e IOError) Unwrap() error { return e.Err }

var errSequenceExhausted = errors.New("all 99 sequence numbers for this date are taken")

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
