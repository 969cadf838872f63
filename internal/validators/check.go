// Package validators implements the field validators used by accounts and
// vaults, and the ordered, fail-fast Check runner that composes them.
package validators

import "context"

// Predicate reports whether a check passes. A non-nil error means the check
// could not be evaluated (for example a store failure) and is returned to the
// caller as is.
type Predicate func(ctx context.Context) (bool, error)

// Check pairs a predicate with the error reported when it does not pass.
// Arguments are bound into the predicate closure.
type Check struct {
	Predicate Predicate
	Failure   error
}

// NewCheck builds a Check from a predicate and its failure kind.
func NewCheck(p Predicate, failure error) Check {
	return Check{Predicate: p, Failure: failure}
}

// Run executes checks in order and stops at the first one that fails or
// errors. Later checks are never evaluated.
func Run(ctx context.Context, checks ...Check) error {
	for _, c := range checks {
		ok, err := c.Predicate(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return c.Failure
		}
	}
	return nil
}

// Static wraps a result that needs no I/O.
func Static(ok bool) Predicate {
	return func(context.Context) (bool, error) { return ok, nil }
}
