package pypred

import goerrors "gopkg.in/src-d/go-errors.v1"

// Error kinds raised for compile-time misuse: evaluating an invalid
// predicate, or mutating a finalized set.
var (
	ErrInvalidPredicate = goerrors.NewKind("cannot evaluate an invalid predicate: %s")
	ErrFinalizedSet     = goerrors.NewKind("cannot modify a finalized predicate set")
)
