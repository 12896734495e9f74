package opts

import "errors"

var (
	// ErrTypeMismatch is returned by Set when the submitted value's kind does
	// not match the option's catalogue kind.
	ErrTypeMismatch = errors.New("opts: value type does not match option kind")
	// ErrInvalidIndex is returned for rows or identifiers outside
	// [0, RowCount).
	ErrInvalidIndex = errors.New("opts: row index out of range")
	// ErrInvalidValue is returned when a value fails the option's rule.
	ErrInvalidValue = errors.New("opts: value rejected by option rule")
	// ErrNoEvaluator is returned when no rule evaluator can be resolved.
	ErrNoEvaluator = errors.New("opts: evaluator not configured")
)
