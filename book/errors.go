package book

import "errors"

// Sentinel errors returned by Book operations.
var (
	// ErrOrderDuplicate is returned by MatchOrder when order_id already exists
	// in the book's index. The book rejects the order rather than silently
	// overwriting the index entry and orphaning the previous resting order.
	ErrOrderDuplicate = errors.New("book: order id already exists")
	// ErrOrderParameterInvalid is returned when price or quantity fails its
	// positivity invariant, or side is out of range.
	ErrOrderParameterInvalid = errors.New("book: invalid order parameter")
)
