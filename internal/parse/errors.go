package parse

import "errors"

// Sentinel failures surfaced to the chat layer. Each one maps to exactly one
// user-facing message; none of them is fatal to the process.
var (
	// ErrNoMatch means the input line does not fit the transaction grammar
	// at all. It is a rejection, not a fault: callers answer with a generic
	// invalid-input reply.
	ErrNoMatch = errors.New("input does not match the transaction grammar")

	ErrCategoryNotFound      = errors.New("category not defined")
	ErrSourceNotFound        = errors.New("source account not defined")
	ErrDestinationNotFound   = errors.New("destination account not defined")
	ErrSessionNotInitialized = errors.New("session not initialized")

	// ErrUnsafeExpression means the amount text contains characters outside
	// the arithmetic allow list; nothing was evaluated.
	ErrUnsafeExpression = errors.New("expression contains disallowed characters")

	// ErrBadExpression means the amount text is inside the allow list but is
	// not a valid expression (syntax error, division by zero).
	ErrBadExpression = errors.New("malformed amount expression")
)
