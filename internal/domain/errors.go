package domain

import "errors"

// Error taxonomy shared by every layer. Handlers map these to HTTP statuses
// with errors.Is; services wrap them with context via fmt.Errorf and %w.
var (
	// ErrNotFound covers unknown title, copy, member, loan or reservation ids.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput covers malformed or missing request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLimitExceeded covers the 10-copy-per-title and 5-active-loans caps.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrIneligible covers visitors attempting to borrow or reserve and
	// members locked out by overdue loans.
	ErrIneligible = errors.New("member not eligible")

	// ErrCopyUnavailable means the copy is not borrowable or not on the shelf.
	ErrCopyUnavailable = errors.New("copy not available for loan")

	// ErrNotOnLoan means a return was attempted for a copy with no active loan.
	ErrNotOnLoan = errors.New("copy is not on loan")

	// ErrSequenceExhausted means an identifier sequence ran past 9999.
	ErrSequenceExhausted = errors.New("identifier sequence exhausted")

	// ErrDuplicateID surfaces a primary-key collision during registration so
	// the caller can retry identifier allocation.
	ErrDuplicateID = errors.New("identifier already taken")
)
