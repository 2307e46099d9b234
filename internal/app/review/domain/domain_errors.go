package domain

import "errors"

// Kind classifies a business error for callers that must pick a status.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindBadRequest:
		return "BadRequest"
	case KindForbidden:
		return "Forbidden"
	default:
		return "Internal"
	}
}

// Error is a business rule violation with a user-displayable message.
type Error struct {
	kind Kind
	msg  string
}

func newError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// KindOf walks the chain of err and returns the kind of the first business
// error found. Anything else is KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}

// Domain errors as sentinel values
var (
	// Lookup errors
	ErrProductNotFound = newError(KindNotFound, "product not found")
	ErrReviewNotFound  = newError(KindNotFound, "review not found")

	// Submission errors
	ErrAlreadyReviewed  = newError(KindBadRequest, "already reviewed")
	ErrPurchaseRequired = newError(KindForbidden, "must purchase before reviewing")

	// Ownership errors
	ErrNotReviewOwner = newError(KindForbidden, "only the review owner can do this")

	// Validation errors
	ErrInvalidRating = newError(KindBadRequest, "rating must be between 1 and 5")
	ErrEmptyComment  = newError(KindBadRequest, "comment cannot be empty")
	ErrEmptyPatch    = newError(KindBadRequest, "nothing to update")
	ErrMissingID     = newError(KindBadRequest, "identifier cannot be empty")
)
