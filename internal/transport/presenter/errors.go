package presenter

import (
	"errors"

	mcontracts "github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/contracts"
	mdomain "github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/queries/quote_checkout"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/auth"
)

var (
	// ErrUnauthenticated is returned when an operation needs a caller and none was presented.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidBody is returned for payloads that cannot be decoded.
	ErrInvalidBody = errors.New("invalid request body")
)

// Class is the transport-neutral outcome of an error.
type Class int

const (
	ClassInternal Class = iota
	ClassNotFound
	ClassBadRequest
	ClassForbidden
	ClassUnauthenticated
)

const internalMessage = "internal server error"

// Classify maps an application error to a Class and the message safe to
// show the caller. Internal errors never leak their text.
func Classify(err error) (Class, string) {
	if err == nil {
		return ClassInternal, ""
	}

	var reviewErr *domain.Error
	if errors.As(err, &reviewErr) {
		switch reviewErr.Kind() {
		case domain.KindNotFound:
			return ClassNotFound, reviewErr.Error()
		case domain.KindBadRequest:
			return ClassBadRequest, reviewErr.Error()
		case domain.KindForbidden:
			return ClassForbidden, reviewErr.Error()
		}
	}

	switch {
	case errors.Is(err, ErrUnauthenticated):
		return ClassUnauthenticated, ErrUnauthenticated.Error()
	case errors.Is(err, auth.ErrMissingToken):
		return ClassUnauthenticated, auth.ErrMissingToken.Error()
	case errors.Is(err, auth.ErrInvalidToken):
		return ClassUnauthenticated, auth.ErrInvalidToken.Error()
	case errors.Is(err, ErrInvalidBody):
		return ClassBadRequest, ErrInvalidBody.Error()
	case errors.Is(err, mcontracts.ErrProductNotFound):
		return ClassNotFound, mcontracts.ErrProductNotFound.Error()
	}

	for _, sentinel := range []error{
		quote_checkout.ErrEmptyCart,
		mdomain.ErrInvalidQuantity,
		mdomain.ErrPointsOverflow,
		mdomain.ErrInvalidPercent,
		mdomain.ErrInvalidAmount,
	} {
		if errors.Is(err, sentinel) {
			return ClassBadRequest, sentinel.Error()
		}
	}
	return ClassInternal, internalMessage
}
