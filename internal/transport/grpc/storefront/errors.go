package storefront

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/transport/presenter"
)

// mapErrorToGRPC converts application errors to gRPC status errors.
func mapErrorToGRPC(err error) error {
	if err == nil {
		return nil
	}

	class, msg := presenter.Classify(err)
	switch class {
	case presenter.ClassNotFound:
		return status.Error(codes.NotFound, msg)

	case presenter.ClassBadRequest:
		if errors.Is(err, domain.ErrAlreadyReviewed) {
			return status.Error(codes.FailedPrecondition, msg)
		}
		return status.Error(codes.InvalidArgument, msg)

	case presenter.ClassForbidden:
		return status.Error(codes.PermissionDenied, msg)

	case presenter.ClassUnauthenticated:
		return status.Error(codes.Unauthenticated, msg)

	default:
		return status.Error(codes.Internal, msg)
	}
}
