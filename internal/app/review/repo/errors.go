package repo

import (
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/contracts"
)

// IsUniqueViolation reports whether err is Spanner's ALREADY_EXISTS, which is
// what an insert into reviews returns when reviews_product_user_idx already
// holds the (product_id, user_id) pair. Review and outbox keys are random
// UUIDs, so inside a review transaction this code means the pair index.
func IsUniqueViolation(err error) bool {
	return err != nil && spanner.ErrCode(err) == codes.AlreadyExists
}

func isNotFound(err error) bool {
	return err != nil && spanner.ErrCode(err) == codes.NotFound
}

// classifyTxError maps a failed review transaction to the contracts errors.
// Errors returned by the transaction body pass through untouched.
func classifyTxError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, contracts.ErrDuplicateReview) || errors.Is(err, contracts.ErrNotFound) {
		return err
	}
	if IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", contracts.ErrDuplicateReview, err)
	}
	// An update mutation for a row deleted since it was read fails at commit.
	if isNotFound(err) {
		return fmt.Errorf("%w: %v", contracts.ErrNotFound, err)
	}
	return err
}
