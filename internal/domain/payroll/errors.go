package payroll

import (
	"errors"
	"fmt"
)

// Payroll domain errors
var (
	ErrPendingReviewExists = errors.New("payroll period contains records pending admin review")
	ErrForceNotPermitted   = errors.New("forced payroll generation requires master role")
)

// PendingReviewError carries the offending record IDs so the caller can list
// exactly which days block generation.
type PendingReviewError struct {
	RecordIDs []string
}

func (e *PendingReviewError) Error() string {
	return fmt.Sprintf("%v: %d record(s) pending: %v", ErrPendingReviewExists, len(e.RecordIDs), e.RecordIDs)
}

func (e *PendingReviewError) Unwrap() error {
	return ErrPendingReviewExists
}
