package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrStoreUnavailable  = errors.New("store unavailable")
)

// RecognitionError reports a payment recognition attempt that failed partway
// through its two writes. TransactionWritten tells the reconciliation pass
// whether the income Transaction landed before the failure; retrying blindly
// risks double recognition, so callers must re-check the recognized total
// first.
type RecognitionError struct {
	WorkOrderID        string
	DeltaCents         int64
	TransactionWritten bool
	Err                error
}

func (e *RecognitionError) Error() string {
	stage := "transaction write"
	if e.TransactionWritten {
		stage = "collection write"
	}
	return fmt.Sprintf("payment recognition failed at %s for work order %s (delta %d cents): %v",
		stage, e.WorkOrderID, e.DeltaCents, e.Err)
}

func (e *RecognitionError) Unwrap() error { return e.Err }
