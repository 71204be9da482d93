package loan

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("loan not found")
	ErrInvalidName      = errors.New("borrower name is required")
	ErrInvalidAmount    = errors.New("amount must be a whole number greater than 0")
	ErrInvalidDate      = errors.New("date must be a valid dd-mm-yyyy calendar date")
	ErrNotPaid          = errors.New("loan is not fully paid")
	ErrAlreadyPaid      = errors.New("loan is already fully paid")
	ErrDecisionRequired = errors.New("a decision is required to continue")
	ErrAborted          = errors.New("operation aborted")
	ErrMalformed        = errors.New("document is not valid JSON")
	ErrNotArray         = errors.New("document must be a JSON array of loans")
)

// DuplicateNameError is returned when a name already belongs to another loan
// and the caller has not said what to do about it.
type DuplicateNameError struct {
	Existing Loan
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("borrower %q already exists (loan %d)", e.Existing.Name, e.Existing.ID)
}

func (e *DuplicateNameError) Unwrap() error { return ErrDecisionRequired }
