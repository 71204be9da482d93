package loan

import domain "loanbook/internal/domain/loan"

// Resolution is the caller's answer when a borrower name is already taken.
// The zero value means "not decided"; the store never picks one itself.
type Resolution int

const (
	ResolutionUnset Resolution = iota
	ResolutionMerge
	ResolutionCreate
	ResolutionAbort
)

func (r Resolution) String() string {
	switch r {
	case ResolutionMerge:
		return "merge"
	case ResolutionCreate:
		return "create"
	case ResolutionAbort:
		return "abort"
	default:
		return "unset"
	}
}

// ParseResolution accepts merge|new|create|abort|cancel and "" (unset).
func ParseResolution(s string) (Resolution, bool) {
	switch s {
	case "", "ask":
		return ResolutionUnset, true
	case "merge":
		return ResolutionMerge, true
	case "new", "create":
		return ResolutionCreate, true
	case "abort", "cancel":
		return ResolutionAbort, true
	}
	return ResolutionUnset, false
}

// RecordLoanInput carries a lending transaction. Amount is in the smallest
// currency unit and Date is in display form (dd-mm-yyyy).
type RecordLoanInput struct {
	Name        string     `json:"name" validate:"notblank"`
	Amount      int64      `json:"amount" validate:"gt=0"`
	Date        string     `json:"date" validate:"displaydate"`
	Note        string     `json:"note"`
	OnDuplicate Resolution `json:"-"`
}

// EditLoanInput replaces the latest-known fields of a loan. An empty Date
// keeps the stored one as is. ConfirmNameClash must be set when the new name
// belongs to another loan.
type EditLoanInput struct {
	ID               domain.ID `json:"id"`
	Name             string    `json:"name" validate:"notblank"`
	Amount           int64     `json:"amount" validate:"gt=0"`
	Date             string    `json:"date" validate:"omitempty,displaydate"`
	Note             string    `json:"note"`
	ConfirmNameClash bool      `json:"-"`
}

type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeMerged  Outcome = "merged"
	OutcomeAborted Outcome = "aborted"
)

type RecordResult struct {
	Outcome Outcome
	Loan    domain.Loan
}

// Changed reports whether the store was mutated and needs a write-through.
func (r RecordResult) Changed() bool { return r.Outcome != OutcomeAborted }
