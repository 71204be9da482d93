package loan

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

// DefaultNote is stored in place of an empty note.
const DefaultNote = "No note"

type State string

const (
	StateUnpaid State = "unpaid"
	StatePaid   State = "paid"
)

// ID is a millisecond timestamp issued when a loan or event is recorded.
// Older documents may carry fractional ids; those are truncated on read.
type ID int64

func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*id = ID(i)
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return err
	}
	*id = ID(math.Trunc(f))
	return nil
}

// Event is one accrual or one repayment.
type Event struct {
	ID     ID     `json:"id"`
	Amount int64  `json:"amount"`
	Date   string `json:"date"`
	Note   string `json:"note"`
}

// Loan is one borrower's running balance. Dates are ISO (yyyy-mm-dd).
type Loan struct {
	ID             ID      `json:"id"`
	Name           string  `json:"name"`
	Amount         int64   `json:"amount"`
	Date           string  `json:"date"`
	Note           string  `json:"note"`
	Paid           bool    `json:"paid"`
	PaidDate       *string `json:"paidDate"`
	PaidAmount     int64   `json:"paidAmount"`
	History        []Event `json:"history"`
	PaymentHistory []Event `json:"paymentHistory"`
}

func (l Loan) State() State {
	if l.Paid {
		return StatePaid
	}
	return StateUnpaid
}

func (l Loan) Remaining() int64 { return l.Amount - l.PaidAmount }

// PaidPercent is the repaid share of the principal, rounded to a whole percent.
func (l Loan) PaidPercent() int {
	if l.Amount <= 0 {
		return 0
	}
	return int(math.Round(float64(l.PaidAmount) / float64(l.Amount) * 100))
}

// Clone returns a deep copy so callers never share history slices with the store.
func (l Loan) Clone() Loan {
	out := l
	if l.PaidDate != nil {
		d := *l.PaidDate
		out.PaidDate = &d
	}
	out.History = append(make([]Event, 0, len(l.History)), l.History...)
	out.PaymentHistory = append(make([]Event, 0, len(l.PaymentHistory)), l.PaymentHistory...)
	return out
}

// NameKey is the identity used when looking for an existing borrower.
func NameKey(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

func (l Loan) SameBorrower(name string) bool { return NameKey(l.Name) == NameKey(name) }

func NoteOrDefault(note string) string {
	if strings.TrimSpace(note) == "" {
		return DefaultNote
	}
	return note
}
