package loan

import (
	"bytes"
	"encoding/json"
)

// PaidInFullNote marks the payment event synthesized for loans that were
// settled before payment history existed.
const PaidInFullNote = "Paid in full"

// Record is a loan exactly as it sits in a stored document. Documents written
// before partial repayments existed have no paidAmount, history or
// paymentHistory; those fields are nil here so absence is distinguishable
// from an explicit zero.
type Record struct {
	ID             ID      `json:"id"`
	Name           string  `json:"name"`
	Amount         int64   `json:"amount"`
	Date           string  `json:"date"`
	Note           string  `json:"note"`
	Paid           bool    `json:"paid"`
	PaidDate       *string `json:"paidDate"`
	PaidAmount     *int64  `json:"paidAmount"`
	History        []Event `json:"history"`
	PaymentHistory []Event `json:"paymentHistory"`
}

type Version int

const (
	VersionLegacy Version = iota + 1
	VersionCurrent
)

func (r Record) Version() Version {
	if len(r.History) > 0 && r.PaidAmount != nil && r.PaymentHistory != nil {
		return VersionCurrent
	}
	return VersionLegacy
}

// Record is the stored form of l. Migrate(l.Record()) yields l again.
func (l Loan) Record() Record {
	c := l.Clone()
	paid := c.PaidAmount
	return Record{
		ID:             c.ID,
		Name:           c.Name,
		Amount:         c.Amount,
		Date:           c.Date,
		Note:           c.Note,
		Paid:           c.Paid,
		PaidDate:       c.PaidDate,
		PaidAmount:     &paid,
		History:        c.History,
		PaymentHistory: c.PaymentHistory,
	}
}

// Upgrade brings one record to the current shape. It is pure and idempotent.
func Upgrade(r Record) Loan {
	l := Loan{
		ID:     r.ID,
		Name:   r.Name,
		Amount: r.Amount,
		Date:   r.Date,
		Note:   r.Note,
		Paid:   r.Paid,
	}
	if r.PaidDate != nil {
		d := *r.PaidDate
		l.PaidDate = &d
	}

	if len(r.History) > 0 {
		l.History = append([]Event(nil), r.History...)
	} else {
		l.History = []Event{{ID: r.ID, Amount: r.Amount, Date: r.Date, Note: NoteOrDefault(r.Note)}}
	}

	switch {
	case r.PaidAmount != nil:
		l.PaidAmount = *r.PaidAmount
	case r.Paid:
		l.PaidAmount = r.Amount
	}

	if r.PaymentHistory != nil {
		l.PaymentHistory = append([]Event{}, r.PaymentHistory...)
	} else {
		l.PaymentHistory = []Event{}
		if l.Paid && l.PaidDate != nil && l.PaidAmount > 0 {
			l.PaymentHistory = append(l.PaymentHistory, Event{
				ID:     r.ID,
				Amount: l.PaidAmount,
				Date:   *l.PaidDate,
				Note:   PaidInFullNote,
			})
		}
	}
	return l
}

// Migrate upgrades every record of a loaded document.
func Migrate(records []Record) []Loan {
	out := make([]Loan, 0, len(records))
	for _, r := range records {
		out = append(out, Upgrade(r))
	}
	return out
}

// Records is the inverse view of Migrate, used when re-running migration on
// data that is already current.
func Records(loans []Loan) []Record {
	out := make([]Record, 0, len(loans))
	for _, l := range loans {
		out = append(out, l.Record())
	}
	return out
}

// DecodeDocument parses a stored document and migrates it. Anything other than
// a JSON array is rejected before migration is attempted.
func DecodeDocument(b []byte) ([]Loan, error) {
	b = bytes.TrimSpace(b)
	if !json.Valid(b) {
		return nil, ErrMalformed
	}
	if len(b) == 0 || b[0] != '[' {
		return nil, ErrNotArray
	}
	var records []Record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, err
	}
	return Migrate(records), nil
}

// EncodeDocument is the compact wire form pushed to the gateway and the mirror.
func EncodeDocument(loans []Loan) ([]byte, error) {
	if loans == nil {
		loans = []Loan{}
	}
	return json.Marshal(loans)
}

// EncodeDocumentIndent is the pretty form used for exports.
func EncodeDocumentIndent(loans []Loan) ([]byte, error) {
	if loans == nil {
		loans = []Loan{}
	}
	return json.MarshalIndent(loans, "", "  ")
}
