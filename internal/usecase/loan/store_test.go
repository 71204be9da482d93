package loan

import (
	"errors"
	"testing"
	"time"

	domain "loanbook/internal/domain/loan"
)

var fixedNow = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

const today = "2025-03-10"

func newTestStore(loans ...domain.Loan) *Store {
	return NewStore(loans,
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
		WithFormatter(domain.NewAmountFormatter("vi", "VND")),
	)
}

func mustRecord(t *testing.T, s *Store, in RecordLoanInput) domain.Loan {
	t.Helper()
	res, err := s.RecordLoan(in)
	if err != nil {
		t.Fatalf("RecordLoan(%+v) err: %v", in, err)
	}
	return res.Loan
}

// checkInvariants asserts the properties every loan must hold after a
// mutation that does not go through EditLoan or ResetPayment.
func checkInvariants(t *testing.T, l domain.Loan) {
	t.Helper()
	var sum int64
	for _, e := range l.History {
		sum += e.Amount
	}
	if sum != l.Amount {
		t.Errorf("loan %d: amount %d != sum(history) %d", l.ID, l.Amount, sum)
	}
	if l.PaidAmount < 0 || l.PaidAmount > l.Amount {
		t.Errorf("loan %d: paidAmount %d outside [0, %d]", l.ID, l.PaidAmount, l.Amount)
	}
	if l.Paid != (l.PaidAmount == l.Amount) {
		t.Errorf("loan %d: paid=%v but paidAmount=%d amount=%d", l.ID, l.Paid, l.PaidAmount, l.Amount)
	}
	if len(l.History) == 0 {
		t.Errorf("loan %d: empty history", l.ID)
	}
}

func TestRecordLoan_CreatesNewLoan(t *testing.T) {
	s := newTestStore()

	l := mustRecord(t, s, RecordLoanInput{Name: "An", Amount: 1_000_000, Date: "01-01-2025"})

	if l.Amount != 1_000_000 || l.Paid || l.PaidAmount != 0 {
		t.Fatalf("unexpected loan: %+v", l)
	}
	if len(l.History) != 1 || l.History[0].Amount != 1_000_000 || l.History[0].Date != "2025-01-01" {
		t.Fatalf("history = %+v", l.History)
	}
	if l.Note != domain.DefaultNote {
		t.Fatalf("note = %q, want %q", l.Note, domain.DefaultNote)
	}
	if l.PaymentHistory == nil || len(l.PaymentHistory) != 0 {
		t.Fatalf("paymentHistory = %#v, want empty", l.PaymentHistory)
	}
	if l.ID != domain.ID(fixedNow.UnixMilli()) {
		t.Fatalf("id = %d, want %d", l.ID, fixedNow.UnixMilli())
	}
	checkInvariants(t, l)
}

func TestRecordLoan_DuplicateNeedsDecision(t *testing.T) {
	s := newTestStore()
	first := mustRecord(t, s, RecordLoanInput{Name: "An", Amount: 1_000_000, Date: "01-01-2025"})

	_, err := s.RecordLoan(RecordLoanInput{Name: "  an ", Amount: 500_000, Date: "02-01-2025"})

	var dup *domain.DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateNameError, got %v", err)
	}
	if dup.Existing.ID != first.ID {
		t.Fatalf("existing id = %d, want %d", dup.Existing.ID, first.ID)
	}
	if !errors.Is(err, domain.ErrDecisionRequired) {
		t.Fatalf("expected ErrDecisionRequired in chain")
	}
	if got := s.Loans(); len(got) != 1 || got[0].Amount != 1_000_000 {
		t.Fatalf("store changed without a decision: %+v", got)
	}
}

func TestRecordLoan_Merge(t *testing.T) {
	s := newTestStore()
	mustRecord(t, s, RecordLoanInput{Name: "An", Amount: 1_000_000, Date: "01-01-2025"})

	res, err := s.RecordLoan(RecordLoanInput{
		Name: "an ", Amount: 250_000, Date: "15-02-2025", Note: "rent", OnDuplicate: ResolutionMerge,
	})
	if err != nil {
		t.Fatalf("merge err: %v", err)
	}
	if res.Outcome != OutcomeMerged {
		t.Fatalf("outcome = %s", res.Outcome)
	}

	loans := s.Loans()
	if len(loans) != 1 {
		t.Fatalf("want a single loan, got %d", len(loans))
	}
	l := loans[0]
	if l.Name != "An" {
		t.Fatalf("stored name casing changed: %q", l.Name)
	}
	if l.Amount != 1_250_000 || len(l.History) != 2 {
		t.Fatalf("amount=%d history=%d", l.Amount, len(l.History))
	}
	if l.Date != "2025-02-15" || l.Note != "rent" {
		t.Fatalf("latest fields not updated: date=%s note=%q", l.Date, l.Note)
	}
	if l.History[1].ID == l.History[0].ID {
		t.Fatalf("history events share id %d", l.History[0].ID)
	}
	checkInvariants(t, l)
}

func TestRecordLoan_MergeWithoutNoteKeepsNote(t *testing.T) {
	s := newTestStore()
	mustRecord(t, s, RecordLoanInput{Name: "Binh", Amount: 100, Date: "01-01-2025", Note: "phone"})

	l := mustRecord(t, s, RecordLoanInput{Name: "BINH", Amount: 50, Date: "02-01-2025", OnDuplicate: ResolutionMerge})

	if l.Note != "phone" {
		t.Fatalf("note = %q, want phone", l.Note)
	}
	if l.History[1].Note != domain.DefaultNote {
		t.Fatalf("event note = %q", l.History[1].Note)
	}
}

func TestRecordLoan_MergeIntoPaidKeepsCredit(t *testing.T) {
	s := newTestStore()
	l := mustRecord(t, s, RecordLoanInput{Name: "An", Amount: 1_000_000, Date: "01-01-2025"})
	if _, err := s.RecordPayment(l.ID, 1_000_000); err != nil {
		t.Fatalf("pay: %v", err)
	}

	merged := mustRecord(t, s, RecordLoanInput{Name: "an", Amount: 1_000_000, Date: "05-03-2025", OnDuplicate: ResolutionMerge})

	if merged.Paid || merged.PaidDate != nil {
		t.Fatalf("merge into paid loan must clear paid state: %+v", merged)
	}
	if merged.PaidAmount != 1_000_000 {
		t.Fatalf("paidAmount = %d, want unchanged 1000000", merged.PaidAmount)
	}
	if merged.Amount != 2_000_000 || merged.PaidPercent() != 50 {
		t.Fatalf("amount=%d percent=%d", merged.Amount, merged.PaidPercent())
	}
	if merged.State() != domain.StateUnpaid {
		t.Fatalf("state = %s", merged.State())
	}
	checkInvariants(t, merged)
}

func TestRecordLoan_CreateSeparate(t *testing.T) {
	s := newTestStore()
	first := mustRecord(t, s, RecordLoanInput{Name: "An", Amount: 100, Date: "01-01-2025"})

	res, err := s.RecordLoan(RecordLoanInput{Name: "an", Amount: 200, Date: "02-01-2025", OnDuplicate: ResolutionCreate})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Outcome != OutcomeCreated || res.Loan.ID == first.ID {
		t.Fatalf("unexpected result %+v", res)
	}
	if n := len(s.Loans()); n != 2 {
		t.Fatalf("want 2 loans, got %d", n)
	}
}

func TestRecordLoan_Abort(t *testing.T) {
	s := newTestStore()
	mustRecord(t, s, RecordLoanInput{Name: "An", Amount: 100, Date: "01-01-2025"})

	res, err := s.RecordLoan(RecordLoanInput{Name: "AN", Amount: 200, Date: "02-01-2025", OnDuplicate: ResolutionAbort})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Changed() {
		t.Fatalf("abort must not report a change")
	}
	if got := s.Loans(); len(got) != 1 || got[0].Amount != 100 {
		t.Fatalf("store changed on abort: %+v", got)
	}
}

func TestRecordLoan_Validation(t *testing.T) {
	cases := []struct {
		name string
		in   RecordLoanInput
		want error
	}{
		{"zero amount", RecordLoanInput{Name: "An", Amount: 0, Date: "01-01-2025"}, domain.ErrInvalidAmount},
		{"negative amount", RecordLoanInput{Name: "An", Amount: -5, Date: "01-01-2025"}, domain.ErrInvalidAmount},
		{"blank name", RecordLoanInput{Name: "   ", Amount: 1, Date: "01-01-2025"}, domain.ErrInvalidName},
		{"short date", RecordLoanInput{Name: "An", Amount: 1, Date: "1-1-2025"}, domain.ErrInvalidDate},
		{"31 feb", RecordLoanInput{Name: "An", Amount: 1, Date: "31-02-2025"}, domain.ErrInvalidDate},
		{"31 apr", RecordLoanInput{Name: "An", Amount: 1, Date: "31-04-2025"}, domain.ErrInvalidDate},
		{"iso form", RecordLoanInput{Name: "An", Amount: 1, Date: "2025-01-01"}, domain.ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStore()
			_, err := s.RecordLoan(tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || len(ve.Fields) == 0 {
				t.Fatalf("expected *ValidationError with fields, got %T", err)
			}
			if len(s.Loans()) != 0 {
				t.Fatalf("invalid input mutated the store")
			}
		})
	}
}

func TestRecordPayment_SingleFullPayment(t *testing.T) {
	s := newTestStore()
	l := mustRecord(t, s, RecordLoanInput{Name: "An", Amount: 1_000_000, Date: "01-01-2025"})

	got, err := s.RecordPayment(l.ID, 1_000_000)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if !got.Paid || got.PaidAmount != 1_000_000 {
		t.Fatalf("unexpected state %+v", got)
	}
	if got.PaidDate == nil || *got.PaidDate != today {
		t.Fatalf("paidDate = %v, want %s", got.PaidDate, today)
	}
	if len(got.PaymentHistory) != 1 {
		t.Fatalf("paymentHistory len = %d", len(got.PaymentHistory))
	}
	ev := got.PaymentHistory[0]
	if ev.Amount != 1_000_000 || ev.Date != today || ev.Note != "Paid 1.000.000 VND" {
		t.Fatalf("payment event = %+v", ev)
	}
	checkInvariants(t, got)
}

func TestRecordPayment_PartialsMatchSinglePayment(t *testing.T) {
	s := newTestStore()
	l := mustRecord(t, s, RecordLoanInput{Name: "An", Amount: 1_000_000, Date: "01-01-2025"})

	mid, err := s.RecordPayment(l.ID, 300_000)
	if err != nil {
		t.Fatalf("pay 1: %v", err)
	}
	if mid.Paid || mid.PaidAmount != 300_000 || mid.PaidDate != nil || mid.PaidPercent() != 30 {
		t.Fatalf("after partial: %+v", mid)
	}
	checkInvariants(t, mid)

	got, err := s.RecordPayment(l.ID, 700_000)
	if err != nil {
		t.Fatalf("pay 2: %v", err)
	}
	if !got.Paid || got.PaidAmount != 1_000_000 || len(got.PaymentHistory) != 2 {
		t.Fatalf("after full: %+v", got)
	}
	checkInvariants(t, got)
}

func TestRecordPayment_ClampsOverpayment(t *testing.T) {
	s := newTestStore()
	l := mustRecord(t, s, RecordLoanInput{Name: "An", Amount: 500, Date: "01-01-2025"})

	got, err := s.RecordPayment(l.ID, 800)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if got.PaidAmount != 500 || !got.Paid {
		t.Fatalf("paidAmount = %d, want clamp to 500", got.PaidAmount)
	}
	if got.PaymentHistory[0].Amount != 800 {
		t.Fatalf("event keeps delta, got %d", got.PaymentHistory[0].Amount)
	}
	checkInvariants(t, got)
}

func TestRecordPayment_Rejects(t *testing.T) {
	s := newTestStore()
	l := mustRecord(t, s, RecordLoanInput{Name: "An", Amount: 500, Date: "01-01-2025"})

	if _, err := s.RecordPayment(l.ID, 0); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("zero delta err = %v", err)
	}
	if _, err := s.RecordPayment(l.ID, -1); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("negative delta err = %v", err)
	}
	if _, err := s.RecordPayment(42, 10); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown id err = %v", err)
	}
	if _, err := s.RecordPayment(l.ID, 500); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if _, err := s.RecordPayment(l.ID, 1); !errors.Is(err, domain.ErrAlreadyPaid) {
		t.Fatalf("paying a paid loan err = %v", err)
	}
	got, _ := s.Get(l.ID)
	if len(got.PaymentHistory) != 1 {
		t.Fatalf("rejected payments must not append events: %+v", got.PaymentHistory)
	}
}

func TestResetPayment(t *testing.T) {
	s := newTestStore()
	l := mustRecord(t, s, RecordLoanInput{Name: "An", Amount: 1_000_000, Date: "01-01-2025"})

	if _, err := s.ResetPayment(l.ID); !errors.Is(err, domain.ErrNotPaid) {
		t.Fatalf("reset on unpaid err = %v", err)
	}
	if _, err := s.RecordPayment(l.ID, 1_000_000); err != nil {
		t.Fatalf("pay: %v", err)
	}

	got, err := s.ResetPayment(l.ID)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got.Paid || got.PaidAmount != 0 || got.PaidDate != nil {
		t.Fatalf("after reset: %+v", got)
	}
	if len(got.PaymentHistory) != 1 {
		t.Fatalf("reset must keep payment history, got %d", len(got.PaymentHistory))
	}
	if _, err := s.ResetPayment(999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown id err = %v", err)
	}
}

func TestEditLoan_ReplacesLatestFieldsOnly(t *testing.T) {
	s := newTestStore()
	l := mustRecord(t, s, RecordLoanInput{Name: "An", Amount: 1_000, Date: "01-01-2025"})
	if _, err := s.RecordPayment(l.ID, 400); err != nil {
		t.Fatalf("pay: %v", err)
	}
	before, _ := s.Get(l.ID)

	got, err := s.EditLoan(EditLoanInput{ID: l.ID, Name: " An Nguyen ", Amount: 2_000, Date: "03-01-2025"})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got.Name != "An Nguyen" || got.Amount != 2_000 || got.Date != "2025-01-03" || got.Note != domain.DefaultNote {
		t.Fatalf("edited fields: %+v", got)
	}
	if len(got.History) != len(before.History) || got.History[0] != before.History[0] {
		t.Fatalf("history touched: %+v", got.History)
	}
	if got.PaidAmount != 400 || got.Paid || len(got.PaymentHistory) != 1 {
		t.Fatalf("payment state touched: %+v", got)
	}
}

func TestEditLoan_EmptyDateKeepsStoredDate(t *testing.T) {
	s := newTestStore()
	s.Replace([]domain.Loan{{
		ID: 4, Name: "An", Amount: 100, Date: "2025/01/01",
		History:        []domain.Event{{ID: 4, Amount: 100, Date: "2025/01/01"}},
		PaymentHistory: []domain.Event{},
	}})

	got, err := s.EditLoan(EditLoanInput{ID: 4, Name: "An Nguyen", Amount: 100})
	if err != nil {
		t.Fatalf("edit without a date: %v", err)
	}
	if got.Name != "An Nguyen" || got.Date != "2025/01/01" {
		t.Fatalf("edited loan = %+v", got)
	}

	if _, err := s.EditLoan(EditLoanInput{ID: 4, Name: "An", Amount: 100, Date: "2025/01/01"}); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("explicit legacy date err = %v", err)
	}
}

func TestEditLoan_NameClash(t *testing.T) {
	s := newTestStore()
	a := mustRecord(t, s, RecordLoanInput{Name: "An", Amount: 100, Date: "01-01-2025"})
	b := mustRecord(t, s, RecordLoanInput{Name: "Binh", Amount: 200, Date: "01-01-2025"})

	_, err := s.EditLoan(EditLoanInput{ID: b.ID, Name: "AN", Amount: 200, Date: "01-01-2025"})
	var dup *domain.DuplicateNameError
	if !errors.As(err, &dup) || dup.Existing.ID != a.ID {
		t.Fatalf("expected clash with %d, got %v", a.ID, err)
	}
	if got, _ := s.Get(b.ID); got.Name != "Binh" {
		t.Fatalf("rejected edit mutated loan: %+v", got)
	}

	got, err := s.EditLoan(EditLoanInput{ID: b.ID, Name: "AN", Amount: 200, Date: "01-01-2025", ConfirmNameClash: true})
	if err != nil {
		t.Fatalf("confirmed edit: %v", err)
	}
	if got.Name != "AN" {
		t.Fatalf("name = %q", got.Name)
	}
	if n := len(s.Loans()); n != 2 {
		t.Fatalf("edit must not merge loans, have %d", n)
	}
}

func TestEditLoan_SameLoanRecasingNeedsNoConfirm(t *testing.T) {
	s := newTestStore()
	a := mustRecord(t, s, RecordLoanInput{Name: "an", Amount: 100, Date: "01-01-2025"})

	if _, err := s.EditLoan(EditLoanInput{ID: a.ID, Name: "An", Amount: 100, Date: "01-01-2025"}); err != nil {
		t.Fatalf("recasing own name: %v", err)
	}
}

func TestEditLoan_Rejects(t *testing.T) {
	s := newTestStore()
	a := mustRecord(t, s, RecordLoanInput{Name: "An", Amount: 100, Date: "01-01-2025"})

	if _, err := s.EditLoan(EditLoanInput{ID: a.ID, Name: "An", Amount: 0, Date: "01-01-2025"}); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("amount err = %v", err)
	}
	if _, err := s.EditLoan(EditLoanInput{ID: a.ID, Name: "An", Amount: 5, Date: "30-02-2024"}); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("date err = %v", err)
	}
	if _, err := s.EditLoan(EditLoanInput{ID: 7, Name: "An", Amount: 5, Date: "01-01-2025"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown id err = %v", err)
	}
	if got, _ := s.Get(a.ID); got.Amount != 100 {
		t.Fatalf("rejected edits mutated loan: %+v", got)
	}
}

func TestDeleteLoan(t *testing.T) {
	s := newTestStore()
	a := mustRecord(t, s, RecordLoanInput{Name: "An", Amount: 100, Date: "01-01-2025"})
	b := mustRecord(t, s, RecordLoanInput{Name: "Binh", Amount: 200, Date: "01-01-2025"})

	if !s.DeleteLoan(a.ID) {
		t.Fatalf("delete existing returned false")
	}
	if s.DeleteLoan(a.ID) {
		t.Fatalf("second delete must be a no-op")
	}
	loans := s.Loans()
	if len(loans) != 1 || loans[0].ID != b.ID {
		t.Fatalf("remaining = %+v", loans)
	}
}

func TestStore_LoansAreCopies(t *testing.T) {
	s := newTestStore()
	a := mustRecord(t, s, RecordLoanInput{Name: "An", Amount: 100, Date: "01-01-2025"})

	loans := s.Loans()
	loans[0].Amount = 1
	loans[0].History[0].Amount = 1

	got, _ := s.Get(a.ID)
	if got.Amount != 100 || got.History[0].Amount != 100 {
		t.Fatalf("caller mutated store state: %+v", got)
	}
}

func TestStore_ReplaceAdvancesIDs(t *testing.T) {
	future := domain.ID(fixedNow.UnixMilli() + 10_000)
	s := newTestStore(domain.Loan{
		ID: future, Name: "Old", Amount: 1, Date: "2024-01-01",
		History:        []domain.Event{{ID: future, Amount: 1, Date: "2024-01-01"}},
		PaymentHistory: []domain.Event{},
	})

	l := mustRecord(t, s, RecordLoanInput{Name: "New", Amount: 5, Date: "01-01-2025"})
	if l.ID <= future {
		t.Fatalf("new id %d not after loaded id %d", l.ID, future)
	}
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore()
	a := mustRecord(t, s, RecordLoanInput{Name: "An", Amount: 1_000, Date: "01-01-2025"})
	mustRecord(t, s, RecordLoanInput{Name: "Binh", Amount: 500, Date: "01-01-2025"})
	if _, err := s.RecordPayment(a.ID, 1_000); err != nil {
		t.Fatalf("pay: %v", err)
	}

	st := s.Stats()
	want := domain.Stats{TotalLoans: 2, TotalAmount: 1_500, UnpaidCount: 1, TotalPaidAmount: 1_000, TotalUnpaidAmount: 500}
	if st != want {
		t.Fatalf("stats = %+v, want %+v", st, want)
	}
}
