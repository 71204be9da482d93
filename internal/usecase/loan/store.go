package loan

import (
	"fmt"
	"strings"
	"time"

	domain "loanbook/internal/domain/loan"
	"loanbook/pkg/id"
)

// Store is the only owner of the loan collection and of every rule that
// changes it. It never prompts and never does I/O: ambiguous cases come back
// as errors carrying what the caller needs to decide, and the caller retries
// with the decision filled in.
type Store struct {
	loans    []domain.Loan
	ids      *id.Generator
	now      func() time.Time
	loc      *time.Location
	amounts  *domain.AmountFormatter
	validate *CustomValidator
}

type Option func(*Store)

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func WithLocation(loc *time.Location) Option { return func(s *Store) { s.loc = loc } }

func WithIDs(g *id.Generator) Option { return func(s *Store) { s.ids = g } }

func WithFormatter(f *domain.AmountFormatter) Option { return func(s *Store) { s.amounts = f } }

func NewStore(loans []domain.Loan, opts ...Option) *Store {
	s := &Store{
		now:      time.Now,
		loc:      time.UTC,
		validate: NewValidator(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.ids == nil {
		s.ids = id.NewGenerator(s.now)
	}
	if s.amounts == nil {
		s.amounts = domain.NewAmountFormatter("vi", "")
	}
	s.Replace(loans)
	return s
}

// Replace swaps the whole collection, e.g. after a reload or an import.
func (s *Store) Replace(loans []domain.Loan) {
	s.loans = make([]domain.Loan, 0, len(loans))
	for _, l := range loans {
		s.observe(l)
		s.loans = append(s.loans, l.Clone())
	}
}

func (s *Store) observe(l domain.Loan) {
	s.ids.Observe(int64(l.ID))
	for _, e := range l.History {
		s.ids.Observe(int64(e.ID))
	}
	for _, e := range l.PaymentHistory {
		s.ids.Observe(int64(e.ID))
	}
}

// Loans returns a copy of the collection in insertion order.
func (s *Store) Loans() []domain.Loan {
	out := make([]domain.Loan, 0, len(s.loans))
	for _, l := range s.loans {
		out = append(out, l.Clone())
	}
	return out
}

func (s *Store) Stats() domain.Stats { return domain.Summarize(s.loans) }

func (s *Store) Get(loanID domain.ID) (domain.Loan, error) {
	i := s.index(loanID)
	if i < 0 {
		return domain.Loan{}, fmt.Errorf("%w: %d", domain.ErrNotFound, loanID)
	}
	return s.loans[i].Clone(), nil
}

// FindByName returns the first loan whose borrower matches name ignoring case
// and surrounding whitespace.
func (s *Store) FindByName(name string) (domain.Loan, bool) {
	for _, l := range s.loans {
		if l.SameBorrower(name) {
			return l.Clone(), true
		}
	}
	return domain.Loan{}, false
}

func (s *Store) index(loanID domain.ID) int {
	for i := range s.loans {
		if s.loans[i].ID == loanID {
			return i
		}
	}
	return -1
}

func (s *Store) today() string { return domain.Today(s.now(), s.loc) }

// RecordLoan lends money to in.Name. A new borrower gets a new loan. For a
// known borrower in.OnDuplicate decides; when it is unset the call fails with
// *domain.DuplicateNameError and nothing changes.
func (s *Store) RecordLoan(in RecordLoanInput) (RecordResult, error) {
	if err := s.validate.Validate(in); err != nil {
		return RecordResult{}, err
	}
	date, err := domain.ParseDisplayDate(in.Date)
	if err != nil {
		return RecordResult{}, err
	}
	name := strings.TrimSpace(in.Name)
	note := strings.TrimSpace(in.Note)

	existing, found := s.FindByName(name)
	if !found {
		l := s.create(name, in.Amount, date, note)
		return RecordResult{Outcome: OutcomeCreated, Loan: l}, nil
	}

	switch in.OnDuplicate {
	case ResolutionMerge:
		l := s.accrue(existing.ID, in.Amount, date, note)
		return RecordResult{Outcome: OutcomeMerged, Loan: l}, nil
	case ResolutionCreate:
		l := s.create(name, in.Amount, date, note)
		return RecordResult{Outcome: OutcomeCreated, Loan: l}, nil
	case ResolutionAbort:
		return RecordResult{Outcome: OutcomeAborted, Loan: existing}, nil
	default:
		return RecordResult{}, &domain.DuplicateNameError{Existing: existing}
	}
}

func (s *Store) create(name string, amount int64, date, note string) domain.Loan {
	loanID := domain.ID(s.ids.Next())
	l := domain.Loan{
		ID:     loanID,
		Name:   name,
		Amount: amount,
		Date:   date,
		Note:   domain.NoteOrDefault(note),
		History: []domain.Event{{
			ID:     loanID,
			Amount: amount,
			Date:   date,
			Note:   domain.NoteOrDefault(note),
		}},
		PaymentHistory: []domain.Event{},
	}
	s.loans = append(s.loans, l)
	return l.Clone()
}

// accrue adds principal to an existing loan. Payment credit already given is
// kept, so a settled loan becomes unpaid with the old paidAmount applied.
func (s *Store) accrue(loanID domain.ID, amount int64, date, note string) domain.Loan {
	l := &s.loans[s.index(loanID)]
	l.History = append(l.History, domain.Event{
		ID:     domain.ID(s.ids.Next()),
		Amount: amount,
		Date:   date,
		Note:   domain.NoteOrDefault(note),
	})
	l.Amount += amount
	l.Date = date
	if note != "" {
		l.Note = note
	}
	if l.Paid {
		l.Paid = false
		l.PaidDate = nil
	}
	return l.Clone()
}

// RecordPayment credits delta against the loan, capped at the principal. The
// payment event keeps the full delta even when the credit is capped.
func (s *Store) RecordPayment(loanID domain.ID, delta int64) (domain.Loan, error) {
	if delta <= 0 {
		return domain.Loan{}, fmt.Errorf("%w: %d", domain.ErrInvalidAmount, delta)
	}
	i := s.index(loanID)
	if i < 0 {
		return domain.Loan{}, fmt.Errorf("%w: %d", domain.ErrNotFound, loanID)
	}
	l := &s.loans[i]
	if l.Paid {
		return domain.Loan{}, fmt.Errorf("%w: %d", domain.ErrAlreadyPaid, loanID)
	}

	today := s.today()
	l.PaymentHistory = append(l.PaymentHistory, domain.Event{
		ID:     domain.ID(s.ids.Next()),
		Amount: delta,
		Date:   today,
		Note:   "Paid " + s.amounts.WithCurrency(delta),
	})
	l.PaidAmount = min(l.Amount, l.PaidAmount+delta)
	if l.PaidAmount == l.Amount {
		l.Paid = true
		l.PaidDate = &today
	} else {
		l.Paid = false
	}
	return l.Clone(), nil
}

// ResetPayment returns a paid loan to unpaid with no credit. Payment history
// is left as it is.
func (s *Store) ResetPayment(loanID domain.ID) (domain.Loan, error) {
	i := s.index(loanID)
	if i < 0 {
		return domain.Loan{}, fmt.Errorf("%w: %d", domain.ErrNotFound, loanID)
	}
	l := &s.loans[i]
	if !l.Paid {
		return domain.Loan{}, fmt.Errorf("%w: %d", domain.ErrNotPaid, loanID)
	}
	l.Paid = false
	l.PaidAmount = 0
	l.PaidDate = nil
	return l.Clone(), nil
}

// EditLoan corrects name, amount, date and note. Histories and payment state
// are not touched. Renaming onto another loan's borrower requires
// in.ConfirmNameClash.
func (s *Store) EditLoan(in EditLoanInput) (domain.Loan, error) {
	if err := s.validate.Validate(in); err != nil {
		return domain.Loan{}, err
	}
	i := s.index(in.ID)
	if i < 0 {
		return domain.Loan{}, fmt.Errorf("%w: %d", domain.ErrNotFound, in.ID)
	}
	date := s.loans[i].Date
	if in.Date != "" {
		var err error
		if date, err = domain.ParseDisplayDate(in.Date); err != nil {
			return domain.Loan{}, err
		}
	}
	name := strings.TrimSpace(in.Name)

	if !s.loans[i].SameBorrower(name) && !in.ConfirmNameClash {
		for _, other := range s.loans {
			if other.ID != in.ID && other.SameBorrower(name) {
				return domain.Loan{}, &domain.DuplicateNameError{Existing: other.Clone()}
			}
		}
	}

	l := &s.loans[i]
	l.Name = name
	l.Amount = in.Amount
	l.Date = date
	l.Note = domain.NoteOrDefault(strings.TrimSpace(in.Note))
	return l.Clone(), nil
}

// DeleteLoan removes the loan and reports whether it existed.
func (s *Store) DeleteLoan(loanID domain.ID) bool {
	i := s.index(loanID)
	if i < 0 {
		return false
	}
	s.loans = append(s.loans[:i], s.loans[i+1:]...)
	return true
}
