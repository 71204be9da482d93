package loan

import (
	"context"
	"fmt"
	"io"

	domain "loanbook/internal/domain/loan"
)

// Syncer persists the whole collection. Save writes through every tier and
// Load returns the preferred stored copy.
type Syncer interface {
	Load(ctx context.Context) ([]domain.Loan, error)
	Save(ctx context.Context, loans []domain.Loan) error
}

// Usecase is one session: a Store plus the load → mutate → save → reload cycle
// around it. Calls must not overlap.
type Usecase struct {
	store *Store
	sync  Syncer
}

func NewUsecase(s *Store, sy Syncer) *Usecase { return &Usecase{store: s, sync: sy} }

// Open replaces the in-memory collection with the stored one.
func (u *Usecase) Open(ctx context.Context) error {
	loans, err := u.sync.Load(ctx)
	if err != nil {
		return fmt.Errorf("load loans: %w", err)
	}
	u.store.Replace(loans)
	return nil
}

func (u *Usecase) List() []domain.Loan { return u.store.Loans() }

func (u *Usecase) Get(loanID domain.ID) (domain.Loan, error) { return u.store.Get(loanID) }

func (u *Usecase) FindByName(name string) (domain.Loan, bool) { return u.store.FindByName(name) }

func (u *Usecase) Stats() domain.Stats { return u.store.Stats() }

func (u *Usecase) RecordLoan(ctx context.Context, in RecordLoanInput) (RecordResult, error) {
	res, err := u.store.RecordLoan(in)
	if err != nil || !res.Changed() {
		return res, err
	}
	return res, u.commit(ctx)
}

func (u *Usecase) RecordPayment(ctx context.Context, loanID domain.ID, delta int64) (domain.Loan, error) {
	l, err := u.store.RecordPayment(loanID, delta)
	if err != nil {
		return l, err
	}
	return l, u.commit(ctx)
}

func (u *Usecase) ResetPayment(ctx context.Context, loanID domain.ID) (domain.Loan, error) {
	l, err := u.store.ResetPayment(loanID)
	if err != nil {
		return l, err
	}
	return l, u.commit(ctx)
}

func (u *Usecase) EditLoan(ctx context.Context, in EditLoanInput) (domain.Loan, error) {
	l, err := u.store.EditLoan(in)
	if err != nil {
		return l, err
	}
	return l, u.commit(ctx)
}

// DeleteLoan is a no-op without write-through when the id is unknown.
func (u *Usecase) DeleteLoan(ctx context.Context, loanID domain.ID) (bool, error) {
	if !u.store.DeleteLoan(loanID) {
		return false, nil
	}
	return true, u.commit(ctx)
}

// PrepareImport decodes and migrates a backup without touching the session,
// so the caller can show what will be replaced and ask first.
func (u *Usecase) PrepareImport(data []byte) ([]domain.Loan, error) {
	loans, err := domain.DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	return loans, nil
}

// Import replaces the whole collection with loans and writes it through.
func (u *Usecase) Import(ctx context.Context, loans []domain.Loan) error {
	u.store.Replace(loans)
	return u.commit(ctx)
}

// Export writes the raw collection as indented JSON.
func (u *Usecase) Export(w io.Writer) error {
	b, err := domain.EncodeDocumentIndent(u.store.Loans())
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Today is the current ISO date in the session's timezone.
func (u *Usecase) Today() string { return u.store.today() }

func (u *Usecase) ExportFileName() string {
	return "loans_backup_" + u.store.today() + ".json"
}

// commit writes the collection through and reloads it. A failed save leaves
// the in-memory state as it is.
func (u *Usecase) commit(ctx context.Context) error {
	if err := u.sync.Save(ctx, u.store.Loans()); err != nil {
		return fmt.Errorf("write-through: %w", err)
	}
	loans, err := u.sync.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	u.store.Replace(loans)
	return nil
}
