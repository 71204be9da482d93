package loanmock

import (
	"context"

	domain "loanbook/internal/domain/loan"
)

// Syncer is a function-backed mock that satisfies the session's Syncer.
// Load defaults to context.Canceled, Save to a no-op.
type Syncer struct {
	LoadFn func(ctx context.Context) ([]domain.Loan, error)
	SaveFn func(ctx context.Context, loans []domain.Loan) error
}

func (m *Syncer) Load(ctx context.Context) ([]domain.Loan, error) {
	if m.LoadFn != nil {
		return m.LoadFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Syncer) Save(ctx context.Context, loans []domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, loans)
	}
	return nil
}

// Memory is a Syncer backed by a slice; Saves counts write-throughs.
type Memory struct {
	Loans []domain.Loan
	Saves int
}

func (m *Memory) Load(context.Context) ([]domain.Loan, error) {
	out := make([]domain.Loan, 0, len(m.Loans))
	for _, l := range m.Loans {
		out = append(out, l.Clone())
	}
	return out, nil
}

func (m *Memory) Save(_ context.Context, loans []domain.Loan) error {
	m.Saves++
	m.Loans = make([]domain.Loan, 0, len(loans))
	for _, l := range loans {
		m.Loans = append(m.Loans, l.Clone())
	}
	return nil
}
