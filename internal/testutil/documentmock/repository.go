package documentmock

import (
	"context"

	domain "loanbook/internal/domain/document"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetFn func(ctx context.Context, name string) (*domain.Document, error)
	PutFn func(ctx context.Context, d *domain.Document) error
}

func (m *Repo) Get(ctx context.Context, name string) (*domain.Document, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, name)
	}
	return nil, context.Canceled
}

func (m *Repo) Put(ctx context.Context, d *domain.Document) error {
	if m.PutFn != nil {
		return m.PutFn(ctx, d)
	}
	return nil
}
