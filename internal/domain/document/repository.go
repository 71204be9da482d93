package document

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("document not found")

type Repository interface {
	// Get returns ErrNotFound when no document has that name.
	Get(ctx context.Context, name string) (*Document, error)
	// Put creates the document or replaces its body.
	Put(ctx context.Context, d *Document) error
}

var (
	ErrInvalidBody = errors.New("body is not valid JSON")
	ErrNotArray    = errors.New("body must be a JSON array")
)
