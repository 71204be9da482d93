package tiermock

import (
	"context"
	"errors"
)

var ErrUnimplemented = errors.New("tiermock: method not implemented")

// Remote is a function-backed mock of the gateway tier.
// Unfilled fields return ErrUnimplemented.
type Remote struct {
	FetchFn func(ctx context.Context) ([]byte, error)
	PushFn  func(ctx context.Context, doc []byte) error

	Pushes [][]byte
}

func (m *Remote) Fetch(ctx context.Context) ([]byte, error) {
	if m.FetchFn != nil {
		return m.FetchFn(ctx)
	}
	return nil, ErrUnimplemented
}

func (m *Remote) Push(ctx context.Context, doc []byte) error {
	m.Pushes = append(m.Pushes, append([]byte(nil), doc...))
	if m.PushFn != nil {
		return m.PushFn(ctx, doc)
	}
	return ErrUnimplemented
}

// Mirror keeps the last written document in Doc and the sync marker in
// Pending. ReadErr and WriteErr force failures of the document calls only.
type Mirror struct {
	Doc      []byte
	ReadErr  error
	WriteErr error
	Writes   int

	Pending       bool
	PendingWrites int
}

func (m *Mirror) Read(context.Context) ([]byte, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	return m.Doc, nil
}

func (m *Mirror) Write(_ context.Context, doc []byte) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Writes++
	m.Doc = append([]byte(nil), doc...)
	return nil
}

func (m *Mirror) ReadPending(context.Context) (bool, error) { return m.Pending, nil }

func (m *Mirror) WritePending(_ context.Context, pending bool) error {
	m.PendingWrites++
	m.Pending = pending
	return nil
}
