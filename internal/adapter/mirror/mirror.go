// Package mirror is the device-local copy of the loan document, kept in a
// SQLite file next to the user's config.
package mirror

import (
	"bytes"
	"context"
	"errors"
	"strconv"

	"gorm.io/datatypes"

	domain "loanbook/internal/domain/document"
)

// pendingSuffix names the row that records unsynced local changes.
const pendingSuffix = ":pending"

type Mirror struct {
	repo domain.Repository
	key  string
}

func New(repo domain.Repository, key string) *Mirror {
	if key == "" {
		key = domain.DefaultName
	}
	return &Mirror{repo: repo, key: key}
}

// Read returns nil when nothing was ever written.
func (m *Mirror) Read(ctx context.Context) ([]byte, error) {
	d, err := m.repo.Get(ctx, m.key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d.Body, nil
}

func (m *Mirror) Write(ctx context.Context, doc []byte) error {
	return m.repo.Put(ctx, &domain.Document{Name: m.key, Body: datatypes.JSON(doc)})
}

// ReadPending reports whether a previous session left changes that never
// reached the gateway. No row means false.
func (m *Mirror) ReadPending(ctx context.Context) (bool, error) {
	d, err := m.repo.Get(ctx, m.key+pendingSuffix)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return bytes.Equal(bytes.TrimSpace(d.Body), []byte("true")), nil
}

func (m *Mirror) WritePending(ctx context.Context, pending bool) error {
	return m.repo.Put(ctx, &domain.Document{
		Name: m.key + pendingSuffix,
		Body: datatypes.JSON(strconv.FormatBool(pending)),
	})
}
