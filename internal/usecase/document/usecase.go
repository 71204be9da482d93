package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	domain "loanbook/internal/domain/document"

	"gorm.io/datatypes"
)

// Source tells where a read was served from.
type Source string

const (
	SourceCache Source = "cache"
	SourceStore Source = "store"
	SourceEmpty Source = "empty"
)

var emptyDocument = []byte("[]")

// Cache is an optional read-through copy of the stored document.
type Cache interface {
	Get(ctx context.Context, name string) ([]byte, bool, error)
	Set(ctx context.Context, name string, body []byte) error
}

type Usecase struct {
	repo  domain.Repository
	cache Cache
	name  string
	log   *slog.Logger
}

// NewUsecase serves the document called name. cache may be nil.
func NewUsecase(repo domain.Repository, cache Cache, name string, log *slog.Logger) *Usecase {
	if name == "" {
		name = domain.DefaultName
	}
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{repo: repo, cache: cache, name: name, log: log}
}

// Read returns the stored document, or [] when none was ever written.
func (u *Usecase) Read(ctx context.Context) ([]byte, Source, error) {
	if u.cache != nil {
		b, ok, err := u.cache.Get(ctx, u.name)
		switch {
		case err != nil:
			u.log.Warn("document cache read failed", "name", u.name, "error", err)
		case ok:
			return b, SourceCache, nil
		}
	}

	d, err := u.repo.Get(ctx, u.name)
	if errors.Is(err, domain.ErrNotFound) {
		return emptyDocument, SourceEmpty, nil
	}
	if err != nil {
		return nil, "", err
	}
	u.remember(ctx, d.Body)
	return d.Body, SourceStore, nil
}

// Write replaces the document with body, stored with two-space indentation.
// body must be a JSON array.
func (u *Usecase) Write(ctx context.Context, body []byte) error {
	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return domain.ErrInvalidBody
	}
	if body[0] != '[' {
		return domain.ErrNotArray
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		return domain.ErrInvalidBody
	}

	d := &domain.Document{Name: u.name, Body: datatypes.JSON(pretty.Bytes())}
	if err := u.repo.Put(ctx, d); err != nil {
		return err
	}
	u.remember(ctx, d.Body)
	return nil
}

func (u *Usecase) remember(ctx context.Context, body []byte) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Set(ctx, u.name, body); err != nil {
		u.log.Warn("document cache write failed", "name", u.name, "error", err)
	}
}
