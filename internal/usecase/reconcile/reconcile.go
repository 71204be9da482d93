// Package reconcile keeps the loan collection in two tiers: a durable local
// mirror that every write must reach, and a best-effort remote gateway that
// is preferred on read.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domain "loanbook/internal/domain/loan"
)

// Remote is the persistence gateway. Fetch returns the raw stored document.
type Remote interface {
	Fetch(ctx context.Context) ([]byte, error)
	Push(ctx context.Context, doc []byte) error
}

// Mirror is the device-local copy. Read returns nil when nothing is stored.
// The pending marker lives next to the document so it outlasts the process.
type Mirror interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, doc []byte) error
	ReadPending(ctx context.Context) (bool, error)
	WritePending(ctx context.Context, pending bool) error
}

// Reconciler loads remote-first with local fallback and writes local first,
// then remote. A nil remote means offline.
//
// After a push fails (or a save happens offline) the remote copy is known to
// be stale, so reads go to the mirror until a later push succeeds. The marker
// is stored in the mirror, so the next process sees it too. The remote is
// overwritten wholesale on that push; there is no merge.
type Reconciler struct {
	remote   Remote
	mirror   Mirror
	log      *slog.Logger
	pending  bool
	restored bool
}

func New(remote Remote, mirror Mirror, log *slog.Logger) *Reconciler {
	if log == nil {
		log = slog.Default()
	}
	return &Reconciler{remote: remote, mirror: mirror, log: log}
}

// Pending reports whether local changes have not reached the remote yet.
func (r *Reconciler) Pending() bool { return r.pending }

// restore picks up the marker left by an earlier process, once.
func (r *Reconciler) restore(ctx context.Context) {
	if r.restored {
		return
	}
	r.restored = true
	p, err := r.mirror.ReadPending(ctx)
	if err != nil {
		r.log.Warn("sync state unreadable, assuming remote is current", "error", err)
		return
	}
	r.pending = p
}

func (r *Reconciler) setPending(ctx context.Context, p bool) {
	if r.pending == p {
		return
	}
	r.pending = p
	if err := r.mirror.WritePending(ctx, p); err != nil {
		r.log.Warn("sync state not saved", "pending", p, "error", err)
	}
}

func (r *Reconciler) Load(ctx context.Context) ([]domain.Loan, error) {
	r.restore(ctx)

	var remoteErr error
	if r.remote != nil && !r.pending {
		loans, err := r.fetch(ctx)
		if err == nil && len(loans) > 0 {
			r.refreshMirror(ctx, loans)
			return loans, nil
		}
		remoteErr = err
		if err != nil {
			r.log.Warn("remote load failed, using local mirror", "error", err)
		} else {
			r.log.Debug("remote document empty, using local mirror")
		}
	}

	b, err := r.mirror.Read(ctx)
	if err != nil {
		if r.remote != nil && !r.pending && remoteErr == nil {
			r.log.Warn("local mirror unreadable, starting from empty remote", "error", err)
			return []domain.Loan{}, nil
		}
		return nil, errors.Join(remoteErr, fmt.Errorf("read mirror: %w", err))
	}
	if len(b) == 0 {
		return []domain.Loan{}, nil
	}
	loans, err := domain.DecodeDocument(b)
	if err != nil {
		r.log.Warn("local mirror holds an invalid document, starting empty", "error", err)
		return []domain.Loan{}, nil
	}
	return loans, nil
}

// refreshMirror keeps the mirror at the last document seen remotely. A failure
// only costs freshness of the fallback.
func (r *Reconciler) refreshMirror(ctx context.Context, loans []domain.Loan) {
	doc, err := domain.EncodeDocument(loans)
	if err == nil {
		err = r.mirror.Write(ctx, doc)
	}
	if err != nil {
		r.log.Warn("local mirror not refreshed from remote", "error", err)
	}
}

func (r *Reconciler) fetch(ctx context.Context) ([]domain.Loan, error) {
	b, err := r.remote.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return domain.DecodeDocument(b)
}

// Save writes the mirror and returns its error. A remote failure is logged and
// swallowed; the next successful Save carries the change.
func (r *Reconciler) Save(ctx context.Context, loans []domain.Loan) error {
	r.restore(ctx)
	doc, err := domain.EncodeDocument(loans)
	if err != nil {
		return err
	}
	if err := r.mirror.Write(ctx, doc); err != nil {
		return fmt.Errorf("write mirror: %w", err)
	}
	if r.remote == nil {
		r.setPending(ctx, true)
		return nil
	}
	if err := r.remote.Push(ctx, doc); err != nil {
		r.log.Warn("remote write failed, kept locally", "error", err, "loans", len(loans))
		r.setPending(ctx, true)
		return nil
	}
	if r.pending {
		r.log.Info("remote caught up with local changes", "loans", len(loans))
	}
	r.setPending(ctx, false)
	return nil
}
