package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/entrhq/clarity/pkg/session"
)

// Extractor distills a session's turns into a candidate record. The
// implementation must either return a record that passed candidate schema
// validation, or fail the extraction as a whole; partially valid output is
// never surfaced.
type Extractor interface {
	Extract(ctx context.Context, turns []session.Turn) (*Record, error)
}

// Finalizer exposes the single summarize-then-persist operation invoked at
// session end. Every exit path (normal command, EOF, signal) routes to the
// same Finalize call; only the first invocation performs work, so wiring it
// to multiple termination paths is safe.
type Finalizer struct {
	store     *FileStore
	extractor Extractor
	once      sync.Once
}

func NewFinalizer(store *FileStore, extractor Extractor) *Finalizer {
	return &Finalizer{store: store, extractor: extractor}
}

// Finalize extracts a candidate from the session's turns, merges it with the
// stored record, and saves the result. Extraction or save failure abandons
// the whole cycle for this session and leaves the durable record untouched;
// nothing is retried. Subsequent calls are no-ops returning nil.
func (f *Finalizer) Finalize(ctx context.Context, turns []session.Turn) error {
	var err error
	f.once.Do(func() {
		err = f.update(ctx, turns)
	})
	return err
}

func (f *Finalizer) update(ctx context.Context, turns []session.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	candidate, err := f.extractor.Extract(ctx, turns)
	if err != nil {
		return fmt.Errorf("memory: finalize extraction: %w", err)
	}
	merged := Merge(f.store.Load(), candidate)
	if err := f.store.Save(merged); err != nil {
		return fmt.Errorf("memory: finalize save: %w", err)
	}
	return nil
}
