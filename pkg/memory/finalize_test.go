package memory

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/entrhq/clarity/pkg/session"
)

type stubExtractor struct {
	record *Record
	err    error
	calls  int
}

func (s *stubExtractor) Extract(_ context.Context, _ []session.Turn) (*Record, error) {
	s.calls++
	return s.record, s.err
}

var someTurns = []session.Turn{
	{Role: session.RoleUser, Content: "hello"},
	{Role: session.RoleAssistant, Content: "hi"},
}

func TestFinalizeMergesAndSaves(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.Save(&Record{Preferences: []string{"dark mode"}}); err != nil {
		t.Fatalf("seed Save: %v", err)
	}

	ex := &stubExtractor{record: &Record{
		UserProfile: "the user",
		Preferences: []string{"dark mode", "vim keys"},
	}}
	f := NewFinalizer(store, ex)

	if err := f.Finalize(context.Background(), someTurns); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	got := store.Load()
	if got == nil {
		t.Fatal("expected a stored record")
	}
	if got.UserProfile != "the user" {
		t.Errorf("expected merged profile, got %q", got.UserProfile)
	}
	if len(got.Preferences) != 2 {
		t.Errorf("expected union of preferences, got %+v", got.Preferences)
	}
}

func TestFinalizeRunsOnce(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ex := &stubExtractor{record: &Record{UserProfile: "x"}}
	f := NewFinalizer(store, ex)

	ctx := context.Background()
	if err := f.Finalize(ctx, someTurns); err != nil {
		t.Fatalf("first Finalize: %v", err)
	}
	if err := f.Finalize(ctx, someTurns); err != nil {
		t.Fatalf("second Finalize: %v", err)
	}
	if ex.calls != 1 {
		t.Errorf("expected exactly one extraction, got %d", ex.calls)
	}
}

func TestFinalizeExtractionFailureLeavesRecordUntouched(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.Save(&Record{UserProfile: "prior"}); err != nil {
		t.Fatalf("seed Save: %v", err)
	}
	before, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read canonical: %v", err)
	}

	f := NewFinalizer(store, &stubExtractor{err: errors.New("response was not strict JSON")})
	if err := f.Finalize(context.Background(), someTurns); err == nil {
		t.Fatal("expected finalize to report the extraction failure")
	}

	after, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read canonical after finalize: %v", err)
	}
	if string(before) != string(after) {
		t.Error("failed extraction altered the durable record")
	}
}

func TestFinalizeSkipsEmptySessions(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ex := &stubExtractor{record: &Record{}}
	f := NewFinalizer(store, ex)

	if err := f.Finalize(context.Background(), nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if ex.calls != 0 {
		t.Errorf("expected no extraction for an empty session, got %d calls", ex.calls)
	}
	if got := store.Load(); got != nil {
		t.Errorf("expected no record to be written, got %+v", got)
	}
}
