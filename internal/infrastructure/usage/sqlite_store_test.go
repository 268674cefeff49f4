package usage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/doeshing/gai-go/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "usage.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndRecent(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []domain.UsageRecord{
		{Timestamp: base, Kind: domain.KindCommit, Provider: domain.ProviderGemini, Model: "gemini-2.0-flash", Attempts: 1, Generations: 1, Outcome: domain.OutcomeAccepted},
		{Timestamp: base.Add(time.Minute), Kind: domain.KindReview, Provider: domain.ProviderOpenAI, Model: "gpt-4o-mini", Attempts: 2, Generations: 1, Outcome: domain.OutcomeShown},
	}
	for _, rec := range records {
		if err := store.Save(rec); err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}

	got, err := store.Recent(1)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Kind != domain.KindReview || got[0].Attempts != 2 || got[0].ID == "" {
		t.Fatalf("unexpected newest record %+v", got[0])
	}
	if !got[0].Timestamp.Equal(base.Add(time.Minute)) {
		t.Fatalf("timestamp not preserved: %v", got[0].Timestamp)
	}
}

func TestSinceSummarises(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC()
	for _, rec := range []domain.UsageRecord{
		{Timestamp: now.Add(-48 * time.Hour), Kind: domain.KindCommit, Outcome: domain.OutcomeAccepted},
		{Timestamp: now.Add(-time.Hour), Kind: domain.KindCommit, Outcome: domain.OutcomeEdited},
		{Timestamp: now.Add(-time.Minute), Kind: domain.KindStash, Outcome: domain.OutcomeRejected},
	} {
		if err := store.Save(rec); err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}

	summary, err := store.Since(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("Since error: %v", err)
	}
	if summary.Total != 2 || summary.Accepted != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.ByKind[domain.KindCommit] != 1 || summary.ByKind[domain.KindStash] != 1 {
		t.Fatalf("unexpected per-kind counts %v", summary.ByKind)
	}
	if summary.Last == nil || summary.Last.Kind != domain.KindStash {
		t.Fatalf("expected newest record last, got %+v", summary.Last)
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(domain.UsageRecord{Kind: domain.KindLog}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	got, err := store.Recent(0)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty ledger, got %d", len(got))
	}
}
