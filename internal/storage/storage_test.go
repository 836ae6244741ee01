package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rewired-gh/astrotrader/internal/models"
	"github.com/rewired-gh/astrotrader/internal/settings"
)

func newTestStorage(t *testing.T, maxRuns int) *Storage {
	t.Helper()
	s, err := New(maxRuns, ":memory:")
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testRun(t *testing.T, asset string, resolvedAt time.Time) *models.Run {
	t.Helper()
	cfg, err := settings.Resolve(settings.MapLookup(map[string]string{
		settings.EnvAsset: asset,
		settings.EnvModel: settings.ModelSwingTrade,
	}))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return models.NewRun(cfg, resolvedAt)
}

func TestStorage_RecordAndGetRun(t *testing.T) {
	s := newTestStorage(t, 100)
	r := testRun(t, "PETR4.SA", time.Now().Add(-time.Minute))

	if err := s.RecordRun(r); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	got, err := s.GetRun(r.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Asset != "PETR4.SA" || got.SourceFile != "./input/PETR4.SA_Daily" {
		t.Errorf("unexpected run: %+v", got)
	}
	if !got.MinimalDate.Equal(settings.MinimalDate("PETR4.SA")) {
		t.Errorf("minimal date = %v", got.MinimalDate)
	}
	if !got.ResolvedAt.Equal(r.ResolvedAt) {
		t.Errorf("resolved at = %v, want %v", got.ResolvedAt, r.ResolvedAt)
	}
	if got.Parameters["booster"] != "gbtree" {
		t.Errorf("parameters = %v", got.Parameters)
	}
	if got.Parameters["subsample"] != 0.5 {
		t.Errorf("subsample = %v", got.Parameters["subsample"])
	}
}

func TestStorage_GetRun_NotFound(t *testing.T) {
	s := newTestStorage(t, 100)
	if _, err := s.GetRun("nonexistent"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestStorage_RecordRun_Invalid(t *testing.T) {
	s := newTestStorage(t, 100)
	r := testRun(t, "VALE3.SA", time.Now())
	r.ID = ""
	if err := s.RecordRun(r); err == nil {
		t.Error("expected error for invalid run")
	}
}

func TestStorage_ListRuns_NewestFirst(t *testing.T) {
	s := newTestStorage(t, 100)
	base := time.Now().Add(-time.Hour)
	for i, asset := range []string{"PETR4.SA", "VALE3.SA", "^BVSP"} {
		if err := s.RecordRun(testRun(t, asset, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, err := s.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Asset != "^BVSP" || runs[1].Asset != "VALE3.SA" {
		t.Errorf("unexpected order: %s, %s", runs[0].Asset, runs[1].Asset)
	}
}

func TestStorage_ListRuns_Empty(t *testing.T) {
	s := newTestStorage(t, 100)
	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if runs == nil || len(runs) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", runs)
	}
}

func TestStorage_RunCap(t *testing.T) {
	s := newTestStorage(t, 2)
	base := time.Now().Add(-time.Hour)
	var ids []string
	for i := 0; i < 4; i++ {
		r := testRun(t, "ITUB4.SA", base.Add(time.Duration(i)*time.Minute))
		ids = append(ids, r.ID)
		if err := s.RecordRun(r); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, _ := s.ListRuns(10)
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs after cap, got %d", len(runs))
	}
	if _, err := s.GetRun(ids[0]); err == nil {
		t.Error("oldest run should have been evicted")
	}
	if _, err := s.GetRun(ids[3]); err != nil {
		t.Errorf("newest run missing: %v", err)
	}
}

func TestStorage_New_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	if err := os.WriteFile(path, []byte(strings.Repeat("not a sqlite file ", 64)), 0o644); err != nil {
		t.Fatal(err)
	}
	if s, err := New(10, path); err == nil {
		_ = s.Close()
		t.Fatal("expected error opening a non-database file")
	}
	// replacing the corrupt file recovers
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	s, err := New(10, path)
	if err != nil {
		t.Fatalf("New after failure: %v", err)
	}
	_ = s.Close()
}

func TestStorage_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "runs.db")
	s, err := New(10, path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := testRun(t, "BBDC4.SA", time.Now().Add(-time.Second))
	if err := s.RecordRun(r); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	_ = s.Close()

	reopened, err := New(10, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if _, err := reopened.GetRun(r.ID); err != nil {
		t.Errorf("run not persisted: %v", err)
	}
}
