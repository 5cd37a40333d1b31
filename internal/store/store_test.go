package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	s, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecords() []*Record {
	return []*Record{
		{GroupName: "Alpha Co-op", Fields: map[string]string{"NAME": "John Doe", "SEX": "Male"}},
		{GroupName: "Alpha Co-op", Fields: map[string]string{"NAME": "Grace Okon", "SEX": "Female"}},
		{GroupName: "Beta Co-op", Fields: map[string]string{"NAME": "Jane Smith"}},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveRun(ctx, &Run{
		InputName:   "roster.txt",
		RecordCount: 3,
		GroupCount:  2,
	}, sampleRecords())
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero run id")
	}

	run, err := s.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run == nil {
		t.Fatal("expected run, got nil")
	}
	if run.InputName != "roster.txt" || run.RecordCount != 3 || run.GroupCount != 2 {
		t.Errorf("run = %+v", run)
	}
	if run.CreatedAt.IsZero() {
		t.Error("expected non-zero CreatedAt")
	}
}

func TestGetRun_Missing(t *testing.T) {
	s := newTestStore(t)
	run, err := s.GetRun(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run != nil {
		t.Errorf("expected nil, got %+v", run)
	}
}

func TestRunRecords_OrderAndFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveRun(ctx, &Run{InputName: "roster.txt", RecordCount: 3, GroupCount: 2}, sampleRecords())
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	records, err := s.RunRecords(ctx, id)
	if err != nil {
		t.Fatalf("RunRecords: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Position != 1 || records[2].Position != 3 {
		t.Errorf("positions = %d, %d, %d", records[0].Position, records[1].Position, records[2].Position)
	}
	if records[0].Fields["NAME"] != "John Doe" {
		t.Errorf("record 0 fields = %v", records[0].Fields)
	}
	if records[2].GroupName != "Beta Co-op" {
		t.Errorf("record 2 group = %q", records[2].GroupName)
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"first.txt", "second.txt", "third.txt"} {
		if _, err := s.SaveRun(ctx, &Run{InputName: name, RecordCount: 1, GroupCount: 1}, nil); err != nil {
			t.Fatalf("SaveRun(%s): %v", name, err)
		}
	}

	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].InputName != "third.txt" || runs[1].InputName != "second.txt" {
		t.Errorf("order = %q, %q", runs[0].InputName, runs[1].InputName)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.RunCount != 0 || stats.RecordCount != 0 {
		t.Errorf("empty stats = %+v", stats)
	}

	if _, err := s.SaveRun(ctx, &Run{InputName: "roster.txt", RecordCount: 3, GroupCount: 2}, sampleRecords()); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	stats, err = s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.RunCount != 1 || stats.RecordCount != 3 || stats.GroupCount != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LastRunAt.IsZero() {
		t.Error("expected LastRunAt set")
	}
}

func TestNewStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer s.Close()

	if _, err := s.Stats(context.Background()); err != nil {
		t.Errorf("Stats on fresh db: %v", err)
	}
}
