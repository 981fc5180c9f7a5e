package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestLedger(t *testing.T) {
	ctx := context.Background()
	l, err := OpenLedger(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("OpenLedger: %v", err)
	}
	defer l.Close()

	entries := []Entry{
		{Address: "a1", Text: "שלום", VoiceKey: "female_a", VoiceID: "nova", Provider: "openai", DurationMs: 400, Bytes: 100, CreatedAt: time.Now()},
		{Address: "a2", Text: "עולם", VoiceKey: "female_a", VoiceID: "nova", Provider: "openai", DurationMs: 600, Bytes: 150, CreatedAt: time.Now()},
		{Address: "b1", Text: "כן", VoiceKey: "male_b", VoiceID: "onyx", Provider: "openai", DurationMs: 200, Bytes: 50, CreatedAt: time.Now()},
	}
	for _, e := range entries {
		if err := l.Record(ctx, e); err != nil {
			t.Fatalf("Record(%s): %v", e.Address, err)
		}
	}
	// Replacing an entry must not double count.
	if err := l.Record(ctx, entries[0]); err != nil {
		t.Fatalf("Record replace: %v", err)
	}

	s, err := l.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.Clips != 3 || s.Bytes != 300 || s.DurationMs != 1200 {
		t.Errorf("unexpected totals %+v", s)
	}
	if len(s.Voices) != 2 {
		t.Fatalf("expected 2 voices, got %+v", s.Voices)
	}
	if v := s.Voices[0]; v.VoiceKey != "female_a" || v.Clips != 2 || v.DurationMs != 1000 {
		t.Errorf("unexpected female_a summary %+v", v)
	}

	if err := l.Forget(ctx, "a1"); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if _, ok, err := l.Lookup(ctx, "a1"); err != nil || ok {
		t.Errorf("Lookup after Forget: ok=%v err=%v", ok, err)
	}
	if e, ok, err := l.Lookup(ctx, "b1"); err != nil || !ok || e.Text != "כן" {
		t.Errorf("Lookup(b1) = %+v ok=%v err=%v", e, ok, err)
	}
}

func TestLedger_EmptySummary(t *testing.T) {
	l, err := OpenLedgerIn(t.TempDir())
	if err != nil {
		t.Fatalf("OpenLedgerIn: %v", err)
	}
	defer l.Close()

	s, err := l.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.Clips != 0 || s.Bytes != 0 || len(s.Voices) != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}
}

func TestLedger_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	l, err := OpenLedgerIn(dir)
	if err != nil {
		t.Fatalf("OpenLedgerIn: %v", err)
	}
	if err := l.Record(context.Background(), Entry{Address: "x", Text: "t", VoiceKey: "k", VoiceID: "v", Provider: "p", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	l.Close()

	l, err = OpenLedgerIn(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer l.Close()
	if _, ok, err := l.Lookup(context.Background(), "x"); err != nil || !ok {
		t.Errorf("entry lost after reopen: ok=%v err=%v", ok, err)
	}
}
