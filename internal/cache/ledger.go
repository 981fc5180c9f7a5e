package cache

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// LedgerFile is the ledger database name inside the cache directory.
const LedgerFile = "ledger.db"

// Entry describes one stored clip.
type Entry struct {
	Address    string
	Text       string
	VoiceKey   string
	VoiceID    string
	Provider   string
	DurationMs int64
	Bytes      int64
	CreatedAt  time.Time
}

// VoiceSummary aggregates clips of one voice.
type VoiceSummary struct {
	VoiceKey   string
	VoiceID    string
	Clips      int64
	Bytes      int64
	DurationMs int64
}

// Summary aggregates the whole ledger.
type Summary struct {
	Clips      int64
	Bytes      int64
	DurationMs int64
	Voices     []VoiceSummary
}

// Ledger is a SQLite index of the clips in a cache directory.
type Ledger struct {
	db *sql.DB
}

// OpenLedger opens or creates the ledger database at path.
func OpenLedger(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	// A single connection serializes writers from concurrent fetches.
	db.SetMaxOpenConns(1)

	l := &Ledger{db: db}
	if err := l.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create ledger tables: %w", err)
	}
	return l, nil
}

// OpenLedgerIn opens the ledger stored in a cache directory.
func OpenLedgerIn(cacheDir string) (*Ledger, error) {
	return OpenLedger(filepath.Join(cacheDir, LedgerFile))
}

func (l *Ledger) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS clips (
			address text PRIMARY KEY,
			text text NOT NULL,
			voice_key text NOT NULL,
			voice_id text NOT NULL,
			provider text NOT NULL,
			duration_ms integer NOT NULL,
			bytes integer NOT NULL,
			created_at integer NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ix_clips_voice ON clips (voice_key, voice_id)`,
	}

	for _, query := range queries {
		if _, err := l.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Record inserts or replaces the entry for e.Address.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO clips
			(address, text, voice_key, voice_id, provider, duration_ms, bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Address, e.Text, e.VoiceKey, e.VoiceID, e.Provider, e.DurationMs, e.Bytes, e.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to record clip %s: %w", e.Address, err)
	}
	return nil
}

// Forget removes the entry for address, if any.
func (l *Ledger) Forget(ctx context.Context, address string) error {
	if _, err := l.db.ExecContext(ctx, `DELETE FROM clips WHERE address = ?`, address); err != nil {
		return fmt.Errorf("failed to forget clip %s: %w", address, err)
	}
	return nil
}

// Lookup returns the entry for address. The boolean is false when absent.
func (l *Ledger) Lookup(ctx context.Context, address string) (Entry, bool, error) {
	var (
		e       Entry
		created int64
	)
	err := l.db.QueryRowContext(ctx,
		`SELECT address, text, voice_key, voice_id, provider, duration_ms, bytes, created_at
		FROM clips WHERE address = ?`, address).
		Scan(&e.Address, &e.Text, &e.VoiceKey, &e.VoiceID, &e.Provider, &e.DurationMs, &e.Bytes, &created)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to look up clip %s: %w", address, err)
	}
	e.CreatedAt = time.Unix(created, 0).UTC()
	return e, true, nil
}

// Summary returns totals overall and per voice.
func (l *Ledger) Summary(ctx context.Context) (*Summary, error) {
	s := &Summary{}
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(bytes), 0), COALESCE(SUM(duration_ms), 0) FROM clips`).
		Scan(&s.Clips, &s.Bytes, &s.DurationMs)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ledger: %w", err)
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT voice_key, voice_id, COUNT(*), SUM(bytes), SUM(duration_ms)
		FROM clips GROUP BY voice_key, voice_id ORDER BY voice_key, voice_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize voices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v VoiceSummary
		if err := rows.Scan(&v.VoiceKey, &v.VoiceID, &v.Clips, &v.Bytes, &v.DurationMs); err != nil {
			return nil, fmt.Errorf("failed to read voice summary: %w", err)
		}
		s.Voices = append(s.Voices, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read voice summary: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}
