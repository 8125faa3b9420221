// Package journal persists bundle submissions in Postgres so a
// reconciliation pass can resolve entries whose broadcast outcome was never
// observed. The journal is advisory: the submission loop continues even when
// a journal write fails.
package journal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brojonat/tradewind/bundle"
)

// Entry statuses.
const (
	StatusPending   = "pending"   // sent (or about to be sent), outcome unknown
	StatusSubmitted = "submitted" // broadcast accepted the bundle
	StatusFailed    = "failed"    // broadcast rejected the bundle or the send errored
)

// Store provides journal operations backed by a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store with the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Entry is one journaled bundle submission.
type Entry struct {
	ID           int64
	BundleIndex  int
	Transactions []string
	Status       string
	BundleID     *string
	Signatures   []string
	Error        *string
	CreatedAt    time.Time
	ResolvedAt   *time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS bundle_journal (
	id           BIGSERIAL PRIMARY KEY,
	bundle_index INTEGER NOT NULL,
	transactions TEXT[] NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	bundle_id    TEXT,
	signatures   TEXT[],
	error        TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	resolved_at  TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS bundle_journal_status_idx ON bundle_journal (status);
`

// Migrate creates the journal table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate journal schema: %w", err)
	}
	return nil
}

// RecordPending persists a "submitted, outcome unknown" entry and returns
// its id. Implements bundle.Journal.
func (s *Store) RecordPending(ctx context.Context, bundleIndex int, transactions []string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO bundle_journal (bundle_index, transactions, status)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		bundleIndex, transactions, StatusPending,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to record pending bundle: %w", err)
	}
	return id, nil
}

// RecordOutcome marks an entry with the observed broadcast result or the
// submission error. Implements bundle.Journal.
func (s *Store) RecordOutcome(ctx context.Context, entryID int64, result *bundle.Result, submitErr error) error {
	if submitErr != nil {
		msg := submitErr.Error()
		_, err := s.pool.Exec(ctx,
			`UPDATE bundle_journal
			 SET status = $2, error = $3, resolved_at = now()
			 WHERE id = $1`,
			entryID, StatusFailed, msg,
		)
		if err != nil {
			return fmt.Errorf("failed to record bundle failure: %w", err)
		}
		return nil
	}

	var bundleID *string
	var signatures []string
	if result != nil {
		if result.BundleID != "" {
			bundleID = &result.BundleID
		}
		signatures = result.Signatures
	}
	_, err := s.pool.Exec(ctx,
		`UPDATE bundle_journal
		 SET status = $2, bundle_id = $3, signatures = $4, resolved_at = now()
		 WHERE id = $1`,
		entryID, StatusSubmitted, bundleID, signatures,
	)
	if err != nil {
		return fmt.Errorf("failed to record bundle outcome: %w", err)
	}
	return nil
}

// ListUnresolved returns entries still pending, oldest first. These are the
// bundles whose on-chain fate a reconciliation pass must check against the
// ledger.
func (s *Store) ListUnresolved(ctx context.Context) ([]*Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, bundle_index, transactions, status, bundle_id, signatures, error, created_at, resolved_at
		 FROM bundle_journal
		 WHERE status = $1
		 ORDER BY created_at ASC`,
		StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.BundleIndex, &e.Transactions, &e.Status,
			&e.BundleID, &e.Signatures, &e.Error, &e.CreatedAt, &e.ResolvedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal entries: %w", err)
	}
	return entries, nil
}

// Summary describes one journal entry for human-readable output.
func (e *Entry) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d bundle %d (%d txs) %s", e.ID, e.BundleIndex, len(e.Transactions), e.Status)
	if e.BundleID != nil {
		fmt.Fprintf(&b, " id=%s", *e.BundleID)
	}
	if e.Error != nil {
		fmt.Fprintf(&b, " error=%s", *e.Error)
	}
	return b.String()
}
