package bundle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/brojonat/tradewind/metrics"
)

// DefaultPause is the fixed pause between consecutive bundle submissions.
const DefaultPause = 500 * time.Millisecond

// Journal records bundle submissions whose on-chain outcome is not yet
// known, so a later reconciliation pass can resolve them against the ledger.
type Journal interface {
	// RecordPending persists a "submitted, outcome unknown" entry before the
	// bundle is sent and returns its id.
	RecordPending(ctx context.Context, bundleIndex int, transactions []string) (int64, error)

	// RecordOutcome marks the entry with the observed broadcast result or
	// the submission error.
	RecordOutcome(ctx context.Context, entryID int64, result *Result, submitErr error) error
}

// Outcome accumulates per-bundle results in submission order.
// CompletedThrough is the index of the last bundle whose result was
// recorded; -1 means none. On failure the accumulated results are returned
// alongside the error, so callers can reconcile which bundles landed.
type Outcome struct {
	Results          []*Result `json:"results"`
	CompletedThrough int       `json:"completed_through"`
}

// Submitter drives assembled bundles through the broadcast endpoint one at a
// time: rate-limit acquire, send, fixed pause, strictly in order, no retry.
// Ordering is the only dependency mechanism between bundles, so nothing here
// may ever submit concurrently or out of order.
type Submitter struct {
	transport Transport
	limiter   *Limiter
	journal   Journal
	metrics   *metrics.Metrics
	logger    *slog.Logger
	pause     time.Duration
}

// NewSubmitter creates a submitter. journal, m, and logger may be nil;
// a nil journal disables durable submission records and a nil m disables
// metrics.
func NewSubmitter(transport Transport, limiter *Limiter, journal Journal, m *metrics.Metrics, logger *slog.Logger) *Submitter {
	if limiter == nil {
		limiter = NewLimiter(DefaultRateLimit)
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Submitter{
		transport: transport,
		limiter:   limiter,
		journal:   journal,
		metrics:   m,
		logger:    logger,
		pause:     DefaultPause,
	}
}

// SetPause overrides the inter-bundle pause. Zero disables pacing.
func (s *Submitter) SetPause(d time.Duration) { s.pause = d }

// SubmitAll sends each bundle in order. The returned Outcome always reflects
// the bundles that completed, even when err is non-nil; a failed send aborts
// the remainder without retrying.
func (s *Submitter) SubmitAll(ctx context.Context, bundles [][]string) (*Outcome, error) {
	out := &Outcome{CompletedThrough: -1}

	for i, txs := range bundles {
		waitStart := time.Now()
		if err := s.limiter.Acquire(ctx); err != nil {
			return out, err
		}
		if s.metrics != nil && time.Since(waitStart) > time.Millisecond {
			s.metrics.RecordRateLimitWait()
		}

		var entryID int64
		if s.journal != nil {
			id, err := s.journal.RecordPending(ctx, i, txs)
			if err != nil {
				// The journal is advisory; a write failure must not block
				// the submission itself.
				s.logger.WarnContext(ctx, "journal write failed", "bundle", i, "error", err)
			} else {
				entryID = id
			}
		}

		start := time.Now()
		res, err := s.transport.Send(ctx, txs)
		elapsed := time.Since(start).Seconds()

		if s.journal != nil && entryID != 0 {
			if jerr := s.journal.RecordOutcome(ctx, entryID, res, err); jerr != nil {
				s.logger.WarnContext(ctx, "journal outcome write failed", "bundle", i, "error", jerr)
			}
		}

		if err != nil {
			if s.metrics != nil {
				s.metrics.RecordBundleSubmission("error", len(txs), elapsed)
			}
			s.logger.ErrorContext(ctx, "bundle submission failed",
				"bundle", i,
				"transactions", len(txs),
				"error", err,
			)
			return out, fmt.Errorf("bundle %d of %d: %w", i+1, len(bundles), err)
		}

		if s.metrics != nil {
			s.metrics.RecordBundleSubmission("success", len(txs), elapsed)
		}
		out.Results = append(out.Results, res)
		out.CompletedThrough = i

		s.logger.DebugContext(ctx, "bundle submitted",
			"bundle", i,
			"transactions", len(txs),
			"bundle_id", res.BundleID,
		)

		if i < len(bundles)-1 {
			if err := Sleep(ctx, s.pause); err != nil {
				return out, err
			}
		}
	}

	return out, nil
}

// Sleep pauses for d or until the context is cancelled.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
