// Package client is the SDK surface for the remote trading-automation API.
// Each operation fetches partially signed transactions from the API,
// completes their signatures locally, and drives the resulting bundles
// through the broadcast endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/brojonat/tradewind/bundle"
	"github.com/brojonat/tradewind/events"
	"github.com/brojonat/tradewind/metrics"
	"github.com/brojonat/tradewind/signer"
	"github.com/brojonat/tradewind/solana"
)

// Default pacing for the outer batch orchestrators.
const (
	defaultGroupPause = 3 * time.Second
	defaultItemPause  = time.Second

	// distributeGroupSize is the outer grouping of distribute recipients,
	// coarser than the 5-transaction bundle cap.
	distributeGroupSize = 3
)

// Config holds per-instance SDK configuration. Instances with different
// configurations coexist safely; nothing here is process-global.
type Config struct {
	// APIURL is the base URL of the trading API.
	APIURL string

	// SubmitURL is the broadcast endpoint. Defaults to APIURL +
	// "/transactions/submit".
	SubmitURL string

	// RPCURL enables pre-flight balance checks when set.
	RPCURL string

	// RateLimit is the bundle submission ceiling per second. Defaults to
	// bundle.DefaultRateLimit.
	RateLimit int

	// Debug enables debug logging to stderr when no logger is injected.
	Debug bool
}

// Client is the SDK entry point.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *bundle.Limiter
	submitter  *bundle.Submitter
	transport  bundle.Transport
	balances   *solana.BalanceClient
	metrics    *metrics.Metrics
	publisher  events.Publisher
	journal    bundle.Journal

	groupPause     time.Duration
	itemPause      time.Duration
	bundleCapacity int
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for API and broadcast calls.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics enables Prometheus recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithJournal enables durable submission records.
func WithJournal(j bundle.Journal) Option {
	return func(c *Client) { c.journal = j }
}

// WithPublisher enables operation outcome events.
func WithPublisher(p events.Publisher) Option {
	return func(c *Client) { c.publisher = p }
}

// WithTransport overrides the broadcast transport. Mainly for tests.
func WithTransport(t bundle.Transport) Option {
	return func(c *Client) { c.transport = t }
}

// NewClient creates an SDK client for the given configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:            cfg,
		groupPause:     defaultGroupPause,
		itemPause:      defaultItemPause,
		bundleCapacity: bundle.DefaultCapacity,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.logger == nil {
		if cfg.Debug {
			c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}))
		} else {
			c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
		}
	}
	if c.cfg.SubmitURL == "" {
		c.cfg.SubmitURL = strings.TrimRight(c.cfg.APIURL, "/") + "/transactions/submit"
	}

	c.limiter = bundle.NewLimiter(c.cfg.RateLimit)
	if c.transport == nil {
		c.transport = bundle.NewHTTPTransport(c.cfg.SubmitURL, c.httpClient, c.logger)
	}
	c.submitter = bundle.NewSubmitter(c.transport, c.limiter, c.journal, c.metrics, c.logger)

	if c.cfg.RPCURL != "" {
		c.balances = solana.NewBalanceClient(solana.NewRPCClient(c.cfg.RPCURL), c.cfg.RPCURL, c.metrics, c.logger)
	}

	return c
}

// Balances returns the pre-flight balance client, or nil when no RPC URL is
// configured.
func (c *Client) Balances() *solana.BalanceClient { return c.balances }

// deriveAll builds the per-operation signer registry and the ordered
// identities of the participating wallets. The first malformed secret aborts
// the whole derivation.
func deriveAll(wallets []Wallet) ([]signer.Identity, signer.Registry, error) {
	secrets := make([]string, len(wallets))
	for i, w := range wallets {
		secrets[i] = w.SecretKey
	}
	reg, err := signer.BuildRegistry(secrets)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]signer.Identity, len(wallets))
	for i, w := range wallets {
		id, err := signer.DeriveIdentity(w.SecretKey)
		if err != nil {
			return nil, nil, fmt.Errorf("wallet %d: %w", i, err)
		}
		ids[i] = id
	}
	return ids, reg, nil
}

func addressesOf(ids []signer.Identity) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Address()
	}
	return out
}

// postJSON posts payload to the named API endpoint and decodes the response
// body into out. Non-2xx responses are wrapped with the endpoint URL and
// status for diagnosis.
func (c *Client) postJSON(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	u := strings.TrimRight(c.cfg.APIURL, "/") + "/" + endpoint
	req, err := http.NewRequestWithContext(ctx, "POST", u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordAPICall(endpoint, "error", elapsed)
		}
		return fmt.Errorf("request to %s failed: %w", u, err)
	}
	defer resp.Body.Close()

	status := "success"
	if resp.StatusCode != http.StatusOK {
		status = "error"
	}
	if c.metrics != nil {
		c.metrics.RecordAPICall(endpoint, status, elapsed)
	}

	if resp.StatusCode != http.StatusOK {
		return c.parseErrorResponse(u, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", u, err)
	}
	return nil
}

// parseErrorResponse attempts to parse an error response from the server.
func (c *Client) parseErrorResponse(url string, resp *http.Response) error {
	var errResp struct {
		Error string `json:"error"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("request to %s failed with status %d: %s", url, resp.StatusCode, string(body))
	}
	return fmt.Errorf("request to %s failed with status %d: %s", url, resp.StatusCode, errResp.Error)
}

// fetchTransactions posts payload to endpoint and returns the partially
// signed transactions the API prepared. A 2xx response with success=false is
// treated the same as a transport failure.
func (c *Client) fetchTransactions(ctx context.Context, endpoint string, payload any) ([]string, error) {
	var resp apiResponse
	if err := c.postJSON(ctx, endpoint, payload, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%s: remote error: %s", endpoint, resp.Error)
	}
	if len(resp.Transactions) == 0 {
		return nil, fmt.Errorf("%s: remote returned no transactions", endpoint)
	}

	c.logger.DebugContext(ctx, "fetched transactions to sign",
		"endpoint", endpoint,
		"count", len(resp.Transactions),
	)
	return resp.Transactions, nil
}

// runPipeline is the shared fetch → co-sign → assemble → submit path every
// transaction-producing operation goes through. Transactions are signed and
// bundled in the exact order the API returned them; the first signing
// failure aborts the whole operation.
func (c *Client) runPipeline(ctx context.Context, op, endpoint string, payload any, primary signer.Identity, reg signer.Registry) (*bundle.Outcome, error) {
	out, err := c.runPipelineInner(ctx, endpoint, payload, primary, reg)
	c.publishOutcome(ctx, op, primary, out, err)
	return out, err
}

func (c *Client) runPipelineInner(ctx context.Context, endpoint string, payload any, primary signer.Identity, reg signer.Registry) (*bundle.Outcome, error) {
	rawTxs, err := c.fetchTransactions(ctx, endpoint, payload)
	if err != nil {
		return nil, err
	}

	signed := make([]string, 0, len(rawTxs))
	for i, raw := range rawTxs {
		tx, err := signer.CompleteSignatures(raw, primary, reg)
		if err != nil {
			if c.metrics != nil {
				c.metrics.RecordTransactionSigned("error")
			}
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		if c.metrics != nil {
			c.metrics.RecordTransactionSigned("success")
		}
		signed = append(signed, tx)
	}

	bundles := bundle.Assemble(signed, c.bundleCapacity)
	c.logger.DebugContext(ctx, "submitting bundles",
		"endpoint", endpoint,
		"transactions", len(signed),
		"bundles", len(bundles),
	)
	return c.submitter.SubmitAll(ctx, bundles)
}

// publishOutcome emits an operation event when a publisher is configured.
// Publishing is best effort; a publish failure never fails the operation.
func (c *Client) publishOutcome(ctx context.Context, op string, primary signer.Identity, out *bundle.Outcome, opErr error) {
	if c.publisher == nil {
		return
	}

	ev := &events.OperationEvent{
		Operation:     op,
		WalletAddress: primary.Address(),
		Success:       opErr == nil,
		OccurredAt:    time.Now().UTC(),
	}
	if out != nil {
		for _, r := range out.Results {
			if r.BundleID != "" {
				ev.BundleIDs = append(ev.BundleIDs, r.BundleID)
			}
			ev.Signatures = append(ev.Signatures, r.Signatures...)
		}
	}
	if opErr != nil {
		ev.Error = opErr.Error()
	}

	if err := c.publisher.PublishOperation(ctx, ev); err != nil {
		c.logger.WarnContext(ctx, "failed to publish operation event",
			"operation", op,
			"error", err,
		)
	}
}
