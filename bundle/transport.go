package bundle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Transport sends one bundle of signed transactions to the broadcast
// endpoint and returns the normalized result.
type Transport interface {
	Send(ctx context.Context, transactions []string) (*Result, error)
}

// Result is the normalized outcome of submitting one bundle. Depending on
// the submission mode the endpoint answers with either a bundle identifier
// or the per-transaction signatures.
type Result struct {
	BundleID   string   `json:"bundle_id,omitempty"`
	Signatures []string `json:"signatures,omitempty"`
}

// RemoteError is a logical failure reported by the broadcast endpoint in an
// otherwise well-formed response.
type RemoteError struct {
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("broadcast rejected bundle (code %d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("broadcast rejected bundle: %s", e.Message)
}

// broadcastEnvelope covers both response shapes the endpoint is known to
// produce: JSON-RPC ({jsonrpc,id,result,error}) and application-level
// ({success,result,error}). The error field is an object in the former and a
// string in the latter, so it stays raw until the shape is known.
type broadcastEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	Success *bool           `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   json.RawMessage `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ParseBroadcastResponse normalizes a broadcast endpoint response body into
// a Result. Both known response shapes funnel through here so call sites
// never branch on the wire shape.
func ParseBroadcastResponse(body []byte) (*Result, error) {
	var env broadcastEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("broadcast response is not valid JSON: %w", err)
	}

	switch {
	case env.JSONRPC != "":
		if isSet(env.Error) {
			var re rpcError
			if err := json.Unmarshal(env.Error, &re); err != nil {
				return nil, &RemoteError{Message: string(env.Error)}
			}
			return nil, &RemoteError{Code: re.Code, Message: re.Message}
		}
		return resultFrom(env.Result)
	case env.Success != nil:
		if !*env.Success {
			var msg string
			if err := json.Unmarshal(env.Error, &msg); err != nil || msg == "" {
				msg = string(env.Error)
			}
			return nil, &RemoteError{Message: msg}
		}
		return resultFrom(env.Result)
	default:
		return nil, fmt.Errorf("unrecognized broadcast response shape: %s", truncate(body, 200))
	}
}

// resultFrom accepts either a bare bundle id string or a list of transaction
// signatures.
func resultFrom(raw json.RawMessage) (*Result, error) {
	if !isSet(raw) {
		return &Result{}, nil
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return &Result{BundleID: id}, nil
	}
	var sigs []string
	if err := json.Unmarshal(raw, &sigs); err == nil {
		return &Result{Signatures: sigs}, nil
	}
	return nil, fmt.Errorf("unrecognized broadcast result: %s", truncate(raw, 200))
}

func isSet(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// HTTPTransport submits bundles to the broadcast endpoint over HTTP.
type HTTPTransport struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPTransport creates a transport posting bundles to url. A nil
// httpClient gets a 30 second timeout; a nil logger discards output.
func NewHTTPTransport(url string, httpClient *http.Client, logger *slog.Logger) *HTTPTransport {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &HTTPTransport{
		url:        url,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Send posts {"transactions": [...]} to the broadcast endpoint.
func (t *HTTPTransport) Send(ctx context.Context, transactions []string) (*Result, error) {
	body, err := json.Marshal(map[string]any{"transactions": transactions})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bundle: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("broadcast request to %s failed: %w", t.url, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read broadcast response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("broadcast %s returned status %d: %s", t.url, resp.StatusCode, truncate(payload, 200))
	}

	t.logger.DebugContext(ctx, "bundle broadcast", "url", t.url, "transactions", len(transactions))
	return ParseBroadcastResponse(payload)
}
