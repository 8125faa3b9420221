package events

import "time"

// OperationEvent represents a completed (or failed) trading operation
// published to NATS. Events go to the subject "trades.{wallet_address}" in
// JetStream.
type OperationEvent struct {
	// Operation identifiers
	Operation     string `json:"operation"` // buy, sell, create, transfer, burn, distribute, consolidate, mix
	WalletAddress string `json:"wallet_address"`

	// Broadcast outcome
	Success    bool     `json:"success"`
	BundleIDs  []string `json:"bundle_ids,omitempty"`
	Signatures []string `json:"signatures,omitempty"`
	Error      string   `json:"error,omitempty"`

	// Timing information
	OccurredAt  time.Time `json:"occurred_at"`
	PublishedAt time.Time `json:"published_at"`
}
