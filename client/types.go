package client

import "fmt"

// Supported trading protocols. The remote API routes orders to one of these.
const (
	ProtocolPump    = "pump"
	ProtocolRaydium = "raydium"
	ProtocolJupiter = "jupiter"
)

var supportedProtocols = map[string]bool{
	ProtocolPump:    true,
	ProtocolRaydium: true,
	ProtocolJupiter: true,
}

// Wallet is a caller-supplied wallet taking part in an operation. Amount is
// meaningful only for recipient-side wallets in distribute and mix
// operations; it is a decimal SOL string.
type Wallet struct {
	SecretKey string
	Amount    string
}

// BuyParams describes a token buy. The first wallet is the primary buyer;
// additional wallets co-sign bundled buys.
type BuyParams struct {
	Wallets         []Wallet
	Mint            string
	AmountSOL       string // SOL to spend per wallet
	SlippagePercent float64
	Protocol        string
}

// SellParams describes a token sell by percentage of holdings.
type SellParams struct {
	Wallets         []Wallet
	Mint            string
	SellPercent     float64 // must be within [1,100]
	SlippagePercent float64
	Protocol        string
}

// CreateParams describes a token launch, optionally with bundled first buys
// from additional wallets.
type CreateParams struct {
	Wallet        Wallet // creator wallet
	BuyerWallets  []Wallet
	Name          string
	Symbol        string
	Description   string
	ImageURL      string
	InitialBuySOL string
	Protocol      string
}

// TransferParams describes a token transfer to a recipient address.
type TransferParams struct {
	Wallet    Wallet
	Recipient string
	Mint      string
	Amount    string
}

// BurnParams describes a token burn.
type BurnParams struct {
	Wallet Wallet
	Mint   string
	Amount string
}

// DistributeParams describes distributing SOL from a sender to recipient
// wallets. Each recipient wallet carries its own amount.
type DistributeParams struct {
	Sender     Wallet
	Recipients []Wallet
}

// ConsolidateParams describes draining source wallets into a destination.
// Every source wallet must co-sign its own withdrawal.
type ConsolidateParams struct {
	Destination Wallet
	Sources     []Wallet
}

// MixParams describes mixing SOL from a sender to recipient wallets, one
// recipient per hop.
type MixParams struct {
	Sender     Wallet
	Recipients []Wallet
}

// QuoteParams describes a route quote request. No signing is involved.
type QuoteParams struct {
	Mint     string
	Side     string // "buy" or "sell"
	Amount   string
	Protocol string
}

// Quote is the remote API's route quote.
type Quote struct {
	Mint               string  `json:"mint"`
	Side               string  `json:"side"`
	InAmount           string  `json:"inAmount"`
	OutAmount          string  `json:"outAmount"`
	PriceImpactPercent float64 `json:"priceImpactPercent"`
	Protocol           string  `json:"protocol"`
}

// ValidationError reports malformed input caught before any network call.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// apiResponse is the envelope every transaction-producing endpoint returns.
type apiResponse struct {
	Success      bool     `json:"success"`
	Transactions []string `json:"transactions,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// quoteResponse is the envelope of the tokens/route endpoint.
type quoteResponse struct {
	Success bool   `json:"success"`
	Quote   *Quote `json:"quote,omitempty"`
	Error   string `json:"error,omitempty"`
}

// recipientPayload is the wire shape of one distribute/mix recipient.
type recipientPayload struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

type buyRequest struct {
	Wallets         []string `json:"wallets"`
	Mint            string   `json:"mint"`
	AmountSOL       string   `json:"amountSol"`
	SlippagePercent float64  `json:"slippagePercent"`
	Protocol        string   `json:"protocol"`
}

type sellRequest struct {
	Wallets         []string `json:"wallets"`
	Mint            string   `json:"mint"`
	SellPercent     float64  `json:"sellPercent"`
	SlippagePercent float64  `json:"slippagePercent"`
	Protocol        string   `json:"protocol"`
}

type createRequest struct {
	Creator       string   `json:"creator"`
	Buyers        []string `json:"buyers,omitempty"`
	Name          string   `json:"name"`
	Symbol        string   `json:"symbol"`
	Description   string   `json:"description,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	InitialBuySOL string   `json:"initialBuySol,omitempty"`
	Protocol      string   `json:"protocol"`
}

type transferRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Mint      string `json:"mint"`
	Amount    string `json:"amount"`
}

type burnRequest struct {
	Wallet string `json:"wallet"`
	Mint   string `json:"mint"`
	Amount string `json:"amount"`
}

type distributeRequest struct {
	Sender     string             `json:"sender"`
	Recipients []recipientPayload `json:"recipients"`
}

type consolidateRequest struct {
	Destination string   `json:"destination"`
	Sources     []string `json:"sources"`
}

type quoteRequest struct {
	Mint     string `json:"mint"`
	Side     string `json:"side"`
	Amount   string `json:"amount"`
	Protocol string `json:"protocol"`
}
