package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brojonat/tradewind/events"
)

// buildServerTx serializes a transaction requiring the given signer
// addresses, with zeroed signature slots, the way the trading API returns
// transactions awaiting caller signatures.
func buildServerTx(t *testing.T, signerAddrs ...string) string {
	t.Helper()
	program := solana.MustPublicKeyFromBase58(testMint)

	keys := make([]solana.PublicKey, 0, len(signerAddrs)+1)
	for _, addr := range signerAddrs {
		keys = append(keys, solana.MustPublicKeyFromBase58(addr))
	}
	keys = append(keys, program)

	tx := &solana.Transaction{
		Message: solana.Message{
			Header: solana.MessageHeader{
				NumRequiredSignatures:       uint8(len(signerAddrs)),
				NumReadonlyUnsignedAccounts: 1,
			},
			AccountKeys:     keys,
			RecentBlockhash: solana.Hash{0x01},
			Instructions: []solana.CompiledInstruction{
				{
					ProgramIDIndex: uint16(len(signerAddrs)),
					Accounts:       []uint16{0},
					Data:           solana.Base58("test"),
				},
			},
		},
		Signatures: make([]solana.Signature, len(signerAddrs)),
	}
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	return base58.Encode(raw)
}

// tradingAPIStub fakes the trading API and the broadcast endpoint on one
// httptest server. Each operation endpoint answers with transactions
// requiring the request's sender/wallet signature.
type tradingAPIStub struct {
	t  *testing.T
	mu sync.Mutex

	txsPerFetch      int
	failOpAfterCalls int // fail the op endpoint on call N (1-based); 0 never
	distributeCalls  [][]recipientPayload
	opCalls          int
	submittedBundles [][]string
	submitResponse   map[string]any
	lastQuoteRequest *quoteRequest
}

func newTradingAPIStub(t *testing.T) *tradingAPIStub {
	return &tradingAPIStub{
		t:           t,
		txsPerFetch: 2,
		submitResponse: map[string]any{
			"jsonrpc": "2.0", "id": 1, "result": "bundle-1",
		},
	}
}

func (s *tradingAPIStub) server() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/transactions/submit", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Transactions []string `json:"transactions"`
		}
		require.NoError(s.t, json.NewDecoder(r.Body).Decode(&body))

		s.mu.Lock()
		s.submittedBundles = append(s.submittedBundles, body.Transactions)
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.submitResponse)
	})

	mux.HandleFunc("/wallets/distribute", func(w http.ResponseWriter, r *http.Request) {
		var req distributeRequest
		require.NoError(s.t, json.NewDecoder(r.Body).Decode(&req))

		s.mu.Lock()
		s.opCalls++
		s.distributeCalls = append(s.distributeCalls, req.Recipients)
		fail := s.failOpAfterCalls > 0 && s.opCalls == s.failOpAfterCalls
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if fail {
			json.NewEncoder(w).Encode(apiResponse{Success: false, Error: "sender dust limit"})
			return
		}
		txs := make([]string, s.txsPerFetch)
		for i := range txs {
			txs[i] = buildServerTx(s.t, req.Sender)
		}
		json.NewEncoder(w).Encode(apiResponse{Success: true, Transactions: txs})
	})

	for _, endpoint := range []string{"/tokens/buy", "/tokens/sell", "/tokens/burn", "/tokens/transfer", "/wallets/mix", "/wallets/consolidate", "/tokens/create"} {
		mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
			var req map[string]any
			require.NoError(s.t, json.NewDecoder(r.Body).Decode(&req))

			signerAddr := ""
			for _, field := range []string{"sender", "wallet", "creator", "destination"} {
				if v, ok := req[field].(string); ok {
					signerAddr = v
					break
				}
			}
			if signerAddr == "" {
				if ws, ok := req["wallets"].([]any); ok && len(ws) > 0 {
					signerAddr = ws[0].(string)
				}
			}
			require.NotEmpty(s.t, signerAddr, "request must carry a signer address")

			s.mu.Lock()
			s.opCalls++
			fail := s.failOpAfterCalls > 0 && s.opCalls == s.failOpAfterCalls
			s.mu.Unlock()

			w.Header().Set("Content-Type", "application/json")
			if fail {
				json.NewEncoder(w).Encode(apiResponse{Success: false, Error: "liquidity too thin"})
				return
			}
			txs := make([]string, s.txsPerFetch)
			for i := range txs {
				txs[i] = buildServerTx(s.t, signerAddr)
			}
			json.NewEncoder(w).Encode(apiResponse{Success: true, Transactions: txs})
		})
	}

	mux.HandleFunc("/tokens/route", func(w http.ResponseWriter, r *http.Request) {
		var req quoteRequest
		require.NoError(s.t, json.NewDecoder(r.Body).Decode(&req))
		s.mu.Lock()
		s.lastQuoteRequest = &req
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(quoteResponse{
			Success: true,
			Quote: &Quote{
				Mint:      req.Mint,
				Side:      req.Side,
				InAmount:  req.Amount,
				OutAmount: "123456",
				Protocol:  req.Protocol,
			},
		})
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.t.Errorf("unexpected request to %s", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	return httptest.NewServer(mux)
}

func (s *tradingAPIStub) submitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.submittedBundles)
}

// newTestClient wires a client to the stub server with pacing collapsed so
// batch tests run fast.
func newTestClient(serverURL string, opts ...Option) *Client {
	c := NewClient(Config{APIURL: serverURL, RateLimit: 1000}, opts...)
	c.groupPause = time.Millisecond
	c.itemPause = time.Millisecond
	c.submitter.SetPause(time.Millisecond)
	return c
}

func TestDistribute_SmallBatchProducesOneBundle(t *testing.T) {
	stub := newTradingAPIStub(t)
	server := stub.server()
	defer server.Close()

	c := newTestClient(server.URL)

	out, err := c.Distribute(context.Background(), DistributeParams{
		Sender: goodWallet(0x01),
		Recipients: []Wallet{
			{SecretKey: secretOfLen(0x02, 32), Amount: "0.1"},
			{SecretKey: secretOfLen(0x03, 32), Amount: "0.2"},
			{SecretKey: secretOfLen(0x04, 32), Amount: "0.3"},
		},
	})
	require.NoError(t, err)

	// Two signed transactions fit one bundle, so the broadcast endpoint is
	// hit exactly once.
	assert.Equal(t, 1, stub.submitCount())
	require.Len(t, out.Results, 1)
	assert.Equal(t, "bundle-1", out.Results[0].BundleID)
	assert.Equal(t, 0, out.CompletedThrough)

	require.Len(t, stub.distributeCalls, 1)
	assert.Len(t, stub.distributeCalls[0], 3)
	assert.Equal(t, "0.2", stub.distributeCalls[0][1].Amount)
}

func TestBatchDistribute_SplitsIntoOuterGroups(t *testing.T) {
	stub := newTradingAPIStub(t)
	server := stub.server()
	defer server.Close()

	c := newTestClient(server.URL)

	recipients := make([]Wallet, 7)
	for i := range recipients {
		recipients[i] = Wallet{SecretKey: secretOfLen(byte(0x10+i), 32), Amount: "0.05"}
	}

	res, err := c.BatchDistribute(context.Background(), DistributeParams{
		Sender:     goodWallet(0x01),
		Recipients: recipients,
	})
	require.NoError(t, err)

	// ceil(7/3) outer groups of sizes 3, 3, 1.
	require.Len(t, stub.distributeCalls, 3)
	assert.Len(t, stub.distributeCalls[0], 3)
	assert.Len(t, stub.distributeCalls[1], 3)
	assert.Len(t, stub.distributeCalls[2], 1)

	require.Len(t, res.Results, 3)
	assert.Equal(t, 2, res.CompletedThrough)
}

func TestBatchDistribute_FailureRetainsCompletedGroups(t *testing.T) {
	stub := newTradingAPIStub(t)
	stub.failOpAfterCalls = 2
	server := stub.server()
	defer server.Close()

	c := newTestClient(server.URL)

	recipients := make([]Wallet, 6)
	for i := range recipients {
		recipients[i] = Wallet{SecretKey: secretOfLen(byte(0x20+i), 32), Amount: "0.05"}
	}

	res, err := c.BatchDistribute(context.Background(), DistributeParams{
		Sender:     goodWallet(0x01),
		Recipients: recipients,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "group 2 of 2")
	assert.Contains(t, err.Error(), "sender dust limit")

	require.NotNil(t, res)
	require.Len(t, res.Results, 1, "first group's result survives")
	assert.Equal(t, 0, res.CompletedThrough)
}

func TestSell_ValidationRejectsBeforeNetwork(t *testing.T) {
	stub := newTradingAPIStub(t)
	server := stub.server()
	defer server.Close()

	c := newTestClient(server.URL)

	_, err := c.Sell(context.Background(), SellParams{
		Wallets:     []Wallet{goodWallet(0x01)},
		Mint:        testMint,
		SellPercent: 150,
		Protocol:    ProtocolPump,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 1 and 100")

	assert.Zero(t, stub.opCalls, "validation failures must not reach the network")
	assert.Zero(t, stub.submitCount())
}

func TestBuy_MalformedWalletRejectsBeforeFetch(t *testing.T) {
	stub := newTradingAPIStub(t)
	server := stub.server()
	defer server.Close()

	c := newTestClient(server.URL)

	_, err := c.Buy(context.Background(), BuyParams{
		Wallets:   []Wallet{goodWallet(0x01), {SecretKey: secretOfLen(0x02, 10)}},
		Mint:      testMint,
		AmountSOL: "0.5",
		Protocol:  ProtocolPump,
	})
	require.Error(t, err)
	assert.Zero(t, stub.opCalls)
}

func TestBuy_EndToEnd(t *testing.T) {
	stub := newTradingAPIStub(t)
	stub.txsPerFetch = 6
	server := stub.server()
	defer server.Close()

	c := newTestClient(server.URL)

	out, err := c.Buy(context.Background(), BuyParams{
		Wallets:   []Wallet{goodWallet(0x01)},
		Mint:      testMint,
		AmountSOL: "0.5",
		Protocol:  ProtocolPump,
	})
	require.NoError(t, err)

	// Six transactions chunk into two bundles of 5 and 1.
	assert.Equal(t, 2, stub.submitCount())
	require.Len(t, out.Results, 2)
	assert.Len(t, stub.submittedBundles[0], 5)
	assert.Len(t, stub.submittedBundles[1], 1)
}

func TestRemoteLogicalErrorPropagates(t *testing.T) {
	stub := newTradingAPIStub(t)
	stub.failOpAfterCalls = 1
	server := stub.server()
	defer server.Close()

	c := newTestClient(server.URL)

	_, err := c.Buy(context.Background(), BuyParams{
		Wallets:   []Wallet{goodWallet(0x01)},
		Mint:      testMint,
		AmountSOL: "0.5",
		Protocol:  ProtocolPump,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "liquidity too thin")
	assert.Zero(t, stub.submitCount(), "nothing is broadcast when the fetch fails")
}

func TestTransportErrorIncludesEndpointAndStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "database connection failed"})
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	_, err := c.Burn(context.Background(), BurnParams{
		Wallet: goodWallet(0x01),
		Mint:   testMint,
		Amount: "100",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "database connection failed")
	assert.Contains(t, err.Error(), "tokens/burn")
}

func TestGetQuote(t *testing.T) {
	stub := newTradingAPIStub(t)
	server := stub.server()
	defer server.Close()

	c := newTestClient(server.URL)

	quote, err := c.GetQuote(context.Background(), QuoteParams{
		Mint:     testMint,
		Side:     "buy",
		Amount:   "1.5",
		Protocol: ProtocolJupiter,
	})
	require.NoError(t, err)
	assert.Equal(t, "123456", quote.OutAmount)
	assert.Equal(t, "buy", stub.lastQuoteRequest.Side)
	assert.Zero(t, stub.submitCount(), "quotes produce no transactions")
}

func TestMixAndConsolidate(t *testing.T) {
	stub := newTradingAPIStub(t)
	server := stub.server()
	defer server.Close()

	c := newTestClient(server.URL)

	out, err := c.Mix(context.Background(), goodWallet(0x01), Wallet{SecretKey: secretOfLen(0x02, 32), Amount: "0.5"})
	require.NoError(t, err)
	require.Len(t, out.Results, 1)

	out, err = c.Consolidate(context.Background(), ConsolidateParams{
		Destination: goodWallet(0x01),
		Sources:     []Wallet{goodWallet(0x03), goodWallet(0x04)},
	})
	require.NoError(t, err)
	require.Len(t, out.Results, 1)
}

func TestBatchMix_OneRecipientPerHop(t *testing.T) {
	stub := newTradingAPIStub(t)
	server := stub.server()
	defer server.Close()

	c := newTestClient(server.URL)

	res, err := c.BatchMix(context.Background(), MixParams{
		Sender: goodWallet(0x01),
		Recipients: []Wallet{
			{SecretKey: secretOfLen(0x02, 32), Amount: "0.1"},
			{SecretKey: secretOfLen(0x03, 32), Amount: "0.2"},
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	assert.Equal(t, 2, stub.opCalls, "one API call per recipient")
}

func TestOperationEventsPublished(t *testing.T) {
	stub := newTradingAPIStub(t)
	server := stub.server()
	defer server.Close()

	pub := events.NewMockPublisher()
	c := newTestClient(server.URL, WithPublisher(pub))

	_, err := c.Distribute(context.Background(), DistributeParams{
		Sender:     goodWallet(0x01),
		Recipients: []Wallet{{SecretKey: secretOfLen(0x02, 32), Amount: "0.1"}},
	})
	require.NoError(t, err)

	published := pub.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, "distribute", published[0].Operation)
	assert.True(t, published[0].Success)
	assert.Equal(t, []string{"bundle-1"}, published[0].BundleIDs)
}

func TestSignedTransactionsVerifyBeforeBroadcast(t *testing.T) {
	stub := newTradingAPIStub(t)
	stub.txsPerFetch = 1
	server := stub.server()
	defer server.Close()

	c := newTestClient(server.URL)

	_, err := c.Burn(context.Background(), BurnParams{
		Wallet: goodWallet(0x01),
		Mint:   testMint,
		Amount: "42",
	})
	require.NoError(t, err)

	require.Len(t, stub.submittedBundles, 1)
	require.Len(t, stub.submittedBundles[0], 1)

	raw, err := base58.Decode(stub.submittedBundles[0][0])
	require.NoError(t, err)
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	require.NoError(t, err)
	require.NoError(t, tx.VerifySignatures(), "broadcast transactions carry only verifying signatures")
}
