package trade

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newTestClient(feeURL, swapBase string) *Client {
	return NewClient(feeURL, swapBase, zerolog.Nop())
}

func TestGetFeeTiers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if len(r.URL.Query()) != 0 {
			t.Fatalf("fee request must not carry query parameters, got %v", r.URL.Query())
		}
		_, _ = w.Write([]byte(`{"id":"abc","success":true,"data":{"default":{"vh":1500,"h":800,"m":300}}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	tiers, err := client.GetFeeTiers(context.Background())
	if err != nil {
		t.Fatalf("GetFeeTiers returned error: %v", err)
	}
	if tiers.VeryHigh != 1500 || tiers.High != 800 || tiers.Medium != 300 {
		t.Fatalf("unexpected tiers: %+v", tiers)
	}
}

func TestGetFeeTiersHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	if _, err := client.GetFeeTiers(context.Background()); err == nil {
		t.Fatalf("expected error on HTTP 502")
	}
}

func TestGetFeeTiersBadShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"default":{"vh":1500,"m":300}}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	if _, err := client.GetFeeTiers(context.Background()); err == nil {
		t.Fatalf("expected error when a fee tier is missing")
	}
}

func TestGetQuoteQueryParams(t *testing.T) {
	body := `{"swapType":"BaseIn","outputAmount":"42","route":[{"marketKeys":{"ammId":"pool1"}},{"poolId":"x"}]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/compute/swap-base-in" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if len(q) != 5 {
			t.Fatalf("expected exactly 5 query parameters, got %v", q)
		}
		if q.Get("inputMint") != "MintA" || q.Get("outputMint") != "MintB" {
			t.Fatalf("mints not passed through: %v", q)
		}
		if q.Get("amount") != "1000000" || q.Get("slippageBps") != "50" || q.Get("txVersion") != "V0" {
			t.Fatalf("numeric params not passed through: %v", q)
		}
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client := newTestClient("", server.URL)
	quote, err := client.GetQuote(context.Background(), QuoteParams{
		InputMint:   "MintA",
		OutputMint:  "MintB",
		Amount:      1000000,
		SlippageBps: 50,
		TxVersion:   "V0",
	})
	if err != nil {
		t.Fatalf("GetQuote returned error: %v", err)
	}
	if string(quote.Raw) != body {
		t.Fatalf("quote body not preserved verbatim: %s", quote.Raw)
	}

	keys, err := quote.MarketKeys()
	if err != nil {
		t.Fatalf("MarketKeys returned error: %v", err)
	}
	if len(keys) != 1 || keys[0].Leg != 1 {
		t.Fatalf("expected marketKeys for leg 1 only, got %+v", keys)
	}
	if !bytes.Contains(keys[0].Keys, []byte("pool1")) {
		t.Fatalf("unexpected marketKeys payload: %s", keys[0].Keys)
	}
}

func TestGetQuoteHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient("", server.URL)
	if _, err := client.GetQuote(context.Background(), QuoteParams{}); err == nil {
		t.Fatalf("expected error on HTTP 429")
	}
}

func TestMarketKeysAbsentRoute(t *testing.T) {
	quote := &Quote{Raw: []byte(`{"swapType":"BaseIn"}`)}
	keys, err := quote.MarketKeys()
	if err != nil {
		t.Fatalf("MarketKeys returned error: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no marketKeys, got %+v", keys)
	}
}

func TestBuildSwapTransactions(t *testing.T) {
	rawQuote := json.RawMessage(`{"swapType":"BaseIn","outputAmount":"42"}`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/swap-base-in" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", r.Method)
		}

		var body map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if string(body["computeUnitPriceMicroLamports"]) != `"800"` {
			t.Fatalf("fee not serialized as decimal string: %s", body["computeUnitPriceMicroLamports"])
		}
		if string(body["swapResponse"]) != string(rawQuote) {
			t.Fatalf("quote not forwarded verbatim: %s", body["swapResponse"])
		}
		if string(body["wallet"]) != `"WalletAddr"` || string(body["txVersion"]) != `"V0"` {
			t.Fatalf("wallet or txVersion missing: %v", body)
		}
		if string(body["wrapSol"]) != "true" || string(body["unwrapSol"]) != "false" {
			t.Fatalf("wrap flags wrong: %v", body)
		}

		_, _ = w.Write([]byte(`{"id":"x","data":[{"transaction":"bGVnMQ=="},{"transaction":"bGVnMg=="}]}`))
	}))
	defer server.Close()

	client := newTestClient("", server.URL)
	blobs, err := client.BuildSwapTransactions(context.Background(), SwapTransactionsRequest{
		ComputeUnitPriceMicroLamports: "800",
		SwapResponse:                  rawQuote,
		TxVersion:                     "V0",
		Wallet:                        "WalletAddr",
		WrapSol:                       true,
		UnwrapSol:                     false,
	})
	if err != nil {
		t.Fatalf("BuildSwapTransactions returned error: %v", err)
	}
	if len(blobs) != 2 || blobs[0] != "bGVnMQ==" || blobs[1] != "bGVnMg==" {
		t.Fatalf("legs not preserved in order: %v", blobs)
	}
}

func TestBuildSwapTransactionsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient("", server.URL)
	if _, err := client.BuildSwapTransactions(context.Background(), SwapTransactionsRequest{}); err == nil {
		t.Fatalf("expected error on HTTP 503")
	}
}

func TestBuildSwapTransactionsBadShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"x","success":true}`))
	}))
	defer server.Close()

	client := newTestClient("", server.URL)
	if _, err := client.BuildSwapTransactions(context.Background(), SwapTransactionsRequest{}); err == nil {
		t.Fatalf("expected error when data array is missing")
	}
}
