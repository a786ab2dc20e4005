// Package trade talks to the Raydium trade API: priority fee oracle, swap
// quotes, and prebuilt swap transactions.
package trade

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Client is a thin HTTP client over the trade API endpoints.
type Client struct {
	FeeURL   string
	SwapBase string
	Http     *http.Client

	log zerolog.Logger
}

// NewClient wires the fee oracle and swap base URLs.
func NewClient(feeURL, swapBase string, log zerolog.Logger) *Client {
	return &Client{
		FeeURL:   feeURL,
		SwapBase: swapBase,
		Http:     &http.Client{Timeout: 15 * time.Second},
		log:      log,
	}
}

// GetFeeTiers fetches the priority fee schedule from the fee oracle.
func (c *Client) GetFeeTiers(ctx context.Context) (*FeeTiers, error) {
	c.log.Debug().Str("url", c.FeeURL).Msg("calling priority fee oracle")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FeeURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build priority fee request: %w", err)
	}
	resp, err := c.Http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call priority fee oracle: %w", err)
	}
	defer resp.Body.Close()
	if !success(resp.StatusCode) {
		return nil, fmt.Errorf("priority fee oracle returned HTTP %d", resp.StatusCode)
	}

	var envelope feeEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to parse priority fee JSON: %w", err)
	}
	tiers := envelope.Data
	if tiers == nil || tiers.Default == nil || tiers.Default.VH == nil || tiers.Default.H == nil || tiers.Default.M == nil {
		return nil, fmt.Errorf("unexpected priority fee response shape")
	}
	return &FeeTiers{
		VeryHigh: *tiers.Default.VH,
		High:     *tiers.Default.H,
		Medium:   *tiers.Default.M,
	}, nil
}

// GetQuote fetches a swap quote. The response body is returned verbatim so it
// can be passed through to the transaction builder unmodified.
func (c *Client) GetQuote(ctx context.Context, params QuoteParams) (*Quote, error) {
	q := url.Values{}
	q.Set("inputMint", params.InputMint)
	q.Set("outputMint", params.OutputMint)
	q.Set("amount", strconv.FormatUint(params.Amount, 10))
	q.Set("slippageBps", strconv.FormatUint(params.SlippageBps, 10))
	q.Set("txVersion", params.TxVersion)
	u := c.SwapBase + "/compute/swap-base-in?" + q.Encode()

	c.log.Debug().Str("url", u).Msg("fetching swap quote")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}
	resp, err := c.Http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call compute/swap-base-in: %w", err)
	}
	defer resp.Body.Close()
	if !success(resp.StatusCode) {
		return nil, fmt.Errorf("compute/swap-base-in returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read swap quote body: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("swap quote body is not valid JSON")
	}
	return &Quote{Raw: body}, nil
}

// BuildSwapTransactions posts the quote to the transaction builder and returns
// the base64-encoded unsigned transactions in submission order.
func (c *Client) BuildSwapTransactions(ctx context.Context, request SwapTransactionsRequest) ([]string, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction request: %w", err)
	}
	u := c.SwapBase + "/transaction/swap-base-in"

	c.log.Debug().Str("url", u).Msg("building swap transactions")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call transaction/swap-base-in: %w", err)
	}
	defer resp.Body.Close()
	if !success(resp.StatusCode) {
		return nil, fmt.Errorf("transaction/swap-base-in returned HTTP %d", resp.StatusCode)
	}

	var envelope swapTransactionsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to parse transaction builder JSON: %w", err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("unexpected transaction builder response shape")
	}
	if len(*envelope.Data) == 0 {
		return nil, fmt.Errorf("transaction builder returned no transactions")
	}

	blobs := make([]string, 0, len(*envelope.Data))
	for i, leg := range *envelope.Data {
		if leg.Transaction == "" {
			return nil, fmt.Errorf("transaction builder leg %d is empty", i+1)
		}
		blobs = append(blobs, leg.Transaction)
	}
	return blobs, nil
}

func success(status int) bool {
	return status >= 200 && status < 300
}
