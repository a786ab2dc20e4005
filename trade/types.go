package trade

import (
	"encoding/json"
	"fmt"
)

// FeeTiers holds the oracle's priority fee schedule in micro-lamports.
type FeeTiers struct {
	VeryHigh uint64
	High     uint64
	Medium   uint64
}

// Wire shapes use pointers so a missing field is distinguishable from zero.
type feeEnvelope struct {
	Data *struct {
		Default *struct {
			VH *uint64 `json:"vh"`
			H  *uint64 `json:"h"`
			M  *uint64 `json:"m"`
		} `json:"default"`
	} `json:"data"`
}

// QuoteParams are the query parameters of compute/swap-base-in.
type QuoteParams struct {
	InputMint   string
	OutputMint  string
	Amount      uint64
	SlippageBps uint64
	TxVersion   string
}

// Quote is the swap route computed by the trade API. The body is kept opaque
// and forwarded verbatim to the transaction builder.
type Quote struct {
	Raw json.RawMessage
}

// MarketKeys is the route inspection result for one leg.
type MarketKeys struct {
	Leg  int
	Keys json.RawMessage
}

// MarketKeys extracts route[].marketKeys from the raw quote for diagnostic
// display. Legs without market keys are skipped; Leg is 1-based and keeps the
// route position.
func (q *Quote) MarketKeys() ([]MarketKeys, error) {
	var peek struct {
		Route []struct {
			MarketKeys json.RawMessage `json:"marketKeys"`
		} `json:"route"`
	}
	if err := json.Unmarshal(q.Raw, &peek); err != nil {
		return nil, fmt.Errorf("failed to inspect quote route: %w", err)
	}

	out := []MarketKeys{}
	for i, leg := range peek.Route {
		if len(leg.MarketKeys) == 0 {
			continue
		}
		out = append(out, MarketKeys{Leg: i + 1, Keys: leg.MarketKeys})
	}
	return out, nil
}

// SwapTransactionsRequest is the transaction/swap-base-in POST body.
type SwapTransactionsRequest struct {
	ComputeUnitPriceMicroLamports string          `json:"computeUnitPriceMicroLamports"`
	SwapResponse                  json.RawMessage `json:"swapResponse"`
	TxVersion                     string          `json:"txVersion"`
	Wallet                        string          `json:"wallet"`
	WrapSol                       bool            `json:"wrapSol"`
	UnwrapSol                     bool            `json:"unwrapSol"`
}

type swapTransactionsEnvelope struct {
	Data *[]struct {
		Transaction string `json:"transaction"`
	} `json:"data"`
}
