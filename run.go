package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"rayswap/models"
	"rayswap/notify"
	"rayswap/swap"
	"rayswap/trade"
	"rayswap/wallet"
)

// run is the whole swap: key load, fee, quote, build, then the sequential
// sign/submit/confirm loop. The first error anywhere aborts.
func run(args cliArgs, logger zerolog.Logger) error {
	ctx := context.Background()
	runID := xid.New().String()

	owner, err := wallet.Load(args.KeypairPath)
	if err != nil {
		return fmt.Errorf("failed to load keypair from %s: %w", args.KeypairPath, err)
	}
	logger.Info().Str("run", runID).Str("wallet", owner.PublicKey().String()).Msg("keypair loaded")

	ledger := false
	if args.OrdersDB != "" {
		if err := models.Init(args.OrdersDB); err != nil {
			logger.Warn().Err(err).Msg("order ledger disabled")
		} else {
			ledger = true
		}
	}

	var telegram *notify.Telegram
	if args.TelegramToken != "" && args.TelegramChatID != 0 {
		telegram, err = notify.NewTelegram(args.TelegramToken, args.TelegramChatID, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("telegram notifications disabled")
		}
	}

	client := trade.NewClient(args.FeeURL, args.SwapBase, logger)

	tiers, err := client.GetFeeTiers(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch priority fees: %w", err)
	}
	logger.Info().Uint64("microLamports", tiers.High).Msg("using high priority fee tier")

	quote, err := client.GetQuote(ctx, trade.QuoteParams{
		InputMint:   args.InputMint,
		OutputMint:  args.OutputMint,
		Amount:      args.Amount,
		SlippageBps: args.SlippageBps,
		TxVersion:   args.TxVersion,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch swap quote: %w", err)
	}
	dumpMarketKeys(quote, logger)

	blobs, err := client.BuildSwapTransactions(ctx, trade.SwapTransactionsRequest{
		ComputeUnitPriceMicroLamports: strconv.FormatUint(tiers.High, 10),
		SwapResponse:                  quote.Raw,
		TxVersion:                     args.TxVersion,
		Wallet:                        owner.PublicKey().String(),
		WrapSol:                       args.WrapSol,
		UnwrapSol:                     args.UnwrapSol,
	})
	if err != nil {
		return fmt.Errorf("failed to build swap transactions: %w", err)
	}

	txs, err := swap.DecodeLegs(blobs)
	if err != nil {
		return err
	}
	logger.Info().Int("count", len(txs)).Msg("transactions decoded")

	submitter := swap.NewSubmitter(rpc.New(args.RPCURL), owner, logger)

	orders := map[int]*models.SwapOrder{}
	report := func(leg int, event swap.Event, sig solana.Signature, err error) {
		switch event {
		case swap.EventSubmitted:
			if !ledger {
				return
			}
			order := &models.SwapOrder{
				RunID:            runID,
				Leg:              leg,
				InputMint:        args.InputMint,
				OutputMint:       args.OutputMint,
				Amount:           args.Amount,
				SlippageBps:      args.SlippageBps,
				FeeMicroLamports: tiers.High,
				Signature:        sig.String(),
				Status:           models.StatusSubmitted,
			}
			if err := order.Create(); err != nil {
				logger.Warn().Err(err).Int("leg", leg).Msg("failed to record order")
				return
			}
			orders[leg] = order
		case swap.EventConfirmed:
			logger.Info().Int("leg", leg).Str("explorer", "https://solscan.io/tx/"+sig.String()).Msg("view on solscan")
			telegram.Send(notify.ConfirmedMessage(leg, sig.String()))
			updateOrder(orders[leg], models.StatusConfirmed, logger)
		case swap.EventFailed:
			updateOrder(orders[leg], models.StatusFailed, logger)
		}
	}

	if err := submitter.Execute(ctx, txs, report); err != nil {
		telegram.Send(notify.AbortedMessage(runID, err))
		return err
	}

	telegram.Send(fmt.Sprintf("swap run %s finished: %d leg(s) finalized", runID, len(txs)))
	logger.Info().Str("run", runID).Int("legs", len(txs)).Msg("all transactions finalized")
	return nil
}

func updateOrder(order *models.SwapOrder, status string, logger zerolog.Logger) {
	if order == nil {
		return
	}
	if err := order.UpdateStatus(status); err != nil {
		logger.Warn().Err(err).Int("leg", order.Leg).Msg("failed to update order")
	}
}

// dumpMarketKeys pretty-prints route[].marketKeys to stdout. Diagnostic only;
// a quote without a route is fine.
func dumpMarketKeys(quote *trade.Quote, logger zerolog.Logger) {
	legs, err := quote.MarketKeys()
	if err != nil {
		logger.Debug().Err(err).Msg("route inspection skipped")
		return
	}
	if len(legs) == 0 {
		return
	}

	fmt.Println("marketKeys per route leg:")
	for _, leg := range legs {
		pretty, err := json.MarshalIndent(leg.Keys, "", "  ")
		if err != nil {
			continue
		}
		fmt.Printf("leg %d marketKeys:\n%s\n", leg.Leg, pretty)
	}
}
