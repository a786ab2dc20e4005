package main

import (
	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"

	"rayswap/util"
)

type cliArgs struct {
	KeypairPath string `arg:"--keypair,env:KEYPAIR_PATH,required" help:"path to a JSON byte-array keypair file"`
	InputMint   string `arg:"--input-mint,env:INPUT_MINT,required" help:"mint of the token to sell"`
	OutputMint  string `arg:"--output-mint,env:OUTPUT_MINT,required" help:"mint of the token to buy"`
	Amount      uint64 `arg:"--amount,env:AMOUNT,required" help:"swap amount in the input token's smallest unit"`
	SlippageBps uint64 `arg:"--slippage-bps,env:SLIPPAGE_BPS,required" help:"slippage tolerance in basis points"`
	TxVersion   string `arg:"--tx-version,env:TX_VERSION,required" help:"transaction format version (LEGACY or V0)"`

	WrapSol   bool `arg:"--wrap-sol,env:WRAP_SOL" default:"true" help:"wrap native SOL into wSOL before the swap"`
	UnwrapSol bool `arg:"--unwrap-sol,env:UNWRAP_SOL" help:"unwrap wSOL back to native SOL after the swap"`

	RPCURL   string `arg:"--rpc-url,env:RPC_URL" default:"https://api.mainnet-beta.solana.com" help:"solana RPC endpoint"`
	FeeURL   string `arg:"--fee-url,env:FEE_URL" default:"https://api-v3.raydium.io/main/auto-fee" help:"priority fee oracle endpoint"`
	SwapBase string `arg:"--swap-base,env:SWAP_BASE" default:"https://transaction-v1.raydium.io" help:"raydium trade API base URL"`

	OrdersDB       string `arg:"--orders-db,env:ORDERS_DB" help:"sqlite file for the swap order ledger, empty disables it"`
	TelegramToken  string `arg:"--telegram-token,env:TELEGRAM_TOKEN" help:"telegram bot token for swap notifications"`
	TelegramChatID int64  `arg:"--telegram-chat-id,env:TELEGRAM_CHAT_ID" help:"telegram chat to notify"`
	LogLevel       string `arg:"--log-level,env:LOG_LEVEL" default:"info" help:"debug|info|warn|error"`
}

func main() {
	_ = godotenv.Load()

	var args cliArgs
	arg.MustParse(&args)

	logger := util.NewLogger(args.LogLevel)

	if err := run(args, logger); err != nil {
		logger.Fatal().Err(err).Msg("swap failed")
	}
}
