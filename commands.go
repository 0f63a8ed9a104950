package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	cosmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/yimingwow/clmm/pkg"
	"github.com/yimingwow/clmm/pkg/clmm"
	"github.com/yimingwow/clmm/pkg/config"
	"github.com/yimingwow/clmm/pkg/pool/spot"
	"github.com/yimingwow/clmm/pkg/protocol"
	"github.com/yimingwow/clmm/pkg/router"
	"go.uber.org/zap"
)

type app struct {
	out        io.Writer
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:          "clmm",
		Short:        "Concentrated liquidity math and quoting",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./config.yaml or ./config/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(
		a.tickToSqrtPriceCmd(),
		a.sqrtPriceToTickCmd(),
		a.swapStepCmd(),
		a.coinAmountsCmd(),
		a.estimateLiquidityCmd(),
		a.oneSideLiquidityCmd(),
		a.swapCmd(),
		a.quoteCmd(),
		a.liquidityParamsCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) spotProtocol() (*protocol.SpotClmmProtocol, error) {
	pools, err := a.cfg.SpotPools()
	if err != nil {
		return nil, err
	}
	return protocol.NewSpotClmm(pools...)
}

func parseIntArg(name, s string) (cosmath.Int, error) {
	v, ok := cosmath.NewIntFromString(s)
	if !ok {
		return cosmath.Int{}, fmt.Errorf("invalid %s: %q", name, s)
	}
	return v, nil
}

func parseTick(s string) (int32, error) {
	tick, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid tick %q: %w", s, err)
	}
	return int32(tick), nil
}

func (a *app) tickToSqrtPriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tick-to-sqrt-price TICK",
		Short: "Convert a tick index to its Q64.64 sqrt price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tick, err := parseTick(args[0])
			if err != nil {
				return err
			}
			sp, err := clmm.TickIndexToSqrtPriceX64(tick)
			if err != nil {
				return err
			}
			return a.print(map[string]any{"tick": tick, "sqrt_price_x64": sp})
		},
	}
}

func (a *app) sqrtPriceToTickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sqrt-price-to-tick SQRT_PRICE",
		Short: "Convert a Q64.64 sqrt price to the greatest tick at or below it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sp, err := parseIntArg("sqrt price", args[0])
			if err != nil {
				return err
			}
			tick, err := clmm.SqrtPriceX64ToTickIndex(sp)
			if err != nil {
				return err
			}
			return a.print(map[string]any{"sqrt_price_x64": sp, "tick": tick})
		},
	}
}

func (a *app) swapStepCmd() *cobra.Command {
	var current, target, liquidity, amount string
	var feeRate uint64
	var byAmountIn bool
	cmd := &cobra.Command{
		Use:   "swap-step",
		Short: "Simulate one swap step within a constant liquidity segment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ints := make([]cosmath.Int, 4)
			for i, kv := range [][2]string{{"current", current}, {"target", target}, {"liquidity", liquidity}, {"amount", amount}} {
				v, err := parseIntArg(kv[0], kv[1])
				if err != nil {
					return err
				}
				ints[i] = v
			}
			step, err := clmm.ComputeSwapStep(ints[0], ints[1], ints[2], ints[3], feeRate, byAmountIn)
			if err != nil {
				return err
			}
			return a.print(step)
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current sqrt price (Q64.64)")
	cmd.Flags().StringVar(&target, "target", "", "target sqrt price (Q64.64)")
	cmd.Flags().StringVar(&liquidity, "liquidity", "", "segment liquidity")
	cmd.Flags().StringVar(&amount, "amount", "", "remaining amount")
	cmd.Flags().Uint64Var(&feeRate, "fee-rate", 3000, "fee rate in millionths")
	cmd.Flags().BoolVar(&byAmountIn, "by-amount-in", true, "amount is the input amount")
	for _, f := range []string{"current", "target", "liquidity", "amount"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func (a *app) coinAmountsCmd() *cobra.Command {
	var liquidity, current string
	var lowerTick, upperTick int32
	var roundUp bool
	cmd := &cobra.Command{
		Use:   "coin-amounts",
		Short: "Split liquidity over a tick range into coin amounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := parseIntArg("liquidity", liquidity)
			if err != nil {
				return err
			}
			sp, err := parseIntArg("current", current)
			if err != nil {
				return err
			}
			lower, err := clmm.TickIndexToSqrtPriceX64(lowerTick)
			if err != nil {
				return err
			}
			upper, err := clmm.TickIndexToSqrtPriceX64(upperTick)
			if err != nil {
				return err
			}
			amounts, err := clmm.GetCoinAmountFromLiquidity(l, sp, lower, upper, roundUp)
			if err != nil {
				return err
			}
			return a.print(amounts)
		},
	}
	cmd.Flags().StringVar(&liquidity, "liquidity", "", "position liquidity")
	cmd.Flags().StringVar(&current, "current", "", "current sqrt price (Q64.64)")
	cmd.Flags().Int32Var(&lowerTick, "lower-tick", 0, "lower tick index")
	cmd.Flags().Int32Var(&upperTick, "upper-tick", 0, "upper tick index")
	cmd.Flags().BoolVar(&roundUp, "round-up", true, "round amounts up")
	_ = cmd.MarkFlagRequired("liquidity")
	_ = cmd.MarkFlagRequired("current")
	return cmd
}

func (a *app) estimateLiquidityCmd() *cobra.Command {
	var current, coinA, coinB string
	var lowerTick, upperTick int32
	cmd := &cobra.Command{
		Use:   "estimate-liquidity",
		Short: "Estimate the liquidity two coin amounts can mint over a tick range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sp, err := parseIntArg("current", current)
			if err != nil {
				return err
			}
			a0, err := parseIntArg("coin-a", coinA)
			if err != nil {
				return err
			}
			b0, err := parseIntArg("coin-b", coinB)
			if err != nil {
				return err
			}
			liq, err := clmm.EstimateLiquidityFromCoinAmounts(sp, lowerTick, upperTick, clmm.CoinAmounts{CoinA: a0, CoinB: b0})
			if err != nil {
				return err
			}
			return a.print(map[string]any{"liquidity": liq})
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current sqrt price (Q64.64)")
	cmd.Flags().StringVar(&coinA, "coin-a", "0", "coin A amount")
	cmd.Flags().StringVar(&coinB, "coin-b", "0", "coin B amount")
	cmd.Flags().Int32Var(&lowerTick, "lower-tick", 0, "lower tick index")
	cmd.Flags().Int32Var(&upperTick, "upper-tick", 0, "upper tick index")
	_ = cmd.MarkFlagRequired("current")
	return cmd
}

func (a *app) oneSideLiquidityCmd() *cobra.Command {
	var current, amount, slippage string
	var lowerTick, upperTick int32
	var fixA, roundUp bool
	cmd := &cobra.Command{
		Use:   "one-side-liquidity",
		Short: "Derive liquidity and both coin amounts from one fixed coin amount",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sp, err := parseIntArg("current", current)
			if err != nil {
				return err
			}
			amt, err := parseIntArg("amount", amount)
			if err != nil {
				return err
			}
			slip, err := decimal.NewFromString(slippage)
			if err != nil {
				return fmt.Errorf("invalid slippage %q: %w", slippage, err)
			}
			input, err := clmm.EstLiquidityAndCoinAmountFromOneAmounts(lowerTick, upperTick, amt, fixA, roundUp, slip, sp)
			if err != nil {
				return err
			}
			return a.print(input)
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current sqrt price (Q64.64)")
	cmd.Flags().StringVar(&amount, "amount", "", "fixed coin amount")
	cmd.Flags().StringVar(&slippage, "slippage", "0.01", "slippage as a fraction")
	cmd.Flags().Int32Var(&lowerTick, "lower-tick", 0, "lower tick index")
	cmd.Flags().Int32Var(&upperTick, "upper-tick", 0, "upper tick index")
	cmd.Flags().BoolVar(&fixA, "coin-a", true, "the fixed amount is coin A")
	cmd.Flags().BoolVar(&roundUp, "round-up", true, "round amounts and bounds up")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func (a *app) swapCmd() *cobra.Command {
	var poolID, poolName, amount string
	var a2b, byAmountIn bool
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Simulate a multi-tick swap against a configured pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := a.spotProtocol()
			if err != nil {
				return err
			}
			pool, err := registry.Resolve(cmd.Context(), protocol.PoolRef{ID: poolID, Name: poolName})
			if err != nil {
				return err
			}
			amt, err := parseIntArg("amount", amount)
			if err != nil {
				return err
			}
			res, err := pool.ComputeSwap(a2b, byAmountIn, amt)
			if err != nil {
				return err
			}
			a.logger.Debug("swap simulated", zap.String("pool", pool.GetID()), zap.Int("cross_tick_num", res.CrossTickNum))
			return a.print(res)
		},
	}
	cmd.Flags().StringVar(&poolID, "pool", "", "pool id")
	cmd.Flags().StringVar(&poolName, "pool-name", "", "pool name")
	cmd.Flags().StringVar(&amount, "amount", "", "swap amount")
	cmd.Flags().BoolVar(&a2b, "a2b", true, "swap coin A for coin B")
	cmd.Flags().BoolVar(&byAmountIn, "by-amount-in", true, "amount is the input amount")
	cmd.MarkFlagsMutuallyExclusive("pool", "pool-name")
	cmd.MarkFlagsOneRequired("pool", "pool-name")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

type quoteOutput struct {
	Pool         string      `json:"pool"`
	AmountIn     cosmath.Int `json:"amount_in"`
	AmountOut    cosmath.Int `json:"amount_out"`
	MinAmountOut cosmath.Int `json:"min_amount_out"`
}

func (a *app) quoteCmd() *cobra.Command {
	var coinIn, coinOut, amount, slippage string
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote the best configured pool for a swap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := a.spotProtocol()
			if err != nil {
				return err
			}
			amt, err := parseIntArg("amount", amount)
			if err != nil {
				return err
			}
			slip, err := decimal.NewFromString(slippage)
			if err != nil {
				return fmt.Errorf("invalid slippage %q: %w", slippage, err)
			}

			r := router.NewSimpleRouter([]pkg.Protocol{registry},
				router.WithLogger(a.logger),
				router.WithMaxConcurrentQuotes(a.cfg.Router.MaxConcurrentQuotes),
				router.WithQuoteRate(a.cfg.Router.QuotesPerSecond))
			if err := r.QueryAllPools(cmd.Context(), coinIn, coinOut); err != nil {
				return err
			}
			best, out, err := r.GetBestPool(cmd.Context(), coinIn, amt)
			if err != nil {
				return err
			}
			a.logger.Info("selected best pool", zap.String("pool", best.GetID()), zap.Stringer("amount_out", out))

			minOut := spot.GetEstimatedAmountIncludingSlippage(decimal.NewFromBigInt(out.BigInt(), 0), slip, true)
			return a.print(quoteOutput{
				Pool:         best.GetID(),
				AmountIn:     amt,
				AmountOut:    out,
				MinAmountOut: cosmath.NewIntFromBigInt(minOut.Floor().BigInt()),
			})
		},
	}
	cmd.Flags().StringVar(&coinIn, "coin-in", "", "input coin type")
	cmd.Flags().StringVar(&coinOut, "coin-out", "", "output coin type")
	cmd.Flags().StringVar(&amount, "amount", "", "input amount")
	cmd.Flags().StringVar(&slippage, "slippage", "1", "slippage in percent")
	for _, f := range []string{"coin-in", "coin-out", "amount"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func (a *app) liquidityParamsCmd() *cobra.Command {
	var poolID, lowerPrice, upperPrice, coinA, coinB, slippage string
	cmd := &cobra.Command{
		Use:   "liquidity-params",
		Short: "Convert a price range and coin amounts into position parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := a.spotProtocol()
			if err != nil {
				return err
			}
			pool, err := registry.Resolve(cmd.Context(), protocol.PoolRef{ID: poolID})
			if err != nil {
				return err
			}
			decs := make([]decimal.Decimal, 3)
			for i, kv := range [][2]string{{"lower-price", lowerPrice}, {"upper-price", upperPrice}, {"slippage", slippage}} {
				d, err := decimal.NewFromString(kv[1])
				if err != nil {
					return fmt.Errorf("invalid %s %q: %w", kv[0], kv[1], err)
				}
				decs[i] = d
			}
			a0, err := parseIntArg("coin-a", coinA)
			if err != nil {
				return err
			}
			b0, err := parseIntArg("coin-b", coinB)
			if err != nil {
				return err
			}
			params, err := pool.LiquidityParams(decs[0], decs[1], clmm.CoinAmounts{CoinA: a0, CoinB: b0}, decs[2])
			if err != nil {
				return err
			}
			return a.print(params)
		},
	}
	cmd.Flags().StringVar(&poolID, "pool", "", "pool id")
	cmd.Flags().StringVar(&lowerPrice, "lower-price", "", "lower price")
	cmd.Flags().StringVar(&upperPrice, "upper-price", "", "upper price")
	cmd.Flags().StringVar(&coinA, "coin-a", "0", "coin A amount")
	cmd.Flags().StringVar(&coinB, "coin-b", "0", "coin B amount")
	cmd.Flags().StringVar(&slippage, "slippage", "0.01", "slippage as a fraction")
	for _, f := range []string{"pool", "lower-price", "upper-price"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}
