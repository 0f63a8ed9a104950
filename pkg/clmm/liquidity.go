package clmm

import (
	cosmath "cosmossdk.io/math"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// CoinAmounts is a pair of coin A and coin B amounts.
type CoinAmounts struct {
	CoinA cosmath.Int `json:"coin_a"`
	CoinB cosmath.Int `json:"coin_b"`
}

// LiquidityInput is what a position needs to add liquidity from one fixed coin amount.
// TokenMaxA and TokenMaxB already carry the slippage adjustment.
type LiquidityInput struct {
	CoinAmount      cosmath.Int `json:"coin_amount"`
	CoinAmountA     cosmath.Int `json:"coin_amount_a"`
	CoinAmountB     cosmath.Int `json:"coin_amount_b"`
	TokenMaxA       cosmath.Int `json:"token_max_a"`
	TokenMaxB       cosmath.Int `json:"token_max_b"`
	LiquidityAmount cosmath.Int `json:"liquidity_amount"`
	FixAmountA      bool        `json:"fix_amount_a"`
}

// GetCoinAmountFromLiquidity splits liquidity over [lowerSqrtPrice, upperSqrtPrice]
// into coin amounts at currentSqrtPrice.
func GetCoinAmountFromLiquidity(liquidity, currentSqrtPrice, lowerSqrtPrice, upperSqrtPrice cosmath.Int, roundUp bool) (CoinAmounts, error) {
	l, err := liquidityArg(liquidity)
	if err != nil {
		return CoinAmounts{}, err
	}
	current, err := sqrtPriceArg(currentSqrtPrice, "current sqrt price")
	if err != nil {
		return CoinAmounts{}, err
	}
	lower, err := sqrtPriceArg(lowerSqrtPrice, "lower sqrt price")
	if err != nil {
		return CoinAmounts{}, err
	}
	upper, err := sqrtPriceArg(upperSqrtPrice, "upper sqrt price")
	if err != nil {
		return CoinAmounts{}, err
	}
	a, b, err := coinAmountsFromLiquidity(l, current, lower, upper, roundUp)
	if err != nil {
		return CoinAmounts{}, err
	}
	return CoinAmounts{CoinA: fromU256(a), CoinB: fromU256(b)}, nil
}

func coinAmountsFromLiquidity(liquidity, current, lower, upper *uint256.Int, roundUp bool) (a, b *uint256.Int, err error) {
	switch {
	case current.Lt(lower):
		a, err = deltaA(lower, upper, liquidity, roundUp)
		b = new(uint256.Int)
	case current.Lt(upper):
		if a, err = deltaA(current, upper, liquidity, roundUp); err != nil {
			return nil, nil, err
		}
		b, err = deltaB(lower, current, liquidity, roundUp)
	default:
		a = new(uint256.Int)
		b, err = deltaB(lower, upper, liquidity, roundUp)
	}
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func orderedPrices(x, y *uint256.Int) (lower, upper *uint256.Int) {
	if x.Lt(y) {
		return x, y
	}
	return y, x
}

func downcastLiquidity(v *uint256.Int) (*uint256.Int, error) {
	if isOverflow(v, 128) {
		return nil, newError(IntegerDowncastOverflow, "liquidity %s exceeds u128", v.Dec())
	}
	return v, nil
}

// liquidityForCoinA is ((amount * upper * lower) >> 64) / (upper - lower).
func liquidityForCoinA(x, y, amount *uint256.Int) (*uint256.Int, error) {
	lower, upper := orderedPrices(x, y)
	p, err := checkedMul(amount, upper, 256)
	if err != nil {
		return nil, err
	}
	num, err := mulShiftRight(p, lower, 64, 256)
	if err != nil {
		return nil, err
	}
	liq, err := divRoundUp(num, new(uint256.Int).Sub(upper, lower), false)
	if err != nil {
		return nil, err
	}
	return downcastLiquidity(liq)
}

// liquidityForCoinB is (amount << 64) / (upper - lower).
func liquidityForCoinB(x, y, amount *uint256.Int) (*uint256.Int, error) {
	lower, upper := orderedPrices(x, y)
	if isOverflow(amount, 192) {
		return nil, newError(MulShiftLeftOverflow, "amount %s << 64 exceeds 256 bits", amount.Dec())
	}
	liq, err := divRoundUp(new(uint256.Int).Lsh(amount, 64), new(uint256.Int).Sub(upper, lower), false)
	if err != nil {
		return nil, err
	}
	return downcastLiquidity(liq)
}

func estimateArgs(sqrtPriceX, sqrtPriceY, coinAmount cosmath.Int) (x, y, amt *uint256.Int, err error) {
	if x, err = sqrtPriceArg(sqrtPriceX, "sqrt price x"); err != nil {
		return
	}
	if y, err = sqrtPriceArg(sqrtPriceY, "sqrt price y"); err != nil {
		return
	}
	amt, err = amountArg(coinAmount, "coin amount")
	return
}

// EstimateLiquidityForCoinA returns the liquidity that coinAmount of coin A
// provides between the two sqrt prices.
func EstimateLiquidityForCoinA(sqrtPriceX, sqrtPriceY, coinAmount cosmath.Int) (cosmath.Int, error) {
	x, y, amt, err := estimateArgs(sqrtPriceX, sqrtPriceY, coinAmount)
	if err != nil {
		return cosmath.Int{}, err
	}
	liq, err := liquidityForCoinA(x, y, amt)
	if err != nil {
		return cosmath.Int{}, err
	}
	return fromU256(liq), nil
}

// EstimateLiquidityForCoinB returns the liquidity that coinAmount of coin B
// provides between the two sqrt prices.
func EstimateLiquidityForCoinB(sqrtPriceX, sqrtPriceY, coinAmount cosmath.Int) (cosmath.Int, error) {
	x, y, amt, err := estimateArgs(sqrtPriceX, sqrtPriceY, coinAmount)
	if err != nil {
		return cosmath.Int{}, err
	}
	liq, err := liquidityForCoinB(x, y, amt)
	if err != nil {
		return cosmath.Int{}, err
	}
	return fromU256(liq), nil
}

// tickRange bounds are compared by sqrt price so a current price sitting
// exactly on a bound falls to the one-coin side.
type tickRange struct {
	currentPrice *uint256.Int
	lowerPrice   *uint256.Int
	upperPrice   *uint256.Int
}

func newTickRange(currentSqrtPrice cosmath.Int, lowerTick, upperTick int32) (*tickRange, error) {
	if lowerTick > upperTick {
		return nil, newError(InvalidTwoTickIndex, "lower tick %d is greater than upper tick %d", lowerTick, upperTick)
	}
	if err := checkTickIndex(lowerTick); err != nil {
		return nil, err
	}
	if err := checkTickIndex(upperTick); err != nil {
		return nil, err
	}
	current, err := sqrtPriceArg(currentSqrtPrice, "current sqrt price")
	if err != nil {
		return nil, err
	}
	return &tickRange{
		currentPrice: current,
		lowerPrice:   tickToSqrtPrice(lowerTick),
		upperPrice:   tickToSqrtPrice(upperTick),
	}, nil
}

func (r *tickRange) belowRange() bool { return !r.currentPrice.Gt(r.lowerPrice) }

func (r *tickRange) aboveRange() bool { return !r.currentPrice.Lt(r.upperPrice) }

// EstimateLiquidityFromCoinAmounts returns the liquidity a position over
// [lowerTick, upperTick] can mint from amounts. Inside the range the smaller
// of the two per-coin estimates binds.
func EstimateLiquidityFromCoinAmounts(currentSqrtPrice cosmath.Int, lowerTick, upperTick int32, amounts CoinAmounts) (cosmath.Int, error) {
	r, err := newTickRange(currentSqrtPrice, lowerTick, upperTick)
	if err != nil {
		return cosmath.Int{}, err
	}
	coinA, err := amountArg(amounts.CoinA, "coin a")
	if err != nil {
		return cosmath.Int{}, err
	}
	coinB, err := amountArg(amounts.CoinB, "coin b")
	if err != nil {
		return cosmath.Int{}, err
	}

	var liq *uint256.Int
	switch {
	case r.belowRange():
		liq, err = liquidityForCoinA(r.lowerPrice, r.upperPrice, coinA)
	case r.aboveRange():
		liq, err = liquidityForCoinB(r.upperPrice, r.lowerPrice, coinB)
	default:
		var liqA, liqB *uint256.Int
		if liqA, err = liquidityForCoinA(r.currentPrice, r.upperPrice, coinA); err != nil {
			return cosmath.Int{}, err
		}
		if liqB, err = liquidityForCoinB(r.currentPrice, r.lowerPrice, coinB); err != nil {
			return cosmath.Int{}, err
		}
		liq = liqA
		if liqB.Lt(liqA) {
			liq = liqB
		}
	}
	if err != nil {
		return cosmath.Int{}, err
	}
	return fromU256(liq), nil
}

// EstLiquidityAndCoinAmountFromOneAmounts derives liquidity from one fixed coin
// amount, converts it back into both coin amounts, and bounds them by slippage
// (a fraction, 0.01 for 1%). Bounds are raised and rounded up when roundUp is
// set, lowered and rounded down otherwise.
func EstLiquidityAndCoinAmountFromOneAmounts(
	lowerTick int32,
	upperTick int32,
	coinAmount cosmath.Int,
	isCoinA bool,
	roundUp bool,
	slippage decimal.Decimal,
	currentSqrtPrice cosmath.Int,
) (LiquidityInput, error) {
	if slippage.IsNegative() || slippage.GreaterThan(decimal.NewFromInt(1)) {
		return LiquidityInput{}, newError(InvalidSlippage, "slippage %s is outside [0, 1]", slippage)
	}
	r, err := newTickRange(currentSqrtPrice, lowerTick, upperTick)
	if err != nil {
		return LiquidityInput{}, err
	}
	amt, err := amountArg(coinAmount, "coin amount")
	if err != nil {
		return LiquidityInput{}, err
	}

	var liq *uint256.Int
	switch {
	case r.belowRange():
		if !isCoinA {
			return LiquidityInput{}, newError(NotSupportedThisCoin, "range above current price takes only coin a")
		}
		liq, err = liquidityForCoinA(r.lowerPrice, r.upperPrice, amt)
	case r.aboveRange():
		if isCoinA {
			return LiquidityInput{}, newError(NotSupportedThisCoin, "range below current price takes only coin b")
		}
		liq, err = liquidityForCoinB(r.upperPrice, r.lowerPrice, amt)
	case isCoinA:
		liq, err = liquidityForCoinA(r.currentPrice, r.upperPrice, amt)
	default:
		liq, err = liquidityForCoinB(r.currentPrice, r.lowerPrice, amt)
	}
	if err != nil {
		return LiquidityInput{}, err
	}

	a, b, err := coinAmountsFromLiquidity(liq, r.currentPrice, r.lowerPrice, r.upperPrice, roundUp)
	if err != nil {
		return LiquidityInput{}, err
	}
	coinA, coinB := fromU256(a), fromU256(b)
	return LiquidityInput{
		CoinAmount:      coinAmount,
		CoinAmountA:     coinA,
		CoinAmountB:     coinB,
		TokenMaxA:       applySlippage(coinA, slippage, roundUp),
		TokenMaxB:       applySlippage(coinB, slippage, roundUp),
		LiquidityAmount: fromU256(liq),
		FixAmountA:      isCoinA,
	}, nil
}

func applySlippage(amount cosmath.Int, slippage decimal.Decimal, up bool) cosmath.Int {
	d := decimal.NewFromBigInt(amount.BigInt(), 0)
	if up {
		return cosmath.NewIntFromBigInt(d.Mul(decimal.NewFromInt(1).Add(slippage)).Ceil().BigInt())
	}
	return cosmath.NewIntFromBigInt(d.Mul(decimal.NewFromInt(1).Sub(slippage)).Floor().BigInt())
}
