package clmm

import (
	cosmath "cosmossdk.io/math"
	"github.com/holiman/uint256"
)

// SwapStepResult is the outcome of a swap inside a single liquidity segment.
type SwapStepResult struct {
	AmountIn      cosmath.Int `json:"amount_in"`
	AmountOut     cosmath.Int `json:"amount_out"`
	NextSqrtPrice cosmath.Int `json:"next_sqrt_price"`
	FeeAmount     cosmath.Int `json:"fee_amount"`
}

type swapStep struct {
	amountIn, amountOut, nextSqrtPrice, feeAmount *uint256.Int
}

func (s *swapStep) result() SwapStepResult {
	return SwapStepResult{
		AmountIn:      fromU256(s.amountIn),
		AmountOut:     fromU256(s.amountOut),
		NextSqrtPrice: fromU256(s.nextSqrtPrice),
		FeeAmount:     fromU256(s.feeAmount),
	}
}

// ComputeSwapStep simulates a swap from currentSqrtPrice toward targetSqrtPrice
// with constant liquidity. feeRate is in parts per million. When byAmountIn is
// set, amount is the gross input including fee; otherwise it is the desired output.
func ComputeSwapStep(
	currentSqrtPrice cosmath.Int,
	targetSqrtPrice cosmath.Int,
	liquidity cosmath.Int,
	amount cosmath.Int,
	feeRate uint64,
	byAmountIn bool,
) (SwapStepResult, error) {
	current, target, l, err := pricePairArgs(currentSqrtPrice, targetSqrtPrice, liquidity)
	if err != nil {
		return SwapStepResult{}, err
	}
	amt, err := amountArg(amount, "amount")
	if err != nil {
		return SwapStepResult{}, err
	}
	step, err := computeSwapStep(current, target, l, amt, feeRate, byAmountIn)
	if err != nil {
		return SwapStepResult{}, err
	}
	return step.result(), nil
}

func computeSwapStep(current, target, liquidity, amount *uint256.Int, feeRate uint64, byAmountIn bool) (*swapStep, error) {
	if liquidity.IsZero() {
		return &swapStep{
			amountIn:      new(uint256.Int),
			amountOut:     new(uint256.Int),
			nextSqrtPrice: new(uint256.Int).Set(target),
			feeAmount:     new(uint256.Int),
		}, nil
	}

	a2b := !current.Lt(target)
	fee := uint256.NewInt(feeRate)
	feeComplement, err := checkedSub(feeDenomU, fee)
	if err != nil {
		return nil, err
	}

	step := &swapStep{}
	if byAmountIn {
		amountRemain, err := mulDivFloor(amount, feeComplement, feeDenomU, 64)
		if err != nil {
			return nil, err
		}
		maxAmountIn, err := deltaUpFromInput(current, target, liquidity, a2b)
		if err != nil {
			return nil, err
		}
		if maxAmountIn.Gt(amountRemain) {
			step.amountIn = amountRemain
			if step.feeAmount, err = checkedSub(amount, amountRemain); err != nil {
				return nil, err
			}
			if step.nextSqrtPrice, err = nextSqrtPriceFromInput(current, liquidity, amountRemain, a2b); err != nil {
				return nil, err
			}
		} else {
			step.amountIn = maxAmountIn
			// fee is charged on the exact input, not on the gross amount
			if step.feeAmount, err = mulDivCeil(maxAmountIn, fee, feeComplement, 64); err != nil {
				return nil, err
			}
			step.nextSqrtPrice = new(uint256.Int).Set(target)
		}
		if step.amountOut, err = deltaDownFromOutput(current, step.nextSqrtPrice, liquidity, a2b); err != nil {
			return nil, err
		}
		return step, nil
	}

	maxAmountOut, err := deltaDownFromOutput(current, target, liquidity, a2b)
	if err != nil {
		return nil, err
	}
	if maxAmountOut.Gt(amount) {
		step.amountOut = new(uint256.Int).Set(amount)
		if step.nextSqrtPrice, err = nextSqrtPriceFromOutput(current, liquidity, amount, a2b); err != nil {
			return nil, err
		}
	} else {
		step.amountOut = maxAmountOut
		step.nextSqrtPrice = new(uint256.Int).Set(target)
	}
	if step.amountIn, err = deltaUpFromInput(current, step.nextSqrtPrice, liquidity, a2b); err != nil {
		return nil, err
	}
	if step.feeAmount, err = mulDivCeil(step.amountIn, fee, feeComplement, 64); err != nil {
		return nil, err
	}
	return step, nil
}
