package clmm

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the failure kind of a math operation.
type ErrorCode string

const (
	IntegerDowncastOverflow ErrorCode = "IntegerDowncastOverflow"
	MultiplicationOverflow  ErrorCode = "MultiplicationOverflow"
	MulDivOverflow          ErrorCode = "MulDivOverflow"
	MulShiftRightOverflow   ErrorCode = "MulShiftRightOverflow"
	MulShiftLeftOverflow    ErrorCode = "MulShiftLeftOverflow"
	DivideByZero            ErrorCode = "DivideByZero"
	UnsignedIntegerOverflow ErrorCode = "UnsignedIntegerOverflow"

	InvalidCoinAmount      ErrorCode = "InvalidCoinAmount"
	InvalidLiquidityAmount ErrorCode = "InvalidLiquidityAmount"
	InvalidSqrtPrice       ErrorCode = "InvalidSqrtPrice"
	InvalidTickIndex       ErrorCode = "InvalidTickIndex"
	InvalidTwoTickIndex    ErrorCode = "InvalidTwoTickIndex"
	InvalidSlippage        ErrorCode = "InvalidSlippage"
	NotSupportedThisCoin   ErrorCode = "NotSupportedThisCoin"

	CoinAmountMaxExceeded  ErrorCode = "CoinAmountMaxExceeded"
	CoinAmountMinSubceeded ErrorCode = "CoinAmountMinSubceeded"
	SqrtPriceOutOfBounds   ErrorCode = "SqrtPriceOutOfBounds"

	InvalidSqrtPriceLimitDirection ErrorCode = "InvalidSqrtPriceLimitDirection"
	ZeroTradableAmount             ErrorCode = "ZeroTradableAmount"
)

// MathError is returned by every failing operation in this package.
// Two MathErrors match under errors.Is when their codes are equal.
type MathError struct {
	Code ErrorCode
	Msg  string
}

func (e *MathError) Error() string {
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *MathError) Is(target error) bool {
	t, ok := target.(*MathError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrIntegerDowncastOverflow = &MathError{Code: IntegerDowncastOverflow}
	ErrMultiplicationOverflow  = &MathError{Code: MultiplicationOverflow}
	ErrMulDivOverflow          = &MathError{Code: MulDivOverflow}
	ErrMulShiftRightOverflow   = &MathError{Code: MulShiftRightOverflow}
	ErrMulShiftLeftOverflow    = &MathError{Code: MulShiftLeftOverflow}
	ErrDivideByZero            = &MathError{Code: DivideByZero}
	ErrUnsignedIntegerOverflow = &MathError{Code: UnsignedIntegerOverflow}

	ErrInvalidCoinAmount      = &MathError{Code: InvalidCoinAmount}
	ErrInvalidLiquidityAmount = &MathError{Code: InvalidLiquidityAmount}
	ErrInvalidSqrtPrice       = &MathError{Code: InvalidSqrtPrice}
	ErrInvalidTickIndex       = &MathError{Code: InvalidTickIndex}
	ErrInvalidTwoTickIndex    = &MathError{Code: InvalidTwoTickIndex}
	ErrInvalidSlippage        = &MathError{Code: InvalidSlippage}
	ErrNotSupportedThisCoin   = &MathError{Code: NotSupportedThisCoin}

	ErrCoinAmountMaxExceeded  = &MathError{Code: CoinAmountMaxExceeded}
	ErrCoinAmountMinSubceeded = &MathError{Code: CoinAmountMinSubceeded}
	ErrSqrtPriceOutOfBounds   = &MathError{Code: SqrtPriceOutOfBounds}

	ErrInvalidSqrtPriceLimitDirection = &MathError{Code: InvalidSqrtPriceLimitDirection}
	ErrZeroTradableAmount             = &MathError{Code: ZeroTradableAmount}
)

func newError(code ErrorCode, format string, args ...any) *MathError {
	return &MathError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code carried by err, or "" when err is not a MathError.
func CodeOf(err error) ErrorCode {
	var me *MathError
	if errors.As(err, &me) {
		return me.Code
	}
	return ""
}
