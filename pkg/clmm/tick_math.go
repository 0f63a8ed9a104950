package clmm

import (
	"math/big"

	cosmath "cosmossdk.io/math"
	"github.com/holiman/uint256"
	"lukechampine.com/uint128"
)

// Per-bit multipliers for sqrt(1.0001^(2^i)).
// Positive ticks accumulate in Q32.96 and are shifted down to Q64.64 at the
// end; negative ticks accumulate the reciprocal directly in Q64.64.
var (
	positiveTickRatios = [19]*uint256.Int{
		uint256.MustFromDecimal("79232123823359799118286999567"),
		uint256.MustFromDecimal("79236085330515764027303304731"),
		uint256.MustFromDecimal("79244008939048815603706035061"),
		uint256.MustFromDecimal("79259858533276714757314932305"),
		uint256.MustFromDecimal("79291567232598584799939703904"),
		uint256.MustFromDecimal("79355022692464371645785046466"),
		uint256.MustFromDecimal("79482085999252804386437311141"),
		uint256.MustFromDecimal("79736823300114093921829183326"),
		uint256.MustFromDecimal("80248749790819932309965073892"),
		uint256.MustFromDecimal("81282483887344747381513967011"),
		uint256.MustFromDecimal("83390072131320151908154831281"),
		uint256.MustFromDecimal("87770609709833776024991924138"),
		uint256.MustFromDecimal("97234110755111693312479820773"),
		uint256.MustFromDecimal("119332217159966728226237229890"),
		uint256.MustFromDecimal("179736315981702064433883588727"),
		uint256.MustFromDecimal("407748233172238350107850275304"),
		uint256.MustFromDecimal("2098478828474011932436660412517"),
		uint256.MustFromDecimal("55581415166113811149459800483533"),
		uint256.MustFromDecimal("38992368544603139932233054999993551"),
	}
	negativeTickRatios = [19]*uint256.Int{
		uint256.MustFromDecimal("18445821805675392311"),
		uint256.MustFromDecimal("18444899583751176498"),
		uint256.MustFromDecimal("18443055278223354162"),
		uint256.MustFromDecimal("18439367220385604838"),
		uint256.MustFromDecimal("18431993317065449817"),
		uint256.MustFromDecimal("18417254355718160513"),
		uint256.MustFromDecimal("18387811781193591352"),
		uint256.MustFromDecimal("18329067761203520168"),
		uint256.MustFromDecimal("18212142134806087854"),
		uint256.MustFromDecimal("17980523815641551639"),
		uint256.MustFromDecimal("17526086738831147013"),
		uint256.MustFromDecimal("16651378430235024244"),
		uint256.MustFromDecimal("15030750278693429944"),
		uint256.MustFromDecimal("12247334978882834399"),
		uint256.MustFromDecimal("8131365268884726200"),
		uint256.MustFromDecimal("3584323654723342297"),
		uint256.MustFromDecimal("696457651847595233"),
		uint256.MustFromDecimal("26294789957452057"),
		uint256.MustFromDecimal("37481735321082"),
	}

	q96U = new(uint256.Int).Lsh(uint256.NewInt(1), 96)
)

// Constants of the log2 inverse.
const bitPrecision = 14

var (
	logB2X32               = big.NewInt(59543866431248)
	logBPErrMarginLowerX64 = big.NewInt(184467440737095516)
	logBPErrMarginUpperX64 = mustBig("15793534762490258745")
)

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("clmm: bad integer constant " + s)
	}
	return v
}

func checkTickIndex(tick int32) error {
	if tick < MinTickIndex || tick > MaxTickIndex {
		return newError(InvalidTickIndex, "tick %d is outside [%d, %d]", tick, MinTickIndex, MaxTickIndex)
	}
	return nil
}

// TickIndexToSqrtPriceX64 returns sqrt(1.0001^tick) as a Q64.64 value.
func TickIndexToSqrtPriceX64(tick int32) (cosmath.Int, error) {
	if err := checkTickIndex(tick); err != nil {
		return cosmath.Int{}, err
	}
	return fromU256(tickToSqrtPrice(tick)), nil
}

// tickToSqrtPrice assumes tick is within range.
func tickToSqrtPrice(tick int32) *uint256.Int {
	if tick > 0 {
		return positiveTickToSqrtPrice(uint32(tick))
	}
	return negativeTickToSqrtPrice(uint32(-tick))
}

func positiveTickToSqrtPrice(tick uint32) *uint256.Int {
	ratio := new(uint256.Int)
	if tick&1 != 0 {
		ratio.Set(positiveTickRatios[0])
	} else {
		ratio.Set(q96U)
	}
	for i := 1; i < len(positiveTickRatios); i++ {
		if tick&(1<<i) != 0 {
			ratio.Mul(ratio, positiveTickRatios[i])
			ratio.Rsh(ratio, 96)
		}
	}
	return ratio.Rsh(ratio, 32)
}

func negativeTickToSqrtPrice(tick uint32) *uint256.Int {
	ratio := new(uint256.Int)
	if tick&1 != 0 {
		ratio.Set(negativeTickRatios[0])
	} else {
		ratio.Set(q64U)
	}
	for i := 1; i < len(negativeTickRatios); i++ {
		if tick&(1<<i) != 0 {
			ratio.Mul(ratio, negativeTickRatios[i])
			ratio.Rsh(ratio, 64)
		}
	}
	return ratio
}

// SqrtPriceX64ToTickIndex returns the greatest tick whose sqrt price does not
// exceed sqrtPrice.
func SqrtPriceX64ToTickIndex(sqrtPrice cosmath.Int) (int32, error) {
	sp, err := sqrtPriceArg(sqrtPrice, "sqrt price")
	if err != nil {
		return 0, err
	}
	return sqrtPriceToTick(sp), nil
}

func sqrtPriceToTick(sp *uint256.Int) int32 {
	msb := sp.BitLen() - 1
	log2pIntegerX32 := int64(msb-64) << 32

	// Normalize into [2^63, 2^64) so each squaring fits in 128 bits.
	var r uint64
	if msb >= 64 {
		r = new(uint256.Int).Rsh(sp, uint(msb-63)).Uint64()
	} else {
		r = new(uint256.Int).Lsh(sp, uint(63-msb)).Uint64()
	}

	bit := uint64(0x8000000000000000)
	var log2pFractionX64 uint64
	for precision := 0; bit > 0 && precision < bitPrecision; precision++ {
		sq := uint128.From64(r).Mul64(r)
		moreThanTwo := uint(sq.Rsh(127).Lo)
		r = sq.Rsh(63 + moreThanTwo).Lo
		if moreThanTwo == 1 {
			log2pFractionX64 += bit
		}
		bit >>= 1
	}

	log2pX32 := log2pIntegerX32 + int64(log2pFractionX64>>32)
	logbpX64 := new(big.Int).Mul(big.NewInt(log2pX32), logB2X32)

	// big.Int.Rsh is an arithmetic shift, so negative logs floor correctly.
	tickLow := new(big.Int).Sub(logbpX64, logBPErrMarginLowerX64)
	tickLow.Rsh(tickLow, 64)
	tickHigh := new(big.Int).Add(logbpX64, logBPErrMarginUpperX64)
	tickHigh.Rsh(tickHigh, 64)

	low, high := int32(tickLow.Int64()), int32(tickHigh.Int64())
	if low == high {
		return low
	}
	if high <= MaxTickIndex && !tickToSqrtPrice(high).Gt(sp) {
		return high
	}
	return low
}

// GetInitializableTickIndex rounds tick toward zero onto the spacing grid.
func GetInitializableTickIndex(tick int32, tickSpacing uint16) (int32, error) {
	if tickSpacing == 0 {
		return 0, newError(InvalidTickIndex, "tick spacing must be positive")
	}
	s := int32(tickSpacing)
	return tick - tick%s, nil
}

// GetNextInitializableTickIndex returns the grid tick one spacing above tick's grid tick.
func GetNextInitializableTickIndex(tick int32, tickSpacing uint16) (int32, error) {
	t, err := GetInitializableTickIndex(tick, tickSpacing)
	if err != nil {
		return 0, err
	}
	return t + int32(tickSpacing), nil
}

// GetPrevInitializableTickIndex returns the grid tick one spacing below tick's grid tick.
func GetPrevInitializableTickIndex(tick int32, tickSpacing uint16) (int32, error) {
	t, err := GetInitializableTickIndex(tick, tickSpacing)
	if err != nil {
		return 0, err
	}
	return t - int32(tickSpacing), nil
}

// TickArrayStartIndex returns the first tick of the tick array holding tick.
func TickArrayStartIndex(tick int32, tickSpacing uint16) (int32, error) {
	if tickSpacing == 0 {
		return 0, newError(InvalidTickIndex, "tick spacing must be positive")
	}
	ticksInArray := int32(tickSpacing) * TickArraySize
	start := tick / ticksInArray
	if tick < 0 && tick%ticksInArray != 0 {
		start--
	}
	return start * ticksInArray, nil
}
