package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
log:
  level: error
pools:
  - id: "0xdeep"
    name: SUI-USDC
    coin_a: {type: sui, decimals: 6}
    coin_b: {type: usdc, decimals: 6}
    sqrt_price_x64: "18446744073709551616"
    liquidity: "1000000000000"
    fee_rate: 3000
    tick_spacing: 100
    ticks:
      - {index: -1000, liquidity_net: "600000000000"}
      - {index: -100, liquidity_net: "400000000000"}
      - {index: 100, liquidity_net: "-400000000000"}
      - {index: 1000, liquidity_net: "-600000000000"}
  - id: "0xshallow"
    coin_a: {type: sui, decimals: 6}
    coin_b: {type: usdc, decimals: 6}
    sqrt_price_x64: "18446744073709551616"
    liquidity: "1000000000"
    fee_rate: 3000
    tick_spacing: 10
    ticks:
      - {index: -1000, liquidity_net: "1000000000"}
      - {index: 1000, liquidity_net: "-1000000000"}
`

func run(t *testing.T, args ...string) map[string]any {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append([]string{"--config", path}, args...))
	require.NoError(t, cmd.Execute())

	var res map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	return res
}

func TestTickConversionCommands(t *testing.T) {
	res := run(t, "tick-to-sqrt-price", "100")
	assert.Equal(t, "18539204128674405812", res["sqrt_price_x64"])

	res = run(t, "sqrt-price-to-tick", "18539204128674405812")
	assert.Equal(t, float64(100), res["tick"])
}

func TestSwapStepCommand(t *testing.T) {
	res := run(t, "swap-step",
		"--current", "18446744073709551616",
		"--target", "36893488147419103232",
		"--liquidity", "1000000000000",
		"--amount", "1000")
	assert.Equal(t, "997", res["amount_in"])
	assert.Equal(t, "996", res["amount_out"])
	assert.Equal(t, "3", res["fee_amount"])
	assert.Equal(t, "18446744092100955457", res["next_sqrt_price"])
}

func TestLiquidityCommands(t *testing.T) {
	res := run(t, "coin-amounts", "--liquidity", "1000000000", "--current", "18446744073709551616",
		"--lower-tick", "-100", "--upper-tick", "100")
	assert.Equal(t, "4987273", res["coin_a"])
	assert.Equal(t, "4987273", res["coin_b"])

	res = run(t, "estimate-liquidity", "--current", "18446744073709551616",
		"--lower-tick", "-100", "--upper-tick", "100", "--coin-a", "1000", "--coin-b", "2000")
	assert.Equal(t, "200510", res["liquidity"])

	res = run(t, "one-side-liquidity", "--current", "18446744073709551616",
		"--lower-tick", "-100", "--upper-tick", "100", "--amount", "1000000")
	assert.Equal(t, "200510416", res["liquidity_amount"])
	assert.Equal(t, "1010000", res["token_max_b"])
}

func TestPoolCommands(t *testing.T) {
	res := run(t, "swap", "--pool-name", "SUI-USDC", "--amount", "10000000000")
	assert.Equal(t, "9855648450", res["amount_out"])
	assert.Equal(t, float64(2), res["cross_tick_num"])

	res = run(t, "quote", "--coin-in", "sui", "--coin-out", "usdc", "--amount", "1000000")
	assert.Equal(t, "0xdeep", res["pool"])
	assert.Equal(t, "996999", res["amount_out"])
	assert.Equal(t, "987029", res["min_amount_out"])

	res = run(t, "liquidity-params", "--pool", "0xdeep", "--lower-price", "0.99", "--upper-price", "1.01",
		"--coin-a", "1000000", "--coin-b", "1000000", "--slippage", "0.005")
	assert.Equal(t, "198530123", res["liquidity"])
	assert.Equal(t, float64(-101), res["lower_tick"])
}

func TestCommandErrors(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"tick-to-sqrt-price", "443637"})
	assert.Error(t, cmd.Execute())
}
