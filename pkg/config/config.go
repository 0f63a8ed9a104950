package config

import (
	"errors"
	"fmt"
	"strings"

	cosmath "cosmossdk.io/math"
	"github.com/spf13/viper"
	"github.com/yimingwow/clmm/pkg/clmm"
	"github.com/yimingwow/clmm/pkg/pool/spot"
)

// EnvPrefix prefixes every environment override, e.g. CLMM_LOG_LEVEL.
const EnvPrefix = "CLMM"

// Config holds all configuration for the clmm tool
type Config struct {
	Log    LoggingConfig `mapstructure:"log"`
	Router RouterConfig  `mapstructure:"router"`
	Pools  []PoolConfig  `mapstructure:"pools"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// RouterConfig holds quoting settings
type RouterConfig struct {
	MaxConcurrentQuotes int `mapstructure:"max_concurrent_quotes"`
	QuotesPerSecond     int `mapstructure:"quotes_per_second"` // 0 disables pacing
}

// PoolConfig is a pool snapshot. Big integers are decimal strings.
type PoolConfig struct {
	ID           string        `mapstructure:"id"`
	Name         string        `mapstructure:"name"`
	CoinA        spot.CoinMeta `mapstructure:"coin_a"`
	CoinB        spot.CoinMeta `mapstructure:"coin_b"`
	SqrtPriceX64 string        `mapstructure:"sqrt_price_x64"`
	TickCurrent  int32         `mapstructure:"tick_current"`
	Liquidity    string        `mapstructure:"liquidity"`
	FeeRate      uint32        `mapstructure:"fee_rate"`
	TickSpacing  uint16        `mapstructure:"tick_spacing"`
	Ticks        []TickConfig  `mapstructure:"ticks"`
}

// TickConfig is an initialized tick; LiquidityNet may be negative.
type TickConfig struct {
	Index          int32  `mapstructure:"index"`
	LiquidityNet   string `mapstructure:"liquidity_net"`
	LiquidityGross string `mapstructure:"liquidity_gross"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("router.max_concurrent_quotes", 8)
	v.SetDefault("router.quotes_per_second", 0)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	validLogFormats := map[string]bool{
		"json":    true,
		"console": true,
	}
	if !validLogFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	if c.Router.MaxConcurrentQuotes < 0 {
		return fmt.Errorf("router max concurrent quotes must be >= 0")
	}
	if c.Router.QuotesPerSecond < 0 {
		return fmt.Errorf("router quotes per second must be >= 0")
	}

	ids := make(map[string]bool, len(c.Pools))
	for i, p := range c.Pools {
		if p.ID == "" {
			return fmt.Errorf("pool %d: id is required", i)
		}
		if ids[p.ID] {
			return fmt.Errorf("pool %s: duplicate id", p.ID)
		}
		ids[p.ID] = true
		if p.CoinA.Type == "" || p.CoinB.Type == "" {
			return fmt.Errorf("pool %s: both coin types are required", p.ID)
		}
	}
	return nil
}

// SpotPools parses the configured pool snapshots.
func (c *Config) SpotPools() ([]*spot.Pool, error) {
	pools := make([]*spot.Pool, 0, len(c.Pools))
	for _, p := range c.Pools {
		pool, err := p.spotPool()
		if err != nil {
			return nil, fmt.Errorf("pool %s: %w", p.ID, err)
		}
		pools = append(pools, pool)
	}
	return pools, nil
}

func (p PoolConfig) spotPool() (*spot.Pool, error) {
	sqrtPrice, err := parseInt("sqrt_price_x64", p.SqrtPriceX64)
	if err != nil {
		return nil, err
	}
	sqrtPriceBits, err := clmm.ToU128(sqrtPrice)
	if err != nil {
		return nil, fmt.Errorf("sqrt_price_x64: %w", err)
	}
	liquidity, err := parseInt("liquidity", p.Liquidity)
	if err != nil {
		return nil, err
	}
	liquidityBits, err := clmm.ToU128(liquidity)
	if err != nil {
		return nil, fmt.Errorf("liquidity: %w", err)
	}

	ticks := make([]spot.Tick, 0, len(p.Ticks))
	for _, t := range p.Ticks {
		net, err := parseInt("liquidity_net", t.LiquidityNet)
		if err != nil {
			return nil, err
		}
		gross := net.Abs()
		if t.LiquidityGross != "" {
			if gross, err = parseInt("liquidity_gross", t.LiquidityGross); err != nil {
				return nil, err
			}
		}
		tick, err := spot.NewTick(t.Index, net, gross)
		if err != nil {
			return nil, err
		}
		ticks = append(ticks, tick)
	}

	return &spot.Pool{
		PoolId:       p.ID,
		Name:         p.Name,
		CoinA:        p.CoinA,
		CoinB:        p.CoinB,
		SqrtPriceX64: sqrtPriceBits,
		TickCurrent:  p.TickCurrent,
		Liquidity:    liquidityBits,
		FeeRate:      p.FeeRate,
		TickSpacing:  p.TickSpacing,
		Ticks:        ticks,
	}, nil
}

func parseInt(field, s string) (cosmath.Int, error) {
	v, ok := cosmath.NewIntFromString(s)
	if !ok {
		return cosmath.Int{}, fmt.Errorf("invalid %s: %q", field, s)
	}
	return v, nil
}
