// Package config loads engine configuration from a config file and
// environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds the pricing-asset tables and runtime settings. Asset lists are
// ordered by preference: the first stable asset with an observed rate wins.
type Config struct {
	// StableAssets are treated as 1:1 with USD.
	StableAssets []string
	// PricingAssets extends StableAssets with blue-chip reference tokens.
	// Spot prices are only recorded against assets on this combined list.
	PricingAssets []string
	// NestedLinearAssets are share tokens of linear wrapping pools, priced
	// recursively through their main underlying token.
	NestedLinearAssets []string
	// MinViableLiquidity is the USD floor below which a pool's swaps do not
	// produce token prices.
	MinViableLiquidity decimal.Decimal
	// MaxPricingDepth bounds the nested-linear recursion.
	MaxPricingDepth int

	PostgresDSN string
	LogLevel    string
}

// AllPricingAssets returns the stable set followed by the extra pricing
// assets, preserving preference order.
func (c Config) AllPricingAssets() []string {
	out := make([]string, 0, len(c.StableAssets)+len(c.PricingAssets))
	out = append(out, c.StableAssets...)
	out = append(out, c.PricingAssets...)
	return out
}

// Load merges config file and environment variables into Config.
func Load(cfgFile string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VAULT_ANALYTICS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("min-viable-liquidity", "2000")
	v.SetDefault("max-pricing-depth", 4)
	v.SetDefault("log-level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	minLiquidity, err := decimal.NewFromString(v.GetString("min-viable-liquidity"))
	if err != nil {
		return Config{}, fmt.Errorf("parse min-viable-liquidity: %w", err)
	}

	cfg := Config{
		StableAssets:       lower(v.GetStringSlice("stable-assets")),
		PricingAssets:      lower(v.GetStringSlice("pricing-assets")),
		NestedLinearAssets: lower(v.GetStringSlice("nested-linear-assets")),
		MinViableLiquidity: minLiquidity,
		MaxPricingDepth:    v.GetInt("max-pricing-depth"),
		PostgresDSN:        v.GetString("postgres-dsn"),
		LogLevel:           v.GetString("log-level"),
	}

	// A run without explicit asset tables gets the built-in ones; an empty
	// stable set would make every USD valuation zero.
	if len(cfg.StableAssets) == 0 {
		def := Default()
		cfg.StableAssets = def.StableAssets
		if len(cfg.PricingAssets) == 0 {
			cfg.PricingAssets = def.PricingAssets
		}
	}

	return cfg, nil
}

func lower(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(strings.TrimSpace(s))
	}
	return out
}
