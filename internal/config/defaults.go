package config

import "github.com/shopspring/decimal"

// Default returns a configuration preloaded with the Fantom asset tables.
// Addresses are lowercase; lookups elsewhere normalize before comparing.
func Default() Config {
	return Config{
		StableAssets: []string{
			"0x04068da6c83afcfa0e13ba15a6696662335d5b75", // USDC
			"0x049d68029688eabf473097a2fc38ef61633a3c7a", // fUSDT
			"0x8d11ec38a3eb5e956b052f67da8bdc9bef8abf3e", // DAI
		},
		PricingAssets: []string{
			"0x21be370d5312f44cb42ce377bc9b8a0cef1a4c83", // WFTM
			"0x74b23882a30290451a17c44f4f05243b6b58c76d", // WETH
			"0x321162cd933e2be498cd2267a90534a804051b11", // WBTC
		},
		NestedLinearAssets: nil,
		MinViableLiquidity: decimal.NewFromInt(2000),
		MaxPricingDepth:    4,
		LogLevel:           "info",
	}
}
