package domain

import "github.com/shopspring/decimal"

// TokenPrice is the last observed exchange rate of Token denominated in
// PricingAsset. Records are directional: the (A, B) and (B, A) rates are
// computed from different swap legs and stored independently. A record is
// created lazily on the first qualifying trade; absence means no rate has been
// observed yet.
type TokenPrice struct {
	Token        string // token being priced
	PricingAsset string // reference asset the price is denominated in
	Price        decimal.Decimal
	PriceUSD     decimal.Decimal
	Amount       decimal.Decimal // size of the trade that produced the price
	Timestamp    int64
	Block        uint64
}

// LatestTokenPrice is the per-token USD price singleton for fast lookup.
type LatestTokenPrice struct {
	Token    string
	PriceUSD decimal.Decimal
}

// HourlyTokenPrice is the per-(token, hour) rolling price summary.
// AvgPriceUSD is a running mean over DataPoints observations.
type HourlyTokenPrice struct {
	Token       string
	Hour        int64 // timestamp / 3600
	StartTime   int64
	AvgPriceUSD decimal.Decimal
	EndPriceUSD decimal.Decimal
	DataPoints  decimal.Decimal
}
