package domain

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// EventKind discriminates the normalized ledger events the engine consumes.
type EventKind string

const (
	EventPoolRegistered        EventKind = "PoolRegistered"
	EventSwap                  EventKind = "Swap"
	EventBalanceChanged        EventKind = "BalanceChanged"
	EventTransfer              EventKind = "Transfer"
	EventWeightUpdateScheduled EventKind = "WeightUpdateScheduled"
	EventAmpUpdateStarted      EventKind = "AmpUpdateStarted"
	EventAmpUpdateStopped      EventKind = "AmpUpdateStopped"
	EventFeeChanged            EventKind = "FeeChanged"
	EventSwapEnabledSet        EventKind = "SwapEnabledSet"
	EventManagementFeeChanged  EventKind = "ManagementFeeChanged"
)

// Block carries the ledger position an event was emitted at.
type Block struct {
	Number    uint64 `json:"number"`
	Timestamp int64  `json:"timestamp"`
}

// BigInt is a raw fixed-point ledger integer. It marshals as a decimal string
// so fixture files round-trip without precision loss.
type BigInt struct {
	*big.Int
}

// NewBigInt wraps an int64 for tests and fixtures.
func NewBigInt(v int64) BigInt { return BigInt{big.NewInt(v)} }

// MustBigInt parses a decimal string. Raw 18-decimal token amounts routinely
// exceed int64 range, so tests and fixtures build them from strings. Panics
// on malformed input.
func MustBigInt(s string) BigInt {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic(fmt.Sprintf("malformed big integer %q", s))
	}
	return BigInt{v}
}

// MarshalJSON encodes the value as a decimal string.
func (b BigInt) MarshalJSON() ([]byte, error) {
	if b.Int == nil {
		return []byte(`"0"`), nil
	}
	return []byte(`"` + b.String() + `"`), nil
}

// UnmarshalJSON decodes a decimal string (quoted or bare).
func (b *BigInt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("invalid big integer %q", s)
	}
	b.Int = v
	return nil
}

// IsZero reports whether the value is unset or zero.
func (b BigInt) IsZero() bool { return b.Int == nil || b.Int.Sign() == 0 }

// Event is one normalized ledger event. Exactly one params field matching
// Kind is set. Events are delivered strictly ordered by (block, logIndex),
// without duplicates.
type Event struct {
	Kind     EventKind `json:"kind"`
	PoolID   string    `json:"poolId"`
	Block    Block     `json:"block"`
	TxHash   string    `json:"txHash"`
	LogIndex uint      `json:"logIndex"`

	PoolRegistered *PoolRegisteredParams `json:"poolRegistered,omitempty"`
	Swap           *SwapParams           `json:"swap,omitempty"`
	BalanceChanged *BalanceChangedParams `json:"balanceChanged,omitempty"`
	Transfer       *TransferParams       `json:"transfer,omitempty"`
	WeightUpdate   *WeightUpdateParams   `json:"weightUpdate,omitempty"`
	AmpUpdate      *AmpUpdateParams      `json:"ampUpdate,omitempty"`
	FeeChanged     *FeeChangedParams     `json:"feeChanged,omitempty"`
	SwapEnabled    *SwapEnabledParams    `json:"swapEnabled,omitempty"`
	ManagementFee  *ManagementFeeParams  `json:"managementFee,omitempty"`
}

// TokenInfo describes one registered token at pool-creation time.
type TokenInfo struct {
	Address  string `json:"address"`
	Decimals int32  `json:"decimals"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
}

// PoolRegisteredParams creates the pool, its tokens and its swap config.
type PoolRegisteredParams struct {
	PoolAddress string            `json:"poolAddress"`
	PoolType    PoolType          `json:"poolType"`
	PhantomPool bool              `json:"phantomPool"`
	MainIndex   int               `json:"mainIndex"`
	Tokens      []TokenInfo       `json:"tokens"`
	Weights     []decimal.Decimal `json:"weights,omitempty"` // normalized, aligned with Tokens
	SwapFee     decimal.Decimal   `json:"swapFee"`
	Owner       string            `json:"owner"`
}

// SwapParams carries one vault swap leg. Amounts are raw fixed-point integers
// in each token's native decimals.
type SwapParams struct {
	TokenIn   string `json:"tokenIn"`
	TokenOut  string `json:"tokenOut"`
	AmountIn  BigInt `json:"amountIn"`
	AmountOut BigInt `json:"amountOut"`
	Sender    string `json:"sender"`
}

// BalanceChangedParams carries a vault-level balance delta vector, aligned
// with the pool's token list. Positive sum is a join, otherwise an exit.
type BalanceChangedParams struct {
	LiquidityProvider string   `json:"liquidityProvider"`
	Deltas            []BigInt `json:"deltas"`
}

// TransferParams carries a BPT transfer. From==ZeroAddress is a mint,
// To==ZeroAddress is a burn.
type TransferParams struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Value BigInt `json:"value"`
}

// WeightUpdateParams schedules a gradual weight interpolation.
type WeightUpdateParams struct {
	StartTimestamp int64 `json:"startTimestamp"`
	EndTimestamp   int64 `json:"endTimestamp"`
}

// AmpUpdateParams schedules (or stops) a gradual amplification update.
type AmpUpdateParams struct {
	StartTimestamp int64 `json:"startTimestamp"`
	EndTimestamp   int64 `json:"endTimestamp"`
}

// FeeChangedParams carries a swap-fee change, raw 1e18-scaled fraction.
type FeeChangedParams struct {
	SwapFeePercentage BigInt `json:"swapFeePercentage"`
}

// SwapEnabledParams toggles trading on the pool.
type SwapEnabledParams struct {
	Enabled bool `json:"enabled"`
}

// ManagementFeeParams carries a management-fee change, raw 1e18-scaled.
type ManagementFeeParams struct {
	ManagementFeePercentage BigInt `json:"managementFeePercentage"`
}
