package domain

import "github.com/shopspring/decimal"

// PoolType identifies the AMM family a pool belongs to. The set is closed:
// pricing and valuation formulas switch exhaustively over it.
type PoolType string

const (
	PoolTypeWeighted               PoolType = "Weighted"
	PoolTypeStable                 PoolType = "Stable"
	PoolTypeMetaStable             PoolType = "MetaStable"
	PoolTypeStablePhantom          PoolType = "StablePhantom"
	PoolTypeComposableStable       PoolType = "ComposableStable"
	PoolTypeLinear                 PoolType = "Linear"
	PoolTypeInvestment             PoolType = "Investment"
	PoolTypeLiquidityBootstrapping PoolType = "LiquidityBootstrapping"
	PoolTypeGyro2                  PoolType = "Gyro2"
	PoolTypeGyro3                  PoolType = "Gyro3"
	PoolTypeFX                     PoolType = "FX"
	PoolTypeElement                PoolType = "Element"
)

// WeightedFamily reports whether the pool prices trades with normalized
// weights, which also means the weights may change over time.
func (t PoolType) WeightedFamily() bool {
	switch t {
	case PoolTypeWeighted, PoolTypeInvestment, PoolTypeLiquidityBootstrapping:
		return true
	default:
		return false
	}
}

// StableLike reports whether the pool uses an amplification parameter.
func (t PoolType) StableLike() bool {
	switch t {
	case PoolTypeStable, PoolTypeMetaStable, PoolTypeStablePhantom, PoolTypeComposableStable:
		return true
	default:
		return false
	}
}

// VirtualSupply reports whether the pool pre-mints its entire share supply and
// keeps it inside its own token list.
func (t PoolType) VirtualSupply() bool {
	switch t {
	case PoolTypeStablePhantom, PoolTypeComposableStable, PoolTypeLinear:
		return true
	default:
		return false
	}
}

// Pool is the registration-time description of a pool. Created once when the
// factory registers the pool, mutated only through parameter-change events,
// never deleted.
type Pool struct {
	ID             string   // vault-scoped pool id (opaque hex)
	Address        string   // pool contract address; also the BPT token address
	Type           PoolType
	PhantomPool    bool     // share token is tradable inside the pool's own token list
	TokenAddresses []string // ordered, fixed at creation
	MainIndex      int      // linear pools: index of the main (underlying) token
	Amp            decimal.Decimal
	Owner          string
}

// HasVirtualSupply reports whether the pool's own share token must be excluded
// from valuation sums.
func (p *Pool) HasVirtualSupply() bool {
	return p.PhantomPool || p.Type.VirtualSupply()
}

// PoolToken is the per-(pool, token) balance record. Weight is the cached
// normalized weight for weighted-family pools, zero otherwise.
type PoolToken struct {
	PoolID    string
	Address   string
	Balance   decimal.Decimal
	Weight    decimal.Decimal
	PriceRate decimal.Decimal
	SwapCount int64
}

// SwapConfig holds the pool's trading parameters. Fee is a fraction in [0,1].
type SwapConfig struct {
	PoolID        string
	Fee           decimal.Decimal
	SwapEnabled   bool
	ManagementFee decimal.Decimal
}
