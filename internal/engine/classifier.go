package engine

import (
	"math/big"

	"vault-analytics-lab/internal/domain"
)

// SwapClass is the economic meaning of a vault swap event.
type SwapClass int

const (
	// SwapClassSwap is a genuine token-for-token trade.
	SwapClassSwap SwapClass = iota
	// SwapClassJoin is a phantom-pool deposit disguised as a swap: the pool's
	// own share token came out.
	SwapClassJoin
	// SwapClassExit is a phantom-pool withdrawal: the share token went in.
	SwapClassExit
)

// ClassifySwap resolves the phantom-pool ambiguity. Only phantom pools can
// reclassify; every other pool's swap is a genuine swap.
func ClassifySwap(pool *domain.Pool, tokenIn, tokenOut string) SwapClass {
	if !pool.PhantomPool {
		return SwapClassSwap
	}
	switch pool.Address {
	case tokenIn:
		return SwapClassExit
	case tokenOut:
		return SwapClassJoin
	default:
		return SwapClassSwap
	}
}

// BalanceClass is the direction of a vault balance-change event.
type BalanceClass int

const (
	// BalanceClassNoop carries no deltas.
	BalanceClassNoop BalanceClass = iota
	// BalanceClassJoin has a positive delta sum.
	BalanceClassJoin
	// BalanceClassExit has a zero or negative delta sum.
	BalanceClassExit
)

// ClassifyBalanceChange sums the delta vector: positive means join, zero or
// negative means exit, an empty vector is a no-op.
func ClassifyBalanceChange(deltas []domain.BigInt) BalanceClass {
	if len(deltas) == 0 {
		return BalanceClassNoop
	}
	total := new(big.Int)
	for _, d := range deltas {
		if d.Int != nil {
			total.Add(total, d.Int)
		}
	}
	if total.Sign() > 0 {
		return BalanceClassJoin
	}
	return BalanceClassExit
}
