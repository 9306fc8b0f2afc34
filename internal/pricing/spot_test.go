package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"vault-analytics-lab/internal/domain"
)

func TestSpotPrice_Weighted(t *testing.T) {
	// 100 in at weight 0.8 for 40 out at weight 0.2:
	// (100/0.8)/(40/0.2) = 0.625
	price, fallback := SpotPrice(domain.PoolTypeWeighted,
		decimal.NewFromInt(100), mustDec(t, "0.8"),
		decimal.NewFromInt(40), mustDec(t, "0.2"))
	require.False(t, fallback)
	require.True(t, price.Equal(mustDec(t, "0.625")))
}

func TestSpotPrice_WeightedZeroWeightFallback(t *testing.T) {
	price, fallback := SpotPrice(domain.PoolTypeWeighted,
		decimal.NewFromInt(100), decimal.Zero,
		decimal.NewFromInt(40), mustDec(t, "0.2"))
	require.True(t, fallback)
	require.True(t, price.Equal(mustDec(t, "2.5")))
}

func TestSpotPrice_AmountRatio(t *testing.T) {
	for _, typ := range []domain.PoolType{
		domain.PoolTypeStable,
		domain.PoolTypeStablePhantom,
		domain.PoolTypeMetaStable,
		domain.PoolTypeLiquidityBootstrapping,
	} {
		price, fallback := SpotPrice(typ,
			decimal.NewFromInt(100), mustDec(t, "0.8"),
			decimal.NewFromInt(40), mustDec(t, "0.2"))
		require.False(t, fallback, "pool type %s", typ)
		require.True(t, price.Equal(mustDec(t, "2.5")), "pool type %s", typ)
	}
}
