package domain

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMustBigInt_BeyondInt64Range(t *testing.T) {
	// 480 tokens at 18 decimals does not fit an int64.
	raw := "480000000000000000000"
	v := MustBigInt(raw)
	require.Equal(t, raw, v.String())
	require.Equal(t, 1, v.Cmp(big.NewInt(math.MaxInt64)))

	require.Panics(t, func() { MustBigInt("not-a-number") })
}
