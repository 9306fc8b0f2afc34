package scale

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDown(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		decimals int32
		want     string
	}{
		{"18 decimals", "1500000000000000000", 18, "1.5"},
		{"6 decimals", "1000000", 6, "1"},
		{"zero decimals", "42", 0, "42"},
		{"negative amount", "-2500000", 6, "-2.5"},
		{"full precision", "1", 18, "0.000000000000000001"},
		{"zero", "0", 18, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, ok := new(big.Int).SetString(tt.raw, 10)
			if !ok {
				t.Fatalf("bad fixture %q", tt.raw)
			}
			got := Down(raw, tt.decimals)
			assert.True(t, got.Equal(mustDecimal(t, tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestDown_NilAmount(t *testing.T) {
	assert.True(t, Down(nil, 18).IsZero())
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}
