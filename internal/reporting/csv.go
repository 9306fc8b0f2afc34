package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the per-pool lifetime metrics as a CSV string.
func RenderCSV(pools []PoolMetricRow) string {
	var sb strings.Builder

	sb.WriteString("pool_id,type,total_liquidity,diluted_liquidity,total_shares,")
	sb.WriteString("total_swap_volume,total_swap_fee,swap_count,holders_count\n")

	for _, p := range pools {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s,%d,%d\n",
			p.PoolID,
			p.Type,
			p.TotalLiquidity.String(),
			p.DilutedLiquidity.String(),
			p.TotalShares.String(),
			p.TotalSwapVolume.String(),
			p.TotalSwapFee.String(),
			p.SwapCount,
			p.HoldersCount,
		))
	}

	return sb.String()
}
