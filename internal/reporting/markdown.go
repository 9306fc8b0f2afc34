package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Vault Analytics Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Pools: %d\n\n", r.PoolCount))

	sb.WriteString("## Protocol Totals\n\n")
	if r.Vault.Present {
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Total Liquidity (USD) | %s |\n", r.Vault.TotalLiquidity.String()))
		sb.WriteString(fmt.Sprintf("| Total Swap Volume (USD) | %s |\n", r.Vault.TotalSwapVolume.String()))
		sb.WriteString(fmt.Sprintf("| Total Swap Fees (USD) | %s |\n", r.Vault.TotalSwapFee.String()))
		sb.WriteString(fmt.Sprintf("| Swap Count | %d |\n", r.Vault.SwapCount))
		sb.WriteString("\n")
	} else {
		sb.WriteString("No liquidity committed yet.\n\n")
	}

	sb.WriteString("## Pool Metrics\n\n")
	if len(r.Pools) > 0 {
		sb.WriteString("| Pool | Type | Liquidity | Diluted | Shares | Volume | Fees | Swaps | Holders |\n")
		sb.WriteString("|------|------|-----------|---------|--------|--------|------|-------|--------|\n")
		for _, p := range r.Pools {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %d | %d |\n",
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
		sb.WriteString("\n")
	} else {
		sb.WriteString("No pools registered.\n\n")
	}

	return sb.String()
}
