package replay

import (
	"sort"

	"vault-analytics-lab/internal/domain"
)

// SortEvents orders events by (block number ASC, log index ASC). This is the
// ledger order the engine requires; fixtures assembled from multiple sources
// may arrive interleaved.
func SortEvents(events []*domain.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Block.Number != events[j].Block.Number {
			return events[i].Block.Number < events[j].Block.Number
		}
		return events[i].LogIndex < events[j].LogIndex
	})
}
