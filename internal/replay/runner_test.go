package replay

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"vault-analytics-lab/internal/domain"
)

type recordingSink struct {
	seen []string
	fail bool
}

func (s *recordingSink) Process(_ context.Context, ev *domain.Event) error {
	if s.fail {
		return context.Canceled
	}
	s.seen = append(s.seen, ev.TxHash)
	return nil
}

func TestReadEvents_SkipsBlankAndComments(t *testing.T) {
	fixture := `
# warm-up transfer
{"kind":"Transfer","poolId":"p1","block":{"number":10,"timestamp":1000},"txHash":"0xa","logIndex":0,"transfer":{"from":"0x0000000000000000000000000000000000000000","to":"0xu1","value":"1000"}}

{"kind":"Swap","poolId":"p1","block":{"number":11,"timestamp":1010},"txHash":"0xb","logIndex":2,"swap":{"tokenIn":"0x1","tokenOut":"0x2","amountIn":"5","amountOut":"6","sender":"0xu1"}}
`
	events, err := ReadEvents(strings.NewReader(fixture))
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, domain.EventTransfer, events[0].Kind)
	require.Equal(t, "1000", events[0].Transfer.Value.String())
	require.Equal(t, domain.EventSwap, events[1].Kind)
	require.Equal(t, uint(2), events[1].LogIndex)
}

func TestReadEvents_RejectsMalformed(t *testing.T) {
	_, err := ReadEvents(strings.NewReader(`{"poolId":"p1"}`))
	require.ErrorContains(t, err, "no kind")

	_, err = ReadEvents(strings.NewReader(`{broken`))
	require.ErrorContains(t, err, "line 1")
}

func TestRunner_SortsIntoLedgerOrder(t *testing.T) {
	events := []*domain.Event{
		{Kind: domain.EventSwap, TxHash: "c", Block: domain.Block{Number: 12, Timestamp: 30}, LogIndex: 0},
		{Kind: domain.EventSwap, TxHash: "a", Block: domain.Block{Number: 10, Timestamp: 10}, LogIndex: 1},
		{Kind: domain.EventSwap, TxHash: "b", Block: domain.Block{Number: 10, Timestamp: 10}, LogIndex: 4},
	}

	sink := &recordingSink{}
	stats, err := NewRunner(sink).Run(context.Background(), events)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, sink.seen)
	require.Equal(t, 3, stats.TotalEvents)
	require.Equal(t, 3, stats.Swaps)
	require.Equal(t, int64(10), stats.FirstBlock)
	require.Equal(t, int64(12), stats.LastBlock)
	require.Equal(t, int64(30), stats.LastTimestamp)
}

func TestRunner_StopsOnSinkError(t *testing.T) {
	events := []*domain.Event{
		{Kind: domain.EventSwap, Block: domain.Block{Number: 1}},
	}
	_, err := NewRunner(&recordingSink{fail: true}).Run(context.Background(), events)
	require.ErrorIs(t, err, context.Canceled)
}
