package navigator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandDepth(t *testing.T) {
	n, _, a, _ := newScenario(t)
	ctx := context.Background()

	require.NoError(t, n.ExpandDepth(ctx, a, 1))
	assert.Equal(t, []string{"A", "Z", "X", "Y", "B"}, names(n.Entries()))

	// going one level deeper keeps what is open and descends into the children
	require.NoError(t, n.ExpandDepth(ctx, a, 2))
	entries := n.Entries()
	assert.Equal(t, []string{"A", "Z", "A", "X", "T", "A", "Y", "A", "B"}, names(entries))
	for _, e := range entries[1:8] {
		assert.Greater(t, e.IndentLevel, 0)
	}
	assert.Equal(t, 2, entries[2].IndentLevel)
}

func TestExpandDepth_ZeroIsNoop(t *testing.T) {
	n, g, a, _ := newScenario(t)
	require.NoError(t, n.ExpandDepth(context.Background(), a, 0))
	summaryCalls, recordsCalls := g.calls()
	assert.Zero(t, summaryCalls+recordsCalls)
}

func TestExpandDepth_CollectsBranchFailures(t *testing.T) {
	n, g, a, _ := newScenario(t)
	g.RecordsErr = errors.New("boom")

	err := n.ExpandDepth(context.Background(), a, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	// summary was opened, no children were inserted
	assert.True(t, n.Entries()[0].Expanded)
	assert.Len(t, n.Entries(), 2)
}

func TestExpandDepth_CancelledContext(t *testing.T) {
	n, _, a, _ := newScenario(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, n.ExpandDepth(ctx, a, 3), context.Canceled)
	assert.Len(t, n.Entries(), 2)
}
