package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetsoftlabs/vetstore/internal/catalog"
)

func snapshot() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Description: "Alimento 3kg", Price: 100, Stock: 2},
		{ID: 2, Description: "Pelota", Price: 40, Stock: 5},
		{ID: 3, Description: "Shampoo", Price: 25, Stock: 0},
	}
}

func newTestLedger() *Ledger {
	l := NewLedger()
	l.Refresh(snapshot())
	return l
}

func TestAddReservesFromMirror(t *testing.T) {
	l := newTestLedger()
	require.NoError(t, l.Add(1))

	stock, ok := l.MirroredStock(1)
	require.True(t, ok)
	assert.Equal(t, 1, stock)

	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestAddGuardAtZeroMirror(t *testing.T) {
	// Stock 2: two adds succeed, the third is a guarded no-op.
	l := newTestLedger()
	require.NoError(t, l.Add(1))
	require.NoError(t, l.Increment(1))
	assert.ErrorIs(t, l.Increment(1), ErrOutOfStock)

	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	stock, _ := l.MirroredStock(1)
	assert.Equal(t, 0, stock)
}

func TestAddUnknownProduct(t *testing.T) {
	l := newTestLedger()
	assert.ErrorIs(t, l.Add(99), ErrUnknownProduct)
}

func TestAddExhaustedProduct(t *testing.T) {
	l := newTestLedger()
	assert.ErrorIs(t, l.Add(3), ErrOutOfStock)
	assert.Empty(t, l.Lines())
}

func TestIncrementNeedsLine(t *testing.T) {
	l := newTestLedger()
	assert.ErrorIs(t, l.Increment(2), ErrNotInCart)
}

func TestDecrementRestoresAndDropsAtZero(t *testing.T) {
	l := newTestLedger()
	require.NoError(t, l.Add(1))
	require.NoError(t, l.Increment(1))

	require.NoError(t, l.Decrement(1))
	stock, _ := l.MirroredStock(1)
	assert.Equal(t, 1, stock)
	assert.Len(t, l.Lines(), 1)

	require.NoError(t, l.Decrement(1))
	stock, _ = l.MirroredStock(1)
	assert.Equal(t, 2, stock)
	assert.Empty(t, l.Lines())

	assert.ErrorIs(t, l.Decrement(1), ErrNotInCart)
}

func TestRemoveRestoresWholeQuantity(t *testing.T) {
	l := newTestLedger()
	require.NoError(t, l.Add(2))
	require.NoError(t, l.Increment(2))
	require.NoError(t, l.Increment(2))

	require.NoError(t, l.Remove(2))
	stock, _ := l.MirroredStock(2)
	assert.Equal(t, 5, stock)
	assert.Empty(t, l.Lines())
}

func TestConservationInvariant(t *testing.T) {
	// mirrored + reserved == fetched, through any sequence of operations.
	l := newTestLedger()
	check := func() {
		reserved := 0
		for _, line := range l.Lines() {
			if line.Product.ID == 2 {
				reserved = line.Quantity
			}
		}
		stock, _ := l.MirroredStock(2)
		assert.Equal(t, 5, stock+reserved)
	}

	require.NoError(t, l.Add(2))
	check()
	require.NoError(t, l.Increment(2))
	check()
	require.NoError(t, l.Decrement(2))
	check()
	require.NoError(t, l.Increment(2))
	require.NoError(t, l.Increment(2))
	check()
	require.NoError(t, l.Remove(2))
	check()
}

func TestRefreshRecomputesMirror(t *testing.T) {
	l := newTestLedger()
	require.NoError(t, l.Add(1))

	// Server stock dropped to 1 while one unit is reserved here.
	l.Refresh([]catalog.Product{{ID: 1, Description: "Alimento 3kg", Price: 100, Stock: 1}})
	stock, _ := l.MirroredStock(1)
	assert.Equal(t, 0, stock)

	// The reserved line survives; checkout is where the conflict surfaces.
	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestRefreshFloorsMirrorAtZero(t *testing.T) {
	l := newTestLedger()
	require.NoError(t, l.Add(1))
	require.NoError(t, l.Increment(1))

	l.Refresh([]catalog.Product{{ID: 1, Stock: 1}})
	stock, _ := l.MirroredStock(1)
	assert.Equal(t, 0, stock)
}

func TestRestoreCappedAtFetched(t *testing.T) {
	l := newTestLedger()
	require.NoError(t, l.Add(1))
	require.NoError(t, l.Increment(1))

	// Server stock shrank below what was reserved; removing the line must
	// not inflate the mirror past the latest fetched value.
	l.Refresh([]catalog.Product{{ID: 1, Stock: 1}})
	require.NoError(t, l.Remove(1))
	stock, _ := l.MirroredStock(1)
	assert.Equal(t, 1, stock)
}

func TestLinesKeepInsertionOrder(t *testing.T) {
	l := newTestLedger()
	require.NoError(t, l.Add(2))
	require.NoError(t, l.Add(1))

	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(2), lines[0].Product.ID)
	assert.Equal(t, int64(1), lines[1].Product.ID)
}

func TestTotalRecomputed(t *testing.T) {
	l := newTestLedger()
	require.NoError(t, l.Add(1))
	require.NoError(t, l.Add(2))
	require.NoError(t, l.Increment(2))
	assert.Equal(t, 180.0, l.Total())

	require.NoError(t, l.Decrement(2))
	assert.Equal(t, 140.0, l.Total())
}

func TestClearRestoresEverything(t *testing.T) {
	l := newTestLedger()
	require.NoError(t, l.Add(1))
	require.NoError(t, l.Add(2))
	require.NoError(t, l.Increment(2))

	l.Clear()
	assert.True(t, l.Empty())
	s1, _ := l.MirroredStock(1)
	s2, _ := l.MirroredStock(2)
	assert.Equal(t, 2, s1)
	assert.Equal(t, 5, s2)
}
