package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/silent-auction/internal/model"
)

func catalogue() []model.Item {
	return []model.Item{
		{ID: 1, Name: "Vintage Watch", Description: "A watch", StartingBid: 50, CurrentBid: 100},
		{ID: 2, Name: "Signed Ball", Description: "A ball", StartingBid: 20, CurrentBid: 20},
		{ID: 3, Name: "Painting", Description: "Oil on canvas", StartingBid: 200, CurrentBid: 310},
	}
}

func TestReplaceFromCatalogue(t *testing.T) {
	r := New()
	r.ReplaceFromCatalogue(catalogue())

	require.Equal(t, 3, r.Len())

	// Bids match the fetched values immediately after load.
	for _, want := range catalogue() {
		got, ok := r.Get(want.ID)
		require.True(t, ok, "item %d should be known", want.ID)
		assert.Equal(t, want.CurrentBid, got.CurrentBid)
		assert.GreaterOrEqual(t, got.CurrentBid, got.StartingBid)
	}

	// Catalogue order is preserved for rendering.
	items := r.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []int{items[0].ID, items[1].ID, items[2].ID}, []int{1, 2, 3})
}

func TestReplaceFromCatalogueDiscardsPrevious(t *testing.T) {
	r := New()
	r.ReplaceFromCatalogue(catalogue())
	r.ReplaceFromCatalogue([]model.Item{{ID: 9, Name: "Lamp", StartingBid: 5, CurrentBid: 5}})

	assert.Equal(t, 1, r.Len())
	_, ok := r.Get(1)
	assert.False(t, ok)
}

func TestApplyBidUpdate(t *testing.T) {
	r := New()
	r.ReplaceFromCatalogue(catalogue())

	ok := r.ApplyBidUpdate(2, 45)
	require.True(t, ok)

	item, _ := r.Get(2)
	assert.Equal(t, 45.0, item.CurrentBid)

	// Repeated updates keep increasing the price.
	r.ApplyBidUpdate(2, 50)
	item, _ = r.Get(2)
	assert.Equal(t, 50.0, item.CurrentBid)
}

func TestApplyBidUpdateUnknownItemIsNoOp(t *testing.T) {
	r := New()
	r.ReplaceFromCatalogue(catalogue())

	ok := r.ApplyBidUpdate(42, 999)
	assert.False(t, ok)

	// Registry size and all existing entries are unchanged.
	assert.Equal(t, 3, r.Len())
	for _, want := range catalogue() {
		got, _ := r.Get(want.ID)
		assert.Equal(t, want.CurrentBid, got.CurrentBid)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	r := New()
	r.ReplaceFromCatalogue(catalogue())

	item, _ := r.Get(1)
	item.CurrentBid = 9999

	fresh, _ := r.Get(1)
	assert.Equal(t, 100.0, fresh.CurrentBid)
}
