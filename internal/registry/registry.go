package registry

import "github.com/nhle/silent-auction/internal/model"

// Registry is the in-memory store of known auction items and the single
// mutation point for price data. Items enter only through the catalogue
// fetch; push updates mutate existing entries in place. The Bubble Tea
// runtime serializes all access, so no locking is needed.
type Registry struct {
	items map[int]*model.Item

	// order preserves catalogue order for rendering.
	order []int
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		items: make(map[int]*model.Item),
	}
}

// ReplaceFromCatalogue installs the full item set from a catalogue fetch,
// discarding anything previously known. Catalogue order is preserved.
func (r *Registry) ReplaceFromCatalogue(items []model.Item) {
	r.items = make(map[int]*model.Item, len(items))
	r.order = make([]int, 0, len(items))

	for i := range items {
		item := items[i]
		r.items[item.ID] = &item
		r.order = append(r.order, item.ID)
	}
}

// ApplyBidUpdate sets the current bid for an existing item. Updates for
// unknown ids are dropped: the registry never materializes items from push
// data, only from the catalogue fetch. Returns whether the item was known.
func (r *Registry) ApplyBidUpdate(itemID int, amount float64) bool {
	item, ok := r.items[itemID]
	if !ok {
		return false
	}
	item.CurrentBid = amount
	return true
}

// Get returns a copy of the item with the given id.
func (r *Registry) Get(itemID int) (model.Item, bool) {
	item, ok := r.items[itemID]
	if !ok {
		return model.Item{}, false
	}
	return *item, true
}

// Items returns copies of all known items in catalogue order.
func (r *Registry) Items() []model.Item {
	items := make([]model.Item, 0, len(r.order))
	for _, id := range r.order {
		items = append(items, *r.items[id])
	}
	return items
}

// Len returns the number of known items.
func (r *Registry) Len() int {
	return len(r.items)
}
