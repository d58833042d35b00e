package enrich

// NavItem points at a neighbouring record for prev/next links. The zero
// value marshals as {}.
type NavItem struct {
	ID    string `json:"id,omitempty"`
	Label string `json:"label,omitempty"`
}

type navigable interface {
	navItem() NavItem
	setNav(prev, next NavItem)
}

// addPrevNext links every item to its neighbours in slice order.
func addPrevNext[T navigable](items []T) {
	for i, item := range items {
		var prev, next NavItem
		if i > 0 {
			prev = items[i-1].navItem()
		}
		if i < len(items)-1 {
			next = items[i+1].navItem()
		}
		item.setNav(prev, next)
	}
}
