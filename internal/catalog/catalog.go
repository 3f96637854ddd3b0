// Package catalog holds the items available to a negotiation.
package catalog

import (
	"fmt"

	"github.com/lorenzotomasdiez/argue/internal/preferences"
)

// Registry holds a de-duplicated list of items in insertion order.
type Registry struct {
	items []preferences.Item
	index map[string]int
}

// NewRegistry creates a registry. Items with an empty name are dropped, and
// only the first item of a given name is kept.
func NewRegistry(items []preferences.Item) *Registry {
	r := &Registry{index: make(map[string]int)}
	for _, item := range items {
		if item.Name == "" {
			continue
		}
		if _, ok := r.index[item.Name]; ok {
			continue
		}
		r.index[item.Name] = len(r.items)
		r.items = append(r.items, item)
	}
	return r
}

// Items returns all items in the registry.
func (r *Registry) Items() []preferences.Item {
	return append([]preferences.Item(nil), r.items...)
}

// Len returns the number of items.
func (r *Registry) Len() int {
	return len(r.items)
}

// Lookup finds an item by name.
func (r *Registry) Lookup(name string) (preferences.Item, bool) {
	i, ok := r.index[name]
	if !ok {
		return preferences.Item{}, false
	}
	return r.items[i], true
}

// Select returns n items: the first n of the registry, followed by generated
// placeholder items when n exceeds what is available.
func (r *Registry) Select(n int) []preferences.Item {
	if n <= 0 {
		return nil
	}
	selected := make([]preferences.Item, 0, n)
	for i := 0; i < n && i < len(r.items); i++ {
		selected = append(selected, r.items[i])
	}
	for k := len(selected) + 1; len(selected) < n; k++ {
		name := fmt.Sprintf("item%d", k)
		if _, taken := r.index[name]; taken {
			continue
		}
		selected = append(selected, preferences.NewItem(name, ""))
	}
	return selected
}

// DefaultItems returns the built-in engine catalogue.
func DefaultItems() []preferences.Item {
	return []preferences.Item{
		preferences.NewItem("Diesel Engine", "A super cool diesel engine"),
		preferences.NewItem("Electric Engine", "A very quiet engine"),
		preferences.NewItem("Hydrogen Engine", "A futuristic engine"),
		preferences.NewItem("Nuclear Engine", "A very powerful yet dangerous engine"),
	}
}
