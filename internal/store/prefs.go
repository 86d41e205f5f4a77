// internal/store/prefs.go
package store

import (
	"sync"

	"github.com/nexuscatalog/storefront-go/internal/api"
)

// Prefs holds UI-local state: sidebar visibility, the active sort key
// and the committed filter selection. The catalog view is the only
// writer of sort and filters so the offset-reset invariant stays in one
// place.
type Prefs struct {
	mu          sync.Mutex
	sidebarOpen bool
	sort        api.SortKey
	filters     api.Filters
}

// NewPrefs returns prefs with the default sort (newest first) and no
// filters.
func NewPrefs() *Prefs {
	return &Prefs{sort: api.SortNewest}
}

// ToggleSidebar flips sidebar visibility and returns the new state.
func (p *Prefs) ToggleSidebar() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sidebarOpen = !p.sidebarOpen
	return p.sidebarOpen
}

// SidebarOpen reports sidebar visibility.
func (p *Prefs) SidebarOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sidebarOpen
}

// Sort returns the active sort key.
func (p *Prefs) Sort() api.SortKey {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sort
}

// SetSort stores the active sort key. Unknown keys fall back to the
// default ordering.
func (p *Prefs) SetSort(key api.SortKey) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !key.Valid() {
		key = api.SortNewest
	}
	p.sort = key
}

// Filters returns the committed filter selection.
func (p *Prefs) Filters() api.Filters {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filters
}

// SetFilters replaces the committed filter selection.
func (p *Prefs) SetFilters(filters api.Filters) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filters = filters
}
