// Package catalog provides a stand-in for the external menu catalog
// service. Menus are owned by a separate system; this adapter serves a
// fixed in-memory snapshot of them.
package catalog

import (
	"context"
	"sync"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// StaticCatalog is an in-memory MenuCatalog keyed by restaurant. It is
// safe for concurrent use.
type StaticCatalog struct {
	mu    sync.RWMutex
	menus map[kernel.UUID]map[kernel.UUID]ports.MenuItem
}

// NewStaticCatalog creates an empty catalog.
func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{
		menus: make(map[kernel.UUID]map[kernel.UUID]ports.MenuItem),
	}
}

// Put adds or replaces one menu entry for the restaurant.
func (c *StaticCatalog) Put(restaurantID kernel.UUID, item ports.MenuItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.menus[restaurantID] == nil {
		c.menus[restaurantID] = make(map[kernel.UUID]ports.MenuItem)
	}
	c.menus[restaurantID][item.ID] = item
}

// GetItems resolves the requested item ids for one restaurant. A missing
// id fails the whole lookup.
func (c *StaticCatalog) GetItems(ctx context.Context, restaurantID kernel.UUID, ids []kernel.UUID) ([]ports.MenuItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	menu := c.menus[restaurantID]
	items := make([]ports.MenuItem, 0, len(ids))
	for _, id := range ids {
		item, ok := menu[id]
		if !ok {
			return nil, errs.NewObjectNotFoundError("menu item", id.String())
		}
		items = append(items, item)
	}

	return items, nil
}
