package catalog

import (
	"sync"

	"github.com/google/btree"
)

// Cache is an in-memory snapshot of the product table, indexed by id in a
// btree so storefront reads stay off the database between reloads. It is a
// read-through cache: the cart service reloads it whenever a cart is
// opened, so stock drift never outlives a cart open.
type Cache struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[Product]
}

func productLess(a, b Product) bool { return a.ID < b.ID }

func NewCache() *Cache {
	return &Cache{tree: btree.NewG[Product](8, productLess)}
}

// Reload replaces the snapshot with the given products.
func (c *Cache) Reload(products []Product) {
	tree := btree.NewG[Product](8, productLess)
	for _, p := range products {
		tree.ReplaceOrInsert(p)
	}
	c.mu.Lock()
	c.tree = tree
	c.mu.Unlock()
}

// Get returns the cached product by id.
func (c *Cache) Get(id int64) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree.Get(Product{ID: id})
}

// All returns the snapshot in ascending id order.
func (c *Cache) All() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Product, 0, c.tree.Len())
	c.tree.Ascend(func(p Product) bool {
		out = append(out, p)
		return true
	})
	return out
}

// Len returns the number of cached products.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree.Len()
}
