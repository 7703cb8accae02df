// Package cart implements the session shopping cart: an in-memory ledger
// that mirrors product stock, reserving units speculatively as lines are
// added and restoring them as lines shrink, plus the checkout hand-off
// that reconciles the ledger against the database.
package cart

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/vetsoftlabs/vetstore/internal/catalog"
)

var (
	ErrUnknownProduct = errors.New("cart: unknown product")
	ErrOutOfStock     = errors.New("cart: product out of stock")
	ErrNotInCart      = errors.New("cart: product not in cart")
)

// Line is one cart entry: a product and its reserved quantity (>= 1).
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Ledger tracks the lines of one cart together with the mirrored stock of
// every product it knows about. Mirrored stock never goes negative and
// never exceeds the value last fetched from the database: adds against an
// exhausted mirror are no-ops.
type Ledger struct {
	mu      sync.Mutex
	catalog map[int64]catalog.Product // product views with mirrored stock
	fetched map[int64]int             // stock as last read from the server
	lines   map[int64]*Line
	order   []int64 // line ids in insertion order
}

func NewLedger() *Ledger {
	return &Ledger{
		catalog: map[int64]catalog.Product{},
		fetched: map[int64]int{},
		lines:   map[int64]*Line{},
	}
}

// Refresh replaces the product snapshot with freshly fetched rows and
// recomputes every mirrored stock as fetched minus reserved, floored at
// zero. Reserved quantities are kept even when the server stock dropped
// below them; checkout is where that conflict surfaces.
func (l *Ledger) Refresh(products []catalog.Product) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range products {
		l.fetched[p.ID] = p.Stock
		reserved := 0
		if line, ok := l.lines[p.ID]; ok {
			reserved = line.Quantity
			line.Product = withStock(p, mirrored(p.Stock, reserved))
		}
		l.catalog[p.ID] = withStock(p, mirrored(p.Stock, reserved))
	}
}

func mirrored(fetched, reserved int) int {
	m := fetched - reserved
	if m < 0 {
		m = 0
	}
	return m
}

func withStock(p catalog.Product, stock int) catalog.Product {
	p.Stock = stock
	return p
}

// Add puts one unit of the product in the cart: a new line with quantity 1
// or one more on the existing line. The unit is taken from the mirrored
// stock; when the mirror is already 0 the call is a guarded no-op.
func (l *Ledger) Add(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reserveOne(id)
}

// Increment adds one unit to an existing line, with the same stock guard
// as Add.
func (l *Ledger) Increment(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.lines[id]; !ok {
		return ErrNotInCart
	}
	return l.reserveOne(id)
}

func (l *Ledger) reserveOne(id int64) error {
	p, ok := l.catalog[id]
	if !ok {
		return ErrUnknownProduct
	}
	if p.Stock <= 0 {
		return ErrOutOfStock
	}
	p.Stock--
	l.catalog[id] = p

	if line, ok := l.lines[id]; ok {
		line.Quantity++
		line.Product = p
		return nil
	}
	l.lines[id] = &Line{Product: p, Quantity: 1}
	l.order = append(l.order, id)
	return nil
}

// Decrement removes one unit from a line, restoring it to the mirrored
// stock. A line reaching quantity 0 is removed.
func (l *Ledger) Decrement(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	line, ok := l.lines[id]
	if !ok {
		return ErrNotInCart
	}
	l.restore(id, 1)
	line.Quantity--
	line.Product = l.catalog[id]
	if line.Quantity == 0 {
		l.dropLine(id)
	}
	return nil
}

// Remove deletes a line, restoring its entire reserved quantity.
func (l *Ledger) Remove(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	line, ok := l.lines[id]
	if !ok {
		return ErrNotInCart
	}
	l.restore(id, line.Quantity)
	l.dropLine(id)
	return nil
}

// restore gives qty units back to the mirrored stock, capped at the last
// fetched value.
func (l *Ledger) restore(id int64, qty int) {
	p, ok := l.catalog[id]
	if !ok {
		return
	}
	p.Stock += qty
	if limit, ok := l.fetched[id]; ok && p.Stock > limit {
		p.Stock = limit
	}
	l.catalog[id] = p
}

func (l *Ledger) dropLine(id int64) {
	delete(l.lines, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Lines returns the cart lines in insertion order.
func (l *Ledger) Lines() []Line {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Line, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.lines[id])
	}
	return out
}

// Total recomputes the cart total on every call.
func (l *Ledger) Total() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	var total float64
	for _, line := range l.lines {
		total += line.Product.Price * float64(line.Quantity)
	}
	return total
}

// MirroredStock returns the current mirrored stock of a product.
func (l *Ledger) MirroredStock(id int64) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.catalog[id]
	if !ok {
		return 0, false
	}
	return p.Stock, true
}

// Empty reports whether the cart has no lines.
func (l *Ledger) Empty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines) == 0
}

// Clear drops every line and restores all reserved stock.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, line := range l.lines {
		l.restore(id, line.Quantity)
	}
	l.lines = map[int64]*Line{}
	l.order = nil
}
