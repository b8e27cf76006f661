package model

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnresolved marks a Name referenced by the metadata that is absent
// from the catalog. Always fatal for the enclosing namespace.
var ErrUnresolved = errors.New("unresolved reference")

// Catalog is the read-only collection of introspected API items for
// one or more namespaces. Built once by the loader, never mutated
// during a generation pass.
type Catalog struct {
	items map[Name]API
	order []Name // insertion order, the metadata's declared order
}

func NewCatalog(items ...API) *Catalog {
	c := &Catalog{items: make(map[Name]API, len(items))}
	for _, it := range items {
		c.Add(it)
	}
	return c
}

// Add registers an item. A duplicate Name replaces the earlier entry,
// keeping its original position.
func (c *Catalog) Add(item API) {
	n := item.ItemName()
	if _, ok := c.items[n]; !ok {
		c.order = append(c.order, n)
	}
	c.items[n] = item
}

func (c *Catalog) Lookup(n Name) (API, bool) {
	it, ok := c.items[n]
	return it, ok
}

// Resolve looks up a referenced Name, failing with ErrUnresolved when
// the catalog has no such item.
func (c *Catalog) Resolve(n Name) (API, error) {
	it, ok := c.items[n]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolved, n)
	}
	return it, nil
}

// Object resolves a Name that must denote an object item.
func (c *Catalog) Object(n Name) (Object, error) {
	it, err := c.Resolve(n)
	if err != nil {
		return Object{}, err
	}
	obj, ok := it.(Object)
	if !ok {
		return Object{}, fmt.Errorf("%s: not an object (%T)", n, it)
	}
	return obj, nil
}

// Namespace returns the items declared in one namespace, in declared
// order.
func (c *Catalog) Namespace(ns string) []API {
	out := make([]API, 0, len(c.order))
	for _, n := range c.order {
		if n.Namespace == ns {
			out = append(out, c.items[n])
		}
	}
	return out
}

// Namespaces lists every namespace present, sorted.
func (c *Catalog) Namespaces() []string {
	seen := make(map[string]bool)
	for _, n := range c.order {
		seen[n.Namespace] = true
	}
	out := make([]string, 0, len(seen))
	for ns := range seen {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Names returns every registered Name in declared order.
func (c *Catalog) Names() []Name {
	return append([]Name(nil), c.order...)
}

// FreeSymbols indexes the linker symbols of every free function across
// the whole catalog. Interface-declared methods sharing a symbol with
// a free function are suppressed against this index; matching is
// deliberately global rather than namespace-scoped.
func (c *Catalog) FreeSymbols() map[string]Name {
	out := make(map[string]Name)
	for _, n := range c.order {
		if fn, ok := c.items[n].(Function); ok && fn.Symbol != "" {
			out[fn.Symbol] = n
		}
	}
	return out
}

func (c *Catalog) Len() int { return len(c.order) }
