package repository

import "sync"

// collection is the reactive in-memory list backing one repository. It is
// owned exclusively by that repository; siblings only ever read it. Order is
// most-recently-created first: bootstrap loads arrive pre-sorted and every
// session-time add is prepended.
type collection[E any] struct {
	mu    sync.RWMutex
	items []E
	subs  []func([]E)
}

// List returns a copy of the current items.
func (c *collection[E]) List() []E {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]E, len(c.items))
	copy(out, c.items)
	return out
}

// Find returns the first item the predicate matches.
func (c *collection[E]) Find(match func(E) bool) (E, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if match(it) {
			return it, true
		}
	}
	var zero E
	return zero, false
}

// Any reports whether the predicate matches any item.
func (c *collection[E]) Any(match func(E) bool) bool {
	_, ok := c.Find(match)
	return ok
}

// Subscribe registers a callback invoked with a snapshot after every change.
func (c *collection[E]) Subscribe(fn func([]E)) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

// Replace swaps the whole collection (bootstrap load / reset).
func (c *collection[E]) Replace(items []E) {
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	c.notify()
}

// Prepend puts a freshly created item at the head.
func (c *collection[E]) Prepend(item E) {
	c.mu.Lock()
	c.items = append([]E{item}, c.items...)
	c.mu.Unlock()
	c.notify()
}

// Mutate replaces the first matching item in place.
func (c *collection[E]) Mutate(match func(E) bool, replacement E) bool {
	c.mu.Lock()
	done := false
	for i, it := range c.items {
		if match(it) {
			c.items[i] = replacement
			done = true
			break
		}
	}
	c.mu.Unlock()
	if done {
		c.notify()
	}
	return done
}

// Remove drops the first matching item.
func (c *collection[E]) Remove(match func(E) bool) bool {
	c.mu.Lock()
	done := false
	for i, it := range c.items {
		if match(it) {
			c.items = append(c.items[:i], c.items[i+1:]...)
			done = true
			break
		}
	}
	c.mu.Unlock()
	if done {
		c.notify()
	}
	return done
}

// Reset empties the collection (sign-out).
func (c *collection[E]) Reset() {
	c.Replace(nil)
}

func (c *collection[E]) notify() {
	c.mu.RLock()
	snapshot := make([]E, len(c.items))
	copy(snapshot, c.items)
	subs := make([]func([]E), len(c.subs))
	copy(subs, c.subs)
	c.mu.RUnlock()
	for _, fn := range subs {
		fn(snapshot)
	}
}
