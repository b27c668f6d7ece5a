// Package numline provides the operation-tracking number line model:
// a starting value, an ordered chain of addition/subtraction operations,
// and one endpoint marker per operation kept synchronized with the chain.
package numline

// Listener is notified after a property's value changes.
type Listener[T any] func(newValue, oldValue T)

// Property is a single-threaded observable cell. All notification happens
// synchronously inside Set, in listener registration order.
type Property[T comparable] struct {
	value     T
	initial   T
	listeners []*Listener[T]
}

// NewProperty creates a property holding the given initial value.
func NewProperty[T comparable](value T) *Property[T] {
	return &Property[T]{value: value, initial: value}
}

// Get returns the current value.
func (p *Property[T]) Get() T {
	return p.value
}

// Set updates the value and notifies listeners if it actually changed.
func (p *Property[T]) Set(value T) {
	if value == p.value {
		return
	}
	old := p.value
	p.value = value
	for _, l := range p.listeners {
		(*l)(value, old)
	}
}

// Link registers a listener and invokes it immediately with the current
// value (old value equal to the current value on the initial call). The
// returned func unlinks the listener.
func (p *Property[T]) Link(l Listener[T]) func() {
	unlink := p.LazyLink(l)
	l(p.value, p.value)
	return unlink
}

// LazyLink registers a listener without an immediate invocation. The
// returned func unlinks the listener.
func (p *Property[T]) LazyLink(l Listener[T]) func() {
	entry := &l
	p.listeners = append(p.listeners, entry)
	return func() {
		for i, e := range p.listeners {
			if e == entry {
				p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
				return
			}
		}
	}
}

// Reset restores the initial value, notifying listeners if it changed.
func (p *Property[T]) Reset() {
	p.Set(p.initial)
}

// Initial returns the value the property was constructed with.
func (p *Property[T]) Initial() T {
	return p.initial
}
