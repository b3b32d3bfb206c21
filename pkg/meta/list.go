package meta

import "unsafe"

// List is an ordered collection of items paired with instances. It is owned by a
// single caller and not safe for concurrent mutation.
type List struct {
	items     []Item
	instances []unsafe.Pointer
}

// NewList returns an empty list.
func NewList() *List {
	return &List{}
}

func (l *List) Add(item Item, instance unsafe.Pointer) {
	l.items = append(l.items, item)
	l.instances = append(l.instances, instance)
}

func (l *List) Count() int { return len(l.items) }

func (l *List) At(i int) Item {
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.items[i]
}

func (l *List) InstanceAt(i int) unsafe.Pointer {
	if i < 0 || i >= len(l.instances) {
		return nil
	}
	return l.instances[i]
}

func (l *List) Clear() {
	clear(l.items)
	l.items = l.items[:0]
	l.instances = l.instances[:0]
}
