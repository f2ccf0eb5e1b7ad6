package ecs

import (
	"iter"
	"reflect"
)

// column is a type-erased, slot-indexed store for one component type.
type column interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Len() int
	Compact() map[int]int
	Iter() iter.Seq[int]
}

// ComponentRegistry records which component types a Storage may hold.
// Each Storage has its own registry so independent worlds never share
// column factories.
type ComponentRegistry struct {
	factories map[reflect.Type]func() column
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() column),
	}
}

// RegisterComponent registers T with the registry. Every component type must
// be registered before an entity carrying it is spawned, viewed or borrowed.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() column {
		return &blockColumn[T]{}
	}
}

// Registered reports whether the component type has a column factory.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) mustFactory(t reflect.Type) func() column {
	factory := r.factories[t]
	if factory == nil {
		panic("component type " + t.String() + " not registered")
	}
	return factory
}

const blockSize = 64

// blockColumn stores components of type T in fixed size blocks. Blocks are
// heap allocated individually so pointers handed out by Get stay valid when
// the column grows.
type blockColumn[T any] struct {
	blocks    []*[blockSize]T
	filled    []*[blockSize]bool
	freeSlots []int
	nextIndex int
	count     int
}

func (c *blockColumn[T]) slot(index int) (int, int, bool) {
	if index < 0 {
		return 0, 0, false
	}
	b, s := index/blockSize, index%blockSize
	if b >= len(c.blocks) {
		return 0, 0, false
	}
	return b, s, true
}

// Append stores item and returns its slot. item may be T or *T.
func (c *blockColumn[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return -1
	}

	var index int
	if n := len(c.freeSlots); n > 0 {
		index = c.freeSlots[n-1]
		c.freeSlots = c.freeSlots[:n-1]
	} else {
		index = c.nextIndex
		c.nextIndex++
		if index/blockSize >= len(c.blocks) {
			c.blocks = append(c.blocks, new([blockSize]T))
			c.filled = append(c.filled, new([blockSize]bool))
		}
	}

	b, s := index/blockSize, index%blockSize
	c.blocks[b][s] = value
	c.filled[b][s] = true
	c.count++
	return index
}

// Get returns a *T for the slot, or nil if the slot is empty.
func (c *blockColumn[T]) Get(index int) any {
	b, s, ok := c.slot(index)
	if !ok || !c.filled[b][s] {
		return nil
	}
	return &c.blocks[b][s]
}

func (c *blockColumn[T]) Delete(index int) {
	b, s, ok := c.slot(index)
	if !ok || !c.filled[b][s] {
		return
	}
	var zero T
	c.filled[b][s] = false
	c.blocks[b][s] = zero
	c.freeSlots = append(c.freeSlots, index)
	c.count--
}

func (c *blockColumn[T]) Has(index int) bool {
	b, s, ok := c.slot(index)
	return ok && c.filled[b][s]
}

func (c *blockColumn[T]) Len() int {
	return c.count
}

// Compact moves live components to the front and returns old->new slots.
func (c *blockColumn[T]) Compact() map[int]int {
	indexMap := make(map[int]int, c.count)
	if c.count == 0 {
		c.blocks, c.filled = nil, nil
		c.freeSlots = nil
		c.nextIndex = 0
		return indexMap
	}

	numBlocks := (c.count + blockSize - 1) / blockSize
	blocks := make([]*[blockSize]T, numBlocks)
	filled := make([]*[blockSize]bool, numBlocks)
	for i := range blocks {
		blocks[i] = new([blockSize]T)
		filled[i] = new([blockSize]bool)
	}

	write := 0
	for read := 0; read < c.nextIndex; read++ {
		rb, rs := read/blockSize, read%blockSize
		if !c.filled[rb][rs] {
			continue
		}
		wb, ws := write/blockSize, write%blockSize
		blocks[wb][ws] = c.blocks[rb][rs]
		filled[wb][ws] = true
		indexMap[read] = write
		write++
	}

	c.blocks, c.filled = blocks, filled
	c.freeSlots = nil
	c.nextIndex = write
	return indexMap
}

// Iter yields filled slots in ascending order.
func (c *blockColumn[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < c.nextIndex; i++ {
			b, s := i/blockSize, i%blockSize
			if c.filled[b][s] && !yield(i) {
				return
			}
		}
	}
}
