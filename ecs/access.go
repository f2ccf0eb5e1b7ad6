package ecs

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// ErrBorrowConflict is the panic value (wrapped) raised when a component
// type is borrowed for writing while another borrow of it is live, or for
// reading while it is borrowed for writing.
var ErrBorrowConflict = errors.New("ecs: conflicting component borrow")

type AccessMode uint8

const (
	AccessRead AccessMode = iota
	AccessWrite
)

func (m AccessMode) String() string {
	if m == AccessWrite {
		return "write"
	}
	return "read"
}

// Access declares how a system touches one component type.
type Access struct {
	Type reflect.Type
	Mode AccessMode
}

func Read[T any]() Access {
	return Access{Type: reflect.TypeFor[T](), Mode: AccessRead}
}

func Write[T any]() Access {
	return Access{Type: reflect.TypeFor[T](), Mode: AccessWrite}
}

func (a Access) String() string {
	return a.Mode.String() + " " + a.Type.String()
}

// mergeAccess collapses duplicate types, keeping the strongest mode.
func mergeAccess(accesses []Access) []Access {
	merged := make([]Access, 0, len(accesses))
	for _, a := range accesses {
		i := slices.IndexFunc(merged, func(m Access) bool { return m.Type == a.Type })
		if i < 0 {
			merged = append(merged, a)
			continue
		}
		if a.Mode == AccessWrite {
			merged[i].Mode = AccessWrite
		}
	}
	return merged
}

// Conflicts reports whether two access sets may not run at the same time:
// both touch a type and at least one of them writes it.
func Conflicts(a, b []Access) bool {
	for _, x := range a {
		for _, y := range b {
			if x.Type == y.Type && (x.Mode == AccessWrite || y.Mode == AccessWrite) {
				return true
			}
		}
	}
	return false
}

type borrowTable struct {
	mu      sync.Mutex
	readers map[reflect.Type]int
	writers map[reflect.Type]bool
}

func newBorrowTable() *borrowTable {
	return &borrowTable{
		readers: make(map[reflect.Type]int),
		writers: make(map[reflect.Type]bool),
	}
}

func (b *borrowTable) acquire(accesses []Access) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, a := range accesses {
		if b.writers[a.Type] {
			return fmt.Errorf("%w: %s while borrowed for write", ErrBorrowConflict, a)
		}
		if a.Mode == AccessWrite && b.readers[a.Type] > 0 {
			return fmt.Errorf("%w: %s while borrowed for read", ErrBorrowConflict, a)
		}
	}
	for _, a := range accesses {
		if a.Mode == AccessWrite {
			b.writers[a.Type] = true
		} else {
			b.readers[a.Type]++
		}
	}
	return nil
}

func (b *borrowTable) release(accesses []Access) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, a := range accesses {
		if a.Mode == AccessWrite {
			delete(b.writers, a.Type)
			continue
		}
		if b.readers[a.Type]--; b.readers[a.Type] <= 0 {
			delete(b.readers, a.Type)
		}
	}
}

// Borrow acquires the accesses for the caller and returns the function that
// releases them. Any number of readers may share a type; a writer excludes
// everyone else. A conflicting borrow panics with an error wrapping
// ErrBorrowConflict, and borrowing an unregistered type panics as well.
func (s *Storage) Borrow(accesses ...Access) (release func()) {
	accesses = mergeAccess(accesses)
	for _, a := range accesses {
		if !s.registry.Registered(a.Type) {
			panic("component type " + a.Type.String() + " not registered")
		}
	}
	if err := s.borrows.acquire(accesses); err != nil {
		panic(err)
	}

	var once sync.Once
	return func() {
		once.Do(func() { s.borrows.release(accesses) })
	}
}
