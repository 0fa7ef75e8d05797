// Package common holds the data model shared by every IR level: identifiers,
// data types, values, registers, conditions, modifiers and the target-runtime
// primitives (scores, NBT storage locations, resource locations).
package common

import (
	"sync"

	"github.com/dolthub/swiss"
)

// Identifier is a reference-counted string used for register names, resource
// locations (namespace:path function ids) and objective names. Two calls to
// Intern with equal content return the exact same *Identifier, so identifier
// comparisons can use pointer equality as a fast path while Name() keeps the
// tagged original text available.
type Identifier struct {
	name string
}

// Name returns the textual content of the identifier.
func (id *Identifier) Name() string {
	if id == nil {
		return ""
	}
	return id.name
}

func (id *Identifier) String() string { return id.Name() }

// Equal reports whether two identifiers carry the same text. Interned
// identifiers can also be compared with ==, but Equal is safe for
// identifiers obtained without going through the interner.
func (id *Identifier) Equal(other *Identifier) bool {
	if id == other {
		return true
	}
	if id == nil || other == nil {
		return false
	}
	return id.name == other.name
}

// Interner deduplicates identifier text. Construction order of interned
// identifiers is irrelevant (nothing in the pipeline iterates the interner
// itself, only the ordered function/block tables that hold *Identifier
// values), so a swiss.Map is the right structure here rather than the
// insertion-ordered maps used for the function table and block allocator.
type Interner struct {
	mu    sync.Mutex
	table *swiss.Map[string, *Identifier]
}

// NewInterner creates an empty identifier interner.
func NewInterner() *Interner {
	return &Interner{table: swiss.NewMap[string, *Identifier](64)}
}

// Intern returns the canonical *Identifier for name, creating it on first
// use.
func (in *Interner) Intern(name string) *Identifier {
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.table.Get(name); ok {
		return id
	}
	id := &Identifier{name: name}
	in.table.Put(name, id)
	return id
}

// Len reports how many distinct identifiers have been interned.
func (in *Interner) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.table.Count()
}

// globalInterner backs the package-level Intern convenience function used by
// components that don't carry their own Interner (e.g. tests and small
// helpers that only need a stable *Identifier for a literal name).
var globalInterner = NewInterner()

// Intern interns name in the package-global interner.
func Intern(name string) *Identifier { return globalInterner.Intern(name) }
