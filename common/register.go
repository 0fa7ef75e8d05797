package common

import "fmt"

// Register is a typed, named storage cell owned by the block that declares
// it (spec §3 "Lifecycle").
type Register struct {
	ID *Identifier
	Ty DataType
}

// RegisterList maps a register id to its Register, in insertion order. A
// plain map plus an order slice (rather than a swiss.Map) because the block
// allocator and code generator must iterate it deterministically.
type RegisterList struct {
	byID  map[*Identifier]*Register
	order []*Identifier
}

func NewRegisterList() *RegisterList {
	return &RegisterList{byID: make(map[*Identifier]*Register)}
}

// Declare adds a new register to the list. It is an error (per spec §3) to
// declare the same id twice.
func (l *RegisterList) Declare(id *Identifier, ty DataType) error {
	if _, ok := l.byID[id]; ok {
		return fmt.Errorf("register %q already declared in this block", id.Name())
	}
	l.byID[id] = &Register{ID: id, Ty: ty}
	l.order = append(l.order, id)
	return nil
}

// Get returns the register registered under id, if any.
func (l *RegisterList) Get(id *Identifier) (*Register, bool) {
	r, ok := l.byID[id]
	return r, ok
}

// Remove deletes a register from the list (used by dead-declare cleanup).
func (l *RegisterList) Remove(id *Identifier) {
	if _, ok := l.byID[id]; !ok {
		return
	}
	delete(l.byID, id)
	for i, e := range l.order {
		if e == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Registers returns the registers in declaration order.
func (l *RegisterList) Registers() []*Register {
	out := make([]*Register, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.byID[id])
	}
	return out
}

func (l *RegisterList) Len() int { return len(l.order) }
