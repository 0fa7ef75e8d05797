package regalloc

import (
	"fmt"

	"dpc/common"
)

// LiteralPool assigns every distinct constant value that must appear as a
// scoreboard operand a stable fake-player holder. `scoreboard players
// operation` (used for Mul/Div/Mod/Min/Max/Swap between two scores) has no
// literal form the way `set`/`add` do, so a literal operand in that context
// needs its own holder, grounded on original_source/src/output/text.rs's
// LIT_OBJECTIVE/format_lit_fake_player ("%l{num}" in the "_l" objective).
// Unlike register slots, literal holders are never reused: every distinct
// value seen across the whole program gets exactly one player, assigned in
// first-encounter order, so the backend's init function can set them all
// once at datapack load.
type LiteralPool struct {
	objective string
	order     []int32
	names     map[int32]string
}

// LiteralEntry pairs an interned constant with its assigned holder name.
type LiteralEntry struct {
	Value int32
	Name  string
}

// NewLiteralPool creates an empty pool bound to the given scoreboard
// objective (text.rs's LIT_OBJECTIVE, "_l").
func NewLiteralPool(objective string) *LiteralPool {
	return &LiteralPool{objective: objective, names: make(map[int32]string)}
}

// Intern returns the physical Location holding value, assigning it a fresh
// "%l{num}" fake player the first time value is seen.
func (lp *LiteralPool) Intern(value int32) Location {
	name, ok := lp.names[value]
	if !ok {
		name = fmt.Sprintf("%%l%d", len(lp.order))
		lp.names[value] = name
		lp.order = append(lp.order, value)
	}
	return Location{Pool: PoolScore, Name: name, Score: common.ScoreRef{Holder: name, Objective: lp.objective}}
}

// Entries returns every distinct constant interned so far in first-
// encounter order, the shape the backend's init-function synthesis needs to
// emit one `scoreboard players set %l{num} _l <value>` command per literal.
func (lp *LiteralPool) Entries() []LiteralEntry {
	out := make([]LiteralEntry, len(lp.order))
	for i, v := range lp.order {
		out[i] = LiteralEntry{Value: v, Name: lp.names[v]}
	}
	return out
}
