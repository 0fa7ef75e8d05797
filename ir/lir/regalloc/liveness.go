package regalloc

import (
	"dpc/common"
	"dpc/ir/lir"
)

// liveness holds, for each register touched by a chunk member's flat
// instruction list, the instruction index of its first and last use
// (spec §4.5 "assigns a free small integer to each register on first use and
// frees it after its last use in the block"). A register that's declared but
// never referenced by any instruction is absent from both maps; the
// allocator treats that as live for the whole function.
type liveness struct {
	firstUse map[*common.Identifier]int
	lastUse  map[*common.Identifier]int
}

// computeLiveness runs a single forward scan over a chunk member's flat
// instruction list (spec §4.5 "liveness by backward scan" for the overlap
// test, applied here as the simpler forward first/last-occurrence form since
// every LIR instruction's Dest is folded into UsedRegs uniformly,
// ir/lir/lir.go, so "used" already covers both reads and writes).
func computeLiveness(b *lir.Block) liveness {
	out := liveness{firstUse: map[*common.Identifier]int{}, lastUse: map[*common.Identifier]int{}}
	for idx, instr := range b.Instructions {
		for _, r := range instr.UsedRegs(nil) {
			if _, ok := out.firstUse[r]; !ok {
				out.firstUse[r] = idx
			}
			out.lastUse[r] = idx
		}
	}
	return out
}
