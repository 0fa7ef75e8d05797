package mir

import "dpc/common"

// PassDeadStoreElimination implements spec §4.2 "Pass: Dead Store
// Elimination": a write whose register is overwritten before any read in
// the same block is removed.
func PassDeadStoreElimination(p *Program) (bool, error) {
	changed := false
	for _, id := range p.Blocks.Order() {
		b, _ := p.Blocks.Get(id)
		if dseBlock(p, b) {
			changed = true
		}
	}
	return changed, nil
}

func dseBlock(p *Program, b *Block) bool {
	changed := false
	// candidate[reg] = index of the most recent removable Assign to reg.
	candidate := make(map[*common.Identifier]int)
	dead := make(map[int]bool)

	for i, instr := range b.Instructions {
		// A read of any register invalidates it as a removal candidate.
		for _, r := range instr.UsedRegs(nil) {
			if instr.Kind == common.IAssign && instr.Left.Kind == common.MVReg && instr.Left.Reg == r {
				// left-hand mention of an Assign is a write, not a read;
				// skip it specifically below.
				continue
			}
			delete(candidate, r)
		}

		if instr.Kind == common.IAssign && instr.Left.Kind == common.MVReg {
			reg := instr.Left.Reg
			if prevIdx, ok := candidate[reg]; ok {
				dead[prevIdx] = true
				changed = true
			}
			candidate[reg] = i
		}

		// Recurse into structured bodies: a read inside a sub-block still
		// counts as a read of the outer register, so no pending write of
		// this block stays a removal candidate past a structured body.
		if len(instr.Children()) > 0 {
			candidate = make(map[*common.Identifier]int)
		}
		for _, child := range instr.Children() {
			if cb, ok := p.GetBlock(child); ok {
				if dseBlock(p, cb) {
					changed = true
				}
			}
		}
	}

	for idx := range candidate {
		dead[candidate[idx]] = true
	}

	if len(dead) == 0 {
		return changed
	}
	out := b.Instructions[:0:0]
	for i, instr := range b.Instructions {
		if dead[i] {
			continue
		}
		out = append(out, instr)
	}
	b.Instructions = out
	return true
}
