package mir

import "dpc/common"

// PassCleanup removes NoOps and Declares whose register no other
// instruction in the block mentions (spec §4.2 "Pass: Cleanup").
func PassCleanup(p *Program) (bool, error) {
	changed := false
	for _, id := range p.Blocks.Order() {
		b, _ := p.Blocks.Get(id)
		if cleanupBlock(b) {
			changed = true
		}
	}
	return changed, nil
}

func cleanupBlock(b *Block) bool {
	changed := false

	out := b.Instructions[:0:0]
	for _, instr := range b.Instructions {
		if instr.Kind == common.INoOp {
			changed = true
			continue
		}
		if instr.Kind == common.IDeclare {
			// A Declare's own left-hand mention doesn't count as a use;
			// only reads by *other* instructions do.
			usedElsewhere := false
			for _, other := range b.Instructions {
				if other.Kind == common.IDeclare && other.DeclLeft == instr.DeclLeft {
					continue
				}
				for _, r := range other.UsedRegs(nil) {
					if r == instr.DeclLeft {
						usedElsewhere = true
						break
					}
				}
				if usedElsewhere {
					break
				}
			}
			if !usedElsewhere {
				changed = true
				b.Registers.Remove(instr.DeclLeft)
				continue
			}
		}
		out = append(out, instr)
	}
	b.Instructions = out
	return changed
}
