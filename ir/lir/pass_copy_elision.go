package lir

import "dpc/common"

// PassCopyElision implements spec §4.4 "Copy elision": `tmp = y; x = tmp`
// collapses to `x = y` when tmp is never read again, removing the
// temporaries synthesized by Pow/Swap lowering (ir/lir/lower.go) once
// register pressure doesn't need them materialized.
func PassCopyElision(p *Program) (bool, error) {
	changed := false
	for _, name := range p.FuncOrder {
		f := p.Functions[name]
		if elideCopiesBlock(f.Body) {
			changed = true
		}
	}
	return changed, nil
}

func elideCopiesBlock(b *Block) bool {
	changed := false
	instrs := b.Instructions
	for i := 0; i < len(instrs)-1; i++ {
		cur := instrs[i]
		if !isPlainCopy(cur) || cur.Dest.Kind != common.MVReg {
			continue
		}
		tmp := cur.Dest.Reg
		next := instrs[i+1]
		if next.Kind != LSetScore && next.Kind != LSetData {
			continue
		}
		if next.Src.IsConst || next.Src.Mutable.Kind != common.MVReg || next.Src.Mutable.Reg != tmp {
			continue
		}
		if len(next.Modifiers) != 0 {
			continue
		}
		if regReadAfter(instrs[i+2:], tmp) {
			continue
		}
		next.Src = cur.Src
		instrs[i+1] = next
		instrs = append(instrs[:i], instrs[i+1:]...)
		changed = true
		i--
	}
	b.Instructions = instrs
	return changed
}

func regReadAfter(rest []Instr, reg *common.Identifier) bool {
	for _, instr := range rest {
		for _, r := range instr.UsedRegs(nil) {
			if r == reg {
				return true
			}
		}
	}
	return false
}
