package mir

import "dpc/common"

// PassMultifoldCombine implements spec §4.2 "Pass: Multifold combine":
// adjacent arithmetic instructions on the same register, whose right-hand
// operand is a constant, coalesce into a single instruction. Covers
// +/-/*/pow/not chains.
func PassMultifoldCombine(p *Program) (bool, error) {
	changed := false
	for _, id := range p.Blocks.Order() {
		b, _ := p.Blocks.Get(id)
		if multifoldCombineBlock(p, b) {
			changed = true
		}
	}
	return changed, nil
}

func multifoldCombineBlock(p *Program, b *Block) bool {
	changed := false
	for _, instr := range b.Instructions {
		for _, child := range instr.Children() {
			if cb, ok := p.GetBlock(child); ok {
				if multifoldCombineBlock(p, cb) {
					changed = true
				}
			}
		}
	}

	out := b.Instructions[:0:0]
	for _, instr := range b.Instructions {
		if len(out) > 0 {
			if merged, ok := tryMergeAdjacent(out[len(out)-1], instr); ok {
				out[len(out)-1] = merged
				changed = true
				continue
			}
		}
		out = append(out, instr)
	}
	b.Instructions = out
	return changed
}

func sameLeftReg(a, b common.MutableValue) bool {
	return a.Kind == common.MVReg && b.Kind == common.MVReg && a.Reg == b.Reg
}

// tryMergeAdjacent attempts to fold `next` into `prev` when both operate on
// the same register with constant operands.
func tryMergeAdjacent(prev, next common.Instr) (common.Instr, bool) {
	switch prev.Kind {
	case common.IAdd, common.ISub:
		if (next.Kind != common.IAdd && next.Kind != common.ISub) || !sameLeftReg(prev.Left, next.Left) {
			return common.Instr{}, false
		}
		pc, ok1 := prev.Right.AsConstInt()
		nc, ok2 := next.Right.AsConstInt()
		if !ok1 || !ok2 {
			return common.Instr{}, false
		}
		delta := int64(0)
		if prev.Kind == common.IAdd {
			delta += int64(pc)
		} else {
			delta -= int64(pc)
		}
		if next.Kind == common.IAdd {
			delta += int64(nc)
		} else {
			delta -= int64(nc)
		}
		if delta == 0 {
			return common.NoOpInstr(), true
		}
		if delta > 0 {
			return common.AddInstr(prev.Left, common.ConstScore(int32(delta))), true
		}
		return common.SubInstr(prev.Left, common.ConstScore(int32(-delta))), true

	case common.IMul:
		if next.Kind != common.IMul || !sameLeftReg(prev.Left, next.Left) {
			return common.Instr{}, false
		}
		pc, ok1 := prev.Right.AsConstInt()
		nc, ok2 := next.Right.AsConstInt()
		if !ok1 || !ok2 {
			return common.Instr{}, false
		}
		product := int64(pc) * int64(nc)
		if product > int64(^uint32(0)>>1) || product < -int64(^uint32(0)>>1)-1 {
			// Overflow: leave both instructions alone to preserve
			// target-runtime wraparound behavior.
			return common.Instr{}, false
		}
		return common.MulInstr(prev.Left, common.ConstScore(int32(product))), true

	case common.IMod:
		if next.Kind != common.IMod || !sameLeftReg(prev.Left, next.Left) {
			return common.Instr{}, false
		}
		pc, ok1 := prev.Right.AsConstInt()
		nc, ok2 := next.Right.AsConstInt()
		if !ok1 || !ok2 {
			return common.Instr{}, false
		}
		m := pc
		if nc > m {
			m = nc
		}
		return common.ModInstr(prev.Left, common.ConstScore(m)), true

	case common.IPow:
		if next.Kind != common.IPow || !sameLeftReg(prev.Left, next.Left) {
			return common.Instr{}, false
		}
		return common.PowInstr(prev.Left, prev.Exp*next.Exp), true

	case common.INot:
		if next.Kind != common.INot || !sameLeftReg(prev.Val, next.Val) {
			return common.Instr{}, false
		}
		// not(not(x)) -> NoOp (x is a boolean register, value restored).
		return common.NoOpInstr(), true
	}
	return common.Instr{}, false
}
