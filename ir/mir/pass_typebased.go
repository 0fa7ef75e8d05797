package mir

import "dpc/common"

// PassTypeBased implements spec §4.2 "Pass: Type-based optimization":
//
//	abs(bool)                  -> nothing
//	bool * bool                -> bool and bool
//	if eq(bool, 1)              -> if bool
//	if eq(bool, 0)              -> if not bool
func PassTypeBased(p *Program) (bool, error) {
	changed := false
	for _, id := range p.Blocks.Order() {
		b, _ := p.Blocks.Get(id)
		if typeBasedBlock(p, b) {
			changed = true
		}
	}
	return changed, nil
}

func typeBasedBlock(p *Program, b *Block) bool {
	changed := false
	out := b.Instructions[:0:0]
	for _, instr := range b.Instructions {
		for _, child := range instr.Children() {
			if cb, ok := p.GetBlock(child); ok {
				if typeBasedBlock(p, cb) {
					changed = true
				}
			}
		}

		switch instr.Kind {
		case common.IAbs:
			if isBoolMutable(b, instr.Val) {
				changed = true
				continue
			}
		case common.IMul:
			if isBoolMutable(b, instr.Left) && !instr.Right.IsConst && isBoolMutable(b, instr.Right.Mutable) {
				out = append(out, common.AndInstr(instr.Left, instr.Right))
				changed = true
				continue
			}
		case common.IIf:
			if instr.Cond.Kind == common.CondEqual {
				if rewritten, ok := tryBoolEqRewrite(b, instr.Cond); ok {
					instr.Cond = rewritten
					changed = true
				}
			}
		}
		out = append(out, instr)
	}
	b.Instructions = out
	return changed
}

func isBoolMutable(b *Block, m common.MutableValue) bool {
	if m.Kind != common.MVReg {
		return false
	}
	r, ok := b.Registers.Get(m.Reg)
	if !ok {
		return false
	}
	return r.Ty.Family == common.FamilyScore && r.Ty.Score == common.ScoreTypeBool
}

func tryBoolEqRewrite(b *Block, cond common.Condition) (common.Condition, bool) {
	reg, constVal, regOnLeft := extractRegConstEq(cond)
	if reg == nil {
		return cond, false
	}
	_ = regOnLeft
	if !isBoolMutable(b, common.RegVal(reg)) {
		return cond, false
	}
	v := common.Mutable(common.RegVal(reg))
	switch constVal {
	case 1:
		return common.BoolCond(v), true
	case 0:
		return common.NotBoolCond(v), true
	}
	return cond, false
}

func extractRegConstEq(cond common.Condition) (*common.Identifier, int32, bool) {
	if cond.LVal.Mutable.Kind == common.MVReg && !cond.LVal.IsConst && cond.RVal.IsConst {
		if c, ok := cond.RVal.AsConstInt(); ok {
			return cond.LVal.Mutable.Reg, c, true
		}
	}
	if cond.RVal.Mutable.Kind == common.MVReg && !cond.RVal.IsConst && cond.LVal.IsConst {
		if c, ok := cond.LVal.AsConstInt(); ok {
			return cond.RVal.Mutable.Reg, c, false
		}
	}
	return nil, 0, false
}
