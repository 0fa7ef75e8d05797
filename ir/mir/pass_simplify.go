package mir

import "dpc/common"

// PassSimplify implements spec §4.2 "Pass: Simplify (MIR)": algebraic
// rewrites that hold independent of values.
func PassSimplify(p *Program) (bool, error) {
	changed := false
	for _, id := range p.Blocks.Order() {
		b, _ := p.Blocks.Get(id)
		if simplifyBlock(b) {
			changed = true
		}
		if simplifyIfPatterns(p, b) {
			changed = true
		}
	}
	return changed, nil
}

// simplifyIfPatterns rewrites a single-instruction If body that an
// equality/inequality condition already guarantees:
//
//	if eq(a,b): a = b      -> a = b           (condition guarantees equality)
//	if gt(a,b): a = b      -> a = min(a, b)
//	if lt(a,b): a = b      -> a = max(a, b)
//
// (spec §4.2 "Pass: Simplify (MIR)").
func simplifyIfPatterns(p *Program, b *Block) bool {
	changed := false
	for i, instr := range b.Instructions {
		if instr.Kind != common.IIf {
			continue
		}
		body, ok := p.GetBlock(instr.Body)
		if !ok || len(body.Instructions) != 1 {
			continue
		}
		inner := body.Instructions[0]
		if inner.Kind != common.IAssign || inner.AssignBinding.Kind != common.DBValue {
			continue
		}
		a := inner.Left
		rhs := inner.AssignBinding.Val
		switch instr.Cond.Kind {
		case common.CondEqual:
			if matchesPair(instr.Cond, a, rhs) {
				b.Instructions[i] = inner
				changed = true
			}
		case common.CondGreaterThan, common.CondGreaterThanOrEqual:
			// Only the a-on-the-left form; gt(b,a) would need max instead.
			if valIsMutable(*instr.Cond.LVal, a) && sameValue(*instr.Cond.RVal, rhs) {
				b.Instructions[i] = common.MinInstr(a, rhs)
				changed = true
			}
		case common.CondLessThan, common.CondLessThanOrEqual:
			if valIsMutable(*instr.Cond.LVal, a) && sameValue(*instr.Cond.RVal, rhs) {
				b.Instructions[i] = common.MaxInstr(a, rhs)
				changed = true
			}
		}
	}
	return changed
}

func matchesPair(cond common.Condition, a common.MutableValue, rhs common.Value) bool {
	return valIsMutable(*cond.LVal, a) && sameValue(*cond.RVal, rhs) ||
		valIsMutable(*cond.RVal, a) && sameValue(*cond.LVal, rhs)
}

func sameValue(x, y common.Value) bool {
	if x.IsConst != y.IsConst {
		return false
	}
	if x.IsConst {
		return x.Constant.ScoreVal == y.Constant.ScoreVal && x.Constant.Ty.Equal(y.Constant.Ty)
	}
	return sameMutable(x.Mutable, y.Mutable)
}

func simplifyBlock(b *Block) bool {
	changed := false
	for i, instr := range b.Instructions {
		rewritten, did := simplifyInstr(instr)
		if did {
			b.Instructions[i] = rewritten
			changed = true
		}
	}
	return changed
}

func sameMutable(a, b common.MutableValue) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case common.MVReg:
		return a.Reg == b.Reg
	case common.MVScore:
		return a.ScoreRef == b.ScoreRef
	default:
		return false
	}
}

func valIsMutable(v common.Value, m common.MutableValue) bool {
	return !v.IsConst && sameMutable(v.Mutable, m)
}

func simplifyInstr(instr common.Instr) (common.Instr, bool) {
	switch instr.Kind {
	case common.IAssign:
		// x = x -> NoOp
		if instr.AssignBinding.Kind == common.DBValue && valIsMutable(instr.AssignBinding.Val, instr.Left) {
			return common.NoOpInstr(), true
		}
	case common.ISwap:
		// swap x, x -> NoOp
		if sameMutable(instr.SwapLeft, instr.SwapRight) {
			return common.NoOpInstr(), true
		}
	case common.IMul:
		if v, ok := instr.Right.AsConstInt(); ok {
			if v == 1 {
				return common.NoOpInstr(), true
			}
			if v == 0 {
				return common.AssignInstr(instr.Left, common.ValueBinding(common.ConstScore(0))), true
			}
		}
		// x * x -> pow x 2
		if valIsMutable(instr.Right, instr.Left) {
			return common.PowInstr(instr.Left, 2), true
		}
	case common.IDiv:
		if v, ok := instr.Right.AsConstInt(); ok {
			if v == 1 {
				return common.NoOpInstr(), true
			}
			if v == 0 {
				// Target runtime treats divide-by-zero as an inert error.
				return common.NoOpInstr(), true
			}
		}
		if valIsMutable(instr.Right, instr.Left) {
			return common.AssignInstr(instr.Left, common.ValueBinding(common.ConstScore(1))), true
		}
	case common.IMod:
		if v, ok := instr.Right.AsConstInt(); ok && v == 0 {
			return common.NoOpInstr(), true
		}
		if valIsMutable(instr.Right, instr.Left) {
			return common.AssignInstr(instr.Left, common.ValueBinding(common.ConstScore(0))), true
		}
	case common.IAdd:
		if v, ok := instr.Right.AsConstInt(); ok && v == 0 {
			return common.NoOpInstr(), true
		}
		if valIsMutable(instr.Right, instr.Left) {
			return common.MulInstr(instr.Left, common.ConstScore(2)), true
		}
	case common.ISub:
		if v, ok := instr.Right.AsConstInt(); ok && v == 0 {
			return common.NoOpInstr(), true
		}
		if valIsMutable(instr.Right, instr.Left) {
			return common.AssignInstr(instr.Left, common.ValueBinding(common.ConstScore(0))), true
		}
	case common.IMin, common.IMax:
		if valIsMutable(instr.Right, instr.Left) {
			return common.NoOpInstr(), true
		}
	case common.IPow:
		if instr.Exp == 0 {
			return common.AssignInstr(instr.Left, common.ValueBinding(common.ConstScore(1))), true
		}
		if instr.Exp == 1 {
			return common.NoOpInstr(), true
		}
	}
	return instr, false
}
