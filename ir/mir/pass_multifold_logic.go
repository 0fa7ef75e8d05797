package mir

import "dpc/common"

// PassMultifoldLogic implements spec §4.2 "Pass: Multifold logic":
//
//	let x = cond C1; if bool(x)       -> propagate C1 into the if
//	let x = cond C;  not x            -> let x = cond (not C)
//	x += y; x /= x                    -> x |= y
func PassMultifoldLogic(p *Program) (bool, error) {
	changed := false
	for _, id := range p.Blocks.Order() {
		b, _ := p.Blocks.Get(id)
		if multifoldLogicBlock(p, b) {
			changed = true
		}
	}
	return changed, nil
}

func multifoldLogicBlock(p *Program, b *Block) bool {
	changed := false
	for _, instr := range b.Instructions {
		for _, child := range instr.Children() {
			if cb, ok := p.GetBlock(child); ok {
				if multifoldLogicBlock(p, cb) {
					changed = true
				}
			}
		}
	}

	// condRegs maps a register holding `cond C` to C, valid until the
	// register is reassigned or read by something other than a propagating
	// use.
	condRegs := make(map[*common.Identifier]common.Condition)

	out := b.Instructions[:0:0]
	for i := 0; i < len(b.Instructions); i++ {
		instr := b.Instructions[i]

		if instr.Kind == common.IAssign && instr.AssignBinding.Kind == common.DBCondition && instr.Left.Kind == common.MVReg {
			condRegs[instr.Left.Reg] = *instr.AssignBinding.Cond
			out = append(out, instr)
			continue
		}

		if instr.Kind == common.IIf && instr.Cond.Kind == common.CondBool {
			if instr.Cond.Val != nil && !instr.Cond.Val.IsConst && instr.Cond.Val.Mutable.Kind == common.MVReg {
				if c, ok := condRegs[instr.Cond.Val.Mutable.Reg]; ok {
					instr.Cond = c
					changed = true
				}
			}
			out = append(out, instr)
			continue
		}

		if instr.Kind == common.INot && instr.Val.Kind == common.MVReg {
			if c, ok := condRegs[instr.Val.Reg]; ok {
				out = append(out, common.AssignInstr(instr.Val, common.ConditionBinding(common.NotCond(c))))
				condRegs[instr.Val.Reg] = common.NotCond(c)
				changed = true
				continue
			}
		}

		if instr.Kind == common.IAdd && i+1 < len(b.Instructions) {
			next := b.Instructions[i+1]
			if next.Kind == common.IDiv && sameMutable(next.Left, instr.Left) && valIsMutable(next.Right, instr.Left) {
				out = append(out, common.OrInstr(instr.Left, instr.Right))
				i++
				changed = true
				continue
			}
		}

		if def, ok := instr.DefinedReg(); ok {
			delete(condRegs, def)
		}
		out = append(out, instr)
	}
	b.Instructions = out
	return changed
}
