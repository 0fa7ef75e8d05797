package mir

import "dpc/common"

// PassConstantCombo implements the propagation and condition halves of spec
// §4.2's "Pass: Constant combo" (folding of arithmetic chains into a single
// instruction is handled by PassMultifoldCombine, which runs in the same
// fixed-point loop so the two passes compose to the same effect described
// in the spec).
func PassConstantCombo(p *Program) (bool, error) {
	changed := false
	for _, id := range p.Blocks.Order() {
		b, _ := p.Blocks.Get(id)
		if constPropBlock(p, b) {
			changed = true
		}
	}
	return changed, nil
}

// constState tracks, for one register, whether its value is statically
// known within the remainder of the block.
type constState struct {
	known map[*common.Identifier]common.DataTypeContents
}

func newConstState() *constState {
	return &constState{known: make(map[*common.Identifier]common.DataTypeContents)}
}

func (s *constState) substitute(v common.Value) (common.Value, bool) {
	if v.IsConst || v.Mutable.Kind != common.MVReg {
		return v, false
	}
	if c, ok := s.known[v.Mutable.Reg]; ok {
		return common.Const(c), true
	}
	return v, false
}

func constPropBlock(p *Program, b *Block) bool {
	changed := false
	state := newConstState()
	afterBody := false

	for i := range b.Instructions {
		if afterBody {
			// A structured body may have written any register of this
			// block, so nothing known before it is trusted after it.
			state = newConstState()
		}
		instr := b.Instructions[i]
		afterBody = len(instr.Children()) > 0

		switch instr.Kind {
		case common.IAssign:
			if instr.AssignBinding.Kind == common.DBValue {
				if v, did := state.substitute(instr.AssignBinding.Val); did {
					instr.AssignBinding.Val = v
					b.Instructions[i] = instr
					changed = true
				}
				if instr.Left.Kind == common.MVReg {
					if c, ok := instr.AssignBinding.Val.AsConstInt(); ok {
						state.known[instr.Left.Reg] = common.ScoreConst(c)
					} else {
						delete(state.known, instr.Left.Reg)
					}
				}
				continue
			}
			if instr.Left.Kind == common.MVReg {
				delete(state.known, instr.Left.Reg)
			}
		case common.IAdd, common.ISub, common.IMul, common.IDiv, common.IMod, common.IMin, common.IMax, common.IAnd, common.IOr, common.IXor:
			if v, did := state.substitute(instr.Right); did {
				instr.Right = v
				b.Instructions[i] = instr
				changed = true
			}
			if instr.Left.Kind == common.MVReg {
				delete(state.known, instr.Left.Reg)
			}
		case common.IIf:
			// Record reg=const in this block's state around the recursive
			// call, then restore it. The body is processed with its own
			// fresh state, so the assumption does not reach inside it.
			if instr.Cond.Kind == common.CondEqual {
				if reg, val, ok := eqRegConst(instr.Cond); ok {
					saved, had := state.known[reg]
					state.known[reg] = val
					if body, ok := p.GetBlock(instr.Body); ok {
						if constPropBlock(p, body) {
							changed = true
						}
					}
					if had {
						state.known[reg] = saved
					} else {
						delete(state.known, reg)
					}
					continue
				}
			}
			if body, ok := p.GetBlock(instr.Body); ok {
				if constPropBlock(p, body) {
					changed = true
				}
			}
		case common.IIfElse:
			if first, ok := p.GetBlock(instr.Body); ok {
				if constPropBlock(p, first) {
					changed = true
				}
			}
			if second, ok := p.GetBlock(instr.ElseBody); ok {
				if constPropBlock(p, second) {
					changed = true
				}
			}
		case common.IModify:
			if body, ok := p.GetBlock(instr.ModBody); ok {
				if constPropBlock(p, body) {
					changed = true
				}
			}
		case common.IReturnRun:
			if body, ok := p.GetBlock(instr.RunBody); ok {
				if constPropBlock(p, body) {
					changed = true
				}
			}
		default:
			if def, ok := instr.DefinedReg(); ok {
				delete(state.known, def)
			}
		}
	}

	// Condition evaluation: replace If/IfElse with their body when the
	// condition is fully constant (spec §4.2 "Pass: Constant combo /
	// Condition").
	if evalConstConditions(p, b) {
		changed = true
	}

	return changed
}

func eqRegConst(cond common.Condition) (*common.Identifier, common.DataTypeContents, bool) {
	if cond.LVal.Mutable.Kind == common.MVReg && cond.RVal.IsConst {
		return cond.LVal.Mutable.Reg, cond.RVal.Constant, true
	}
	if cond.RVal.Mutable.Kind == common.MVReg && cond.LVal.IsConst {
		return cond.RVal.Mutable.Reg, cond.LVal.Constant, true
	}
	return nil, common.DataTypeContents{}, false
}

// evalConstConditions replaces `If const-true` with its body, `If
// const-false` with nothing, and similarly for IfElse and
// `Assign = Condition(...)`.
func evalConstConditions(p *Program, b *Block) bool {
	changed := false
	out := b.Instructions[:0:0]
	for _, instr := range b.Instructions {
		switch instr.Kind {
		case common.IIf:
			if v, ok := instr.Cond.EvalConst(); ok {
				changed = true
				if v {
					if body, ok := p.GetBlock(instr.Body); ok {
						out = append(out, body.Instructions...)
					}
				}
				continue
			}
		case common.IIfElse:
			if v, ok := instr.Cond.EvalConst(); ok {
				changed = true
				chosen := instr.ElseBody
				if v {
					chosen = instr.Body
				}
				if body, ok := p.GetBlock(chosen); ok {
					out = append(out, body.Instructions...)
				}
				continue
			}
		case common.IAssign:
			if instr.AssignBinding.Kind == common.DBCondition {
				if v, ok := instr.AssignBinding.Cond.EvalConst(); ok {
					changed = true
					instr = common.AssignInstr(instr.Left, common.ValueBinding(common.Const(common.BoolConst(v))))
				}
			}
		}
		out = append(out, instr)
	}
	b.Instructions = out
	return changed
}
