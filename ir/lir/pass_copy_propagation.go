package lir

import "dpc/common"

// PassCopyPropagation implements spec §4.4 "Copy propagation": once `x = y`
// executes as a plain, unmodified Set, every later read of x (until either x
// or y is next redefined) can read y directly instead.
func PassCopyPropagation(p *Program) (bool, error) {
	changed := false
	for _, name := range p.FuncOrder {
		f := p.Functions[name]
		if copyPropagateBlock(f.Body) {
			changed = true
		}
	}
	return changed, nil
}

func copyPropagateBlock(b *Block) bool {
	changed := false
	copies := make(map[*common.Identifier]common.Value)

	invalidate := func(reg *common.Identifier) {
		delete(copies, reg)
		for k, v := range copies {
			if !v.IsConst && v.Mutable.Kind == common.MVReg && v.Mutable.Reg == reg {
				delete(copies, k)
			}
		}
	}

	for idx, instr := range b.Instructions {
		rewritten, did := substituteInstr(instr, copies)
		if did {
			changed = true
			instr = rewritten
			b.Instructions[idx] = instr
		}

		if def, ok := definedReg(instr); ok {
			invalidate(def)
		}
		// A swap writes both sides, and a store modifier writes its target
		// whatever the command; a call may run a child function of this
		// chunk, which shares its registers.
		if instr.Kind == LSwapScore {
			for _, m := range []common.MutableValue{instr.SwapA, instr.SwapB} {
				if m.Kind == common.MVReg {
					invalidate(m.Reg)
				}
			}
		}
		for _, m := range instr.Modifiers {
			if (m.Kind == common.ModStoreResult || m.Kind == common.ModStoreSuccess) && m.Store.IsReg {
				invalidate(m.Store.Reg)
			}
		}
		if instr.Kind == LCall {
			copies = make(map[*common.Identifier]common.Value)
		}

		if isPlainCopy(instr) {
			if reg := instr.Dest.Reg; reg != nil {
				copies[reg] = instr.Src
			}
		}
	}
	return changed
}

func isPlainCopy(i Instr) bool {
	if i.Kind != LSetScore && i.Kind != LSetData {
		return false
	}
	if len(i.Modifiers) != 0 {
		return false
	}
	return i.Dest.Kind == common.MVReg
}

func definedReg(i Instr) (*common.Identifier, bool) {
	switch i.Kind {
	case LSetScore, LSetData, LAddScore, LSubScore, LMulScore, LDivScore, LModScore, LMinScore, LMaxScore:
		if i.Dest.Kind == common.MVReg {
			return i.Dest.Reg, true
		}
	case LSwapScore:
		return nil, false
	case LGetScore, LGetData:
		for _, m := range i.Modifiers {
			if (m.Kind == common.ModStoreResult || m.Kind == common.ModStoreSuccess) && m.Store.IsReg {
				return m.Store.Reg, true
			}
		}
	}
	return nil, false
}

func substituteInstr(i Instr, copies map[*common.Identifier]common.Value) (Instr, bool) {
	changed := false
	switch i.Kind {
	case LSetScore, LSetData, LAddScore, LSubScore, LMulScore, LDivScore, LModScore, LMinScore, LMaxScore, LGetScore, LGetData:
		if v, ok := substValue(i.Src, copies); ok {
			i.Src = v
			changed = true
		}
	case LCall:
		args := append([]common.Value(nil), i.Call.Args...)
		for idx, a := range args {
			if v, ok := substValue(a, copies); ok {
				args[idx] = v
				changed = true
			}
		}
		if changed {
			i.Call.Args = args
		}
	case LReturnValue:
		if v, ok := substValue(i.RetVal, copies); ok {
			i.RetVal = v
			changed = true
		}
	}
	if mods, did := substModifiers(i.Modifiers, copies); did {
		i.Modifiers = mods
		changed = true
	}
	return i, changed
}

func substValue(v common.Value, copies map[*common.Identifier]common.Value) (common.Value, bool) {
	if v.IsConst || v.Mutable.Kind != common.MVReg {
		return v, false
	}
	if replacement, ok := copies[v.Mutable.Reg]; ok {
		return replacement, true
	}
	return v, false
}

func substModifiers(mods []common.Modifier, copies map[*common.Identifier]common.Value) ([]common.Modifier, bool) {
	changed := false
	out := make([]common.Modifier, len(mods))
	for i, m := range mods {
		if m.Kind == common.ModIf && m.Condition != nil {
			if cond, did := substCond(*m.Condition, copies); did {
				m.Condition = &cond
				changed = true
			}
		}
		out[i] = m
	}
	if !changed {
		return mods, false
	}
	return out, true
}

func substCond(c common.Condition, copies map[*common.Identifier]common.Value) (common.Condition, bool) {
	changed := false
	switch c.Kind {
	case common.CondNot:
		inner, did := substCond(*c.Inner, copies)
		if did {
			c.Inner = &inner
			changed = true
		}
	case common.CondAnd, common.CondOr, common.CondXor:
		l, ld := substCond(*c.Left, copies)
		r, rd := substCond(*c.Right, copies)
		if ld {
			c.Left = &l
			changed = true
		}
		if rd {
			c.Right = &r
			changed = true
		}
	case common.CondEqual, common.CondGreaterThan, common.CondGreaterThanOrEqual, common.CondLessThan, common.CondLessThanOrEqual:
		if lv, ok := substValue(*c.LVal, copies); ok {
			c.LVal = &lv
			changed = true
		}
		if rv, ok := substValue(*c.RVal, copies); ok {
			c.RVal = &rv
			changed = true
		}
	case common.CondExists, common.CondBool, common.CondNotBool:
		if v, ok := substValue(*c.Val, copies); ok {
			c.Val = &v
			changed = true
		}
	}
	return c, changed
}
