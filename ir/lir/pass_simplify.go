package lir

import "dpc/common"

// PassSimplifyLIR implements spec §4.4 "Simplify LIR": drop commands that
// are provably no-ops and carry no modifiers at all, and collapse a
// self-assignment (`x = x`) without a side-effectful modifier to nothing.
func PassSimplifyLIR(p *Program) (bool, error) {
	changed := false
	for _, name := range p.FuncOrder {
		f := p.Functions[name]
		out := f.Body.Instructions[:0:0]
		for _, instr := range f.Body.Instructions {
			if isSelfAssign(instr) && !instr.HasSideEffectfulModifier() {
				changed = true
				continue
			}
			if instr.IsNoOpCommand() && !instr.HasSideEffectfulModifier() && len(instr.Modifiers) == 0 {
				changed = true
				continue
			}
			out = append(out, instr)
		}
		f.Body.Instructions = out
	}
	return changed, nil
}

func isSelfAssign(i Instr) bool {
	if i.Kind != LSetScore && i.Kind != LSetData {
		return false
	}
	if i.Src.IsConst {
		return false
	}
	return mutableEqual(i.Dest, i.Src.Mutable)
}

func mutableEqual(a, b common.MutableValue) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case common.MVReg:
		return a.Reg == b.Reg
	case common.MVArg, common.MVReturnValue:
		return a.Index == b.Index
	case common.MVCallArg, common.MVCallReturnValue:
		return a.Index == b.Index && a.Callee == b.Callee
	case common.MVScore:
		return a.ScoreRef == b.ScoreRef
	case common.MVData:
		return a.Data == b.Data
	case common.MVProperty:
		return a.Field == b.Field && mutableEqual(*a.Inner, *b.Inner)
	case common.MVIndex:
		return a.Elem == b.Elem && mutableEqual(*a.Inner, *b.Inner)
	default:
		return false
	}
}
