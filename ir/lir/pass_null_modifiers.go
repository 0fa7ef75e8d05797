package lir

import "dpc/common"

// PassNullModifiers implements spec §4.4 "Null modifiers": within one
// instruction's modifier chain, a modifier whose ModContext is fully
// re-established by a later modifier in the same context class has no
// observable effect and can be dropped, provided it has no side effects of
// its own (common.Modifier.HasExtraSideEffects).
func PassNullModifiers(p *Program) (bool, error) {
	changed := false
	for _, name := range p.FuncOrder {
		f := p.Functions[name]
		for idx, instr := range f.Body.Instructions {
			pruned, did := pruneNullModifiers(instr.Modifiers)
			if did {
				instr.Modifiers = pruned
				f.Body.Instructions[idx] = instr
				changed = true
			}
		}
	}
	return changed, nil
}

func pruneNullModifiers(mods []common.Modifier) ([]common.Modifier, bool) {
	if len(mods) < 2 {
		return mods, false
	}
	keep := make([]bool, len(mods))
	for i := range mods {
		keep[i] = true
	}
	settled := make(map[common.ModContext]bool)
	for i := len(mods) - 1; i >= 0; i-- {
		m := mods[i]
		ctx := m.Affects()
		if ctx == common.CtxEverything {
			continue
		}
		if settled[ctx] && !m.HasExtraSideEffects() {
			keep[i] = false
			continue
		}
		settled[ctx] = true
	}
	changed := false
	out := make([]common.Modifier, 0, len(mods))
	for i, m := range mods {
		if keep[i] {
			out = append(out, m)
		} else {
			changed = true
		}
	}
	if !changed {
		return mods, false
	}
	return out, true
}
