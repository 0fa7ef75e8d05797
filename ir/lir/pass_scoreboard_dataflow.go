package lir

import "dpc/common"

// PassScoreboardDataflow implements spec §4.4 "Scoreboard dataflow" (result-
// store fusion): a score arithmetic/Set instruction immediately followed by
// a Get of the exact same destination, wrapped only in a StoreResult or
// StoreSuccess modifier, collapses into one instruction by attaching that
// modifier directly to the producing op and dropping the Get — the same
// `execute store result ... run <op>` shape ir/lir/lower.go already uses
// for Not/Cast, generalized as a post-hoc fusion here.
func PassScoreboardDataflow(p *Program) (bool, error) {
	changed := false
	for _, name := range p.FuncOrder {
		f := p.Functions[name]
		if fuseScoreboardDataflow(f.Body) {
			changed = true
		}
	}
	return changed, nil
}

func fuseScoreboardDataflow(b *Block) bool {
	changed := false
	instrs := b.Instructions
	for i := 0; i < len(instrs)-1; i++ {
		cur := instrs[i]
		if !IsScoreArith(cur.Kind) && cur.Kind != LSetScore {
			continue
		}
		if cur.HasSideEffectfulModifier() {
			continue
		}
		next := instrs[i+1]
		if next.Kind != LGetScore || len(next.Modifiers) != 1 {
			continue
		}
		if next.Src.IsConst || !mutableEqual(next.Src.Mutable, cur.Dest) {
			continue
		}
		m := next.Modifiers[0]
		if m.Kind != common.ModStoreResult && m.Kind != common.ModStoreSuccess {
			continue
		}
		cur.Modifiers = append(append([]common.Modifier{}, cur.Modifiers...), m)
		instrs[i] = cur
		instrs = append(instrs[:i+1], instrs[i+2:]...)
		changed = true
	}
	b.Instructions = instrs
	return changed
}
