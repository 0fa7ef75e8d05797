package lir

import "dpc/common"

// PassGetDataflow implements spec §4.4 "Get dataflow": a Get instruction
// storing its result into a register that is then immediately and solely
// copied into a score or storage destination collapses into one Get
// targeting that destination directly, eliminating the intermediate
// register. A copy into another register is left as it is.
func PassGetDataflow(p *Program) (bool, error) {
	changed := false
	for _, name := range p.FuncOrder {
		f := p.Functions[name]
		if fuseGetDataflow(f.Body) {
			changed = true
		}
	}
	return changed, nil
}

func fuseGetDataflow(b *Block) bool {
	changed := false
	instrs := b.Instructions
	for i := 0; i < len(instrs)-1; i++ {
		cur := instrs[i]
		if cur.Kind != LGetScore && cur.Kind != LGetData {
			continue
		}
		storeIdx, reg, ok := soleStoreTarget(cur.Modifiers)
		if !ok {
			continue
		}
		next := instrs[i+1]
		if (next.Kind != LSetScore && next.Kind != LSetData) || len(next.Modifiers) != 0 {
			continue
		}
		if next.Src.IsConst || next.Src.Mutable.Kind != common.MVReg || next.Src.Mutable.Reg != reg {
			continue
		}
		if regReadAfter(instrs[i+2:], reg) {
			continue
		}
		// cur shares its Modifiers with instrs[i], so check the destination
		// before rewriting the store target in place.
		if next.Dest.Kind != common.MVScore && next.Dest.Kind != common.MVData {
			continue
		}
		cur.Modifiers[storeIdx].Store.IsReg = false
		cur.Modifiers[storeIdx].Store.Reg = nil
		switch next.Dest.Kind {
		case common.MVScore:
			cur.Modifiers[storeIdx].Store.IsScore = true
			cur.Modifiers[storeIdx].Store.Score = next.Dest.ScoreRef
		case common.MVData:
			cur.Modifiers[storeIdx].Store.IsScore = false
			cur.Modifiers[storeIdx].Store.Data = next.Dest.Data
		default:
			continue
		}
		instrs[i] = cur
		instrs = append(instrs[:i+1], instrs[i+2:]...)
		changed = true
	}
	b.Instructions = instrs
	return changed
}

func soleStoreTarget(mods []common.Modifier) (int, *common.Identifier, bool) {
	idx := -1
	var reg *common.Identifier
	for i, m := range mods {
		if (m.Kind == common.ModStoreResult || m.Kind == common.ModStoreSuccess) && m.Store.IsReg {
			if idx != -1 {
				return 0, nil, false
			}
			idx, reg = i, m.Store.Reg
		}
	}
	if idx == -1 {
		return 0, nil, false
	}
	return idx, reg, true
}
