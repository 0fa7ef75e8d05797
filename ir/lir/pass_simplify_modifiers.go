package lir

import "dpc/common"

// PassSimplifyModifiers implements spec §4.4 "Simplify modifiers": drop
// modifier-chain entries that are provably trivial — `as @s[]`, `positioned
// ~ ~ ~` — grounded on EntityTarget.IsSelf/Coordinates.IsOrigin (common/mc.go).
func PassSimplifyModifiers(p *Program) (bool, error) {
	changed := false
	for _, name := range p.FuncOrder {
		f := p.Functions[name]
		for idx, instr := range f.Body.Instructions {
			out := instr.Modifiers[:0:0]
			for _, m := range instr.Modifiers {
				if isTrivialModifier(m) {
					changed = true
					continue
				}
				out = append(out, m)
			}
			instr.Modifiers = out
			f.Body.Instructions[idx] = instr
		}
	}
	return changed, nil
}

func isTrivialModifier(m common.Modifier) bool {
	switch m.Kind {
	case common.ModAs, common.ModPositionedAs, common.ModRotatedAs, common.ModFacingEntity:
		return m.Target.IsSelf()
	case common.ModPositioned:
		return m.Coords.IsOrigin()
	case common.ModAlign:
		return !m.AlignX && !m.AlignY && !m.AlignZ
	default:
		return false
	}
}
