package mir

import "dpc/common"

// PassMultifoldAssign implements spec §4.2 "Pass: Multifold assign": four
// pattern-rewrites over observed instruction sequences.
func PassMultifoldAssign(p *Program) (bool, error) {
	changed := false
	for _, id := range p.Blocks.Order() {
		b, _ := p.Blocks.Get(id)
		if multifoldAssignBlock(p, b) {
			changed = true
		}
	}
	return changed, nil
}

func multifoldAssignBlock(p *Program, b *Block) bool {
	changed := false
	for _, instr := range b.Instructions {
		for _, child := range instr.Children() {
			if cb, ok := p.GetBlock(child); ok {
				if multifoldAssignBlock(p, cb) {
					changed = true
				}
			}
		}
	}

	if rewriteZeroOneCond(p, b) {
		changed = true
	}
	if rewriteConstPlacement(b) {
		changed = true
	}
	if rewriteOpThenOverwrite(b) {
		changed = true
	}
	if rewriteStackPeak(b) {
		changed = true
	}
	return changed
}

// `x = 0; if C: x = 1` -> `x = cond C`.
func rewriteZeroOneCond(p *Program, b *Block) bool {
	changed := false
	out := b.Instructions[:0:0]
	for i := 0; i < len(b.Instructions); i++ {
		instr := b.Instructions[i]
		if instr.Kind == common.IAssign && instr.AssignBinding.Kind == common.DBValue && i+1 < len(b.Instructions) {
			if c, ok := instr.AssignBinding.Val.AsConstInt(); ok && c == 0 {
				next := b.Instructions[i+1]
				if next.Kind == common.IIf {
					if body, ok := p.GetBlock(next.Body); ok && len(body.Instructions) == 1 {
						inner := body.Instructions[0]
						if inner.Kind == common.IAssign && inner.AssignBinding.Kind == common.DBValue &&
							sameMutable(inner.Left, instr.Left) {
							if iv, ok := inner.AssignBinding.Val.AsConstInt(); ok && iv == 1 {
								out = append(out, common.AssignInstr(instr.Left, common.ConditionBinding(next.Cond)))
								i++
								changed = true
								continue
							}
						}
					}
				}
			}
		}
		out = append(out, instr)
	}
	b.Instructions = out
	return changed
}

// `x = A(const); x += y` -> `x = y; x += A`.
func rewriteConstPlacement(b *Block) bool {
	changed := false
	for i := 0; i+1 < len(b.Instructions); i++ {
		instr := b.Instructions[i]
		next := b.Instructions[i+1]
		if instr.Kind != common.IAssign || instr.AssignBinding.Kind != common.DBValue {
			continue
		}
		if _, ok := instr.AssignBinding.Val.AsConstInt(); !ok {
			continue
		}
		if next.Kind != common.IAdd || !sameMutable(next.Left, instr.Left) {
			continue
		}
		if next.Right.IsConst {
			continue
		}
		constVal := instr.AssignBinding.Val
		b.Instructions[i] = common.AssignInstr(instr.Left, common.ValueBinding(next.Right))
		b.Instructions[i+1] = common.AddInstr(instr.Left, constVal)
		changed = true
		i++
	}
	return changed
}

// `x o= ...; x = y` -> `x = y` (the arithmetic op is dead, overwritten
// before any read).
func rewriteOpThenOverwrite(b *Block) bool {
	changed := false
	out := b.Instructions[:0:0]
	for i := 0; i < len(b.Instructions); i++ {
		instr := b.Instructions[i]
		if isArithOp(instr.Kind) && i+1 < len(b.Instructions) {
			next := b.Instructions[i+1]
			if next.Kind == common.IAssign && sameMutable(next.Left, instr.Left) {
				changed = true
				continue
			}
		}
		out = append(out, instr)
	}
	b.Instructions = out
	return changed
}

func isArithOp(k common.InstrKind) bool {
	switch k {
	case common.IAdd, common.ISub, common.IMul, common.IDiv, common.IMod,
		common.IMin, common.IMax, common.IAnd, common.IOr, common.IXor:
		return true
	}
	return false
}

// `x = y; x o= ...; ...; y = x` -> in-place ops directly on y, eliminating
// the temporary x (the "stack peak" pattern).
func rewriteStackPeak(b *Block) bool {
	changed := false
	for i := 0; i < len(b.Instructions); i++ {
		start := b.Instructions[i]
		if start.Kind != common.IAssign || start.AssignBinding.Kind != common.DBValue || start.Left.Kind != common.MVReg {
			continue
		}
		y := start.AssignBinding.Val
		if y.IsConst || y.Mutable.Kind != common.MVReg {
			continue
		}
		x := start.Left

		j := i + 1
		for j < len(b.Instructions) {
			mid := b.Instructions[j]
			if mid.Kind == common.IAssign && mid.AssignBinding.Kind == common.DBValue &&
				sameMutable(mid.Left, y.Mutable) && valIsMutable(mid.AssignBinding.Val, x) {
				break
			}
			if !isArithOp(mid.Kind) || !sameMutable(mid.Left, x) || valIsMutable(mid.Right, x) {
				j = -1
				break
			}
			// The RHS must not itself read y (would be shadowed once we
			// alias x to y).
			if valIsMutable(mid.Right, y.Mutable) {
				j = -1
				break
			}
			j++
		}
		if j < 0 || j >= len(b.Instructions) {
			continue
		}

		mid := make([]common.Instr, j-(i+1))
		for k := i + 1; k < j; k++ {
			op := b.Instructions[k]
			op.Left = y.Mutable
			mid[k-(i+1)] = op
		}
		rebuilt := make([]common.Instr, 0, len(b.Instructions)-2)
		rebuilt = append(rebuilt, b.Instructions[:i]...)
		rebuilt = append(rebuilt, mid...)
		rebuilt = append(rebuilt, b.Instructions[j+1:]...)
		b.Instructions = rebuilt
		changed = true
	}
	return changed
}
