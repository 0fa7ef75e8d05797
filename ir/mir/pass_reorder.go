package mir

import "dpc/common"

// PassReorderConditions implements spec §4.2 "Pass: Reorder conditions":
// for commutative And/Or, reorder subterms so the lower-cost term is
// evaluated first.
func PassReorderConditions(p *Program) (bool, error) {
	changed := false
	for _, id := range p.Blocks.Order() {
		b, _ := p.Blocks.Get(id)
		if reorderBlock(p, b) {
			changed = true
		}
	}
	return changed, nil
}

func reorderBlock(p *Program, b *Block) bool {
	changed := false
	for i, instr := range b.Instructions {
		for _, child := range instr.Children() {
			if cb, ok := p.GetBlock(child); ok {
				if reorderBlock(p, cb) {
					changed = true
				}
			}
		}
		if rewritten, did := reorderCondition(instr.Cond); did {
			switch instr.Kind {
			case common.IIf, common.IIfElse:
				instr.Cond = rewritten
				b.Instructions[i] = instr
				changed = true
			}
		}
		if instr.Kind == common.IAssign && instr.AssignBinding.Kind == common.DBCondition {
			if rewritten, did := reorderCondition(*instr.AssignBinding.Cond); did {
				instr.AssignBinding.Cond = &rewritten
				b.Instructions[i] = instr
				changed = true
			}
		}
	}
	return changed
}

// reorderCondition recursively swaps And/Or operands so the cheaper one
// comes first, returning whether anything changed anywhere in the tree.
func reorderCondition(c common.Condition) (common.Condition, bool) {
	changed := false
	switch c.Kind {
	case common.CondAnd, common.CondOr, common.CondXor:
		l, lc := reorderCondition(*c.Left)
		r, rc := reorderCondition(*c.Right)
		changed = lc || rc
		if c.Kind != common.CondXor && l.GetCost() > r.GetCost() {
			l, r = r, l
			changed = true
		}
		c.Left, c.Right = &l, &r
	case common.CondNot:
		inner, ic := reorderCondition(*c.Inner)
		if ic {
			c.Inner = &inner
			changed = true
		}
	}
	return c, changed
}
