package lir

import "dpc/common"

// PassMergeModifiers implements spec §4.4 "Merge modifiers": fold two
// adjacent positional/rotation modifiers of the same kind into one using
// Coordinate.Compose, and intersect two adjacent `If` clauses that test the
// same comparison shape via Range (common/range.go). When the merged range
// is unsatisfiable the pair becomes a single `If` on a constant-false
// condition, which stays in the chain as a statically-false guard; the
// instruction itself is not removed here.
func PassMergeModifiers(p *Program) (bool, error) {
	changed := false
	for _, name := range p.FuncOrder {
		f := p.Functions[name]
		for idx, instr := range f.Body.Instructions {
			merged, did := mergeChain(instr.Modifiers)
			if did {
				instr.Modifiers = merged
				f.Body.Instructions[idx] = instr
				changed = true
			}
		}
	}
	return changed, nil
}

func mergeChain(mods []common.Modifier) ([]common.Modifier, bool) {
	if len(mods) < 2 {
		return mods, false
	}
	out := make([]common.Modifier, 0, len(mods))
	changed := false
	i := 0
	for i < len(mods) {
		cur := mods[i]
		if i+1 < len(mods) {
			next := mods[i+1]
			if merged, ok := tryMergePair(cur, next); ok {
				out = append(out, merged)
				i += 2
				changed = true
				continue
			}
		}
		out = append(out, cur)
		i++
	}
	if !changed {
		return mods, false
	}
	return out, true
}

func tryMergePair(a, b common.Modifier) (common.Modifier, bool) {
	switch {
	case a.Kind == common.ModPositioned && b.Kind == common.ModPositioned:
		a.Coords = a.Coords.Compose(b.Coords)
		return a, true
	case a.Kind == common.ModRotated && b.Kind == common.ModRotated:
		a.Rot[0] = a.Rot[0].Compose(b.Rot[0])
		a.Rot[1] = a.Rot[1].Compose(b.Rot[1])
		return a, true
	case a.Kind == common.ModIf && b.Kind == common.ModIf:
		return tryMergeIfPair(a, b)
	}
	return common.Modifier{}, false
}

// tryMergeIfPair intersects two adjacent score-range If clauses that test
// the same mutable against a constant, via Range (spec §4.4).
func tryMergeIfPair(a, b common.Modifier) (common.Modifier, bool) {
	ar, aReg, ok := conditionAsRange(*a.Condition, a.Negate)
	if !ok {
		return common.Modifier{}, false
	}
	br, bReg, ok := conditionAsRange(*b.Condition, b.Negate)
	if !ok || aReg != bReg {
		return common.Modifier{}, false
	}
	merged := ar.Intersect(br)
	return common.IfModifier(rangeToCond(aReg, merged), false), true
}

// rangeToCond renders a merged Range back into a Condition. common.Condition
// has no native inclusive-range comparison node, so a range bounded on both
// sides becomes an And of the two single-sided comparisons.
func rangeToCond(reg *common.Identifier, r common.Range) common.Condition {
	v := common.Mutable(common.RegVal(reg))
	if !r.IsSatisfiable() {
		return common.ConstCond(false)
	}
	if point, ok := r.IsSinglePoint(); ok {
		return common.EqualCond(v, common.ConstScore(int32(point)))
	}
	switch {
	case r.HasLeft && r.HasRight:
		return common.AndCond(
			common.GreaterThanOrEqualCond(v, common.ConstScore(int32(r.Left))),
			common.LessThanOrEqualCond(v, common.ConstScore(int32(r.Right))),
		)
	case r.HasLeft:
		return common.GreaterThanOrEqualCond(v, common.ConstScore(int32(r.Left)))
	case r.HasRight:
		return common.LessThanOrEqualCond(v, common.ConstScore(int32(r.Right)))
	default:
		return common.ConstCond(true)
	}
}

// conditionAsRange extracts a `reg <op> const` comparison as a Range over
// reg, if the condition has that shape.
func conditionAsRange(c common.Condition, negate bool) (common.Range, *common.Identifier, bool) {
	if c.LVal == nil || c.RVal == nil {
		return common.Range{}, nil, false
	}
	if c.LVal.IsConst || !c.RVal.IsConst {
		return common.Range{}, nil, false
	}
	if c.LVal.Mutable.Kind != common.MVReg {
		return common.Range{}, nil, false
	}
	reg := c.LVal.Mutable.Reg
	k := int64(c.RVal.Constant.ScoreVal)
	var r common.Range
	switch c.Kind {
	case common.CondEqual:
		r = common.Exactly(k)
	case common.CondGreaterThan:
		r = common.AtLeast(k + 1)
	case common.CondGreaterThanOrEqual:
		r = common.AtLeast(k)
	case common.CondLessThan:
		r = common.AtMost(k - 1)
	case common.CondLessThanOrEqual:
		r = common.AtMost(k)
	default:
		return common.Range{}, nil, false
	}
	if negate {
		return common.Range{}, nil, false
	}
	return r, reg, true
}
