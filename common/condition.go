package common

import "fmt"

// ConditionKind tags the recursive Condition sum type (spec §3).
type ConditionKind int

const (
	CondNot ConditionKind = iota
	CondAnd
	CondOr
	CondXor
	CondEqual
	CondGreaterThan
	CondGreaterThanOrEqual
	CondLessThan
	CondLessThanOrEqual
	CondExists
	CondBool
	CondNotBool
	CondEntity
	CondPredicate
	CondBiome
	CondLoaded
	CondDimension
	CondFunction
	CondBlock
	CondConst
)

// Condition is the recursive boolean-expression tree used by If/IfElse and
// let-cond assignment.
type Condition struct {
	Kind ConditionKind

	// Not
	Inner *Condition
	// And/Or/Xor are n-ary in principle but represented as a binary tree,
	// matching spec §4.3's pairwise And/Or lowering.
	Left, Right *Condition

	// Equal/GreaterThan/.../comparison terminals
	LVal, RVal *Value

	// Exists/Bool/NotBool
	Val *Value

	// Entity/Predicate/Biome/Loaded/Dimension/Function/Block terminals
	Target       EntityTarget
	ResourceLoc  ResourceLocation
	Coords       Coordinates
	BlockID      string

	// Const
	ConstVal bool
}

func NotCond(c Condition) Condition { return Condition{Kind: CondNot, Inner: &c} }
func AndCond(l, r Condition) Condition {
	return Condition{Kind: CondAnd, Left: &l, Right: &r}
}
func OrCond(l, r Condition) Condition {
	return Condition{Kind: CondOr, Left: &l, Right: &r}
}
func XorCond(l, r Condition) Condition {
	return Condition{Kind: CondXor, Left: &l, Right: &r}
}
func EqualCond(l, r Value) Condition {
	return Condition{Kind: CondEqual, LVal: &l, RVal: &r}
}
func GreaterThanCond(l, r Value) Condition {
	return Condition{Kind: CondGreaterThan, LVal: &l, RVal: &r}
}
func GreaterThanOrEqualCond(l, r Value) Condition {
	return Condition{Kind: CondGreaterThanOrEqual, LVal: &l, RVal: &r}
}
func LessThanCond(l, r Value) Condition {
	return Condition{Kind: CondLessThan, LVal: &l, RVal: &r}
}
func LessThanOrEqualCond(l, r Value) Condition {
	return Condition{Kind: CondLessThanOrEqual, LVal: &l, RVal: &r}
}
func ExistsCond(v Value) Condition  { return Condition{Kind: CondExists, Val: &v} }
func BoolCond(v Value) Condition    { return Condition{Kind: CondBool, Val: &v} }
func NotBoolCond(v Value) Condition { return Condition{Kind: CondNotBool, Val: &v} }
func ConstCond(b bool) Condition    { return Condition{Kind: CondConst, ConstVal: b} }

// EvalConst evaluates a condition that is fully composed of constants,
// recursing through boolean combinators (spec §4.2 "Pass: Constant combo /
// Condition").
func (c Condition) EvalConst() (value bool, ok bool) {
	switch c.Kind {
	case CondConst:
		return c.ConstVal, true
	case CondNot:
		if v, ok := c.Inner.EvalConst(); ok {
			return !v, true
		}
	case CondAnd:
		l, lok := c.Left.EvalConst()
		r, rok := c.Right.EvalConst()
		if lok && rok {
			return l && r, true
		}
	case CondOr:
		l, lok := c.Left.EvalConst()
		r, rok := c.Right.EvalConst()
		if lok && rok {
			return l || r, true
		}
	case CondXor:
		l, lok := c.Left.EvalConst()
		r, rok := c.Right.EvalConst()
		if lok && rok {
			return l != r, true
		}
	case CondEqual:
		if lv, lok := c.LVal.AsConstInt(); lok {
			if rv, rok := c.RVal.AsConstInt(); rok {
				return lv == rv, true
			}
		}
	case CondGreaterThan:
		if lv, lok := c.LVal.AsConstInt(); lok {
			if rv, rok := c.RVal.AsConstInt(); rok {
				return lv > rv, true
			}
		}
	case CondGreaterThanOrEqual:
		if lv, lok := c.LVal.AsConstInt(); lok {
			if rv, rok := c.RVal.AsConstInt(); rok {
				return lv >= rv, true
			}
		}
	case CondLessThan:
		if lv, lok := c.LVal.AsConstInt(); lok {
			if rv, rok := c.RVal.AsConstInt(); rok {
				return lv < rv, true
			}
		}
	case CondLessThanOrEqual:
		if lv, lok := c.LVal.AsConstInt(); lok {
			if rv, rok := c.RVal.AsConstInt(); rok {
				return lv <= rv, true
			}
		}
	case CondBool:
		if v, ok := c.Val.AsConstInt(); ok {
			return v != 0, true
		}
	case CondNotBool:
		if v, ok := c.Val.AsConstInt(); ok {
			return v == 0, true
		}
	}
	return false, false
}

// GetCost implements the static cost heuristic from
// original_source/src/common/cost.rs, used by the reorder-conditions pass
// and by the cheap/expensive OR-lowering strategy choice.
func (c Condition) GetCost() float64 {
	switch c.Kind {
	case CondAnd, CondOr, CondXor:
		return c.Left.GetCost() + c.Right.GetCost()
	case CondNot:
		return c.Inner.GetCost()
	case CondEntity:
		return 40.0
	case CondFunction:
		return 20.0
	case CondBiome, CondLoaded, CondDimension:
		return 18.0
	case CondPredicate:
		return 12.0
	case CondGreaterThan, CondGreaterThanOrEqual, CondLessThan, CondLessThanOrEqual:
		return (c.LVal.GetCost() + c.RVal.GetCost()) * 1.8
	case CondExists:
		return c.Val.GetCost() * 1.8
	case CondEqual:
		return (c.LVal.GetCost() + c.RVal.GetCost()) * 1.2
	case CondBool, CondNotBool:
		return c.Val.GetCost() * 1.1
	case CondBlock:
		return 32.0
	case CondConst:
		return 0.0
	default:
		return 1.0
	}
}

// GetCost for Value, grounded on cost.rs's impl for Value/MutableValue.
func (v Value) GetCost() float64 {
	if v.IsConst {
		return 0.1
	}
	return v.Mutable.GetCost()
}

func (m MutableValue) GetCost() float64 {
	switch m.Kind {
	case MVData:
		return 4.0
	case MVScore:
		return 1.1
	case MVProperty:
		return m.Inner.GetCost() + 0.35
	case MVIndex:
		return m.Inner.GetCost() + 0.25
	default:
		return 1.0
	}
}

func (c Condition) String() string {
	switch c.Kind {
	case CondNot:
		return fmt.Sprintf("not(%s)", c.Inner)
	case CondAnd:
		return fmt.Sprintf("and(%s, %s)", c.Left, c.Right)
	case CondOr:
		return fmt.Sprintf("or(%s, %s)", c.Left, c.Right)
	case CondXor:
		return fmt.Sprintf("xor(%s, %s)", c.Left, c.Right)
	case CondEqual:
		return fmt.Sprintf("eq(%s, %s)", c.LVal, c.RVal)
	case CondGreaterThan:
		return fmt.Sprintf("gt(%s, %s)", c.LVal, c.RVal)
	case CondGreaterThanOrEqual:
		return fmt.Sprintf("ge(%s, %s)", c.LVal, c.RVal)
	case CondLessThan:
		return fmt.Sprintf("lt(%s, %s)", c.LVal, c.RVal)
	case CondLessThanOrEqual:
		return fmt.Sprintf("le(%s, %s)", c.LVal, c.RVal)
	case CondExists:
		return fmt.Sprintf("exists(%s)", c.Val)
	case CondBool:
		return fmt.Sprintf("bool(%s)", c.Val)
	case CondNotBool:
		return fmt.Sprintf("notbool(%s)", c.Val)
	case CondConst:
		return fmt.Sprintf("const(%v)", c.ConstVal)
	default:
		return "cond?"
	}
}

// UsedRegs appends every register id mentioned anywhere in the condition
// tree.
func (c Condition) UsedRegs(out []*Identifier) []*Identifier {
	switch c.Kind {
	case CondNot:
		return c.Inner.UsedRegs(out)
	case CondAnd, CondOr, CondXor:
		out = c.Left.UsedRegs(out)
		return c.Right.UsedRegs(out)
	case CondEqual, CondGreaterThan, CondGreaterThanOrEqual, CondLessThan, CondLessThanOrEqual:
		out = c.LVal.UsedRegs(out)
		return c.RVal.UsedRegs(out)
	case CondExists, CondBool, CondNotBool:
		return c.Val.UsedRegs(out)
	default:
		return out
	}
}
