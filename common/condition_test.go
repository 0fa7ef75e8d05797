package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvalConstComparisons(t *testing.T) {
	v, ok := EqualCond(ConstScore(3), ConstScore(3)).EvalConst()
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = GreaterThanCond(ConstScore(1), ConstScore(3)).EvalConst()
	assert.True(t, ok)
	assert.False(t, v)

	v, ok = LessThanOrEqualCond(ConstScore(3), ConstScore(3)).EvalConst()
	assert.True(t, ok)
	assert.True(t, v)
}

func TestEvalConstCombinators(t *testing.T) {
	tt := ConstCond(true)
	ff := ConstCond(false)

	v, ok := Condition{Kind: CondAnd, Left: &tt, Right: &ff}.EvalConst()
	assert.True(t, ok)
	assert.False(t, v)

	v, ok = Condition{Kind: CondOr, Left: &tt, Right: &ff}.EvalConst()
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = Condition{Kind: CondXor, Left: &tt, Right: &tt}.EvalConst()
	assert.True(t, ok)
	assert.False(t, v)

	notTrue := Condition{Kind: CondNot, Inner: &tt}
	v, ok = notTrue.EvalConst()
	assert.True(t, ok)
	assert.False(t, v)
}

func TestEvalConstNonConstantIsNotFolded(t *testing.T) {
	reg := Intern("x")
	_, ok := EqualCond(Mutable(RegVal(reg)), ConstScore(3)).EvalConst()
	assert.False(t, ok)
}

func TestAsConstInt(t *testing.T) {
	v, ok := ConstScore(42).AsConstInt()
	assert.True(t, ok)
	assert.Equal(t, int32(42), v)

	reg := Intern("y")
	_, ok = Mutable(RegVal(reg)).AsConstInt()
	assert.False(t, ok)
}
