package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeConstructors(t *testing.T) {
	assert.True(t, Unbounded().Contains(0))
	assert.True(t, Unbounded().Contains(-1000))

	al := AtLeast(5)
	assert.True(t, al.Contains(5))
	assert.True(t, al.Contains(100))
	assert.False(t, al.Contains(4))

	am := AtMost(5)
	assert.True(t, am.Contains(5))
	assert.False(t, am.Contains(6))

	ex := Exactly(7)
	v, ok := ex.IsSinglePoint()
	assert.True(t, ok)
	assert.Equal(t, int64(7), v)

	between := Between(1, 3)
	assert.True(t, between.Contains(1))
	assert.True(t, between.Contains(2))
	assert.True(t, between.Contains(3))
	assert.False(t, between.Contains(0))
	assert.False(t, between.Contains(4))
}

func TestRangeIsSatisfiable(t *testing.T) {
	assert.True(t, Between(1, 3).IsSatisfiable())
	assert.False(t, Between(3, 1).IsSatisfiable())
	assert.True(t, AtLeast(0).IsSatisfiable())
}

func TestRangeIntersect(t *testing.T) {
	r := AtLeast(0).Intersect(AtMost(10))
	assert.True(t, r.HasLeft)
	assert.True(t, r.HasRight)
	assert.Equal(t, int64(0), r.Left)
	assert.Equal(t, int64(10), r.Right)

	tighter := Between(2, 8).Intersect(Between(0, 5))
	assert.Equal(t, int64(2), tighter.Left)
	assert.Equal(t, int64(5), tighter.Right)
}

func TestRangeString(t *testing.T) {
	assert.Equal(t, "5", Exactly(5).String())
	assert.Equal(t, "5..", AtLeast(5).String())
	assert.Equal(t, "..5", AtMost(5).String())
	assert.Equal(t, "..", Unbounded().String())
}
