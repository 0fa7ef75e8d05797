package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternerReturnsSamePointerForEqualText(t *testing.T) {
	in := NewInterner()
	a := in.Intern("foo")
	b := in.Intern("foo")
	assert.Same(t, a, b)
	assert.Equal(t, 1, in.Len())
}

func TestInternerDistinguishesDifferentText(t *testing.T) {
	in := NewInterner()
	a := in.Intern("foo")
	b := in.Intern("bar")
	assert.NotSame(t, a, b)
	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(b))
}

func TestIdentifierNilName(t *testing.T) {
	var id *Identifier
	assert.Equal(t, "", id.Name())
}

func TestPackageLevelInternIsStable(t *testing.T) {
	a := Intern("shared_name_test")
	b := Intern("shared_name_test")
	assert.Same(t, a, b)
}
