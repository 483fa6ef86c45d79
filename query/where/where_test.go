package where

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroValueMatchesAll(t *testing.T) {
	var n Node
	assert.True(t, n.IsAll())
	assert.False(t, n.IsEmpty())
}

func TestAnd_IdentityAndAbsorption(t *testing.T) {
	leaf := C("id").Eq(1)

	assert.Equal(t, leaf, All().And(leaf), "All is the AND identity")
	assert.Equal(t, leaf, leaf.And(All()))

	assert.True(t, Empty().And(leaf).IsEmpty(), "Empty absorbs under AND")
	assert.True(t, leaf.And(Empty()).IsEmpty())
	assert.True(t, Empty().And(Empty()).IsEmpty())
}

func TestOr_IdentityAndAbsorption(t *testing.T) {
	leaf := C("id").Eq(1)

	assert.Equal(t, leaf, Empty().Or(leaf), "Empty is the OR identity")
	assert.Equal(t, leaf, leaf.Or(Empty()))

	assert.True(t, All().Or(leaf).IsAll(), "All absorbs under OR")
	assert.True(t, leaf.Or(All()).IsAll())
}

func TestNot_LeafOperatorFlips(t *testing.T) {
	cases := []struct {
		in   Node
		want Op
	}{
		{C("a").Eq(1), Ne},
		{C("a").Ne(1), Eq},
		{C("a").Gt(1), Lte},
		{C("a").Gte(1), Lt},
		{C("a").Lt(1), Gte},
		{C("a").Lte(1), Gt},
		{C("a").In(1, 2), NotIn},
		{C("a").NotIn(1, 2), In},
		{C("a").IsNull(), IsNotNull},
		{C("a").IsNotNull(), IsNull},
	}
	for _, tc := range cases {
		got := tc.in.Not()
		assert.Equal(t, kindLeaf, got.kind)
		assert.Equal(t, tc.want, got.op, "negating %s", tc.in.op)
	}
}

func TestNot_SpecialForms(t *testing.T) {
	assert.True(t, All().Not().IsEmpty())
	assert.True(t, Empty().Not().IsAll())

	// No simple dual: wrap and unwrap.
	between := C("a").Between(1, 10)
	wrapped := between.Not()
	assert.Equal(t, kindNot, wrapped.kind)
	assert.Equal(t, between, wrapped.Not(), "double negation cancels")

	combined := C("a").Eq(1).And(C("b").Eq(2))
	assert.Equal(t, kindNot, combined.Not().kind)
}

func TestCombinatorsDoNotMutateOperands(t *testing.T) {
	a := C("a").Eq(1)
	b := C("b").Eq(2)
	before := a

	_ = a.And(b)
	_ = a.Or(b)
	_ = a.Not()

	assert.Equal(t, before, a)
}
