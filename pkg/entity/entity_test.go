package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClass(env *Env, side Side, name string, obf bool) *Class {
	cls := NewClass(env, side, "L"+name+";", name, "input.json#0", obf, 0)

	return env.AddClass(cls)
}

func TestEnvLookups(t *testing.T) {
	env := NewEnv()
	a := newTestClass(env, SideA, "a", true)
	b := newTestClass(env, SideB, "a", true)

	assert.Equal(t, []*Class{a}, env.ClassesA())
	assert.Equal(t, []*Class{b}, env.ClassesB())
	assert.Same(t, b, env.LocalClsByIDB("La;"))
	assert.Nil(t, env.ClsByID(SideA, "Lmissing;"))
}

func TestEnvAddClassDeduplicates(t *testing.T) {
	env := NewEnv()
	first := newTestClass(env, SideA, "a", true)
	second := env.AddClass(NewClass(env, SideA, "La;", "a", "other", false, 0))

	assert.Same(t, first, second)
	assert.Len(t, env.ClassesA(), 1)
}

func TestMethodLookups(t *testing.T) {
	env := NewEnv()
	cls := newTestClass(env, SideA, "a", true)
	ret := newTestClass(env, SideA, "V", false)

	m1 := NewMethod(cls, "m", "()V", ret, true, true, nil)
	m2 := NewMethod(cls, "m", "(I)V", ret, true, true, nil)
	m3 := NewMethod(cls, "n", "()V", ret, true, true, nil)
	cls.AddMethod(m1)
	cls.AddMethod(m2)
	cls.AddMethod(m3)

	assert.Same(t, m2, cls.Method("m(I)V"))
	assert.Nil(t, cls.MethodByName("m"), "ambiguous bare name must not resolve")
	assert.Same(t, m3, cls.MethodByName("n"))
	assert.Equal(t, 2, m3.Position())
}

func TestFieldLookups(t *testing.T) {
	env := NewEnv()
	cls := newTestClass(env, SideA, "a", true)
	typ := newTestClass(env, SideA, "I", false)

	f1 := NewField(cls, "f", "I", typ, true, true)
	f2 := NewField(cls, "f", "J", typ, true, true)
	cls.AddField(f1)
	cls.AddField(f2)

	assert.Same(t, f1, cls.Field("fI"))
	assert.Nil(t, cls.FieldByName("f"))
}

func TestMappedNameFallback(t *testing.T) {
	env := NewEnv()
	a := newTestClass(env, SideA, "a", true)
	b := newTestClass(env, SideB, "b", true)

	assert.Empty(t, a.MappedName())

	a.SetMatch(b)
	b.SetMatch(a)
	b.SetMappedName("Renamed")

	assert.Equal(t, "Renamed", a.MappedName(), "mapped name resolves through the match link")
	assert.False(t, a.HasMappedName(), "fallback does not store anything")

	a.SetMappedName("Own")
	assert.Equal(t, "Own", a.MappedName())
}

func TestArrays(t *testing.T) {
	env := NewEnv()
	elem := newTestClass(env, SideA, "a", true)
	arr := NewClass(env, SideA, "[La;", "a[]", "", true, 1)
	env.AddClass(arr)
	arr.SetElement(elem)

	require.Len(t, elem.Arrays(), 1)
	assert.Same(t, arr, elem.Arrays()[0])
	assert.Same(t, elem, arr.Element())
	assert.True(t, arr.IsArray())
	assert.False(t, arr.IsInput())
}

func TestHierarchyMembers(t *testing.T) {
	env := NewEnv()
	base := newTestClass(env, SideA, "base", true)
	sub := newTestClass(env, SideA, "sub", true)
	sub.SetSuper(base)
	ret := newTestClass(env, SideA, "V", false)

	m1 := NewMethod(base, "m", "()V", ret, true, true, nil)
	m2 := NewMethod(sub, "m", "()V", ret, true, true, nil)
	base.AddMethod(m1)
	sub.AddMethod(m2)

	assert.Equal(t, []*Method{m1}, m1.HierarchyMembers(), "hierarchy always includes the method itself")

	set := []*Method{m1, m2}
	m1.SetHierarchy(set)
	m2.SetHierarchy(set)

	assert.True(t, m1.InHierarchy(m2))
	assert.Nil(t, m1.MatchedHierarchyMember())

	peerEnvCls := newTestClass(env, SideB, "peer", true)
	peer := NewMethod(peerEnvCls, "m", "()V", nil, true, true, nil)
	m2.SetMatch(peer)

	assert.Same(t, m2, m1.MatchedHierarchyMember())
	assert.Contains(t, base.Children(), sub)
}

func TestIsFullyMatched(t *testing.T) {
	env := NewEnv()
	a := newTestClass(env, SideA, "a", true)
	b := newTestClass(env, SideB, "b", true)
	ret := newTestClass(env, SideA, "V", false)

	m := NewMethod(a, "m", "()V", ret, true, true, nil)
	a.AddMethod(m)

	assert.False(t, a.IsFullyMatched())

	a.SetMatch(b)
	b.SetMatch(a)
	assert.False(t, a.IsFullyMatched(), "unmatched real member keeps the class partial")

	m.SetMatch(NewMethod(b, "m", "()V", nil, true, true, nil))
	assert.True(t, a.IsFullyMatched())
}

func TestCache(t *testing.T) {
	c := NewCache()

	calls := 0
	v := c.GetOrCompute("k", func() any {
		calls++

		return 42
	})
	assert.Equal(t, 42, v)

	v = c.GetOrCompute("k", func() any {
		calls++

		return 43
	})
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)

	c.Clear()

	_, ok := c.Get("k")
	assert.False(t, ok)
}
