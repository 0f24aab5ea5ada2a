package matcher

import (
	"bytes"
	"testing"

	"github.com/classmatch/classmatch/pkg/bytecode"
	"github.com/classmatch/classmatch/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// graph helpers shared by the matcher tests

func addClass(env *entity.Env, side entity.Side, name string, obf bool) *entity.Class {
	return env.AddClass(entity.NewClass(env, side, "L"+name+";", name, "in.json#0", obf, 0))
}

func addPlaceholder(env *entity.Env, side entity.Side, name string) *entity.Class {
	return env.AddClass(entity.NewClass(env, side, "L"+name+";", name, "", false, 0))
}

func addArray(env *entity.Env, elem *entity.Class, dims int) *entity.Class {
	id := ""
	for i := 0; i < dims; i++ {
		id += "["
	}

	arr := env.AddClass(entity.NewClass(env, elem.Side(), id+elem.ID(), elem.Name()+"[]", "", elem.NameObfuscated(), dims))
	arr.SetElement(elem)

	return arr
}

func addMethod(env *entity.Env, cls *entity.Class, name, desc string, obf bool, insns bytecode.InsnList) *entity.Method {
	ret := addPlaceholder(env, cls.Side(), "V")
	m := entity.NewMethod(cls, name, desc, ret, true, obf, insns)
	cls.AddMethod(m)

	return m
}

func addField(env *entity.Env, cls *entity.Class, name, desc string, obf bool) *entity.Field {
	typ := addPlaceholder(env, cls.Side(), "I")
	f := entity.NewField(cls, name, desc, typ, true, obf)
	cls.AddField(f)

	return f
}

func addArg(env *entity.Env, m *entity.Method, name string, obf bool) *entity.MethodVar {
	typ := addPlaceholder(env, m.Cls().Side(), "I")
	v := entity.NewMethodVar(m, true, len(m.Args())+1, 0, typ, 0, 4, name, obf)
	m.AddArg(v)

	return v
}

func addLocal(env *entity.Env, m *entity.Method, name string, obf bool) *entity.MethodVar {
	typ := addPlaceholder(env, m.Cls().Side(), "I")
	v := entity.NewMethodVar(m, false, len(m.Vars())+1, 0, typ, 0, 4, name, obf)
	m.AddVar(v)

	return v
}

func quiet(env *entity.Env) (*Matcher, *bytes.Buffer) {
	m := New(env)
	buf := &bytes.Buffer{}
	m.SetOutput(buf)

	return m, buf
}

func TestMatchClassSymmetry(t *testing.T) {
	env := entity.NewEnv()
	a := addClass(env, entity.SideA, "a", true)
	b := addClass(env, entity.SideB, "b", true)

	m, buf := quiet(env)
	require.NoError(t, m.MatchClass(a, b))

	assert.Same(t, b, a.Match())
	assert.Same(t, a, b.Match())
	assert.Contains(t, buf.String(), "match class a -> b")
}

func TestMatchClassAlreadyMatchedIsNoOp(t *testing.T) {
	env := entity.NewEnv()
	a := addClass(env, entity.SideA, "a", true)
	b := addClass(env, entity.SideB, "b", true)

	m, buf := quiet(env)
	require.NoError(t, m.MatchClass(a, b))

	env.Cache().Put("sentinel", true)
	buf.Reset()

	require.NoError(t, m.MatchClass(a, b))

	assert.Empty(t, buf.String(), "repeated match must not log")

	_, ok := env.Cache().Get("sentinel")
	assert.True(t, ok, "repeated match must not clear the cache")
}

func TestMatchClassContractViolations(t *testing.T) {
	env := entity.NewEnv()
	a := addClass(env, entity.SideA, "a", true)
	b := addClass(env, entity.SideB, "b", true)
	arr := addArray(env, b, 1)

	m, _ := quiet(env)

	assert.Error(t, m.MatchClass(nil, b))
	assert.Error(t, m.MatchClass(a, nil))
	assert.Error(t, m.MatchClass(a, arr), "array dimension mismatch")
	assert.Nil(t, a.Match(), "failed checks must leave the graph intact")
}

func TestMatchClassRebindDropsOldPartner(t *testing.T) {
	env := entity.NewEnv()
	a := addClass(env, entity.SideA, "a", true)
	b1 := addClass(env, entity.SideB, "b1", true)
	b2 := addClass(env, entity.SideB, "b2", true)

	ma := addMethod(env, a, "m", "()V", true, nil)
	mb1 := addMethod(env, b1, "m", "()V", true, nil)

	m, _ := quiet(env)
	require.NoError(t, m.MatchClass(a, b1))
	require.NoError(t, m.MatchMethod(ma, mb1))

	require.NoError(t, m.MatchClass(a, b2))

	assert.Same(t, b2, a.Match())
	assert.Nil(t, b1.Match())
	assert.Nil(t, ma.Match(), "rebinding drops the old members' matches")
	assert.Nil(t, mb1.Match())
}

func TestMatchClassCascadesUnobfuscatedMembers(t *testing.T) {
	env := entity.NewEnv()
	a := addClass(env, entity.SideA, "a", true)
	b := addClass(env, entity.SideB, "b", true)

	ma := addMethod(env, a, "run", "()V", false, nil)
	mb := addMethod(env, b, "run", "()V", false, nil)
	fa := addField(env, a, "count", "I", false)
	fb := addField(env, b, "count", "I", false)

	m, _ := quiet(env)
	require.NoError(t, m.MatchClass(a, b))

	assert.Same(t, mb, ma.Match())
	assert.Same(t, fb, fa.Match())
}

func TestMatchMethodRequiresMatchedClasses(t *testing.T) {
	env := entity.NewEnv()
	a := addClass(env, entity.SideA, "a", true)
	b := addClass(env, entity.SideB, "b", true)
	ma := addMethod(env, a, "m", "()V", true, nil)
	mb := addMethod(env, b, "m", "()V", true, nil)

	m, _ := quiet(env)

	assert.Error(t, m.MatchMethod(ma, mb), "classes are not matched")
	assert.Nil(t, ma.Match())
}

func TestMatchVarContracts(t *testing.T) {
	env := entity.NewEnv()
	a := addClass(env, entity.SideA, "a", true)
	b := addClass(env, entity.SideB, "b", true)
	ma := addMethod(env, a, "m", "(I)V", true, nil)
	mb := addMethod(env, b, "m", "(I)V", true, nil)
	arg := addArg(env, ma, "p", true)
	local := addLocal(env, mb, "l", true)
	argB := addArg(env, mb, "p", true)

	m, _ := quiet(env)
	require.NoError(t, m.MatchClass(a, b))
	require.NoError(t, m.MatchMethod(ma, mb))

	assert.Error(t, m.MatchVar(arg, local), "arg cannot match local")
	require.NoError(t, m.MatchVar(arg, argB))
	assert.Same(t, argB, arg.Match())
}

func TestUnmatchClassCascade(t *testing.T) {
	env := entity.NewEnv()
	a := addClass(env, entity.SideA, "a", true)
	b := addClass(env, entity.SideB, "b", true)

	ma := addMethod(env, a, "m", "(I)V", true, nil)
	mb := addMethod(env, b, "m", "(I)V", true, nil)
	fa := addField(env, a, "f", "I", true)
	fb := addField(env, b, "f", "I", true)
	argA := addArg(env, ma, "p", true)
	argB := addArg(env, mb, "p", true)

	m, _ := quiet(env)
	require.NoError(t, m.MatchClass(a, b))
	require.NoError(t, m.MatchMethod(ma, mb))
	require.NoError(t, m.MatchField(fa, fb))
	require.NoError(t, m.MatchVar(argA, argB))

	require.NoError(t, m.UnmatchClass(a))

	assert.Nil(t, a.Match())
	assert.Nil(t, b.Match())
	assert.Nil(t, ma.Match())
	assert.Nil(t, mb.Match())
	assert.Nil(t, fa.Match())
	assert.Nil(t, fb.Match())
	assert.Nil(t, argA.Match())
	assert.Nil(t, argB.Match())
}

func TestUnmatchIsInvolution(t *testing.T) {
	env := entity.NewEnv()
	a := addClass(env, entity.SideA, "a", true)
	b := addClass(env, entity.SideB, "b", true)

	m, _ := quiet(env)
	require.NoError(t, m.MatchClass(a, b))
	require.NoError(t, m.UnmatchClass(a))

	assert.Nil(t, a.Match())
	assert.Nil(t, b.Match())

	require.NoError(t, m.UnmatchClass(a), "unmatching an unmatched class is a no-op")
}

func TestHierarchyCascade(t *testing.T) {
	env := entity.NewEnv()
	ca := addClass(env, entity.SideA, "ca", true)
	cb := addClass(env, entity.SideB, "cb", true)

	mA := addMethod(env, ca, "m", "()V", true, nil)
	mA2 := addMethod(env, ca, "m2", "()V", true, nil)
	mB := addMethod(env, cb, "n", "()V", true, nil)
	mB2 := addMethod(env, cb, "n2", "()V", true, nil)

	hierA := []*entity.Method{mA, mA2}
	mA.SetHierarchy(hierA)
	mA2.SetHierarchy(hierA)

	hierB := []*entity.Method{mB, mB2}
	mB.SetHierarchy(hierB)
	mB2.SetHierarchy(hierB)

	m, _ := quiet(env)
	require.NoError(t, m.MatchClass(ca, cb))
	require.NoError(t, m.MatchMethod(mA, mB))

	assert.Same(t, mB, mA.Match())
	assert.Same(t, mB2, mA2.Match(), "hierarchy sibling binds through the peer hierarchy")
}

func TestArrayCascade(t *testing.T) {
	env := entity.NewEnv()
	e := addClass(env, entity.SideA, "e", true)
	e2 := addClass(env, entity.SideB, "e2", true)

	arrA1 := addArray(env, e, 1)
	arrA2 := addArray(env, e, 2)
	arrB1 := addArray(env, e2, 1)
	arrB2 := addArray(env, e2, 2)

	m, _ := quiet(env)
	require.NoError(t, m.MatchClass(e, e2))

	assert.Same(t, arrB1, arrA1.Match())
	assert.Same(t, arrB2, arrA2.Match())
}

func TestMatchUnobfuscatedTrivialPair(t *testing.T) {
	env := entity.NewEnv()
	foo := env.AddClass(entity.NewClass(env, entity.SideA, "Lfoo;", "foo", "a.json#0", false, 0))
	fooB := env.AddClass(entity.NewClass(env, entity.SideB, "Lfoo;", "foo", "b.json#0", false, 0))
	obf := addClass(env, entity.SideA, "x", true)

	m, _ := quiet(env)
	require.NoError(t, m.MatchUnobfuscated())

	assert.Same(t, fooB, foo.Match())
	assert.Same(t, foo, fooB.Match())
	assert.Nil(t, obf.Match())
}

func TestStatusCountsRealMembersOnly(t *testing.T) {
	env := entity.NewEnv()
	a := addClass(env, entity.SideA, "a", true)
	b := addClass(env, entity.SideB, "b", true)

	real := addMethod(env, a, "m", "()V", true, nil)
	addArg(env, real, "p", true)

	synthetic := entity.NewMethod(a, "ghost", "()V", nil, false, true, nil)
	a.AddMethod(synthetic)

	m, _ := quiet(env)
	require.NoError(t, m.MatchClass(a, b))

	s := m.Status(true)

	assert.Equal(t, 1, s.TotalClasses)
	assert.Equal(t, 1, s.MatchedClasses)
	assert.Equal(t, 1, s.TotalMethods, "placeholder methods are not counted")
	assert.Equal(t, 1, s.TotalArgs)
	assert.Equal(t, 0, s.MatchedMethods)
}
