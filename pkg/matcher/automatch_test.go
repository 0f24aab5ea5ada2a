package matcher

import (
	"testing"

	"github.com/classmatch/classmatch/pkg/bytecode"
	"github.com/classmatch/classmatch/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeDropsConflicts(t *testing.T) {
	pairs := []matchPair[string]{
		{subject: "s1", peer: "p"},
		{subject: "s2", peer: "p"},
		{subject: "s3", peer: "q"},
	}

	kept := sanitize(pairs)

	require.Len(t, kept, 1)
	assert.Equal(t, "s3", kept[0].subject)

	seen := make(map[string]bool)
	for _, p := range kept {
		assert.False(t, seen[p.peer])
		seen[p.peer] = true
	}
}

func TestAutoMatchClassesBindsLonePair(t *testing.T) {
	env := entity.NewEnv()
	a := addClass(env, entity.SideA, "a", true)
	b := addClass(env, entity.SideB, "b", true)

	m, buf := quiet(env)
	matched, err := m.AutoMatchClasses(nil)

	require.NoError(t, err)
	assert.True(t, matched)
	assert.Same(t, b, a.Match())
	assert.Contains(t, buf.String(), "Auto matched 1 classes")
}

func TestAutoMatchClassesConflictDiscarded(t *testing.T) {
	env := entity.NewEnv()
	s1 := addClass(env, entity.SideA, "s1", true)
	s2 := addClass(env, entity.SideA, "s2", true)
	p := addClass(env, entity.SideB, "p", true)

	m, _ := quiet(env)
	matched, err := m.AutoMatchClasses(nil)

	require.NoError(t, err)
	assert.False(t, matched, "both subjects claim the same peer, nothing commits")
	assert.Nil(t, s1.Match())
	assert.Nil(t, s2.Match())
	assert.Nil(t, p.Match())
}

func TestAutoMatchClassesSkipsUnobfuscated(t *testing.T) {
	env := entity.NewEnv()
	named := addClass(env, entity.SideA, "named", false)
	addClass(env, entity.SideB, "peer", true)

	m, _ := quiet(env)
	matched, err := m.AutoMatchClasses(nil)

	require.NoError(t, err)
	assert.False(t, matched)
	assert.Nil(t, named.Match(), "unobfuscated classes are not auto-match subjects")
}

func TestAutoMatchMethodsBindsWithinMatchedClass(t *testing.T) {
	env := entity.NewEnv()
	a := addClass(env, entity.SideA, "a", true)
	b := addClass(env, entity.SideB, "b", true)

	insns := bytecode.InsnList{
		{Opcode: "aload", Kind: bytecode.KindVar, Operand: "0"},
		{Opcode: "ldc", Kind: bytecode.KindString, Operand: "greeting"},
		{Opcode: "areturn"},
	}
	ma := addMethod(env, a, "x", "()V", true, insns)
	mb := addMethod(env, b, "y", "()V", true, insns)

	m, _ := quiet(env)
	require.NoError(t, m.MatchClass(a, b))

	matched, err := m.AutoMatchMethods(nil)

	require.NoError(t, err)
	assert.True(t, matched)
	assert.Same(t, mb, ma.Match())
}

func TestAutoMatchArgsBindsWithinMatchedMethod(t *testing.T) {
	env := entity.NewEnv()
	a := addClass(env, entity.SideA, "a", true)
	b := addClass(env, entity.SideB, "b", true)
	ma := addMethod(env, a, "m", "(I)V", true, nil)
	mb := addMethod(env, b, "m", "(I)V", true, nil)
	argA := addArg(env, ma, "p0", true)
	argB := addArg(env, mb, "q0", true)

	m, _ := quiet(env)
	require.NoError(t, m.MatchClass(a, b))
	require.NoError(t, m.MatchMethod(ma, mb))

	matched, err := m.AutoMatchArgs(nil)

	require.NoError(t, err)
	assert.True(t, matched)
	assert.Same(t, argB, argA.Match())
}

func TestAutoMatchAllReachesFixedPoint(t *testing.T) {
	env := entity.NewEnv()
	a := addClass(env, entity.SideA, "a", true)
	b := addClass(env, entity.SideB, "b", true)

	insns := bytecode.InsnList{{Opcode: "iconst_0"}, {Opcode: "ireturn"}}
	ma := addMethod(env, a, "x", "()I", true, insns)
	mb := addMethod(env, b, "y", "()I", true, insns)
	addArg(env, ma, "p", true)
	addArg(env, mb, "q", true)

	m, _ := quiet(env)
	require.NoError(t, m.AutoMatchAll(nil))

	assert.Same(t, b, a.Match())
	assert.Same(t, mb, ma.Match())
	assert.Same(t, mb.Arg(0), ma.Arg(0).Match())
}

func TestMergeMatchRejectsDivergedMethods(t *testing.T) {
	env := entity.NewEnv()
	ca := addClass(env, entity.SideA, "ca", true)
	cb := addClass(env, entity.SideB, "cb", true)

	insnsA := bytecode.InsnList{{Opcode: "iconst_0"}, {Opcode: "ireturn"}}
	insnsB := bytecode.InsnList{{Opcode: "aload_0"}, {Opcode: "athrow"}}
	ma := addMethod(env, ca, "m", "()I", true, insnsA)
	mb := addMethod(env, cb, "m", "()I", true, insnsB)

	// A second unmatched member keeps the class partially matched, which is
	// what puts it in merge-match's verification set.
	addMethod(env, ca, "other", "()V", true, nil)

	m, buf := quiet(env)
	require.NoError(t, m.MatchClass(ca, cb))
	require.NoError(t, m.MatchMethod(ma, mb))

	_, err := m.MergeMatchClasses(nil)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Method contents mismatch in ca#m")
	assert.Nil(t, ma.Match(), "the unmatch cascade drops the diverged method pair")
	assert.Nil(t, mb.Match())
}

func TestAutoMatchNoOpPassKeepsPriorBindings(t *testing.T) {
	env := entity.NewEnv()
	a := addClass(env, entity.SideA, "a", true)
	b := addClass(env, entity.SideB, "b", true)

	m, _ := quiet(env)
	require.NoError(t, m.MatchClass(a, b))

	// Worker failures are covered at the parallel substrate level in
	// parallel_test.go; here the committed binding must survive a later
	// no-op pass.
	matched, err := m.AutoMatchClasses(nil)
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Same(t, b, a.Match())
}
