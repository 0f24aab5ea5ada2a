package mapping

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/classmatch/classmatch/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildMatchedEnv(t *testing.T) *entity.Env {
	t.Helper()

	env := entity.NewEnv()

	a := env.AddClass(entity.NewClass(env, entity.SideA, "Lcom/app/Widget;", "com/app/Widget", "a#0", false, 0))
	b := env.AddClass(entity.NewClass(env, entity.SideB, "La;", "a", "b#0", true, 0))
	a.SetMatch(b)
	b.SetMatch(a)

	ret := env.AddClass(entity.NewClass(env, entity.SideB, "V", "V", "", false, 0))

	mA := entity.NewMethod(a, "render", "()V", nil, true, false, nil)
	a.AddMethod(mA)
	mB := entity.NewMethod(b, "a", "()V", ret, true, true, nil)
	b.AddMethod(mB)
	mA.SetMatch(mB)
	mB.SetMatch(mA)

	argA := entity.NewMethodVar(mA, true, 1, 0, nil, 0, 2, "size", false)
	mA.AddArg(argA)
	argB := entity.NewMethodVar(mB, true, 1, 0, ret, 0, 2, "p0", true)
	mB.AddArg(argB)
	argA.SetMatch(argB)
	argB.SetMatch(argA)

	fA := entity.NewField(a, "width", "I", nil, true, false)
	a.AddField(fA)
	fB := entity.NewField(b, "b", "I", ret, true, true)
	b.AddField(fB)
	fA.SetMatch(fB)
	fB.SetMatch(fA)

	return env
}

func TestWriteEnigma(t *testing.T) {
	env := buildMatchedEnv(t)
	dst := t.TempDir()

	written, err := WriteEnigma(env, dst)

	require.NoError(t, err)
	assert.Equal(t, 1, written)

	data, err := os.ReadFile(filepath.Join(dst, "com", "app", "Widget.mapping"))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "CLASS a com/app/Widget\n")
	assert.Contains(t, content, "\tFIELD b width I\n")
	assert.Contains(t, content, "\tMETHOD a render ()V\n")
	assert.Contains(t, content, "\t\tARG 0 size\n")
}

func TestWriteEnigmaPrefersMappedNames(t *testing.T) {
	env := buildMatchedEnv(t)
	env.ClassesB()[0].SetMappedName("gui/MainWidget")

	dst := t.TempDir()
	_, err := WriteEnigma(env, dst)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dst, "gui", "MainWidget.mapping"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "CLASS a gui/MainWidget\n")
}

func TestWriteEnigmaNestsInnerClasses(t *testing.T) {
	env := buildMatchedEnv(t)

	// An inner class of the matched top-level class lands in the same file,
	// one tab deeper, instead of getting a file of its own.
	outerA := env.ClassesA()[0]
	innerA := env.AddClass(entity.NewClass(env, entity.SideA, "Lcom/app/Widget$Handle;", "com/app/Widget$Handle", "a#0", false, 0))
	innerB := env.AddClass(entity.NewClass(env, entity.SideB, "La$a;", "a$a", "b#0", true, 0))
	innerA.SetMatch(innerB)
	innerB.SetMatch(innerA)

	fA := entity.NewField(innerA, "grip", "I", nil, true, false)
	innerA.AddField(fA)
	fB := entity.NewField(innerB, "c", "I", nil, true, true)
	innerB.AddField(fB)
	fA.SetMatch(fB)
	fB.SetMatch(fA)

	require.Same(t, outerA, env.ClassesA()[0])

	dst := t.TempDir()
	written, err := WriteEnigma(env, dst)

	require.NoError(t, err)
	assert.Equal(t, 1, written, "inner classes do not get their own file")

	_, err = os.Stat(filepath.Join(dst, "com", "app", "Widget$Handle.mapping"))
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(filepath.Join(dst, "com", "app", "Widget.mapping"))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "CLASS a com/app/Widget\n")
	assert.Contains(t, content, "\tCLASS a$a com/app/Widget$Handle\n")
	assert.Contains(t, content, "\t\tFIELD c grip I\n")
}

func TestWriteEnigmaDeepNesting(t *testing.T) {
	env := entity.NewEnv()

	outer := env.AddClass(entity.NewClass(env, entity.SideB, "La;", "a", "b#0", true, 0))
	outer.SetMappedName("Outer")

	mid := env.AddClass(entity.NewClass(env, entity.SideB, "La$b;", "a$b", "b#0", true, 0))
	mid.SetMappedName("Outer$Mid")

	deep := env.AddClass(entity.NewClass(env, entity.SideB, "La$b$c;", "a$b$c", "b#0", true, 0))
	deep.SetMappedName("Outer$Mid$Deep")

	dst := t.TempDir()
	written, err := WriteEnigma(env, dst)

	require.NoError(t, err)
	assert.Equal(t, 1, written)

	data, err := os.ReadFile(filepath.Join(dst, "Outer.mapping"))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "CLASS a Outer\n")
	assert.Contains(t, content, "\tCLASS a$b Outer$Mid\n")
	assert.Contains(t, content, "\t\tCLASS a$b$c Outer$Mid$Deep\n")
}

func TestWriteEnigmaSkipsUnmatchedClasses(t *testing.T) {
	env := entity.NewEnv()
	env.AddClass(entity.NewClass(env, entity.SideB, "Lx;", "x", "b#0", true, 0))

	written, err := WriteEnigma(env, t.TempDir())

	require.NoError(t, err)
	assert.Zero(t, written)
}

func TestWriteEnigmaRejectsEscapingNames(t *testing.T) {
	env := buildMatchedEnv(t)
	env.ClassesB()[0].SetMappedName("../evil")

	_, err := WriteEnigma(env, t.TempDir())

	assert.Error(t, err)
}

func TestWriteProvenanceWithoutRepo(t *testing.T) {
	dst := t.TempDir()

	require.NoError(t, WriteProvenance(dst, "1.2.3", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))

	data, err := os.ReadFile(filepath.Join(dst, ".classmatch-export"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "classmatch 1.2.3")
	assert.Contains(t, string(data), "exported 2025-06-01T12:00:00Z")
}
