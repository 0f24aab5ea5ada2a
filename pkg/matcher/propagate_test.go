package matcher

import (
	"testing"

	"github.com/classmatch/classmatch/pkg/entity"
	"github.com/stretchr/testify/assert"
)

func TestPropagateNamesAcrossHierarchy(t *testing.T) {
	env := entity.NewEnv()

	c1 := addClass(env, entity.SideB, "c1", true)
	c2 := addClass(env, entity.SideB, "c2", true)
	c3 := addClass(env, entity.SideB, "c3", true)
	c2.SetSuper(c1)
	c3.SetSuper(c2)

	m1 := addMethod(env, c1, "m", "(I)V", true, nil)
	m2 := addMethod(env, c2, "m", "(I)V", true, nil)
	m3 := addMethod(env, c3, "m", "(I)V", true, nil)

	hier := []*entity.Method{m1, m2, m3}
	for _, mm := range hier {
		mm.SetHierarchy(hier)
	}

	addArg(env, m1, "a0", true)
	addArg(env, m2, "a0", true)
	addArg(env, m3, "a0", true)

	m1.SetMappedName("foo")
	m2.Arg(0).SetMappedName("x")

	m, buf := quiet(env)
	propagated := m.PropagateNames(nil)

	assert.True(t, propagated)

	// The method name spreads to the members that had none.
	assert.Equal(t, "foo", m1.MappedName())
	assert.True(t, m2.HasMappedName())
	assert.Equal(t, "foo", m2.MappedName())
	assert.Equal(t, "foo", m3.MappedName())

	// The arg name spreads to the slots that had none; m2 keeps its own.
	assert.Equal(t, "x", m1.Arg(0).MappedName())
	assert.Equal(t, "x", m2.Arg(0).MappedName())
	assert.Equal(t, "x", m3.Arg(0).MappedName())

	assert.Contains(t, buf.String(), "Propagated 2 method names, 2 method arg names.")
}

func TestPropagateNamesNothingToDo(t *testing.T) {
	env := entity.NewEnv()
	c1 := addClass(env, entity.SideB, "c1", true)
	addMethod(env, c1, "m", "()V", true, nil)

	m, _ := quiet(env)

	assert.False(t, m.PropagateNames(nil), "singleton hierarchies are skipped")
}

func TestPropagateNamesVisitsHierarchyOnce(t *testing.T) {
	env := entity.NewEnv()
	c1 := addClass(env, entity.SideB, "c1", true)
	c2 := addClass(env, entity.SideB, "c2", true)

	m1 := addMethod(env, c1, "m", "()V", true, nil)
	m2 := addMethod(env, c2, "m", "()V", true, nil)

	hier := []*entity.Method{m1, m2}
	m1.SetHierarchy(hier)
	m2.SetHierarchy(hier)

	m1.SetMappedName("once")

	// m1 is visited first and is already fully named; that visit marks the
	// whole hierarchy, so m2 is never visited on its own.
	m, buf := quiet(env)
	assert.False(t, m.PropagateNames(nil))
	assert.Contains(t, buf.String(), "Propagated 0 method names")
}
