package classifier

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/classmatch/classmatch/pkg/bytecode"
	"github.com/classmatch/classmatch/pkg/entity"
)

// ClassesPotentiallyEqual is the conservative compatibility gate on types:
// the classes are either already matched to each other or both unmatched,
// their array dimensions agree, and for arrays the element classes pass the
// same check.
func ClassesPotentiallyEqual(a, b *entity.Class) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Match() != nil || b.Match() != nil {
		return a.Match() == b
	}
	if a.ArrayDims() != b.ArrayDims() {
		return false
	}
	if a.IsArray() {
		return ClassesPotentiallyEqual(a.Element(), b.Element())
	}

	return true
}

// MethodsPotentiallyEqual gates method scoring: return types compatible and
// argument lists positionally compatible.
func MethodsPotentiallyEqual(a, b *entity.Method) bool {
	if !ClassesPotentiallyEqual(a.RetType(), b.RetType()) {
		return false
	}
	if len(a.Args()) != len(b.Args()) {
		return false
	}

	for i, arg := range a.Args() {
		if !VarsPotentiallyEqual(arg, b.Arg(i)) {
			return false
		}
	}

	return true
}

// VarsPotentiallyEqual gates var scoring on type compatibility.
func VarsPotentiallyEqual(a, b *entity.MethodVar) bool {
	return ClassesPotentiallyEqual(a.Type(), b.Type())
}

// cacheKey namespaces per-entity derived data in the classifier cache.
type cacheKey struct {
	tag string
	e   any
}

func methodTokens(m *entity.Method, env *entity.Env) []string {
	v := env.Cache().GetOrCompute(cacheKey{"mtokens", m}, func() any {
		return m.Insns().Tokens()
	})

	return v.([]string)
}

func methodRefs(m *entity.Method, kind bytecode.OperandKind, tag string, env *entity.Env) *roaring.Bitmap {
	v := env.Cache().GetOrCompute(cacheKey{tag, m}, func() any {
		return m.Insns().Refs(kind)
	})

	return v.(*roaring.Bitmap)
}

func classStrings(c *entity.Class, env *entity.Env) map[string]bool {
	v := env.Cache().GetOrCompute(cacheKey{"cstrings", c}, func() any {
		set := make(map[string]bool)

		for _, m := range c.Methods() {
			for _, s := range m.Insns().Strings() {
				set[s] = true
			}
		}

		return set
	})

	return v.(map[string]bool)
}

func classTypeRefs(c *entity.Class, env *entity.Env) *roaring.Bitmap {
	v := env.Cache().GetOrCompute(cacheKey{"ctyperefs", c}, func() any {
		bm := roaring.New()

		for _, m := range c.Methods() {
			bm.Or(m.Insns().Refs(bytecode.KindType))
		}

		return bm
	})

	return v.(*roaring.Bitmap)
}

func classHistogram(c *entity.Class, env *entity.Env) map[string]int {
	v := env.Cache().GetOrCompute(cacheKey{"chist", c}, func() any {
		hist := make(map[string]int, 64)

		for _, m := range c.Methods() {
			for op, n := range m.Insns().OpcodeHistogram() {
				hist[op] += n
			}
		}

		return hist
	})

	return v.(map[string]int)
}

func classInsnCount(c *entity.Class) int {
	total := 0

	for _, m := range c.Methods() {
		total += len(m.Insns())
	}

	return total
}

func compareStringSets(a, b map[string]bool) float64 {
	if len(a)+len(b) == 0 {
		return 1
	}

	common := 0

	for s := range a {
		if b[s] {
			common++
		}
	}

	return 2 * float64(common) / float64(len(a)+len(b))
}

func superDepth(c *entity.Class) int {
	depth := 0

	for s := c.Super(); s != nil; s = s.Super() {
		depth++
	}

	return depth
}
