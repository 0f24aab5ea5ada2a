package classifier

import (
	"github.com/classmatch/classmatch/pkg/bytecode"
	"github.com/classmatch/classmatch/pkg/entity"
)

// Classes scores class pairings. Initial criteria stick to cheap shape
// signals; higher levels pull in constants, reference sets and instruction
// content.
var Classes = &Classifier[*entity.Class]{
	gate: ClassesPotentiallyEqual,
	criteria: []criterion[*entity.Class]{
		{
			name:     "hierarchy depth",
			weight:   1,
			minLevel: LevelInitial,
			score: func(a, b *entity.Class, _ *entity.Env) float64 {
				return bytecode.CompareCounts(superDepth(a), superDepth(b))
			},
		},
		{
			name:     "child count",
			weight:   2,
			minLevel: LevelInitial,
			score: func(a, b *entity.Class, _ *entity.Env) float64 {
				return bytecode.CompareCounts(len(a.Children()), len(b.Children()))
			},
		},
		{
			name:     "interface count",
			weight:   1,
			minLevel: LevelInitial,
			score: func(a, b *entity.Class, _ *entity.Env) float64 {
				return bytecode.CompareCounts(len(a.Interfaces()), len(b.Interfaces()))
			},
		},
		{
			name:     "method count",
			weight:   3,
			minLevel: LevelInitial,
			score: func(a, b *entity.Class, _ *entity.Env) float64 {
				return bytecode.CompareCounts(len(a.Methods()), len(b.Methods()))
			},
		},
		{
			name:     "field count",
			weight:   3,
			minLevel: LevelInitial,
			score: func(a, b *entity.Class, _ *entity.Env) float64 {
				return bytecode.CompareCounts(len(a.Fields()), len(b.Fields()))
			},
		},
		{
			name:     "string constants",
			weight:   8,
			minLevel: LevelIntermediate,
			score: func(a, b *entity.Class, env *entity.Env) float64 {
				return compareStringSets(classStrings(a, env), classStrings(b, env))
			},
		},
		{
			name:     "out references",
			weight:   6,
			minLevel: LevelIntermediate,
			score: func(a, b *entity.Class, env *entity.Env) float64 {
				return bytecode.CompareRefSets(classTypeRefs(a, env), classTypeRefs(b, env))
			},
		},
		{
			name:     "instruction count",
			weight:   2,
			minLevel: LevelFull,
			score: func(a, b *entity.Class, _ *entity.Env) float64 {
				return bytecode.CompareCounts(classInsnCount(a), classInsnCount(b))
			},
		},
		{
			name:     "method contents",
			weight:   10,
			minLevel: LevelFull,
			score: func(a, b *entity.Class, env *entity.Env) float64 {
				return bytecode.CompareHistograms(classHistogram(a, env), classHistogram(b, env))
			},
		},
	},
}
