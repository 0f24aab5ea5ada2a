package classifier

import (
	"github.com/classmatch/classmatch/pkg/bytecode"
	"github.com/classmatch/classmatch/pkg/entity"
)

// Methods scores method pairings within a matched class pair. The sequence
// criterion dominates at Full level; everything before it is cheap enough to
// prune hopeless candidates early.
var Methods = &Classifier[*entity.Method]{
	gate: MethodsPotentiallyEqual,
	criteria: []criterion[*entity.Method]{
		{
			name:     "arg count",
			weight:   3,
			minLevel: LevelInitial,
			score: func(a, b *entity.Method, _ *entity.Env) float64 {
				return bytecode.CompareCounts(len(a.Args()), len(b.Args()))
			},
		},
		{
			name:     "local count",
			weight:   2,
			minLevel: LevelInitial,
			score: func(a, b *entity.Method, _ *entity.Env) float64 {
				return bytecode.CompareCounts(len(a.Vars()), len(b.Vars()))
			},
		},
		{
			name:     "instruction count",
			weight:   3,
			minLevel: LevelInitial,
			score: func(a, b *entity.Method, _ *entity.Env) float64 {
				return bytecode.CompareCounts(len(a.Insns()), len(b.Insns()))
			},
		},
		{
			name:     "opcode histogram",
			weight:   4,
			minLevel: LevelIntermediate,
			score: func(a, b *entity.Method, _ *entity.Env) float64 {
				return bytecode.CompareHistograms(a.Insns().OpcodeHistogram(), b.Insns().OpcodeHistogram())
			},
		},
		{
			name:     "string constants",
			weight:   6,
			minLevel: LevelIntermediate,
			score: func(a, b *entity.Method, _ *entity.Env) float64 {
				return compareStringLists(a.Insns().Strings(), b.Insns().Strings())
			},
		},
		{
			name:     "class references",
			weight:   5,
			minLevel: LevelIntermediate,
			score: func(a, b *entity.Method, env *entity.Env) float64 {
				return bytecode.CompareRefSets(
					methodRefs(a, bytecode.KindType, "mtyperefs", env),
					methodRefs(b, bytecode.KindType, "mtyperefs", env))
			},
		},
		{
			name:     "field references",
			weight:   5,
			minLevel: LevelFull,
			score: func(a, b *entity.Method, env *entity.Env) float64 {
				return bytecode.CompareRefSets(
					methodRefs(a, bytecode.KindField, "mfieldrefs", env),
					methodRefs(b, bytecode.KindField, "mfieldrefs", env))
			},
		},
		{
			name:     "instruction sequence",
			weight:   12,
			minLevel: LevelFull,
			score: func(a, b *entity.Method, env *entity.Env) float64 {
				return bytecode.CompareTokens(methodTokens(a, env), methodTokens(b, env))
			},
		},
		{
			name:     "position",
			weight:   2,
			minLevel: LevelExtra,
			score: func(a, b *entity.Method, _ *entity.Env) float64 {
				return comparePositions(a.Position(), len(a.Cls().Methods()), b.Position(), len(b.Cls().Methods()))
			},
		},
	},
}

func compareStringLists(a, b []string) float64 {
	setA := make(map[string]bool, len(a))

	for _, s := range a {
		setA[s] = true
	}

	setB := make(map[string]bool, len(b))

	for _, s := range b {
		setB[s] = true
	}

	return compareStringSets(setA, setB)
}

// comparePositions scores how close two members sit within their classes,
// by relative offset.
func comparePositions(posA, totalA, posB, totalB int) float64 {
	if totalA <= 1 && totalB <= 1 {
		return 1
	}

	relA := float64(posA) / float64(max(totalA-1, 1))
	relB := float64(posB) / float64(max(totalB-1, 1))

	d := relA - relB
	if d < 0 {
		d = -d
	}

	return 1 - d
}
