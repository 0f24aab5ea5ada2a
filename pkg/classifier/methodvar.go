package classifier

import (
	"github.com/classmatch/classmatch/pkg/bytecode"
	"github.com/classmatch/classmatch/pkg/entity"
)

// MethodVars scores argument and local variable pairings within a matched
// method pair. The driver keeps args and locals in separate passes; the
// classifier itself only sees one kind at a time.
var MethodVars = &Classifier[*entity.MethodVar]{
	gate: func(a, b *entity.MethodVar) bool {
		return a.IsArg() == b.IsArg() && VarsPotentiallyEqual(a, b)
	},
	criteria: []criterion[*entity.MethodVar]{
		{
			name:     "index",
			weight:   3,
			minLevel: LevelInitial,
			score: func(a, b *entity.MethodVar, _ *entity.Env) float64 {
				return bytecode.CompareCounts(a.Index()+1, b.Index()+1)
			},
		},
		{
			name:     "lv index",
			weight:   2,
			minLevel: LevelInitial,
			score: func(a, b *entity.MethodVar, _ *entity.Env) float64 {
				return bytecode.CompareCounts(a.LvIndex()+1, b.LvIndex()+1)
			},
		},
		{
			name:     "lifetime",
			weight:   3,
			minLevel: LevelIntermediate,
			score: func(a, b *entity.MethodVar, _ *entity.Env) float64 {
				spanA := a.EndInsn() - a.StartInsn()
				spanB := b.EndInsn() - b.StartInsn()

				return 0.5*bytecode.CompareCounts(a.StartInsn()+1, b.StartInsn()+1) +
					0.5*bytecode.CompareCounts(spanA, spanB)
			},
		},
		{
			name:     "asm index",
			weight:   2,
			minLevel: LevelFull,
			score: func(a, b *entity.MethodVar, _ *entity.Env) float64 {
				return bytecode.CompareCounts(a.AsmIndex()+1, b.AsmIndex()+1)
			},
		},
	},
}
