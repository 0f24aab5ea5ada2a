package classifier

import (
	"github.com/classmatch/classmatch/pkg/bytecode"
	"github.com/classmatch/classmatch/pkg/entity"
)

// Fields scores field pairings within a matched class pair. Fields expose
// little structure of their own, so position and usage carry most of the
// weight once the type gate has passed.
var Fields = &Classifier[*entity.Field]{
	gate: func(a, b *entity.Field) bool {
		return ClassesPotentiallyEqual(a.Type(), b.Type())
	},
	criteria: []criterion[*entity.Field]{
		{
			name:     "position",
			weight:   3,
			minLevel: LevelInitial,
			score: func(a, b *entity.Field, _ *entity.Env) float64 {
				return comparePositions(a.Position(), len(a.Cls().Fields()), b.Position(), len(b.Cls().Fields()))
			},
		},
		{
			name:     "type shape",
			weight:   2,
			minLevel: LevelInitial,
			score: func(a, b *entity.Field, _ *entity.Env) float64 {
				if a.Type() == nil || b.Type() == nil {
					return 1
				}

				return bytecode.CompareCounts(len(a.Type().Methods()), len(b.Type().Methods()))
			},
		},
		{
			name:     "use count",
			weight:   4,
			minLevel: LevelIntermediate,
			score: func(a, b *entity.Field, _ *entity.Env) float64 {
				return bytecode.CompareCounts(a.UseCount(), b.UseCount())
			},
		},
	},
}
