package output

import (
	"fmt"

	"github.com/classmatch/classmatch/pkg/matcher"
)

// StatusTable renders a MatchingStatus as a per-kind table with match
// percentages.
func StatusTable(s matcher.MatchingStatus) *Table {
	row := func(kind string, matched, total int) []string {
		pct := 0.0
		if total > 0 {
			pct = 100 * float64(matched) / float64(total)
		}

		return []string{kind, fmt.Sprintf("%d", matched), fmt.Sprintf("%d", total), fmt.Sprintf("%.1f%%", pct)}
	}

	return &Table{
		Title:   "Matching Status",
		Headers: []string{"Kind", "Matched", "Total", "Percent"},
		Rows: [][]string{
			row("classes", s.MatchedClasses, s.TotalClasses),
			row("methods", s.MatchedMethods, s.TotalMethods),
			row("method args", s.MatchedArgs, s.TotalArgs),
			row("method vars", s.MatchedVars, s.TotalVars),
			row("fields", s.MatchedFields, s.TotalFields),
		},
		Data: s,
	}
}
