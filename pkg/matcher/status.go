package matcher

// MatchingStatus reports totals and matched counts per entity kind. Only
// real members contribute; synthesized hierarchy placeholders are skipped.
type MatchingStatus struct {
	TotalClasses   int `json:"total_classes"`
	MatchedClasses int `json:"matched_classes"`
	TotalMethods   int `json:"total_methods"`
	MatchedMethods int `json:"matched_methods"`
	TotalArgs      int `json:"total_args"`
	MatchedArgs    int `json:"matched_args"`
	TotalVars      int `json:"total_vars"`
	MatchedVars    int `json:"matched_vars"`
	TotalFields    int `json:"total_fields"`
	MatchedFields  int `json:"matched_fields"`
}

// Status counts side A's entities and their matches. With inputsOnly set,
// classes not loaded from an input artifact are skipped entirely.
func (m *Matcher) Status(inputsOnly bool) MatchingStatus {
	var s MatchingStatus

	for _, cls := range m.env.ClassesA() {
		if inputsOnly && !cls.IsInput() {
			continue
		}

		s.TotalClasses++

		if cls.HasMatch() {
			s.MatchedClasses++
		}

		for _, method := range cls.Methods() {
			if !method.IsReal() {
				continue
			}

			s.TotalMethods++

			if method.HasMatch() {
				s.MatchedMethods++
			}

			for _, arg := range method.Args() {
				s.TotalArgs++

				if arg.HasMatch() {
					s.MatchedArgs++
				}
			}

			for _, v := range method.Vars() {
				s.TotalVars++

				if v.HasMatch() {
					s.MatchedVars++
				}
			}
		}

		for _, field := range cls.Fields() {
			if !field.IsReal() {
				continue
			}

			s.TotalFields++

			if field.HasMatch() {
				s.MatchedFields++
			}
		}
	}

	return s
}
