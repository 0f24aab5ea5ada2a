package matcher

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/classmatch/classmatch/pkg/bytecode"
	"github.com/classmatch/classmatch/pkg/classifier"
	"github.com/classmatch/classmatch/pkg/entity"
	"github.com/classmatch/classmatch/pkg/stats"
)

// AutoMatchAll drives the complete matching sequence: classes at Initial
// (twice if the first pass bound anything), then a level loop per remaining
// level, then args and locals until neither binds anything new.
func (m *Matcher) AutoMatchAll(progress ProgressFunc) error {
	matched, err := m.AutoMatchClassesAt(classifier.LevelInitial, m.opts.AbsClass, m.opts.RelClass, progress)
	if err != nil {
		return err
	}

	if matched {
		if _, err := m.AutoMatchClassesAt(classifier.LevelInitial, m.opts.AbsClass, m.opts.RelClass, progress); err != nil {
			return err
		}
	}

	for _, level := range []classifier.Level{classifier.LevelIntermediate, classifier.LevelFull, classifier.LevelExtra} {
		if err := m.autoMatchLevel(level, progress); err != nil {
			return err
		}
	}

	for {
		matchedAny, err := m.AutoMatchArgsAt(classifier.LevelFull, m.opts.AbsVar, m.opts.RelVar, progress)
		if err != nil {
			return err
		}

		matchedVars, err := m.AutoMatchLocalsAt(classifier.LevelFull, m.opts.AbsVar, m.opts.RelVar, progress)
		if err != nil {
			return err
		}

		if !matchedAny && !matchedVars {
			break
		}
	}

	m.env.Cache().Clear()

	return nil
}

// autoMatchLevel alternates member and class passes at one level until a
// fixed point: each round runs methods, fields, then classes, and the loop
// stops after a round that bound nothing. A round whose members bound nothing
// skips its class pass when the previous class pass bound nothing either.
func (m *Matcher) autoMatchLevel(level classifier.Level, progress ProgressFunc) error {
	matchedClassesBefore := true

	for {
		matchedAny, err := m.AutoMatchMethodsAt(level, m.opts.AbsMethod, m.opts.RelMethod, progress)
		if err != nil {
			return err
		}

		matchedFields, err := m.AutoMatchFieldsAt(level, m.opts.AbsField, m.opts.RelField, progress)
		if err != nil {
			return err
		}

		matchedAny = matchedAny || matchedFields

		if !matchedAny && !matchedClassesBefore {
			return nil
		}

		matchedClassesBefore, err = m.AutoMatchClassesAt(level, m.opts.AbsClass, m.opts.RelClass, progress)
		if err != nil {
			return err
		}

		if !matchedAny && !matchedClassesBefore {
			return nil
		}
	}
}

// AutoMatchClasses runs a class pass at the configured level.
func (m *Matcher) AutoMatchClasses(progress ProgressFunc) (bool, error) {
	return m.AutoMatchClassesAt(m.opts.Level, m.opts.AbsClass, m.opts.RelClass, progress)
}

// AutoMatchClassesAt runs one parallel class scoring pass and serially
// commits the confident, conflict-free pairings.
func (m *Matcher) AutoMatchClassesAt(level classifier.Level, absThreshold, relThreshold float64, progress ProgressFunc) (bool, error) {
	eligible := func(cls *entity.Class) bool {
		return cls.IsInput() && cls.NameObfuscated() && !cls.HasMatch()
	}

	var subjects, candidates []*entity.Class

	for _, cls := range m.env.ClassesA() {
		if eligible(cls) {
			subjects = append(subjects, cls)
		}
	}

	for _, cls := range m.env.ClassesB() {
		if eligible(cls) {
			candidates = append(candidates, cls)
		}
	}

	maxScore := classifier.Classes.MaxScore(level)
	maxMismatch := maxScore - classifier.GetRawScore(absThreshold*(1-relThreshold), maxScore)

	var results pairList[*entity.Class]

	err := runInParallel(subjects, func(cls *entity.Class) error {
		ranking := classifier.Classes.Rank(cls, candidates, level, m.env, maxMismatch)

		if classifier.CheckRank(ranking, absThreshold, relThreshold, maxScore) {
			results.add(cls, ranking[0].Candidate)
		}

		return nil
	}, progress)
	if err != nil {
		return false, err
	}

	kept := sanitize(results.pairs)

	for _, p := range kept {
		if err := m.MatchClass(p.subject, p.peer); err != nil {
			return false, err
		}
	}

	fmt.Fprintf(m.out, "Auto matched %d classes (%d unmatched, %d total)\n",
		len(kept), len(subjects)-len(kept), len(m.env.ClassesA()))

	return len(kept) > 0, nil
}

// AutoMatchMethods runs a method pass at the configured level.
func (m *Matcher) AutoMatchMethods(progress ProgressFunc) (bool, error) {
	return m.AutoMatchMethodsAt(m.opts.Level, m.opts.AbsMethod, m.opts.RelMethod, progress)
}

// AutoMatchMethodsAt runs one parallel method scoring pass over the matched
// classes that still have unmatched methods.
func (m *Matcher) AutoMatchMethodsAt(level classifier.Level, absThreshold, relThreshold float64, progress ProgressFunc) (bool, error) {
	kept, unmatched, err := autoMatchMembers(m, level, absThreshold, relThreshold,
		func(cls *entity.Class) []*entity.Method { return cls.Methods() },
		func(mm *entity.Method) bool { return mm.HasMatch() },
		classifier.Methods, progress)
	if err != nil {
		return false, err
	}

	for _, p := range kept {
		if err := m.MatchMethod(p.subject, p.peer); err != nil {
			return false, err
		}
	}

	fmt.Fprintf(m.out, "Auto matched %d methods (%d unmatched)\n", len(kept), unmatched)

	return len(kept) > 0, nil
}

// AutoMatchFields runs a field pass at the configured level.
func (m *Matcher) AutoMatchFields(progress ProgressFunc) (bool, error) {
	return m.AutoMatchFieldsAt(m.opts.Level, m.opts.AbsField, m.opts.RelField, progress)
}

// AutoMatchFieldsAt runs one parallel field scoring pass over the matched
// classes that still have unmatched fields.
func (m *Matcher) AutoMatchFieldsAt(level classifier.Level, absThreshold, relThreshold float64, progress ProgressFunc) (bool, error) {
	kept, unmatched, err := autoMatchMembers(m, level, absThreshold, relThreshold,
		func(cls *entity.Class) []*entity.Field { return cls.Fields() },
		func(f *entity.Field) bool { return f.HasMatch() },
		classifier.Fields, progress)
	if err != nil {
		return false, err
	}

	for _, p := range kept {
		if err := m.MatchField(p.subject, p.peer); err != nil {
			return false, err
		}
	}

	fmt.Fprintf(m.out, "Auto matched %d fields (%d unmatched)\n", len(kept), unmatched)

	return len(kept) > 0, nil
}

// autoMatchMembers is the shared member pass: collect the matched input
// classes with unmatched members of the kind, rank each unmatched member
// against the peer class's unmatched members in parallel, then sanitize.
func autoMatchMembers[T comparable](
	m *Matcher, level classifier.Level, absThreshold, relThreshold float64,
	members func(*entity.Class) []T,
	hasMatch func(T) bool,
	cls *classifier.Classifier[T],
	progress ProgressFunc,
) ([]matchPair[T], int, error) {
	var classes []*entity.Class

	for _, c := range m.env.ClassesA() {
		if !c.IsInput() || !c.HasMatch() || len(members(c)) == 0 {
			continue
		}

		for _, member := range members(c) {
			if !hasMatch(member) {
				classes = append(classes, c)

				break
			}
		}
	}

	if len(classes) == 0 {
		return nil, 0, nil
	}

	maxScore := cls.MaxScore(level)
	maxMismatch := maxScore - classifier.GetRawScore(absThreshold*(1-relThreshold), maxScore)

	var results pairList[T]

	var totalUnmatched atomic.Int64

	err := runInParallel(classes, func(c *entity.Class) error {
		var candidates []T

		for _, cand := range members(c.Match()) {
			if !hasMatch(cand) {
				candidates = append(candidates, cand)
			}
		}

		unmatched := 0

		for _, member := range members(c) {
			if hasMatch(member) {
				continue
			}

			ranking := cls.Rank(member, candidates, level, m.env, maxMismatch)

			if classifier.CheckRank(ranking, absThreshold, relThreshold, maxScore) {
				results.add(member, ranking[0].Candidate)
			} else {
				unmatched++
			}
		}

		if unmatched > 0 {
			totalUnmatched.Add(int64(unmatched))
		}

		return nil
	}, progress)
	if err != nil {
		return nil, 0, err
	}

	return sanitize(results.pairs), int(totalUnmatched.Load()), nil
}

// AutoMatchArgs runs an argument pass at the configured level.
func (m *Matcher) AutoMatchArgs(progress ProgressFunc) (bool, error) {
	return m.AutoMatchArgsAt(m.opts.Level, m.opts.AbsVar, m.opts.RelVar, progress)
}

// AutoMatchArgsAt runs one parallel argument scoring pass.
func (m *Matcher) AutoMatchArgsAt(level classifier.Level, absThreshold, relThreshold float64, progress ProgressFunc) (bool, error) {
	return m.autoMatchVars(true, level, absThreshold, relThreshold, progress)
}

// AutoMatchLocals runs a local-variable pass at the configured level.
func (m *Matcher) AutoMatchLocals(progress ProgressFunc) (bool, error) {
	return m.AutoMatchLocalsAt(m.opts.Level, m.opts.AbsVar, m.opts.RelVar, progress)
}

// AutoMatchLocalsAt runs one parallel local-variable scoring pass.
func (m *Matcher) AutoMatchLocalsAt(level classifier.Level, absThreshold, relThreshold float64, progress ProgressFunc) (bool, error) {
	return m.autoMatchVars(false, level, absThreshold, relThreshold, progress)
}

func (m *Matcher) autoMatchVars(isArg bool, level classifier.Level, absThreshold, relThreshold float64, progress ProgressFunc) (bool, error) {
	vars := func(mm *entity.Method) []*entity.MethodVar {
		if isArg {
			return mm.Args()
		}

		return mm.Vars()
	}

	var methods []*entity.Method

	for _, c := range m.env.ClassesA() {
		if !c.IsInput() || !c.HasMatch() {
			continue
		}

		for _, mm := range c.Methods() {
			if !mm.HasMatch() || len(vars(mm)) == 0 {
				continue
			}

			for _, v := range vars(mm) {
				if !v.HasMatch() {
					methods = append(methods, mm)

					break
				}
			}
		}
	}

	var kept []matchPair[*entity.MethodVar]

	var totalUnmatched atomic.Int64

	if len(methods) > 0 {
		maxScore := classifier.MethodVars.MaxScore(level)
		maxMismatch := maxScore - classifier.GetRawScore(absThreshold*(1-relThreshold), maxScore)

		var results pairList[*entity.MethodVar]

		err := runInParallel(methods, func(mm *entity.Method) error {
			var candidates []*entity.MethodVar

			for _, cand := range vars(mm.Match()) {
				if !cand.HasMatch() {
					candidates = append(candidates, cand)
				}
			}

			unmatched := 0

			for _, v := range vars(mm) {
				if v.HasMatch() {
					continue
				}

				ranking := classifier.MethodVars.Rank(v, candidates, level, m.env, maxMismatch)

				if classifier.CheckRank(ranking, absThreshold, relThreshold, maxScore) {
					results.add(v, ranking[0].Candidate)
				} else {
					unmatched++
				}
			}

			if unmatched > 0 {
				totalUnmatched.Add(int64(unmatched))
			}

			return nil
		}, progress)
		if err != nil {
			return false, err
		}

		kept = sanitize(results.pairs)
	}

	for _, p := range kept {
		if err := m.MatchVar(p.subject, p.peer); err != nil {
			return false, err
		}
	}

	kind := "var"
	if isArg {
		kind = "arg"
	}

	fmt.Fprintf(m.out, "Auto matched %d method %ss (%d unmatched)\n", len(kept), kind, totalUnmatched.Load())

	return len(kept) > 0, nil
}

// MergeMatchClasses re-checks partially matched classes by comparing matched
// methods' instruction streams. Classes holding a method pair below 0.99
// similarity are unmatched wholesale, then the expanded unmatched pool goes
// through a fresh class pass at Full level.
func (m *Matcher) MergeMatchClasses(progress ProgressFunc) (bool, error) {
	scale := func(offset float64) ProgressFunc {
		if progress == nil {
			return nil
		}

		return func(f float64) { progress(offset + f*0.5) }
	}

	var semimatched []*entity.Class

	unmatchedBefore := 0

	for _, cls := range m.env.ClassesA() {
		if !cls.IsInput() || !cls.NameObfuscated() || cls.IsFullyMatched() {
			continue
		}

		if cls.HasMatch() {
			semimatched = append(semimatched, cls)
		} else {
			unmatchedBefore++
		}
	}

	var mismatches pairList[*entity.Class]

	var closenessMu sync.Mutex

	var closenesses []float64

	err := runInParallel(semimatched, func(cls *entity.Class) error {
		mismatched := false

		for _, method := range cls.Methods() {
			if len(method.Insns()) == 0 || method.Match() == nil {
				continue
			}

			closeness := bytecode.CompareInsns(method.Insns(), method.Match().Insns())

			closenessMu.Lock()
			closenesses = append(closenesses, closeness)
			closenessMu.Unlock()

			if closeness < 0.99 {
				fmt.Fprintf(m.out, "Method contents mismatch in %s#%s, only matched with %g\n",
					cls.Name(), method.Name(), closeness)
				mismatched = true
			}
		}

		if mismatched {
			mismatches.add(cls, cls.Match())
		}

		return nil
	}, scale(0))
	if err != nil {
		return false, err
	}

	if len(closenesses) > 0 {
		fmt.Fprintf(m.out, "Verified %d method pairs (closeness mean %.3f, p10 %.3f)\n",
			len(closenesses), stats.Mean(closenesses), stats.Quantile(closenesses, 0.1))
	}

	for _, p := range mismatches.pairs {
		if err := m.UnmatchClass(p.subject); err != nil {
			return false, err
		}
	}

	// The expanded unmatched pool goes straight through an ordinary class
	// pass at Full level.
	matched, err := m.AutoMatchClassesAt(classifier.LevelFull, m.opts.AbsClass, m.opts.RelClass, scale(0.5))
	if err != nil {
		return false, err
	}

	fmt.Fprintf(m.out, "Merge matched %d mismatched classes (%d unmatched before, %d total)\n",
		len(mismatches.pairs), unmatchedBefore, len(m.env.ClassesA()))

	return matched, nil
}
