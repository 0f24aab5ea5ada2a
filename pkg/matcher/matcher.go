// Package matcher is the mutation arbiter and auto-match driver over the
// entity graph. All match-link mutations funnel through Matcher, which
// maintains link symmetry, cascades to arrays, members and hierarchies, and
// clears the classifier cache after every mutation.
package matcher

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/classmatch/classmatch/pkg/classifier"
	"github.com/classmatch/classmatch/pkg/entity"
)

// Options carries the auto-match thresholds and level. The zero value is not
// useful; start from DefaultOptions.
type Options struct {
	Level classifier.Level

	AbsClass  float64
	RelClass  float64
	AbsMethod float64
	RelMethod float64
	AbsField  float64
	RelField  float64
	AbsVar    float64
	RelVar    float64
}

// DefaultOptions returns the stock thresholds: 0.85 absolute and 0.085
// relative for every kind, auto-match level Full.
func DefaultOptions() Options {
	return Options{
		Level:     classifier.LevelFull,
		AbsClass:  0.85,
		RelClass:  0.085,
		AbsMethod: 0.85,
		RelMethod: 0.085,
		AbsField:  0.85,
		RelField:  0.085,
		AbsVar:    0.85,
		RelVar:    0.085,
	}
}

// Matcher owns the match/unmatch operations and the auto-match passes over
// one environment.
type Matcher struct {
	env  *entity.Env
	opts Options
	out  io.Writer
}

// New creates a matcher with default options, logging mutations to stdout.
func New(env *entity.Env) *Matcher {
	return NewWithOptions(env, DefaultOptions())
}

// NewWithOptions creates a matcher with explicit thresholds.
func NewWithOptions(env *entity.Env, opts Options) *Matcher {
	return &Matcher{env: env, opts: opts, out: os.Stdout}
}

// SetOutput redirects the mutation log.
func (m *Matcher) SetOutput(w io.Writer) { m.out = w }

// Env returns the environment the matcher operates on.
func (m *Matcher) Env() *entity.Env { return m.env }

// MatchUnobfuscated pairs every side A class whose name survived obfuscation
// with the identically-named side B class, when that one is unobfuscated too.
func (m *Matcher) MatchUnobfuscated() error {
	for _, cls := range m.env.ClassesA() {
		if cls.NameObfuscated() {
			continue
		}

		match := m.env.LocalClsByIDB(cls.ID())
		if match != nil && !match.NameObfuscated() {
			if err := m.MatchClass(cls, match); err != nil {
				return err
			}
		}
	}

	return nil
}

// MatchClass binds a class pair, cascading to array classes, unobfuscated
// members and hierarchy-reachable methods. Prior partners on either side are
// unbound first, dropping their members' matches.
func (m *Matcher) MatchClass(a, b *entity.Class) error {
	if a == nil || b == nil {
		return errors.New("nil class")
	}
	if a.ArrayDims() != b.ArrayDims() {
		return fmt.Errorf("array dimensions differ: %s has %d, %s has %d", a, a.ArrayDims(), b, b.ArrayDims())
	}
	if a.Match() == b {
		return nil
	}

	m.logMatch("class", a.String(), b.String(), a.MappedName())

	if prev := a.Match(); prev != nil {
		prev.SetMatch(nil)
		unmatchMembers(a)
	}

	if prev := b.Match(); prev != nil {
		prev.SetMatch(nil)
		unmatchMembers(b)
	}

	a.SetMatch(b)
	b.SetMatch(a)

	// Cascade over array classes: matching an element pairs up the arrays
	// built over it, matching an array pulls in its element.
	if a.IsArray() {
		if elem := a.Element(); elem != nil && !elem.HasMatch() {
			if err := m.MatchClass(elem, b.Element()); err != nil {
				return err
			}
		}
	} else {
		for _, arrayA := range a.Arrays() {
			dims := arrayA.ArrayDims()

			for _, arrayB := range b.Arrays() {
				if arrayB.HasMatch() || arrayB.ArrayDims() != dims {
					continue
				}

				if err := m.MatchClass(arrayA, arrayB); err != nil {
					return err
				}

				break
			}
		}
	}

	// Methods that kept their names bind by id, then by unique bare name;
	// everything else can still bind through an already-matched hierarchy
	// sibling.
	for _, src := range a.Methods() {
		if !src.NameObfuscated() {
			dst := b.Method(src.ID())
			if dst == nil {
				dst = b.MethodByName(src.Name())
			}

			if dst != nil {
				if err := m.MatchMethod(src, dst); err != nil {
					return err
				}

				continue
			}
		}

		matchedSrc := src.MatchedHierarchyMember()
		if matchedSrc == nil {
			continue
		}

		dstHier := matchedSrc.Match().HierarchyMembers()
		if len(dstHier) <= 1 {
			continue
		}

		for _, dst := range b.Methods() {
			if matchedSrc.Match().InHierarchy(dst) {
				if err := m.MatchMethod(src, dst); err != nil {
					return err
				}

				break
			}
		}
	}

	// Fields bind by name only; there is no field hierarchy.
	for _, src := range a.Fields() {
		if src.NameObfuscated() {
			continue
		}

		dst := b.Field(src.ID())
		if dst == nil {
			dst = b.FieldByName(src.Name())
		}

		if dst != nil {
			if err := m.MatchField(src, dst); err != nil {
				return err
			}
		}
	}

	m.env.Cache().Clear()

	return nil
}

// unmatchMembers drops the match links of every method, arg, local and field
// of cls, on both sides of each link.
func unmatchMembers(cls *entity.Class) {
	for _, method := range cls.Methods() {
		if method.Match() == nil {
			continue
		}

		method.Match().SetMatch(nil)
		method.SetMatch(nil)

		for _, arg := range method.Args() {
			if arg.Match() != nil {
				arg.Match().SetMatch(nil)
				arg.SetMatch(nil)
			}
		}

		for _, v := range method.Vars() {
			if v.Match() != nil {
				v.Match().SetMatch(nil)
				v.SetMatch(nil)
			}
		}
	}

	for _, field := range cls.Fields() {
		if field.Match() != nil {
			field.Match().SetMatch(nil)
			field.SetMatch(nil)
		}
	}
}

// MatchMethod binds a method pair within a matched class pair and cascades
// over the override hierarchy: unmatched siblings whose classes are matched
// bind to the peer hierarchy where possible.
func (m *Matcher) MatchMethod(a, b *entity.Method) error {
	if a == nil || b == nil {
		return errors.New("nil method")
	}
	if a.Cls().Match() != b.Cls() {
		return fmt.Errorf("methods %s and %s don't belong to matched classes", a, b)
	}
	if a.Match() == b {
		return nil
	}

	m.logMatch("method", a.String(), b.String(), a.MappedName())

	if prev := a.Match(); prev != nil {
		prev.SetMatch(nil)
	}

	if prev := b.Match(); prev != nil {
		prev.SetMatch(nil)
	}

	a.SetMatch(b)
	b.SetMatch(a)

	srcHier := a.HierarchyMembers()
	if len(srcHier) > 1 {
		side := a.Cls().Side()

		for _, src := range srcHier {
			if src.HasMatch() || !src.Cls().HasMatch() || src.Cls().Side() != side {
				continue
			}

			for _, dst := range src.Cls().Match().Methods() {
				if !dst.HasMatch() && b.InHierarchy(dst) {
					if err := m.MatchMethod(src, dst); err != nil {
						return err
					}

					break
				}
			}
		}
	}

	m.env.Cache().Clear()

	return nil
}

// MatchField binds a field pair within a matched class pair.
func (m *Matcher) MatchField(a, b *entity.Field) error {
	if a == nil || b == nil {
		return errors.New("nil field")
	}
	if a.Cls().Match() != b.Cls() {
		return fmt.Errorf("fields %s and %s don't belong to matched classes", a, b)
	}
	if a.Match() == b {
		return nil
	}

	m.logMatch("field", a.String(), b.String(), a.MappedName())

	if prev := a.Match(); prev != nil {
		prev.SetMatch(nil)
	}

	if prev := b.Match(); prev != nil {
		prev.SetMatch(nil)
	}

	a.SetMatch(b)
	b.SetMatch(a)

	m.env.Cache().Clear()

	return nil
}

// MatchVar binds an arg or local pair within a matched method pair. Args only
// pair with args, locals with locals.
func (m *Matcher) MatchVar(a, b *entity.MethodVar) error {
	if a == nil || b == nil {
		return errors.New("nil method var")
	}
	if a.Method().Match() != b.Method() {
		return fmt.Errorf("method vars %s and %s don't belong to matched methods", a, b)
	}
	if a.IsArg() != b.IsArg() {
		return fmt.Errorf("method vars %s and %s are not of the same kind", a, b)
	}
	if a.Match() == b {
		return nil
	}

	kind := "var"
	if a.IsArg() {
		kind = "arg"
	}

	m.logMatch("method "+kind, a.String(), b.String(), a.MappedName())

	if prev := a.Match(); prev != nil {
		prev.SetMatch(nil)
	}

	if prev := b.Match(); prev != nil {
		prev.SetMatch(nil)
	}

	a.SetMatch(b)
	b.SetMatch(a)

	m.env.Cache().Clear()

	return nil
}

// UnmatchClass drops a class match and everything hanging off it: member and
// var matches, then the element class or the arrays over it.
func (m *Matcher) UnmatchClass(cls *entity.Class) error {
	if cls == nil {
		return errors.New("nil class")
	}
	if cls.Match() == nil {
		return nil
	}

	m.logUnmatch("class", cls.String(), cls.Match().String(), cls.MappedName())

	cls.Match().SetMatch(nil)
	cls.SetMatch(nil)

	unmatchMembers(cls)

	if cls.IsArray() {
		if err := m.UnmatchClass(cls.Element()); err != nil {
			return err
		}
	} else {
		for _, array := range cls.Arrays() {
			if err := m.UnmatchClass(array); err != nil {
				return err
			}
		}
	}

	m.env.Cache().Clear()

	return nil
}

// UnmatchMethod drops a method match, its args' and locals' matches, and the
// matches of every hierarchy member.
func (m *Matcher) UnmatchMethod(method *entity.Method) error {
	if method == nil {
		return errors.New("nil method")
	}
	if method.Match() == nil {
		return nil
	}

	m.logUnmatch("method", method.String(), method.Match().String(), method.MappedName())

	for _, arg := range method.Args() {
		if err := m.UnmatchVar(arg); err != nil {
			return err
		}
	}

	for _, v := range method.Vars() {
		if err := m.UnmatchVar(v); err != nil {
			return err
		}
	}

	method.Match().SetMatch(nil)
	method.SetMatch(nil)

	for _, member := range method.HierarchyMembers() {
		if err := m.UnmatchMethod(member); err != nil {
			return err
		}
	}

	m.env.Cache().Clear()

	return nil
}

// UnmatchField drops a field match.
func (m *Matcher) UnmatchField(field *entity.Field) error {
	if field == nil {
		return errors.New("nil field")
	}
	if field.Match() == nil {
		return nil
	}

	m.logUnmatch("field", field.String(), field.Match().String(), field.MappedName())

	field.Match().SetMatch(nil)
	field.SetMatch(nil)

	m.env.Cache().Clear()

	return nil
}

// UnmatchVar drops an arg or local match.
func (m *Matcher) UnmatchVar(v *entity.MethodVar) error {
	if v == nil {
		return errors.New("nil method var")
	}
	if v.Match() == nil {
		return nil
	}

	m.logUnmatch("method var", v.String(), v.Match().String(), v.MappedName())

	v.Match().SetMatch(nil)
	v.SetMatch(nil)

	m.env.Cache().Clear()

	return nil
}

func (m *Matcher) logMatch(kind, a, b, mappedName string) {
	if mappedName != "" {
		fmt.Fprintf(m.out, "match %s %s -> %s (%s)\n", kind, a, b, mappedName)
	} else {
		fmt.Fprintf(m.out, "match %s %s -> %s\n", kind, a, b)
	}
}

func (m *Matcher) logUnmatch(kind, a, was, mappedName string) {
	if mappedName != "" {
		fmt.Fprintf(m.out, "unmatch %s %s (was %s) (%s)\n", kind, a, was, mappedName)
	} else {
		fmt.Fprintf(m.out, "unmatch %s %s (was %s)\n", kind, a, was)
	}
}
