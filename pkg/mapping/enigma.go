// Package mapping exports the matched graph as Enigma-format mapping trees:
// one .mapping file per top-level side B class, with inner classes nested
// inside their enclosing class at increasing tab depth.
package mapping

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/classmatch/classmatch/pkg/entity"
)

// enigmaClass is one node of the per-file class tree. Inner classes hang off
// their enclosing class, discovered by splitting internal names on '$'.
type enigmaClass struct {
	name       string // full internal name, '$' separators included
	mappedName string
	level      int
	fields     []enigmaField
	methods    []enigmaMethod
	inner      map[string]*enigmaClass
}

type enigmaField struct {
	name       string
	desc       string
	mappedName string
}

type enigmaMethod struct {
	name       string
	desc       string
	mappedName string
	args       []enigmaVar
	vars       []enigmaVar
}

type enigmaVar struct {
	index int
	name  string
}

type enigmaState struct {
	classes map[string]*enigmaClass
}

// class returns the tree node for an internal name, creating it and its
// enclosing chain on first sight. A '$' at position zero or at the end is
// part of the name, not a separator.
func (s *enigmaState) class(name string) *enigmaClass {
	pos := strings.LastIndexByte(name, '$')

	if pos > 0 && pos < len(name)-1 {
		parent := s.class(name[:pos])

		if cls, ok := parent.inner[name]; ok {
			return cls
		}

		cls := &enigmaClass{name: name, level: parent.level + 1, inner: make(map[string]*enigmaClass)}
		parent.inner[name] = cls

		return cls
	}

	if cls, ok := s.classes[name]; ok {
		return cls
	}

	cls := &enigmaClass{name: name, inner: make(map[string]*enigmaClass)}
	s.classes[name] = cls

	return cls
}

// WriteEnigma writes one mapping file per top-level side B input class into
// dstDir and returns how many files were written. Inner classes are nested
// inside their top-level class's file. A class's destination name is its
// mapped name when one is set, otherwise the matched side A class's original
// name; top-level trees holding no names at all are skipped.
func WriteEnigma(env *entity.Env, dstDir string) (int, error) {
	abs, err := filepath.Abs(dstDir)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return 0, err
	}

	state := &enigmaState{classes: make(map[string]*enigmaClass)}

	for _, cls := range env.ClassesB() {
		if !cls.IsInput() || cls.IsArray() {
			continue
		}

		collectClass(state.class(cls.Name()), cls)
	}

	topLevel := make([]*enigmaClass, 0, len(state.classes))

	for _, cls := range state.classes {
		topLevel = append(topLevel, cls)
	}

	sort.Slice(topLevel, func(i, j int) bool { return topLevel[i].name < topLevel[j].name })

	written := 0

	for _, cls := range topLevel {
		if !cls.hasContent() {
			continue
		}

		name := cls.name
		if cls.mappedName != "" {
			name = cls.mappedName
		}

		path := filepath.Join(abs, filepath.FromSlash(name)+".mapping")

		resolved, err := filepath.Abs(path)
		if err != nil {
			return written, err
		}

		if !strings.HasPrefix(resolved, abs+string(filepath.Separator)) {
			return written, fmt.Errorf("invalid mapped name: %s", name)
		}

		if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
			return written, err
		}

		var sb strings.Builder

		writeClass(&sb, cls)

		if err := os.WriteFile(resolved, []byte(sb.String()), 0o644); err != nil {
			return written, err
		}

		written++
	}

	return written, nil
}

// collectClass fills a tree node with the class's destination names.
func collectClass(ec *enigmaClass, cls *entity.Class) {
	ec.mappedName = destName(cls)

	for _, f := range cls.Fields() {
		if !f.IsReal() {
			continue
		}

		dst := f.MappedName()
		if dst == "" && f.Match() != nil {
			dst = f.Match().Name()
		}

		if dst != "" {
			ec.fields = append(ec.fields, enigmaField{name: f.Name(), desc: f.Desc(), mappedName: dst})
		}
	}

	for _, m := range cls.Methods() {
		if !m.IsReal() {
			continue
		}

		dst := m.MappedName()
		if dst == "" && m.Match() != nil {
			dst = m.Match().Name()
		}

		em := enigmaMethod{name: m.Name(), desc: m.Desc(), mappedName: dst}

		for _, arg := range m.Args() {
			if name := varDestName(arg); name != "" {
				em.args = append(em.args, enigmaVar{index: arg.Index(), name: name})
			}
		}

		for _, v := range m.Vars() {
			if name := varDestName(v); name != "" {
				em.vars = append(em.vars, enigmaVar{index: v.Index(), name: name})
			}
		}

		if em.mappedName != "" || len(em.args) > 0 || len(em.vars) > 0 {
			ec.methods = append(ec.methods, em)
		}
	}
}

func destName(cls *entity.Class) string {
	if name := cls.MappedName(); name != "" {
		return name
	}
	if cls.Match() != nil {
		return cls.Match().Name()
	}

	return ""
}

func varDestName(v *entity.MethodVar) string {
	if name := v.MappedName(); name != "" {
		return name
	}
	if v.Match() != nil && !v.Match().NameObfuscated() {
		return v.Match().Name()
	}

	return ""
}

// hasContent reports whether the node or any nested class carries a name
// worth emitting.
func (c *enigmaClass) hasContent() bool {
	if c.mappedName != "" || len(c.fields) > 0 || len(c.methods) > 0 {
		return true
	}

	for _, inner := range c.inner {
		if inner.hasContent() {
			return true
		}
	}

	return false
}

// writeClass emits one CLASS block: the class line, nested inner classes,
// then fields and methods, everything indented by the nesting level.
func writeClass(sb *strings.Builder, c *enigmaClass) {
	prefix := strings.Repeat("\t", c.level)

	sb.WriteString(prefix)
	sb.WriteString("CLASS ")
	sb.WriteString(c.name)

	if c.mappedName != "" && c.mappedName != c.name {
		sb.WriteByte(' ')
		sb.WriteString(c.mappedName)
	}

	sb.WriteByte('\n')

	if len(c.inner) > 0 {
		inner := make([]*enigmaClass, 0, len(c.inner))

		for _, cls := range c.inner {
			inner = append(inner, cls)
		}

		sort.Slice(inner, func(i, j int) bool {
			if len(inner[i].name) != len(inner[j].name) {
				return len(inner[i].name) < len(inner[j].name)
			}

			return inner[i].name < inner[j].name
		})

		for _, cls := range inner {
			writeClass(sb, cls)
		}
	}

	fields := append([]enigmaField(nil), c.fields...)
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].name+fields[i].desc < fields[j].name+fields[j].desc
	})

	for _, f := range fields {
		fmt.Fprintf(sb, "%s\tFIELD %s %s %s\n", prefix, f.name, f.mappedName, f.desc)
	}

	methods := append([]enigmaMethod(nil), c.methods...)
	sort.Slice(methods, func(i, j int) bool {
		return methods[i].name+methods[i].desc < methods[j].name+methods[j].desc
	})

	for _, m := range methods {
		sb.WriteString(prefix)
		sb.WriteString("\tMETHOD ")
		sb.WriteString(m.name)

		if m.mappedName != "" {
			sb.WriteByte(' ')
			sb.WriteString(m.mappedName)
		}

		sb.WriteByte(' ')
		sb.WriteString(m.desc)
		sb.WriteByte('\n')

		for _, arg := range m.args {
			fmt.Fprintf(sb, "%s\t\tARG %d %s\n", prefix, arg.index, arg.name)
		}

		for _, v := range m.vars {
			fmt.Fprintf(sb, "%s\t\tVAR %d %s\n", prefix, v.index, v.name)
		}
	}
}
