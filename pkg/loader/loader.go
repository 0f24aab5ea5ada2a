// Package loader builds the entity graph from class summary documents, the
// flattened per-artifact dumps produced by the extraction step. Documents are
// schema-validated before anything is constructed.
package loader

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/classmatch/classmatch/pkg/bytecode"
	"github.com/classmatch/classmatch/pkg/entity"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// LoadProject loads both sides into a fresh environment.
func LoadProject(pathA, pathB string) (*entity.Env, error) {
	env := entity.NewEnv()

	if err := LoadSide(env, entity.SideA, pathA); err != nil {
		return nil, fmt.Errorf("side a: %w", err)
	}

	if err := LoadSide(env, entity.SideB, pathB); err != nil {
		return nil, fmt.Errorf("side b: %w", err)
	}

	return env, nil
}

// LoadSide reads, validates and materializes one side's summary document.
func LoadSide(env *entity.Env, side entity.Side, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	doc, err := decode(path, data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	digest := blake3.Sum256(data)
	uri := path + "#" + hex.EncodeToString(digest[:8])

	b := &builder{env: env, side: side, uri: uri}
	b.build(doc)

	return nil
}

// decode parses by extension (YAML for .yaml/.yml, JSON otherwise) and
// validates the raw document against the summary schema before unmarshaling
// into the typed form.
func decode(path string, data []byte) (*Document, error) {
	jsonData := data

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		// Normalize through JSON so both the schema validator and the typed
		// decode see JSON-shaped values regardless of the source format.
		var v any

		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}

		normalized, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}

		jsonData = normalized
	}

	raw, err := jsonschema.UnmarshalJSON(strings.NewReader(string(jsonData)))
	if err != nil {
		return nil, err
	}

	sch, err := compileSchema()
	if err != nil {
		return nil, err
	}

	if err := sch.Validate(raw); err != nil {
		return nil, fmt.Errorf("invalid summary document: %w", err)
	}

	doc := &Document{}

	if err := json.Unmarshal(jsonData, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	raw, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("summary.schema.json", raw); err != nil {
		return nil, err
	}

	return c.Compile("summary.schema.json")
}

type builder struct {
	env  *entity.Env
	side entity.Side
	uri  string
}

func (b *builder) build(doc *Document) {
	// Classes first so every reference resolves to the same instances.
	for _, cd := range doc.Classes {
		uri := b.uri
		if cd.Library {
			uri = ""
		}

		cls := entity.NewClass(b.env, b.side, classID(cd.Name), cd.Name, uri, cd.Obfuscated, 0)
		b.env.AddClass(cls)
	}

	for _, cd := range doc.Classes {
		cls := b.env.ClsByID(b.side, classID(cd.Name))

		if cd.Super != "" {
			cls.SetSuper(b.resolveName(cd.Super))
		}

		for _, iface := range cd.Interfaces {
			cls.AddInterface(b.resolveName(iface))
		}

		for _, md := range cd.Methods {
			method := entity.NewMethod(cls, md.Name, md.Desc,
				b.resolveType(returnDesc(md.Desc)), true, md.Obfuscated, convertInsns(md.Insns))
			cls.AddMethod(method)

			for _, vd := range md.Args {
				method.AddArg(entity.NewMethodVar(method, true, vd.LvIndex, vd.AsmIndex,
					b.resolveType(vd.Type), vd.Start, vd.End, vd.Name, vd.Obfuscated))
			}

			for _, vd := range md.Locals {
				method.AddVar(entity.NewMethodVar(method, false, vd.LvIndex, vd.AsmIndex,
					b.resolveType(vd.Type), vd.Start, vd.End, vd.Name, vd.Obfuscated))
			}
		}

		for _, fd := range cd.Fields {
			cls.AddField(entity.NewField(cls, fd.Name, fd.Desc, b.resolveType(fd.Desc), true, fd.Obfuscated))
		}
	}

	b.computeHierarchies()
	b.countFieldUses()
}

// resolveName resolves an internal class name like "a/b/C".
func (b *builder) resolveName(name string) *entity.Class {
	return b.resolveType("L" + name + ";")
}

// resolveType resolves a type descriptor, synthesizing placeholder classes
// for primitives, unknown library types and array types on first sight.
// Placeholders carry no URI and never become auto-match subjects.
func (b *builder) resolveType(desc string) *entity.Class {
	if cls := b.env.ClsByID(b.side, desc); cls != nil {
		return cls
	}

	dims := 0
	for dims < len(desc) && desc[dims] == '[' {
		dims++
	}

	var cls *entity.Class

	if dims > 0 {
		elem := b.resolveType(desc[dims:])
		cls = entity.NewClass(b.env, b.side, desc, elem.Name()+strings.Repeat("[]", dims), "", elem.NameObfuscated(), dims)
		cls = b.env.AddClass(cls)

		if cls.Element() == nil {
			cls.SetElement(elem)
		}

		return cls
	}

	name := desc
	if strings.HasPrefix(desc, "L") && strings.HasSuffix(desc, ";") {
		name = desc[1 : len(desc)-1]
	}

	cls = entity.NewClass(b.env, b.side, desc, name, "", false, 0)

	return b.env.AddClass(cls)
}

// computeHierarchies links methods overriding one another into shared
// hierarchy sets via union-find over ancestor chains.
func (b *builder) computeHierarchies() {
	parent := make(map[*entity.Method]*entity.Method)

	var find func(m *entity.Method) *entity.Method

	find = func(m *entity.Method) *entity.Method {
		p, ok := parent[m]
		if !ok || p == m {
			return m
		}

		root := find(p)
		parent[m] = root

		return root
	}

	union := func(a, c *entity.Method) {
		ra, rc := find(a), find(c)
		if ra != rc {
			parent[ra] = rc
		}
	}

	for _, cls := range b.env.Classes(b.side) {
		for _, anc := range ancestors(cls) {
			for _, m := range cls.Methods() {
				if am := anc.Method(m.ID()); am != nil {
					union(m, am)
				}
			}
		}
	}

	groups := make(map[*entity.Method][]*entity.Method)

	for _, cls := range b.env.Classes(b.side) {
		for _, m := range cls.Methods() {
			root := find(m)
			groups[root] = append(groups[root], m)
		}
	}

	for _, members := range groups {
		if len(members) <= 1 {
			continue
		}

		sort.Slice(members, func(i, j int) bool {
			return members[i].Cls().Name() < members[j].Cls().Name()
		})

		for _, m := range members {
			m.SetHierarchy(members)
		}
	}
}

// ancestors returns every supertype reachable from cls, supers and
// interfaces included.
func ancestors(cls *entity.Class) []*entity.Class {
	var out []*entity.Class

	seen := make(map[*entity.Class]bool)

	var walk func(c *entity.Class)

	walk = func(c *entity.Class) {
		if c == nil || seen[c] {
			return
		}

		seen[c] = true

		if c != cls {
			out = append(out, c)
		}

		walk(c.Super())

		for _, iface := range c.Interfaces() {
			walk(iface)
		}
	}

	walk(cls)

	return out
}

// countFieldUses tallies field references across the side's instruction
// streams. Field operands use the "owner.name" convention.
func (b *builder) countFieldUses() {
	counts := make(map[string]int)

	for _, cls := range b.env.Classes(b.side) {
		for _, m := range cls.Methods() {
			for _, in := range m.Insns() {
				if in.Kind == bytecode.KindField {
					counts[in.Operand]++
				}
			}
		}
	}

	for _, cls := range b.env.Classes(b.side) {
		for _, f := range cls.Fields() {
			f.SetUseCount(counts[cls.Name()+"."+f.Name()])
		}
	}
}

func convertInsns(docs []InsnDoc) bytecode.InsnList {
	if len(docs) == 0 {
		return nil
	}

	insns := make(bytecode.InsnList, len(docs))

	for i, d := range docs {
		insns[i] = bytecode.Insn{Opcode: d.Op, Kind: operandKind(d.Kind), Operand: d.Val}
	}

	return insns
}

func operandKind(s string) bytecode.OperandKind {
	switch s {
	case "type":
		return bytecode.KindType
	case "method":
		return bytecode.KindMethod
	case "field":
		return bytecode.KindField
	case "var":
		return bytecode.KindVar
	case "const":
		return bytecode.KindConst
	case "string":
		return bytecode.KindString
	case "label":
		return bytecode.KindLabel
	default:
		return bytecode.KindNone
	}
}

func classID(name string) string {
	return "L" + name + ";"
}

// returnDesc extracts the return type descriptor from a method descriptor.
func returnDesc(desc string) string {
	if i := strings.IndexByte(desc, ')'); i >= 0 {
		return desc[i+1:]
	}

	return desc
}
