package entity

import "github.com/classmatch/classmatch/pkg/bytecode"

// Method is a member of a class. Placeholder methods synthesized to complete
// override hierarchies carry real=false and no instruction stream.
type Method struct {
	cls      *Class
	name     string
	desc     string
	retType  *Class
	args     []*MethodVar
	vars     []*MethodVar
	real     bool
	obf      bool
	insns    bytecode.InsnList
	position int

	// hierarchy is the transitive closure of override chains sharing this
	// method's name+descriptor, itself included. The slice is shared by
	// every member of the set.
	hierarchy []*Method

	tmpName    string
	mappedName string
	match      *Method
}

// NewMethod creates a method. The caller attaches it via Class.AddMethod.
func NewMethod(cls *Class, name, desc string, retType *Class, real, obf bool, insns bytecode.InsnList) *Method {
	m := &Method{
		cls:     cls,
		name:    name,
		desc:    desc,
		retType: retType,
		real:    real,
		obf:     obf,
		insns:   insns,
	}
	m.hierarchy = []*Method{m}

	return m
}

// Cls returns the owning class.
func (m *Method) Cls() *Class { return m.cls }

// Name returns the original method name.
func (m *Method) Name() string { return m.name }

// Desc returns the method descriptor.
func (m *Method) Desc() string { return m.desc }

// ID returns the composite id (name+descriptor).
func (m *Method) ID() string { return m.name + m.desc }

// RetType returns the return type class.
func (m *Method) RetType() *Class { return m.retType }

// Args returns the ordered argument vars.
func (m *Method) Args() []*MethodVar { return m.args }

// Arg returns the argument var at index i.
func (m *Method) Arg(i int) *MethodVar { return m.args[i] }

// Vars returns the ordered local vars.
func (m *Method) Vars() []*MethodVar { return m.vars }

// AddArg appends an argument var.
func (m *Method) AddArg(v *MethodVar) {
	v.index = len(m.args)
	m.args = append(m.args, v)
}

// AddVar appends a local var.
func (m *Method) AddVar(v *MethodVar) {
	v.index = len(m.vars)
	m.vars = append(m.vars, v)
}

// IsReal reports whether the method is actually present in its class, as
// opposed to a synthesized hierarchy placeholder.
func (m *Method) IsReal() bool { return m.real }

// NameObfuscated reports whether the original name cannot be trusted.
func (m *Method) NameObfuscated() bool { return m.obf }

// Insns returns the instruction stream, nil for placeholders.
func (m *Method) Insns() bytecode.InsnList { return m.insns }

// Position returns the method's index within its class.
func (m *Method) Position() int { return m.position }

// HierarchyMembers returns every method in the override hierarchy set,
// this method included.
func (m *Method) HierarchyMembers() []*Method { return m.hierarchy }

// SetHierarchy installs the shared hierarchy set. Used by the loader after
// closure computation.
func (m *Method) SetHierarchy(members []*Method) { m.hierarchy = members }

// InHierarchy reports whether other belongs to this method's hierarchy set.
func (m *Method) InHierarchy(other *Method) bool {
	for _, h := range m.hierarchy {
		if h == other {
			return true
		}
	}

	return false
}

// MatchedHierarchyMember returns any hierarchy member that is matched, nil if
// none are.
func (m *Method) MatchedHierarchyMember() *Method {
	for _, h := range m.hierarchy {
		if h.match != nil {
			return h
		}
	}

	return nil
}

// HasAllArgsMapped reports whether every argument carries a mapped name of
// its own.
func (m *Method) HasAllArgsMapped() bool {
	for _, a := range m.args {
		if !a.HasMappedName() {
			return false
		}
	}

	return true
}

// Match returns the matched peer method, nil if unmatched.
func (m *Method) Match() *Method { return m.match }

// HasMatch reports whether the method is matched.
func (m *Method) HasMatch() bool { return m.match != nil }

// SetMatch mutates the match link. Callers go through the matcher.
func (m *Method) SetMatch(match *Method) { m.match = match }

// TmpName returns the per-session tentative name, "" if unset.
func (m *Method) TmpName() string { return m.tmpName }

// SetTmpName records a tentative name for this session.
func (m *Method) SetTmpName(name string) { m.tmpName = name }

// MappedName returns this method's mapped name, falling back to the matched
// peer's mapped name.
func (m *Method) MappedName() string {
	if m.mappedName != "" {
		return m.mappedName
	}
	if m.match != nil {
		return m.match.mappedName
	}

	return ""
}

// HasMappedName reports whether this method itself carries a mapped name.
func (m *Method) HasMappedName() bool { return m.mappedName != "" }

// SetMappedName records the user-chosen name.
func (m *Method) SetMappedName(name string) { m.mappedName = name }

func (m *Method) String() string { return m.cls.name + "." + m.name + m.desc }
