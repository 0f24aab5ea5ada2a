package entity

import "strconv"

// MethodVar is an argument or local variable of a single method. index is the
// position among the method's args or locals, lvIndex the local-variable
// table slot, asmIndex the ordinal within the instruction stream. startInsn
// is inclusive, endInsn exclusive.
type MethodVar struct {
	method    *Method
	isArg     bool
	index     int
	lvIndex   int
	asmIndex  int
	typ       *Class
	startInsn int
	endInsn   int
	name      string
	obf       bool

	tmpName    string
	mappedName string
	match      *MethodVar
}

// NewMethodVar creates a var. The caller attaches it via Method.AddArg or
// Method.AddVar, which assigns the index.
func NewMethodVar(method *Method, isArg bool, lvIndex, asmIndex int, typ *Class, startInsn, endInsn int, name string, obf bool) *MethodVar {
	return &MethodVar{
		method:    method,
		isArg:     isArg,
		lvIndex:   lvIndex,
		asmIndex:  asmIndex,
		typ:       typ,
		startInsn: startInsn,
		endInsn:   endInsn,
		name:      name,
		obf:       obf,
	}
}

// Method returns the owning method.
func (v *MethodVar) Method() *Method { return v.method }

// IsArg distinguishes arguments from locals.
func (v *MethodVar) IsArg() bool { return v.isArg }

// Index returns the position among the method's args or locals.
func (v *MethodVar) Index() int { return v.index }

// LvIndex returns the local-variable table slot.
func (v *MethodVar) LvIndex() int { return v.lvIndex }

// AsmIndex returns the ordinal within the instruction stream.
func (v *MethodVar) AsmIndex() int { return v.asmIndex }

// Type returns the var's type class.
func (v *MethodVar) Type() *Class { return v.typ }

// StartInsn returns the inclusive start of the var's lifetime.
func (v *MethodVar) StartInsn() int { return v.startInsn }

// EndInsn returns the exclusive end of the var's lifetime.
func (v *MethodVar) EndInsn() int { return v.endInsn }

// ID returns the var's position id.
func (v *MethodVar) ID() string { return strconv.Itoa(v.index) }

// Name returns the original var name.
func (v *MethodVar) Name() string { return v.name }

// NameObfuscated reports whether the original name cannot be trusted.
func (v *MethodVar) NameObfuscated() bool { return v.obf }

// Match returns the matched peer var, nil if unmatched.
func (v *MethodVar) Match() *MethodVar { return v.match }

// HasMatch reports whether the var is matched.
func (v *MethodVar) HasMatch() bool { return v.match != nil }

// SetMatch mutates the match link. Callers go through the matcher.
func (v *MethodVar) SetMatch(match *MethodVar) { v.match = match }

// TmpName returns the per-session tentative name, "" if unset.
func (v *MethodVar) TmpName() string { return v.tmpName }

// SetTmpName records a tentative name for this session.
func (v *MethodVar) SetTmpName(name string) { v.tmpName = name }

// MappedName returns this var's mapped name, falling back to the matched
// peer's mapped name.
func (v *MethodVar) MappedName() string {
	if v.mappedName != "" {
		return v.mappedName
	}
	if v.match != nil {
		return v.match.mappedName
	}

	return ""
}

// HasMappedName reports whether this var itself carries a mapped name.
func (v *MethodVar) HasMappedName() bool { return v.mappedName != "" }

// SetMappedName records the user-chosen name.
func (v *MethodVar) SetMappedName(name string) { v.mappedName = name }

func (v *MethodVar) String() string { return v.method.String() + ":" + v.ID() }
