package entity

// Field is a member of a class.
type Field struct {
	cls      *Class
	name     string
	desc     string
	typ      *Class
	real     bool
	obf      bool
	position int
	useCount int

	tmpName    string
	mappedName string
	match      *Field
}

// NewField creates a field. The caller attaches it via Class.AddField.
func NewField(cls *Class, name, desc string, typ *Class, real, obf bool) *Field {
	return &Field{
		cls:  cls,
		name: name,
		desc: desc,
		typ:  typ,
		real: real,
		obf:  obf,
	}
}

// Cls returns the owning class.
func (f *Field) Cls() *Class { return f.cls }

// Name returns the original field name.
func (f *Field) Name() string { return f.name }

// Desc returns the field descriptor.
func (f *Field) Desc() string { return f.desc }

// ID returns the composite id (name+descriptor).
func (f *Field) ID() string { return f.name + f.desc }

// Type returns the field's type class.
func (f *Field) Type() *Class { return f.typ }

// IsReal reports whether the field is actually present in its class.
func (f *Field) IsReal() bool { return f.real }

// NameObfuscated reports whether the original name cannot be trusted.
func (f *Field) NameObfuscated() bool { return f.obf }

// Position returns the field's index within its class.
func (f *Field) Position() int { return f.position }

// UseCount returns how many instructions across the side reference this
// field. Set by the loader.
func (f *Field) UseCount() int { return f.useCount }

// SetUseCount records the reference count.
func (f *Field) SetUseCount(n int) { f.useCount = n }

// Match returns the matched peer field, nil if unmatched.
func (f *Field) Match() *Field { return f.match }

// HasMatch reports whether the field is matched.
func (f *Field) HasMatch() bool { return f.match != nil }

// SetMatch mutates the match link. Callers go through the matcher.
func (f *Field) SetMatch(match *Field) { f.match = match }

// TmpName returns the per-session tentative name, "" if unset.
func (f *Field) TmpName() string { return f.tmpName }

// SetTmpName records a tentative name for this session.
func (f *Field) SetTmpName(name string) { f.tmpName = name }

// MappedName returns this field's mapped name, falling back to the matched
// peer's mapped name.
func (f *Field) MappedName() string {
	if f.mappedName != "" {
		return f.mappedName
	}
	if f.match != nil {
		return f.match.mappedName
	}

	return ""
}

// HasMappedName reports whether this field itself carries a mapped name.
func (f *Field) HasMappedName() bool { return f.mappedName != "" }

// SetMappedName records the user-chosen name.
func (f *Field) SetMappedName(name string) { f.mappedName = name }

func (f *Field) String() string { return f.cls.name + "." + f.name }
