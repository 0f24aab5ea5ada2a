package entity

// Class is a class on one side of the comparison. Non-array classes track the
// array classes instantiated over them; array classes link back to their
// element class.
type Class struct {
	env        *Env
	side       Side
	id         string // type descriptor, e.g. "La/b;" or "[[La/b;"
	name       string
	uri        string // input artifact locator, "" for synthesized/library classes
	obf        bool
	arrayDims  int
	elem       *Class
	arrays     []*Class
	super      *Class
	interfaces []*Class
	children   []*Class
	methods    []*Method
	fields     []*Field
	methodByID map[string]*Method
	fieldByID  map[string]*Field

	tmpName    string
	mappedName string
	match      *Class
}

// NewClass creates a class. Array classes carry their dimension count and are
// linked to their element class via SetElement.
func NewClass(env *Env, side Side, id, name, uri string, obf bool, arrayDims int) *Class {
	return &Class{
		env:        env,
		side:       side,
		id:         id,
		name:       name,
		uri:        uri,
		obf:        obf,
		arrayDims:  arrayDims,
		methodByID: make(map[string]*Method),
		fieldByID:  make(map[string]*Field),
	}
}

// Env returns the owning environment.
func (c *Class) Env() *Env { return c.env }

// Side returns which input the class belongs to.
func (c *Class) Side() Side { return c.side }

// ID returns the type descriptor.
func (c *Class) ID() string { return c.id }

// Name returns the original (possibly obfuscated) name.
func (c *Class) Name() string { return c.name }

// URI returns the input artifact locator, or "" for classes synthesized as
// library or hierarchy placeholders.
func (c *Class) URI() string { return c.uri }

// IsInput reports whether the class came from an input artifact.
func (c *Class) IsInput() bool { return c.uri != "" }

// NameObfuscated reports whether the original name cannot be trusted.
func (c *Class) NameObfuscated() bool { return c.obf }

// ArrayDims returns the array dimension count, 0 for non-arrays.
func (c *Class) ArrayDims() int { return c.arrayDims }

// IsArray reports whether the class is an array class.
func (c *Class) IsArray() bool { return c.arrayDims > 0 }

// Element returns the element class of an array class, nil otherwise.
func (c *Class) Element() *Class { return c.elem }

// SetElement links an array class to its element and registers the array on
// the element's side.
func (c *Class) SetElement(elem *Class) {
	c.elem = elem
	elem.arrays = append(elem.arrays, c)
}

// Arrays returns every live array class whose element is this class.
func (c *Class) Arrays() []*Class { return c.arrays }

// Super returns the superclass reference, nil for roots and placeholders.
func (c *Class) Super() *Class { return c.super }

// SetSuper records the superclass and registers this class as its child.
func (c *Class) SetSuper(super *Class) {
	c.super = super
	super.children = append(super.children, c)
}

// Interfaces returns the implemented interface references.
func (c *Class) Interfaces() []*Class { return c.interfaces }

// AddInterface records an implemented interface and registers this class as
// its child.
func (c *Class) AddInterface(iface *Class) {
	c.interfaces = append(c.interfaces, iface)
	iface.children = append(iface.children, c)
}

// Children returns the known direct subclasses and implementers.
func (c *Class) Children() []*Class { return c.children }

// Methods returns the ordered method sequence.
func (c *Class) Methods() []*Method { return c.methods }

// Fields returns the ordered field sequence.
func (c *Class) Fields() []*Field { return c.fields }

// AddMethod appends a method and indexes it by composite id.
func (c *Class) AddMethod(m *Method) {
	m.position = len(c.methods)
	c.methods = append(c.methods, m)
	c.methodByID[m.ID()] = m
}

// AddField appends a field and indexes it by composite id.
func (c *Class) AddField(f *Field) {
	f.position = len(c.fields)
	c.fields = append(c.fields, f)
	c.fieldByID[f.ID()] = f
}

// Method looks a method up by composite id (name+descriptor).
func (c *Class) Method(id string) *Method {
	return c.methodByID[id]
}

// MethodByName looks a method up by bare name. It returns a method only when
// exactly one method carries the name.
func (c *Class) MethodByName(name string) *Method {
	var found *Method

	for _, m := range c.methods {
		if m.name == name {
			if found != nil {
				return nil
			}

			found = m
		}
	}

	return found
}

// Field looks a field up by composite id (name+descriptor).
func (c *Class) Field(id string) *Field {
	return c.fieldByID[id]
}

// FieldByName looks a field up by bare name. It returns a field only when
// exactly one field carries the name.
func (c *Class) FieldByName(name string) *Field {
	var found *Field

	for _, f := range c.fields {
		if f.name == name {
			if found != nil {
				return nil
			}

			found = f
		}
	}

	return found
}

// Match returns the matched peer class, nil if unmatched.
func (c *Class) Match() *Class { return c.match }

// IsFullyMatched reports whether the class and all of its real members are
// matched.
func (c *Class) IsFullyMatched() bool {
	if c.match == nil {
		return false
	}

	for _, m := range c.methods {
		if m.IsReal() && m.Match() == nil {
			return false
		}
	}

	for _, f := range c.fields {
		if f.IsReal() && f.Match() == nil {
			return false
		}
	}

	return true
}

// HasMatch reports whether the class is matched.
func (c *Class) HasMatch() bool { return c.match != nil }

// SetMatch mutates the match link. Callers go through the matcher, which
// maintains link symmetry and the cascade invariants.
func (c *Class) SetMatch(match *Class) { c.match = match }

// TmpName returns the per-session tentative name, "" if unset.
func (c *Class) TmpName() string { return c.tmpName }

// SetTmpName records a tentative name for this session.
func (c *Class) SetTmpName(name string) { c.tmpName = name }

// MappedName returns this class's mapped name, falling back to the matched
// peer's mapped name. Propagation across the link is by lookup, not storage.
func (c *Class) MappedName() string {
	if c.mappedName != "" {
		return c.mappedName
	}
	if c.match != nil {
		return c.match.mappedName
	}

	return ""
}

// HasMappedName reports whether this class itself carries a mapped name.
func (c *Class) HasMappedName() bool { return c.mappedName != "" }

// SetMappedName records the user-chosen name.
func (c *Class) SetMappedName(name string) { c.mappedName = name }

func (c *Class) String() string { return c.name }
