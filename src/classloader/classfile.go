/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package classloader

// Access flag bits the engine actually tests. Not exhaustive of the JVM
// spec's full bit layout, but covers every flag spec.md's operations
// reference.
const (
	AccPublic       = 0x0001
	AccPrivate      = 0x0002
	AccProtected    = 0x0004
	AccStatic       = 0x0008
	AccFinal        = 0x0010
	AccSuper        = 0x0020
	AccSynchronized = 0x0020
	AccVolatile     = 0x0040
	AccBridge       = 0x0040
	AccTransient    = 0x0080
	AccVarargs      = 0x0080
	AccNative       = 0x0100
	AccInterface    = 0x0200
	AccAbstract     = 0x0400
	AccStrict       = 0x0800
	AccSynthetic    = 0x1000
	AccAnnotation   = 0x2000
	AccEnum         = 0x4000
	AccModule       = 0x8000
)

// Field is a parsed field_info entry.
type Field struct {
	AccessFlags int
	Name        string
	Descriptor  string
	Attributes  Attributes
}

func (f *Field) IsStatic() bool { return f.AccessFlags&AccStatic != 0 }

// Method is a parsed method_info entry, including the constructors and
// <clinit>.
type Method struct {
	AccessFlags int
	Name        string
	Descriptor  string
	Code        *CodeAttribute // nil for abstract/native methods
	Attributes  Attributes
}

func (m *Method) IsStatic() bool   { return m.AccessFlags&AccStatic != 0 }
func (m *Method) IsNative() bool   { return m.AccessFlags&AccNative != 0 }
func (m *Method) IsAbstract() bool { return m.AccessFlags&AccAbstract != 0 }
func (m *Method) IsPrivate() bool  { return m.AccessFlags&AccPrivate != 0 }

// IsPolymorphicSignature reports whether this method matches the
// caller's descriptor by name alone (spec.md §4.3 "Polymorphic signature").
func (m *Method) IsPolymorphicSignature() bool { return m.Attributes.IsPolymorphicSignature }

// ClInitStatus tracks class-initialization progress, per spec.md §3(b)
// and §4.8.
type ClInitStatus int

const (
	NoClinit ClInitStatus = iota
	ClInitNotRun
	ClInitInProgress
	ClInitRun
)

// ClassFile is the aggregate parsed entity (spec.md §3 "Class file").
type ClassFile struct {
	MajorVersion int
	MinorVersion int
	AccessFlags  int

	ThisClassName  string
	SuperClassName string // "" for java/lang/Object
	Interfaces     []string

	Fields  []*Field
	Methods []*Method

	CP *ConstantPool

	Bootstraps []BootstrapMethod
	Attributes Attributes

	ModuleName  string
	PackageName string

	// IsInit is false until <clinit> has completed (spec.md §3 invariant b).
	IsInit bool

	// StaticFields holds this class's own static field storage
	// (spec.md §3 invariant c: fields live only on the owning class).
	StaticFields map[string]*StaticSlot
}

// StaticSlot is one static field's storage cell, holding a types.Value
// but declared here as an opaque pointer to avoid classloader depending
// on types for nothing but this (types.Value is the concrete payload,
// assigned by the interpreter's static field access so classloader stays
// value-model-agnostic at parse time and only gains concrete values once
// the class is running).
type StaticSlot struct {
	Descriptor string
	Value      interface{}
}

func (c *ClassFile) IsInterface() bool { return c.AccessFlags&AccInterface != 0 }
func (c *ClassFile) IsAbstract() bool  { return c.AccessFlags&AccAbstract != 0 }

// FindOwnMethod returns the method on this class file matching name and
// descriptor exactly, or by name alone if the candidate is polymorphic.
func (c *ClassFile) FindOwnMethod(name, descriptor string) *Method {
	for _, m := range c.Methods {
		if m.Name != name {
			continue
		}
		if m.Descriptor == descriptor || m.IsPolymorphicSignature() {
			return m
		}
	}
	return nil
}

// FindOwnField returns the field on this class file matching name, and
// its zero-based declaration index.
func (c *ClassFile) FindOwnField(name string) (*Field, int) {
	for i, f := range c.Fields {
		if f.Name == name {
			return f, i
		}
	}
	return nil, -1
}

// DeclaredInstanceFieldNames returns non-static field names in declaration
// order, the layout field_offset/field_by_offset (spec.md §4.4) rely on.
func (c *ClassFile) DeclaredInstanceFieldNames() []string {
	var names []string
	for _, f := range c.Fields {
		if !f.IsStatic() {
			names = append(names, f.Name)
		}
	}
	return names
}
