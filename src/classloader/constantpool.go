/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

// Package classloader implements the class-file parser, the typed
// constant pool, the class loader's per-name cache, and the module
// manager. It is the spec's §4.1-§4.3 home.
package classloader

import "fmt"

// CPTag identifies the variant of a constant-pool entry.
type CPTag int

const (
	CPUtf8 CPTag = iota + 1
	CPInteger
	CPFloat
	CPLong
	CPDouble
	CPClass
	CPString
	CPFieldRef
	CPMethodRef
	CPInterfaceMethodRef
	CPNameAndType
	CPMethodHandle
	CPMethodType
	CPDynamic
	CPInvokeDynamic
	CPModule
	CPPackage
	cpLongDoubleSentinel // occupies the second slot consumed by Long/Double
)

// CPEntry is a typed constant-pool entry. Fields are populated according
// to Tag; unused fields are zero.
type CPEntry struct {
	Tag CPTag

	// CPUtf8
	Utf8 string

	// CPInteger / CPFloat / CPLong / CPDouble
	IntVal    int32
	FloatVal  float32
	LongVal   int64
	DoubleVal float64

	// CPClass, CPString, CPMethodType, CPModule, CPPackage: index of a Utf8 entry
	NameIndex uint16

	// CPFieldRef, CPMethodRef, CPInterfaceMethodRef
	ClassIndex       uint16
	NameAndTypeIndex uint16

	// CPNameAndType
	NatNameIndex uint16
	NatDescIndex uint16

	// CPMethodHandle
	RefKind  uint8
	RefIndex uint16

	// CPDynamic / CPInvokeDynamic
	BootstrapMethodIndex uint16
	DynNameAndTypeIndex  uint16
}

// ConstantPool is 1-based, per the JVM spec; index 0 and the synthetic
// slot following every Long/Double entry are reserved.
type ConstantPool struct {
	Entries []CPEntry // Entries[0] is unused
}

func NewConstantPool(size int) *ConstantPool {
	return &ConstantPool{Entries: make([]CPEntry, size)}
}

func (cp *ConstantPool) valid(i int) bool {
	return i >= 1 && i < len(cp.Entries)
}

// ResolveIndex returns the raw entry at i.
func (cp *ConstantPool) ResolveIndex(i int) (CPEntry, error) {
	if !cp.valid(i) {
		return CPEntry{}, fmt.Errorf("constant pool index out of range: %d", i)
	}
	return cp.Entries[i], nil
}

// ResolveName returns the UTF-8 string referenced (directly) at i. Index
// 0 is treated as an empty string, per spec.md §4.2.
func (cp *ConstantPool) ResolveName(i int) (string, error) {
	if i == 0 {
		return "", nil
	}
	e, err := cp.ResolveIndex(i)
	if err != nil {
		return "", err
	}
	if e.Tag != CPUtf8 {
		return "", fmt.Errorf("constant pool entry %d is not Utf8 (tag=%d)", i, e.Tag)
	}
	return e.Utf8, nil
}

// ResolveClassName returns the internal class name a Class entry (or,
// transitively, an index pointing straight at a Utf8 entry) refers to.
func (cp *ConstantPool) ResolveClassName(i int) (string, error) {
	if i == 0 {
		return "", nil
	}
	e, err := cp.ResolveIndex(i)
	if err != nil {
		return "", err
	}
	switch e.Tag {
	case CPClass:
		return cp.ResolveName(int(e.NameIndex))
	case CPUtf8:
		return e.Utf8, nil
	default:
		return "", fmt.Errorf("constant pool entry %d is not a class reference (tag=%d)", i, e.Tag)
	}
}

// ResolveNameAndType resolves a Field/Method/InterfaceMethod/NameAndType/
// InvokeDynamic index down to its (name, descriptor) pair.
func (cp *ConstantPool) ResolveNameAndType(i int) (name, descriptor string, err error) {
	e, err := cp.ResolveIndex(i)
	if err != nil {
		return "", "", err
	}
	var natIndex int
	switch e.Tag {
	case CPNameAndType:
		natIndex = i
	case CPFieldRef, CPMethodRef, CPInterfaceMethodRef:
		natIndex = int(e.NameAndTypeIndex)
	case CPDynamic, CPInvokeDynamic:
		natIndex = int(e.DynNameAndTypeIndex)
	default:
		return "", "", fmt.Errorf("constant pool entry %d has no name-and-type (tag=%d)", i, e.Tag)
	}
	nat, err := cp.ResolveIndex(natIndex)
	if err != nil {
		return "", "", err
	}
	name, err = cp.ResolveName(int(nat.NatNameIndex))
	if err != nil {
		return "", "", err
	}
	descriptor, err = cp.ResolveName(int(nat.NatDescIndex))
	return name, descriptor, err
}

// ResolveFieldRef and ResolveMethodRef both resolve to (owner class,
// name, descriptor); callers cannot distinguish Methodref from
// InterfaceMethodref by tag alone, per spec.md §4.2, so both use this
// same path.
func (cp *ConstantPool) ResolveFieldRef(i int) (owner, name, descriptor string, err error) {
	return cp.resolveMemberRef(i, CPFieldRef)
}

func (cp *ConstantPool) ResolveMethodRef(i int) (owner, name, descriptor string, err error) {
	e, err := cp.ResolveIndex(i)
	if err != nil {
		return "", "", "", err
	}
	if e.Tag != CPMethodRef && e.Tag != CPInterfaceMethodRef {
		return "", "", "", fmt.Errorf("constant pool entry %d is not a method reference (tag=%d)", i, e.Tag)
	}
	owner, err = cp.ResolveClassName(int(e.ClassIndex))
	if err != nil {
		return "", "", "", err
	}
	name, descriptor, err = cp.ResolveNameAndType(i)
	return owner, name, descriptor, err
}

func (cp *ConstantPool) resolveMemberRef(i int, want CPTag) (owner, name, descriptor string, err error) {
	e, err := cp.ResolveIndex(i)
	if err != nil {
		return "", "", "", err
	}
	if e.Tag != want {
		return "", "", "", fmt.Errorf("constant pool entry %d has tag %d, want %d", i, e.Tag, want)
	}
	owner, err = cp.ResolveClassName(int(e.ClassIndex))
	if err != nil {
		return "", "", "", err
	}
	name, descriptor, err = cp.ResolveNameAndType(i)
	return owner, name, descriptor, err
}

// ResolveMethodHandle returns (ref_kind, owner, name, descriptor).
func (cp *ConstantPool) ResolveMethodHandle(i int) (refKind uint8, owner, name, descriptor string, err error) {
	e, err := cp.ResolveIndex(i)
	if err != nil {
		return 0, "", "", "", err
	}
	if e.Tag != CPMethodHandle {
		return 0, "", "", "", fmt.Errorf("constant pool entry %d is not a MethodHandle (tag=%d)", i, e.Tag)
	}
	owner, name, descriptor, err = cp.ResolveMethodRef(int(e.RefIndex))
	if err != nil {
		// A field-based method handle (getField/putField/...) refers to a
		// FieldRef instead; fall back to that form.
		owner, name, descriptor, err = cp.ResolveFieldRef(int(e.RefIndex))
	}
	return e.RefKind, owner, name, descriptor, err
}

// ResolveMethodType returns the descriptor string a MethodType entry names.
func (cp *ConstantPool) ResolveMethodType(i int) (string, error) {
	e, err := cp.ResolveIndex(i)
	if err != nil {
		return "", err
	}
	if e.Tag != CPMethodType {
		return "", fmt.Errorf("constant pool entry %d is not a MethodType (tag=%d)", i, e.Tag)
	}
	return cp.ResolveName(int(e.NameIndex))
}

// ResolveInvokeDynamic returns (bootstrap_index, name, descriptor).
func (cp *ConstantPool) ResolveInvokeDynamic(i int) (bootstrapIndex int, name, descriptor string, err error) {
	e, err := cp.ResolveIndex(i)
	if err != nil {
		return 0, "", "", err
	}
	if e.Tag != CPInvokeDynamic {
		return 0, "", "", fmt.Errorf("constant pool entry %d is not InvokeDynamic (tag=%d)", i, e.Tag)
	}
	name, descriptor, err = cp.ResolveNameAndType(i)
	return int(e.BootstrapMethodIndex), name, descriptor, err
}

// ResolveString returns the UTF-8 content of a String constant, the way
// ldc needs it before interning.
func (cp *ConstantPool) ResolveString(i int) (string, error) {
	e, err := cp.ResolveIndex(i)
	if err != nil {
		return "", err
	}
	if e.Tag != CPString {
		return "", fmt.Errorf("constant pool entry %d is not a String (tag=%d)", i, e.Tag)
	}
	return cp.ResolveName(int(e.NameIndex))
}
