/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package classloader

import "fmt"

// VTableIndex -1 denotes "not part of virtual dispatch" — static
// methods and <init> (spec.md §4.3).
const NotVirtual = -1

// ResolvedMethod is the result of Find: which class actually declares
// the method, the method itself, and its vtable-style index.
type ResolvedMethod struct {
	DeclaringClass string
	Method         *Method
	VTableIndex    int
}

// Find resolves (owner, name, descriptor) to a concrete method,
// searching the owner's own methods, then declared interfaces, then the
// superclass chain (spec.md §4.3 "Method resolution"). allowAbstract
// controls whether an interface method without a body may satisfy the
// lookup.
func (l *Loader) Find(owner, name, descriptor string, allowAbstract bool) (*ResolvedMethod, error) {
	return l.findRec(owner, name, descriptor, allowAbstract, 0)
}

func (l *Loader) findRec(owner, name, descriptor string, allowAbstract bool, vtableCursor int) (*ResolvedMethod, error) {
	cf, err := l.Get(owner)
	if err != nil {
		return nil, err
	}

	if m := cf.FindOwnMethod(name, descriptor); m != nil {
		idx := NotVirtual
		if !m.IsStatic() && name != "<init>" {
			idx = vtableIndexOf(cf, m)
		}
		return &ResolvedMethod{DeclaringClass: cf.ThisClassName, Method: m, VTableIndex: idx}, nil
	}

	for _, iface := range cf.Interfaces {
		if icf, err := l.Get(iface); err == nil {
			if m := icf.FindOwnMethod(name, descriptor); m != nil {
				if !allowAbstract && (m.IsAbstract() || m.Code == nil) {
					continue
				}
				return &ResolvedMethod{DeclaringClass: icf.ThisClassName, Method: m, VTableIndex: NotVirtual}, nil
			}
			// search the interface's own super-interfaces too
			if res, err := l.findInInterfaces(icf, name, descriptor, allowAbstract); err == nil {
				return res, nil
			}
		}
	}

	if cf.SuperClassName != "" {
		return l.findRec(cf.SuperClassName, name, descriptor, allowAbstract, vtableCursor)
	}

	return nil, fmt.Errorf("MethodNotFound: %s.%s%s", owner, name, descriptor)
}

func (l *Loader) findInInterfaces(cf *ClassFile, name, descriptor string, allowAbstract bool) (*ResolvedMethod, error) {
	for _, iface := range cf.Interfaces {
		icf, err := l.Get(iface)
		if err != nil {
			continue
		}
		if m := icf.FindOwnMethod(name, descriptor); m != nil {
			if !allowAbstract && (m.IsAbstract() || m.Code == nil) {
				continue
			}
			return &ResolvedMethod{DeclaringClass: icf.ThisClassName, Method: m, VTableIndex: NotVirtual}, nil
		}
		if res, err := l.findInInterfaces(icf, name, descriptor, allowAbstract); err == nil {
			return res, nil
		}
	}
	return nil, fmt.Errorf("MethodNotFound: %s.%s%s", cf.ThisClassName, name, descriptor)
}

// vtableIndexOf assigns a stable dispatch slot to a virtual method:
// position among the class's own non-static, non-<init> methods, in
// declaration order. Only cf's own list is counted: an overriding method
// in a subclass gets the index of its position in the subclass's list,
// which need not equal the overridden method's index.
func vtableIndexOf(cf *ClassFile, target *Method) int {
	idx := 0
	for _, m := range cf.Methods {
		if m.IsStatic() || m.Name == "<init>" {
			continue
		}
		if m == target {
			return idx
		}
		idx++
	}
	return NotVirtual
}

// ResolvedField is the result of GetFieldByNameWithIndex: the declaring
// class, the field, and its zero-based offset within that class's own
// declared instance fields (spec.md §4.3 "Field resolution", §4.4
// "Field offsets").
type ResolvedField struct {
	DeclaringClass string
	Field          *Field
	Offset         int
}

// GetFieldByNameWithIndex walks owner's own fields, then its superclass
// chain, for name.
func (l *Loader) GetFieldByNameWithIndex(owner, name string) (*ResolvedField, error) {
	cf, err := l.Get(owner)
	if err != nil {
		return nil, err
	}
	if f, idx := cf.FindOwnField(name); f != nil {
		return &ResolvedField{DeclaringClass: cf.ThisClassName, Field: f, Offset: instanceFieldIndex(cf, idx)}, nil
	}
	if cf.SuperClassName != "" {
		return l.GetFieldByNameWithIndex(cf.SuperClassName, name)
	}
	return nil, fmt.Errorf("NoSuchFieldException: %s.%s", owner, name)
}

// instanceFieldIndex converts a raw field-slice index into the offset
// among non-static fields only, since static fields don't occupy
// instance layout slots.
func instanceFieldIndex(cf *ClassFile, rawIdx int) int {
	offset := 0
	for i, f := range cf.Fields {
		if i == rawIdx {
			return offset
		}
		if !f.IsStatic() {
			offset++
		}
	}
	return -1
}

// FieldByOffset is the inverse of GetFieldByNameWithIndex's Offset: given
// a class and an offset into its own declared instance fields, returns
// the field name. It is the Unsafe.objectFieldOffset inverse spec.md
// §4.4 requires.
func (l *Loader) FieldByOffset(owner string, offset int) (string, error) {
	cf, err := l.Get(owner)
	if err != nil {
		return "", err
	}
	cursor := 0
	for _, f := range cf.Fields {
		if f.IsStatic() {
			continue
		}
		if cursor == offset {
			return f.Name, nil
		}
		cursor++
	}
	return "", fmt.Errorf("FieldNotFound: offset %d on %s", offset, owner)
}

// IsMethodNative consults the method's access flags.
func (l *Loader) IsMethodNative(owner, name, descriptor string) (bool, error) {
	res, err := l.Find(owner, name, descriptor, true)
	if err != nil {
		return false, err
	}
	return res.Method.IsNative(), nil
}

// IsSubclassOf walks the superclass chain from child looking for parent,
// stopping at java/lang/Object. Used by the subtype predicate (spec.md
// §4.9), kept here because it needs loader access to walk ancestry.
func (l *Loader) IsSubclassOf(child, parent string) bool {
	if child == parent {
		return true
	}
	cf, err := l.Get(child)
	if err != nil || cf.SuperClassName == "" {
		return false
	}
	return l.IsSubclassOf(cf.SuperClassName, parent)
}

// ImplementsInterface reports whether class (or any ancestor) declares
// iface, directly or transitively through interface extension.
func (l *Loader) ImplementsInterface(class, iface string) bool {
	cf, err := l.Get(class)
	if err != nil {
		return false
	}
	for _, i := range cf.Interfaces {
		if i == iface {
			return true
		}
		if l.ImplementsInterface(i, iface) {
			return true
		}
	}
	if cf.SuperClassName != "" {
		return l.ImplementsInterface(cf.SuperClassName, iface)
	}
	return false
}
