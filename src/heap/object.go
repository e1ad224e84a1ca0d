/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package heap

import (
	"fmt"
	"strings"

	"javelin/types"
)

// FieldSlot is one instance field's live storage cell.
type FieldSlot struct {
	Descriptor string
	Value      types.Value
}

// ObjectInstance is a heap-resident non-array object (spec.md §4.4).
// Inherited state is modeled by chaining to a separately-allocated
// parent object rather than flattening superclass fields into one map,
// mirroring the teacher's instantiate.go field-by-field construction
// walk but keeping each class's own fields addressable independently
// (needed for per-class static/instance separation, spec.md §3
// invariant c).
type ObjectInstance struct {
	Ref        uint64
	ClassName  string
	Interfaces []string
	Fields     map[string]*FieldSlot
	ParentRef  uint64 // NullRef if ClassName's superclass is java/lang/Object
}

func newObjectInstance(className string, ref uint64) *ObjectInstance {
	return &ObjectInstance{
		Ref:       ref,
		ClassName: className,
		Fields:    make(map[string]*FieldSlot),
	}
}

func (o *ObjectInstance) setField(name string, v types.Value, descriptor string) {
	o.Fields[name] = &FieldSlot{Descriptor: descriptor, Value: v}
}

// GetField looks up name on this object, then recurses into the parent
// chain (declared-in-superclass field access).
func (h *Heap) GetField(ref uint64, name string) (types.Value, error) {
	obj, ok := h.GetObject(ref)
	if !ok {
		return types.Value{}, fmt.Errorf("GetField: no such object ref %d", ref)
	}
	return h.getFieldRec(obj, name)
}

func (h *Heap) getFieldRec(obj *ObjectInstance, name string) (types.Value, error) {
	if f, ok := obj.Fields[name]; ok {
		return f.Value, nil
	}
	if obj.ParentRef != NullRef {
		parent, ok := h.GetObject(obj.ParentRef)
		if ok {
			return h.getFieldRec(parent, name)
		}
	}
	return types.Value{}, fmt.Errorf("NoSuchFieldException: %s.%s", obj.ClassName, name)
}

// SetField mirrors GetField's lookup chain for writes.
func (h *Heap) SetField(ref uint64, name string, v types.Value) error {
	obj, ok := h.GetObject(ref)
	if !ok {
		return fmt.Errorf("SetField: no such object ref %d", ref)
	}
	return h.setFieldRec(obj, name, v)
}

func (h *Heap) setFieldRec(obj *ObjectInstance, name string, v types.Value) error {
	if f, ok := obj.Fields[name]; ok {
		f.Value = v
		return nil
	}
	if obj.ParentRef != NullRef {
		parent, ok := h.GetObject(obj.ParentRef)
		if ok {
			return h.setFieldRec(parent, name, v)
		}
	}
	return fmt.Errorf("NoSuchFieldException: %s.%s", obj.ClassName, name)
}

// StringValue reads back the Go string an interned java/lang/String
// object holds, for native methods and diagnostics that need to cross
// back out of the heap.
func (h *Heap) StringValue(ref uint64) (string, error) {
	obj, ok := h.GetObject(ref)
	if !ok || obj.ClassName != types.StringClassName {
		return "", fmt.Errorf("StringValue: ref %d is not a java/lang/String", ref)
	}
	f, ok := obj.Fields["value"]
	if !ok || f.Value.Tag != types.TagArrayRef {
		return "", fmt.Errorf("StringValue: malformed String instance")
	}
	arr, ok := h.GetArray(f.Value.Ref)
	if !ok {
		return "", fmt.Errorf("StringValue: backing array missing")
	}
	var sb strings.Builder
	for _, e := range arr.Elements {
		sb.WriteByte(byte(e.IVal))
	}
	return sb.String(), nil
}

func (o *ObjectInstance) String() string {
	return fmt.Sprintf("%s@%d", o.ClassName, o.Ref)
}
