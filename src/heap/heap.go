/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

// Package heap is the managed heap and object model (spec.md §4.4): a
// monotonic reference allocator, object/array instances, string
// interning, class mirrors, and field-offset bookkeeping. There is no
// garbage collector; the heap grows monotonically for the VM's lifetime,
// per spec.md §1's Non-goals.
package heap

import (
	"fmt"
	"strings"
	"sync"

	"javelin/classloader"
	"javelin/types"
)

// NullRef is reserved for null and for the bootstrap sentinel
// (spec.md §4.4).
const NullRef uint64 = 0

// Heap owns every live object/array and the ancillary interning/mirror
// tables. All cross-object links (parent object, class mirror module,
// array element references) are stored as ids into this table rather
// than as Go pointers, so cyclic graphs (object<->parent,
// mirror<->module) are harmless without a collector (spec.md §9).
type Heap struct {
	mu      sync.Mutex
	nextRef uint64

	objects map[uint64]*ObjectInstance
	arrays  map[uint64]*ArrayInstance

	strings     map[string]uint64 // interned string value -> ObjectRef
	classMirror map[string]uint64 // class name -> ObjectRef of its java/lang/Class mirror

	reflectMethods map[reflectKey]uint64
	reflectFields  map[reflectKey]uint64
	reflectCtors   map[reflectKey]uint64

	Loader *classloader.Loader
}

type reflectKey struct {
	class, name, descriptor string
}

func NewHeap(loader *classloader.Loader) *Heap {
	return &Heap{
		nextRef:        1, // 0 is reserved (NullRef)
		objects:        make(map[uint64]*ObjectInstance),
		arrays:         make(map[uint64]*ArrayInstance),
		strings:        make(map[string]uint64),
		classMirror:    make(map[string]uint64),
		reflectMethods: make(map[reflectKey]uint64),
		reflectFields:  make(map[reflectKey]uint64),
		reflectCtors:   make(map[reflectKey]uint64),
		Loader:         loader,
	}
}

func (h *Heap) allocRef() uint64 {
	ref := h.nextRef
	h.nextRef++
	return ref
}

func (h *Heap) GetObject(ref uint64) (*ObjectInstance, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	o, ok := h.objects[ref]
	return o, ok
}

func (h *Heap) GetArray(ref uint64) (*ArrayInstance, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	a, ok := h.arrays[ref]
	return a, ok
}

// AllocObj allocates a new instance of className, populating its
// declared instance fields with descriptor defaults and recursively
// allocating+linking a parent-object for every ancestor up to but not
// including java/lang/Object (spec.md §4.4 "alloc_obj").
func (h *Heap) AllocObj(className string) (*ObjectInstance, error) {
	cf, err := h.Loader.Get(className)
	if err != nil {
		return nil, fmt.Errorf("AllocObj: %w", err)
	}

	h.mu.Lock()
	ref := h.allocRef()
	h.mu.Unlock()

	obj := newObjectInstance(className, ref)
	for _, f := range cf.Fields {
		if f.IsStatic() {
			continue
		}
		obj.setField(f.Name, types.FieldDescriptorDefault(f.Descriptor), f.Descriptor)
	}
	obj.Interfaces = append(obj.Interfaces, cf.Interfaces...)

	if cf.SuperClassName != "" && cf.SuperClassName != types.ObjectClassName {
		parent, err := h.AllocObj(cf.SuperClassName)
		if err != nil {
			return nil, err
		}
		obj.ParentRef = parent.Ref
	}

	h.mu.Lock()
	h.objects[ref] = obj
	h.mu.Unlock()
	return obj, nil
}

// AllocArray allocates a new array of the given array descriptor
// ("[I", "[Ljava/lang/String;", ...). If elements is empty and fillSize
// is positive, the array is populated with the element descriptor's
// default value; otherwise elements is used as-is (spec.md §4.4
// "alloc_array").
func (h *Heap) AllocArray(descriptor string, elements []types.Value, fillSize int) (*ArrayInstance, error) {
	elemDesc, ok := types.ComponentType(descriptor)
	if !ok {
		return nil, fmt.Errorf("AllocArray: not an array descriptor: %q", descriptor)
	}

	h.mu.Lock()
	ref := h.allocRef()
	h.mu.Unlock()

	arr := &ArrayInstance{
		Ref: ref, Descriptor: descriptor, ElementDescriptor: elemDesc,
	}
	if len(elements) == 0 && fillSize > 0 {
		def := types.FieldDescriptorDefault(elemDesc)
		arr.Elements = make([]types.Value, fillSize)
		for i := range arr.Elements {
			arr.Elements[i] = def
		}
	} else {
		arr.Elements = append([]types.Value(nil), elements...)
	}
	arr.HashCode = deterministicHash(descriptor, ref)

	h.mu.Lock()
	h.arrays[ref] = arr
	h.mu.Unlock()
	return arr, nil
}

// AllocMultiArray recursively builds a multi-dimensional array; dims
// gives the size of each dimension outermost-first, and elementDesc is
// the unbracketed leaf element type ("I", "Ljava/lang/String;") that
// stays constant across the recursion, while the array descriptor at
// each level grows one "[" per remaining dimension (spec.md §4.4
// "alloc_multiarray").
func (h *Heap) AllocMultiArray(elementDesc string, dims []int) (*ArrayInstance, error) {
	if len(dims) == 0 {
		return nil, fmt.Errorf("AllocMultiArray: no dimensions")
	}
	arrayDesc := strings.Repeat("[", len(dims)) + elementDesc
	if len(dims) == 1 {
		return h.AllocArray(arrayDesc, nil, dims[0])
	}
	outer, err := h.AllocArray(arrayDesc, nil, 0)
	if err != nil {
		return nil, err
	}
	outer.Elements = make([]types.Value, dims[0])
	for i := 0; i < dims[0]; i++ {
		inner, err := h.AllocMultiArray(elementDesc, dims[1:])
		if err != nil {
			return nil, err
		}
		outer.Elements[i] = types.ArrayRef(inner.Ref)
	}
	return outer, nil
}

// AllocString interns value: repeated calls with the same content return
// the same ObjectRef (spec.md §4.4 "alloc_string", testable property 3).
func (h *Heap) AllocString(value string) (uint64, error) {
	h.mu.Lock()
	if ref, ok := h.strings[value]; ok {
		h.mu.Unlock()
		return ref, nil
	}
	h.mu.Unlock()

	bytes := make([]types.Value, len(value))
	for i := 0; i < len(value); i++ {
		bytes[i] = types.Byte(int8(value[i]))
	}
	arr, err := h.AllocArray("[B", bytes, 0)
	if err != nil {
		return 0, err
	}

	obj, err := h.AllocObj(types.StringClassName)
	if err != nil {
		return 0, err
	}
	obj.setField("value", types.ArrayRef(arr.Ref), "[B")

	h.mu.Lock()
	h.strings[value] = obj.Ref
	h.mu.Unlock()
	return obj.Ref, nil
}

// AllocClassObj memoizes class mirrors: exactly one java/lang/Class
// instance exists per class name for the VM's lifetime (spec.md §4.4
// "alloc_class_obj", testable property 4).
func (h *Heap) AllocClassObj(className string) (uint64, error) {
	h.mu.Lock()
	if ref, ok := h.classMirror[className]; ok {
		h.mu.Unlock()
		return ref, nil
	}
	h.mu.Unlock()

	nameRef, err := h.AllocString(className)
	if err != nil {
		return 0, err
	}

	obj, err := h.AllocObj(types.ClassClassName)
	if err != nil {
		return 0, err
	}
	obj.setField("name", types.ObjectRef(nameRef), "Ljava/lang/String;")
	obj.setField("classLoader", types.Null(), "Ljava/lang/ClassLoader;")

	if comp, ok := types.ComponentType(className); ok {
		var compName string
		if types.IsPrimitiveDescriptor(comp) {
			compName = comp
		} else if cn, ok := types.ClassNameFromReferenceDescriptor(comp); ok {
			compName = cn
		} else {
			compName = comp // nested array descriptor, e.g. "[I"
		}
		compRef, err := h.AllocClassObj(compName)
		if err != nil {
			return 0, err
		}
		obj.setField("componentType", types.ObjectRef(compRef), "Ljava/lang/Class;")
	}

	h.mu.Lock()
	h.classMirror[className] = obj.Ref
	h.mu.Unlock()
	return obj.Ref, nil
}

// CloneInstance duplicates ref's field map (or, for an array, its
// element vector) under a fresh id. It fails for objects whose runtime
// class does not implement java/lang/Cloneable (spec.md §4.4 "Cloning").
func (h *Heap) CloneInstance(ref uint64) (uint64, error) {
	if arr, ok := h.GetArray(ref); ok {
		clone, err := h.AllocArray(arr.Descriptor, arr.Elements, 0)
		if err != nil {
			return 0, err
		}
		return clone.Ref, nil
	}
	obj, ok := h.GetObject(ref)
	if !ok {
		return 0, fmt.Errorf("CloneInstance: no such object ref %d", ref)
	}
	if !h.implementsCloneable(obj.ClassName) {
		return 0, fmt.Errorf("CloneNotSupportedException: %s", obj.ClassName)
	}

	h.mu.Lock()
	newRef := h.allocRef()
	h.mu.Unlock()

	clone := newObjectInstance(obj.ClassName, newRef)
	clone.Interfaces = append([]string(nil), obj.Interfaces...)
	for name, f := range obj.Fields {
		clone.setField(name, f.Value, f.Descriptor)
	}
	if obj.ParentRef != NullRef {
		parentClone, err := h.CloneInstance(obj.ParentRef)
		if err != nil {
			return 0, err
		}
		clone.ParentRef = parentClone
	}

	h.mu.Lock()
	h.objects[newRef] = clone
	h.mu.Unlock()
	return newRef, nil
}

func (h *Heap) implementsCloneable(className string) bool {
	if h.Loader.ImplementsInterface(className, types.CloneableIface) {
		return true
	}
	if cf, err := h.Loader.Get(className); err == nil {
		for _, i := range cf.Interfaces {
			if i == types.CloneableIface {
				return true
			}
		}
	}
	return false
}

// FieldOffset returns the zero-based index of name within class's own
// declared instance fields, walking to the superclass when absent
// (spec.md §4.4).
func (h *Heap) FieldOffset(class, name string) (int, error) {
	rf, err := h.Loader.GetFieldByNameWithIndex(class, name)
	if err != nil {
		return 0, err
	}
	return rf.Offset, nil
}

// FieldByOffset is FieldOffset's inverse.
func (h *Heap) FieldByOffset(class string, offset int) (string, error) {
	return h.Loader.FieldByOffset(class, offset)
}

func deterministicHash(className string, ref uint64) int32 {
	h := int32(2166136261)
	for i := 0; i < len(className); i++ {
		h ^= int32(className[i])
		h *= 16777619
	}
	h ^= int32(ref)
	return h
}
