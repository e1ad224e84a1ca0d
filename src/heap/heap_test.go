/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package heap

import (
	"testing"

	"javelin/classloader"
	"javelin/types"
)

func newTestHeap(t *testing.T) (*Heap, *classloader.Loader) {
	t.Helper()
	l := classloader.NewLoader()
	l.Put(&classloader.ClassFile{
		ThisClassName: "java/lang/Object",
		CP:            classloader.NewConstantPool(1),
		StaticFields:  map[string]*classloader.StaticSlot{},
		IsInit:        true,
	})
	l.Put(&classloader.ClassFile{
		ThisClassName: types.StringClassName,
		SuperClassName: "java/lang/Object",
		Fields:        []*classloader.Field{{Name: "value", Descriptor: "[B"}},
		CP:            classloader.NewConstantPool(1),
		StaticFields:  map[string]*classloader.StaticSlot{},
		IsInit:        true,
	})
	l.Put(&classloader.ClassFile{
		ThisClassName:  types.ClassClassName,
		SuperClassName: "java/lang/Object",
		Fields: []*classloader.Field{
			{Name: "name", Descriptor: "Ljava/lang/String;"},
			{Name: "classLoader", Descriptor: "Ljava/lang/ClassLoader;"},
			{Name: "componentType", Descriptor: "Ljava/lang/Class;"},
		},
		CP:           classloader.NewConstantPool(1),
		StaticFields: map[string]*classloader.StaticSlot{},
		IsInit:       true,
	})
	l.Put(&classloader.ClassFile{
		ThisClassName:  "com/example/Widget",
		SuperClassName: "java/lang/Object",
		Fields:         []*classloader.Field{{Name: "count", Descriptor: "I"}},
		Interfaces:     []string{types.CloneableIface},
		CP:             classloader.NewConstantPool(1),
		StaticFields:   map[string]*classloader.StaticSlot{},
		IsInit:         true,
	})
	return NewHeap(l), l
}

func TestAllocObjSetsFieldDefaults(t *testing.T) {
	h, _ := newTestHeap(t)
	obj, err := h.AllocObj("com/example/Widget")
	if err != nil {
		t.Fatal(err)
	}
	v, err := h.GetField(obj.Ref, "count")
	if err != nil {
		t.Fatal(err)
	}
	if v.Tag != types.TagInt || v.IVal != 0 {
		t.Errorf("default count = %+v, want Int(0)", v)
	}
}

func TestAllocArrayBoundsAndDefaults(t *testing.T) {
	h, _ := newTestHeap(t)
	arr, err := h.AllocArray("[I", nil, 3)
	if err != nil {
		t.Fatal(err)
	}
	if arr.Length() != 3 {
		t.Fatalf("length = %d, want 3", arr.Length())
	}
	if _, err := arr.Get(3); err == nil {
		t.Error("expected out-of-bounds error")
	}
}

func TestAllocMultiArrayShape(t *testing.T) {
	h, _ := newTestHeap(t)
	outer, err := h.AllocMultiArray("I", []int{2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if outer.Length() != 2 {
		t.Fatalf("outer length = %d, want 2", outer.Length())
	}
	first, err := outer.Get(0)
	if err != nil {
		t.Fatal(err)
	}
	inner, ok := h.GetArray(first.Ref)
	if !ok {
		t.Fatal("expected inner array to exist")
	}
	if inner.Length() != 3 {
		t.Errorf("inner length = %d, want 3", inner.Length())
	}
}

func TestAllocStringIsInterned(t *testing.T) {
	h, _ := newTestHeap(t)
	ref1, err := h.AllocString("hello")
	if err != nil {
		t.Fatal(err)
	}
	ref2, err := h.AllocString("hello")
	if err != nil {
		t.Fatal(err)
	}
	if ref1 != ref2 {
		t.Errorf("expected interned string to reuse ref, got %d and %d", ref1, ref2)
	}
	s, err := h.StringValue(ref1)
	if err != nil {
		t.Fatal(err)
	}
	if s != "hello" {
		t.Errorf("StringValue = %q, want hello", s)
	}
}

func TestAllocClassObjIsMemoized(t *testing.T) {
	h, _ := newTestHeap(t)
	ref1, err := h.AllocClassObj("com/example/Widget")
	if err != nil {
		t.Fatal(err)
	}
	ref2, err := h.AllocClassObj("com/example/Widget")
	if err != nil {
		t.Fatal(err)
	}
	if ref1 != ref2 {
		t.Errorf("expected memoized class mirror, got %d and %d", ref1, ref2)
	}
}

func TestCloneInstanceRequiresCloneable(t *testing.T) {
	h, l := newTestHeap(t)
	l.Put(&classloader.ClassFile{
		ThisClassName:  "com/example/Unclonable",
		SuperClassName: "java/lang/Object",
		CP:             classloader.NewConstantPool(1),
		StaticFields:   map[string]*classloader.StaticSlot{},
		IsInit:         true,
	})
	obj, err := h.AllocObj("com/example/Unclonable")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.CloneInstance(obj.Ref); err == nil {
		t.Error("expected CloneNotSupportedException for non-Cloneable class")
	}

	widget, err := h.AllocObj("com/example/Widget")
	if err != nil {
		t.Fatal(err)
	}
	h.SetField(widget.Ref, "count", types.Int(7))
	cloneRef, err := h.CloneInstance(widget.Ref)
	if err != nil {
		t.Fatal(err)
	}
	v, err := h.GetField(cloneRef, "count")
	if err != nil {
		t.Fatal(err)
	}
	if v.IVal != 7 {
		t.Errorf("clone count = %d, want 7", v.IVal)
	}
	if cloneRef == widget.Ref {
		t.Error("clone should have a distinct ref")
	}
}

func TestFieldOffsetRoundTrip(t *testing.T) {
	h, _ := newTestHeap(t)
	offset, err := h.FieldOffset("com/example/Widget", "count")
	if err != nil {
		t.Fatal(err)
	}
	name, err := h.FieldByOffset("com/example/Widget", offset)
	if err != nil {
		t.Fatal(err)
	}
	if name != "count" {
		t.Errorf("FieldByOffset(%d) = %q, want count", offset, name)
	}
}

func TestReflectMethodMemoizes(t *testing.T) {
	h, l := newTestHeap(t)
	l.Put(&classloader.ClassFile{ThisClassName: "java/lang/reflect/Method", SuperClassName: "java/lang/Object",
		Fields: []*classloader.Field{
			{Name: "clazz", Descriptor: "Ljava/lang/Class;"},
			{Name: "name", Descriptor: "Ljava/lang/String;"},
			{Name: "modifiers", Descriptor: "I"},
			{Name: "parameterTypes", Descriptor: "[Ljava/lang/Class;"},
			{Name: "returnType", Descriptor: "Ljava/lang/Class;"},
		},
		CP: classloader.NewConstantPool(1), StaticFields: map[string]*classloader.StaticSlot{}, IsInit: true})
	l.Put(&classloader.ClassFile{
		ThisClassName:  "com/example/Widget",
		SuperClassName: "java/lang/Object",
		Methods:        []*classloader.Method{{Name: "get", Descriptor: "()I"}},
		Fields:         []*classloader.Field{{Name: "count", Descriptor: "I"}},
		CP:             classloader.NewConstantPool(1),
		StaticFields:   map[string]*classloader.StaticSlot{},
		IsInit:         true,
	})

	ref1, err := h.ReflectMethod("com/example/Widget", "get", "()I")
	if err != nil {
		t.Fatal(err)
	}
	ref2, err := h.ReflectMethod("com/example/Widget", "get", "()I")
	if err != nil {
		t.Fatal(err)
	}
	if ref1 != ref2 {
		t.Errorf("expected memoized Method mirror, got %d and %d", ref1, ref2)
	}
}
