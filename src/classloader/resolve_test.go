/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package classloader

import "testing"

func TestFieldByOffsetIsInverseOfFieldOffset(t *testing.T) {
	cf := &ClassFile{
		ThisClassName: "com/example/A",
		Fields: []*Field{
			{Name: "x", Descriptor: "I"},
			{Name: "flag", Descriptor: "Z", AccessFlags: AccStatic},
			{Name: "y", Descriptor: "I"},
		},
		CP:           NewConstantPool(1),
		StaticFields: make(map[string]*StaticSlot),
	}
	l := NewLoader()
	l.Put(cf)

	rf, err := l.GetFieldByNameWithIndex("com/example/A", "y")
	if err != nil {
		t.Fatal(err)
	}
	name, err := l.FieldByOffset("com/example/A", rf.Offset)
	if err != nil {
		t.Fatal(err)
	}
	if name != "y" {
		t.Errorf("FieldByOffset(%d) = %q, want y", rf.Offset, name)
	}
}

func TestFindResolvesThroughSuperclassChain(t *testing.T) {
	l := NewLoader()
	base := &ClassFile{
		ThisClassName: "com/example/Base",
		Methods: []*Method{
			{Name: "greet", Descriptor: "()V"},
		},
		CP:           NewConstantPool(1),
		StaticFields: make(map[string]*StaticSlot),
	}
	derived := &ClassFile{
		ThisClassName:  "com/example/Derived",
		SuperClassName: "com/example/Base",
		CP:             NewConstantPool(1),
		StaticFields:   make(map[string]*StaticSlot),
	}
	l.Put(base)
	l.Put(derived)

	res, err := l.Find("com/example/Derived", "greet", "()V", false)
	if err != nil {
		t.Fatal(err)
	}
	if res.DeclaringClass != "com/example/Base" {
		t.Errorf("DeclaringClass = %q, want com/example/Base", res.DeclaringClass)
	}
}

func TestFindStaticMethodIsNotVirtual(t *testing.T) {
	l := NewLoader()
	cf := &ClassFile{
		ThisClassName: "com/example/A",
		Methods: []*Method{
			{Name: "main", Descriptor: "([Ljava/lang/String;)V", AccessFlags: AccStatic},
		},
		CP:           NewConstantPool(1),
		StaticFields: make(map[string]*StaticSlot),
	}
	l.Put(cf)
	res, err := l.Find("com/example/A", "main", "([Ljava/lang/String;)V", false)
	if err != nil {
		t.Fatal(err)
	}
	if res.VTableIndex != NotVirtual {
		t.Errorf("static method VTableIndex = %d, want %d", res.VTableIndex, NotVirtual)
	}
}

func TestIsSubclassOfAndImplementsInterface(t *testing.T) {
	l := NewLoader()
	l.Put(&ClassFile{ThisClassName: "java/lang/Object", CP: NewConstantPool(1), StaticFields: map[string]*StaticSlot{}})
	l.Put(&ClassFile{ThisClassName: "com/example/Base", SuperClassName: "java/lang/Object",
		Interfaces: []string{"java/lang/Runnable"}, CP: NewConstantPool(1), StaticFields: map[string]*StaticSlot{}})
	l.Put(&ClassFile{ThisClassName: "com/example/Derived", SuperClassName: "com/example/Base",
		CP: NewConstantPool(1), StaticFields: map[string]*StaticSlot{}})
	l.Put(&ClassFile{ThisClassName: "java/lang/Runnable", CP: NewConstantPool(1), StaticFields: map[string]*StaticSlot{}})

	if !l.IsSubclassOf("com/example/Derived", "com/example/Base") {
		t.Error("Derived should be a subclass of Base")
	}
	if !l.IsSubclassOf("com/example/Derived", "java/lang/Object") {
		t.Error("Derived should be a subclass of Object transitively")
	}
	if !l.ImplementsInterface("com/example/Derived", "java/lang/Runnable") {
		t.Error("Derived should transitively implement Runnable via Base")
	}
}
