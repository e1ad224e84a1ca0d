/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"testing"

	"javelin/classloader"
	"javelin/types"
)

// fieldRefCP builds a minimal constant pool whose index 6 is a FieldRef
// naming (owner, name, descriptor).
func fieldRefCP(owner, name, descriptor string) *classloader.ConstantPool {
	cp := classloader.NewConstantPool(7)
	cp.Entries[1] = classloader.CPEntry{Tag: classloader.CPUtf8, Utf8: owner}
	cp.Entries[2] = classloader.CPEntry{Tag: classloader.CPClass, NameIndex: 1}
	cp.Entries[3] = classloader.CPEntry{Tag: classloader.CPUtf8, Utf8: name}
	cp.Entries[4] = classloader.CPEntry{Tag: classloader.CPUtf8, Utf8: descriptor}
	cp.Entries[5] = classloader.CPEntry{Tag: classloader.CPNameAndType, NatNameIndex: 3, NatDescIndex: 4}
	cp.Entries[6] = classloader.CPEntry{Tag: classloader.CPFieldRef, ClassIndex: 2, NameAndTypeIndex: 5}
	return cp
}

func TestGetstaticPutstaticRoundTrip(t *testing.T) {
	vm := newTestVM(t)
	vm.L.Put(&classloader.ClassFile{
		ThisClassName:  "com/example/Counter",
		SuperClassName: types.ObjectClassName,
		Fields:         []*classloader.Field{{Name: "total", Descriptor: "I", AccessFlags: classloader.AccStatic}},
		CP:             classloader.NewConstantPool(1),
		StaticFields:   map[string]*classloader.StaticSlot{},
		IsInit:         true,
	})
	cp := fieldRefCP("com/example/Counter", "total", "I")
	code := []byte{
		opSipush, 0x00, 0x2a, // 42
		opPutstatic, 0x00, 0x06,
		opGetstatic, 0x00, 0x06,
	}
	f := vm.pushCode("T", "m", cp, code, nil, 4, 0)
	for i := 0; i < 3; i++ {
		if err := vm.step(); err != nil {
			t.Fatal(err)
		}
	}
	v, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if int32(v.IVal) != 42 {
		t.Errorf("getstatic after putstatic(42) = %d, want 42", int32(v.IVal))
	}
}

func TestGetstaticFindsFieldOnSuperclass(t *testing.T) {
	vm := newTestVM(t)
	vm.L.Put(&classloader.ClassFile{
		ThisClassName:  "com/example/Base",
		SuperClassName: types.ObjectClassName,
		Fields:         []*classloader.Field{{Name: "shared", Descriptor: "I", AccessFlags: classloader.AccStatic}},
		CP:             classloader.NewConstantPool(1),
		StaticFields:   map[string]*classloader.StaticSlot{},
		IsInit:         true,
	})
	vm.L.Put(&classloader.ClassFile{
		ThisClassName:  "com/example/Derived",
		SuperClassName: "com/example/Base",
		CP:             classloader.NewConstantPool(1),
		StaticFields:   map[string]*classloader.StaticSlot{},
		IsInit:         true,
	})
	base, err := vm.L.Get("com/example/Base")
	if err != nil {
		t.Fatal(err)
	}
	staticSlot(base, "shared", "I").Value = types.Int(7)

	cp := fieldRefCP("com/example/Derived", "shared", "I")
	f := vm.pushCode("T", "m", cp, []byte{opGetstatic, 0x00, 0x06}, nil, 4, 0)
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	v, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if int32(v.IVal) != 7 {
		t.Errorf("getstatic(Derived.shared) = %d, want 7 (inherited from Base)", int32(v.IVal))
	}
}

func TestGetfieldOnNullThrowsNPE(t *testing.T) {
	vm := newTestVM(t)
	cp := fieldRefCP("com/example/Widget", "count", "I")
	catchAll := []classloader.ExceptionTableEntry{{StartPc: 0, EndPc: 0, HandlerPc: 3}}
	f := vm.pushCode("T", "m", cp, []byte{opGetfield, 0x00, 0x06, opNop}, catchAll, 4, 0)
	_ = f.Push(types.Null())
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	if f.PC != 3 {
		t.Fatalf("PC after caught NPE = %d, want 3", f.PC)
	}
}

func TestPutfieldThenGetfieldRoundTrip(t *testing.T) {
	vm := newTestVM(t)
	vm.L.Put(&classloader.ClassFile{
		ThisClassName:  "com/example/Widget",
		SuperClassName: types.ObjectClassName,
		Fields:         []*classloader.Field{{Name: "count", Descriptor: "I"}},
		CP:             classloader.NewConstantPool(1),
		StaticFields:   map[string]*classloader.StaticSlot{},
		IsInit:         true,
	})
	obj, err := vm.H.AllocObj("com/example/Widget")
	if err != nil {
		t.Fatal(err)
	}
	cp := fieldRefCP("com/example/Widget", "count", "I")
	code := []byte{
		opPutfield, 0x00, 0x06,
		opGetfield, 0x00, 0x06,
	}
	f := vm.pushCode("T", "m", cp, code, nil, 4, 0)
	_ = f.Push(types.ObjectRef(obj.Ref))
	_ = f.Push(types.Int(5))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	_ = f.Push(types.ObjectRef(obj.Ref))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	v, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if int32(v.IVal) != 5 {
		t.Errorf("getfield after putfield(5) = %d, want 5", int32(v.IVal))
	}
}
