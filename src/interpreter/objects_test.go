/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"testing"

	"javelin/classloader"
	"javelin/types"
)

// classRefCP builds a minimal constant pool whose index 2 is a Class
// entry naming className, the shape opNewObj/opAnewarray/checkcast/
// instanceof all expect from ResolveClassName.
func classRefCP(className string) *classloader.ConstantPool {
	cp := classloader.NewConstantPool(3)
	cp.Entries[1] = classloader.CPEntry{Tag: classloader.CPUtf8, Utf8: className}
	cp.Entries[2] = classloader.CPEntry{Tag: classloader.CPClass, NameIndex: 1}
	return cp
}

func TestNewObjInitializesAndPushesRef(t *testing.T) {
	vm := newTestVM(t)
	vm.L.Put(&classloader.ClassFile{
		ThisClassName:  "com/example/Widget",
		SuperClassName: types.ObjectClassName,
		Fields:         []*classloader.Field{{Name: "count", Descriptor: "I"}},
		CP:             classloader.NewConstantPool(1),
		StaticFields:   map[string]*classloader.StaticSlot{},
	})
	cp := classRefCP("com/example/Widget")
	f := vm.pushCode("T", "m", cp, []byte{opNew, 0x00, 0x02}, nil, 4, 0)
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	v, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if v.Tag != types.TagObjectRef {
		t.Fatalf("new pushed %+v, want an ObjectRef", v)
	}
	obj, ok := vm.H.GetObject(v.Ref)
	if !ok || obj.ClassName != "com/example/Widget" {
		t.Errorf("new: got %+v", obj)
	}
	cf, err := vm.L.Get("com/example/Widget")
	if err != nil || !cf.IsInit {
		t.Errorf("new should have driven class initialization, IsInit=%v", cf.IsInit)
	}
}

func TestNewarrayNegativeSizeThrows(t *testing.T) {
	vm := newTestVM(t)
	code := []byte{opNewarray, 10 /* int */, opNop, opNop}
	catchAll := []classloader.ExceptionTableEntry{{StartPc: 0, EndPc: 0, HandlerPc: 2}}
	f := vm.pushCode("T", "m", nil, code, catchAll, 4, 0)
	_ = f.Push(types.Int(-1))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	if f.PC != 2 {
		t.Fatalf("PC after caught NegativeArraySizeException = %d, want 2", f.PC)
	}
}

func TestAnewarrayAllocatesReferenceArray(t *testing.T) {
	vm := newTestVM(t)
	cp := classRefCP(types.StringClassName)
	f := vm.pushCode("T", "m", cp, []byte{opAnewarray, 0x00, 0x02}, nil, 4, 0)
	_ = f.Push(types.Int(3))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	v, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	arr, ok := vm.H.GetArray(v.Ref)
	if !ok {
		t.Fatal("anewarray did not allocate an array")
	}
	if arr.Length() != 3 {
		t.Errorf("anewarray length = %d, want 3", arr.Length())
	}
	if arr.Descriptor != "[Ljava/lang/String;" {
		t.Errorf("anewarray descriptor = %q, want [Ljava/lang/String;", arr.Descriptor)
	}
}

func TestArraylengthOnNullThrowsNPE(t *testing.T) {
	vm := newTestVM(t)
	catchAll := []classloader.ExceptionTableEntry{{StartPc: 0, EndPc: 0, HandlerPc: 5}}
	f := vm.pushCode("T", "m", nil, []byte{opArraylength, opNop, opNop, opNop, opNop, opNop}, catchAll, 4, 0)
	_ = f.Push(types.Null())
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	if f.PC != 5 {
		t.Fatalf("PC after caught NPE = %d, want 5", f.PC)
	}
}

func TestCheckcastIncompatibleTypeThrowsClassCastException(t *testing.T) {
	vm := newTestVM(t)
	vm.L.Put(&classloader.ClassFile{ThisClassName: "com/example/Other", SuperClassName: types.ObjectClassName,
		CP: classloader.NewConstantPool(1), StaticFields: map[string]*classloader.StaticSlot{}})
	obj, err := vm.H.AllocObj("com/example/Other")
	if err != nil {
		t.Fatal(err)
	}
	cp := classRefCP(types.StringClassName)
	catchAll := []classloader.ExceptionTableEntry{{StartPc: 0, EndPc: 0, HandlerPc: 3}}
	f := vm.pushCode("T", "m", cp, []byte{opCheckcast, 0x00, 0x02, opNop}, catchAll, 4, 0)
	_ = f.Push(types.ObjectRef(obj.Ref))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	if f.PC != 3 {
		t.Fatalf("PC after caught ClassCastException = %d, want 3", f.PC)
	}
}

func TestInstanceofOnNullIsFalse(t *testing.T) {
	vm := newTestVM(t)
	cp := classRefCP(types.StringClassName)
	f := vm.pushCode("T", "m", cp, []byte{opInstanceof, 0x00, 0x02}, nil, 4, 0)
	_ = f.Push(types.Null())
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	v, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if v.IVal != 0 {
		t.Errorf("instanceof(null) = %d, want 0", v.IVal)
	}
}

func TestAastoreRejectsIncompatibleElement(t *testing.T) {
	vm := newTestVM(t)
	vm.L.Put(&classloader.ClassFile{ThisClassName: "com/example/Other", SuperClassName: types.ObjectClassName,
		CP: classloader.NewConstantPool(1), StaticFields: map[string]*classloader.StaticSlot{}})
	other, err := vm.H.AllocObj("com/example/Other")
	if err != nil {
		t.Fatal(err)
	}
	arr, err := vm.H.AllocArray("[Ljava/lang/String;", nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	catchAll := []classloader.ExceptionTableEntry{{StartPc: 0, EndPc: 0, HandlerPc: 1}}
	f := vm.pushCode("T", "m", nil, []byte{opAastore, opNop}, catchAll, 4, 0)
	_ = f.Push(types.ArrayRef(arr.Ref))
	_ = f.Push(types.Int(0))
	_ = f.Push(types.ObjectRef(other.Ref))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	if f.PC != 1 {
		t.Fatalf("PC after caught ArrayStoreException = %d, want 1", f.PC)
	}
}

func TestMultianewarrayBuildsOutermostFirst(t *testing.T) {
	vm := newTestVM(t)
	cp := classRefCP("[[I")
	f := vm.pushCode("T", "m", cp, []byte{opMultianewarray, 0x00, 0x02, 0x02}, nil, 4, 0)
	_ = f.Push(types.Int(2)) // outer dimension
	_ = f.Push(types.Int(3)) // inner dimension
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	v, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	outer, ok := vm.H.GetArray(v.Ref)
	if !ok {
		t.Fatal("multianewarray did not allocate the outer array")
	}
	if outer.Length() != 2 {
		t.Fatalf("outer dimension = %d, want 2", outer.Length())
	}
	inner, ok := vm.H.GetArray(outer.Elements[0].Ref)
	if !ok {
		t.Fatal("outer array element is not itself an array")
	}
	if inner.Length() != 3 {
		t.Errorf("inner dimension = %d, want 3", inner.Length())
	}
}
