/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"testing"

	"javelin/classloader"
	"javelin/types"
)

func interfaceMethodRefCP(owner, name, descriptor string) *classloader.ConstantPool {
	cp := classloader.NewConstantPool(7)
	cp.Entries[1] = classloader.CPEntry{Tag: classloader.CPUtf8, Utf8: owner}
	cp.Entries[2] = classloader.CPEntry{Tag: classloader.CPClass, NameIndex: 1}
	cp.Entries[3] = classloader.CPEntry{Tag: classloader.CPUtf8, Utf8: name}
	cp.Entries[4] = classloader.CPEntry{Tag: classloader.CPUtf8, Utf8: descriptor}
	cp.Entries[5] = classloader.CPEntry{Tag: classloader.CPNameAndType, NatNameIndex: 3, NatDescIndex: 4}
	cp.Entries[6] = classloader.CPEntry{Tag: classloader.CPInterfaceMethodRef, ClassIndex: 2, NameAndTypeIndex: 5}
	return cp
}

// TestInvokeinterfaceRejectsNonZeroReservedByte enforces the operand's
// trailing byte must be zero, rather than silently discarding it.
func TestInvokeinterfaceRejectsNonZeroReservedByte(t *testing.T) {
	vm := newTestVM(t)
	vm.L.Put(&classloader.ClassFile{
		ThisClassName:  "com/example/Greeter",
		SuperClassName: types.ObjectClassName,
		Methods: []*classloader.Method{{
			Name: "greet", Descriptor: "()I",
			Code: &classloader.CodeAttribute{MaxStack: 1, MaxLocals: 1, Code: []byte{opIconst0 + 1, opIreturn}},
		}},
		CP:           classloader.NewConstantPool(1),
		StaticFields: map[string]*classloader.StaticSlot{},
		IsInit:       true,
	})
	cp := interfaceMethodRefCP("com/example/Greeter", "greet", "()I")
	code := []byte{opAconstNull, opInvokeinterface, 0x00, 0x06, 0x01, 0x01}
	f := vm.pushCode("T", "m", cp, code, nil, 4, 0)
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	if err := vm.step(); err == nil {
		t.Fatal("expected invokeinterface to reject a non-zero reserved byte")
	}
}

// TestInvokeinterfaceDispatchesOnRuntimeClass exercises the normal
// path with a well-formed (zero) reserved byte.
func TestInvokeinterfaceDispatchesOnRuntimeClass(t *testing.T) {
	vm := newTestVM(t)
	vm.L.Put(&classloader.ClassFile{
		ThisClassName:  "com/example/Greeter",
		SuperClassName: types.ObjectClassName,
		Methods: []*classloader.Method{{
			Name: "greet", Descriptor: "()I",
			Code: &classloader.CodeAttribute{MaxStack: 1, MaxLocals: 1, Code: []byte{opIconst0 + 1, opIreturn}},
		}},
		CP:           classloader.NewConstantPool(1),
		StaticFields: map[string]*classloader.StaticSlot{},
		IsInit:       true,
	})
	obj, err := vm.H.AllocObj("com/example/Greeter")
	if err != nil {
		t.Fatal(err)
	}
	cp := interfaceMethodRefCP("com/example/Greeter", "greet", "()I")
	code := []byte{opInvokeinterface, 0x00, 0x06, 0x01, 0x00}
	f := vm.pushCode("T", "m", cp, code, nil, 4, 0)
	f.Push(types.ObjectRef(obj.Ref))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	ret, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if int32(ret.IVal) != 1 {
		t.Errorf("invokeinterface(Greeter.greet) = %d, want 1", int32(ret.IVal))
	}
}
