/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"testing"

	"javelin/classloader"
	"javelin/types"
)

// methodRefCP builds a minimal constant pool whose index 6 is a
// MethodRef naming (owner, name, descriptor).
func methodRefCP(owner, name, descriptor string) *classloader.ConstantPool {
	cp := classloader.NewConstantPool(7)
	cp.Entries[1] = classloader.CPEntry{Tag: classloader.CPUtf8, Utf8: owner}
	cp.Entries[2] = classloader.CPEntry{Tag: classloader.CPClass, NameIndex: 1}
	cp.Entries[3] = classloader.CPEntry{Tag: classloader.CPUtf8, Utf8: name}
	cp.Entries[4] = classloader.CPEntry{Tag: classloader.CPUtf8, Utf8: descriptor}
	cp.Entries[5] = classloader.CPEntry{Tag: classloader.CPNameAndType, NatNameIndex: 3, NatDescIndex: 4}
	cp.Entries[6] = classloader.CPEntry{Tag: classloader.CPMethodRef, ClassIndex: 2, NameAndTypeIndex: 5}
	return cp
}

func TestInvokestaticDrivesClassInitAndReturnsResult(t *testing.T) {
	vm := newTestVM(t)
	vm.L.Put(&classloader.ClassFile{
		ThisClassName:  "com/example/Util",
		SuperClassName: types.ObjectClassName,
		Methods: []*classloader.Method{{
			Name: "answer", Descriptor: "()I", AccessFlags: classloader.AccStatic,
			Code: &classloader.CodeAttribute{MaxStack: 2, MaxLocals: 0, Code: []byte{opSipush, 0x00, 0x2a, opIreturn}},
		}},
		CP:           classloader.NewConstantPool(1),
		StaticFields: map[string]*classloader.StaticSlot{},
	})
	cp := methodRefCP("com/example/Util", "answer", "()I")
	f := vm.pushCode("T", "m", cp, []byte{opInvokestatic, 0x00, 0x06}, nil, 4, 0)
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	v, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if int32(v.IVal) != 42 {
		t.Errorf("invokestatic(Util.answer) = %d, want 42", int32(v.IVal))
	}
	cf, err := vm.L.Get("com/example/Util")
	if err != nil || !cf.IsInit {
		t.Error("invokestatic should have driven class initialization of the static method's owner")
	}
}

func TestInvokevirtualDispatchesOnRuntimeClassNotStaticOwner(t *testing.T) {
	vm := newTestVM(t)
	vm.L.Put(&classloader.ClassFile{
		ThisClassName:  "com/example/Base",
		SuperClassName: types.ObjectClassName,
		Methods: []*classloader.Method{{
			Name: "greet", Descriptor: "()I",
			Code: &classloader.CodeAttribute{MaxStack: 2, MaxLocals: 1, Code: []byte{opIconst0 + 1, opIreturn}},
		}},
		CP:           classloader.NewConstantPool(1),
		StaticFields: map[string]*classloader.StaticSlot{},
		IsInit:       true,
	})
	vm.L.Put(&classloader.ClassFile{
		ThisClassName:  "com/example/Derived",
		SuperClassName: "com/example/Base",
		Methods: []*classloader.Method{{
			Name: "greet", Descriptor: "()I",
			Code: &classloader.CodeAttribute{MaxStack: 2, MaxLocals: 1, Code: []byte{opIconst0 + 2, opIreturn}},
		}},
		CP:           classloader.NewConstantPool(1),
		StaticFields: map[string]*classloader.StaticSlot{},
		IsInit:       true,
	})
	recv, err := vm.H.AllocObj("com/example/Derived")
	if err != nil {
		t.Fatal(err)
	}

	cp := methodRefCP("com/example/Base", "greet", "()I")
	f := vm.pushCode("T", "m", cp, []byte{opInvokevirtual, 0x00, 0x06}, nil, 4, 0)
	_ = f.Push(types.ObjectRef(recv.Ref))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	v, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if int32(v.IVal) != 2 {
		t.Errorf("invokevirtual on a Derived receiver returned %d, want 2 (Derived's override)", int32(v.IVal))
	}
}

// TestCallerCatchesExceptionThrownInsideCallee exercises rethrowAsSearch:
// an uncaught exception inside a called method must still be
// catchable by a try/catch wrapped around the call instruction in the
// caller, not just surface as an unhandled *JavaException.
func TestCallerCatchesExceptionThrownInsideCallee(t *testing.T) {
	vm := newTestVM(t)
	vm.L.Put(&classloader.ClassFile{
		ThisClassName:  "com/example/Thrower",
		SuperClassName: types.ObjectClassName,
		Methods: []*classloader.Method{{
			Name: "boom", Descriptor: "()V", AccessFlags: classloader.AccStatic,
			Code: &classloader.CodeAttribute{MaxStack: 2, MaxLocals: 0, Code: []byte{opAconstNull, opAthrow}},
		}},
		CP:           classloader.NewConstantPool(1),
		StaticFields: map[string]*classloader.StaticSlot{},
		IsInit:       true,
	})
	cp := methodRefCP("com/example/Thrower", "boom", "()V")
	catchAll := []classloader.ExceptionTableEntry{{StartPc: 0, EndPc: 0, HandlerPc: 3}}
	f := vm.pushCode("T", "m", cp, []byte{opInvokestatic, 0x00, 0x06, opNop}, catchAll, 4, 0)
	if err := vm.step(); err != nil {
		t.Fatalf("the caller's own try/catch should have absorbed the callee's exception, got error: %v", err)
	}
	if f.PC != 3 {
		t.Fatalf("PC after the caller catches the callee's exception = %d, want handler pc 3", f.PC)
	}
}
