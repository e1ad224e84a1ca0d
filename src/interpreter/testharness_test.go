/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"testing"

	"javelin/classloader"
	"javelin/frames"
	"javelin/globals"
	"javelin/heap"
	"javelin/types"
)

// newTestVM wires a fresh VM around a loader pre-seeded with the handful
// of bootstrap classes every exception/object test needs, mirroring the
// minimal fixture heap_test.go builds for the same purpose.
func newTestVM(t *testing.T) *VM {
	t.Helper()
	l := classloader.NewLoader()
	putBootstrapClasses(l)
	h := heap.NewHeap(l)
	g := globals.InitGlobals("test")
	return NewVM(l, h, g)
}

func putBootstrapClasses(l *classloader.Loader) {
	l.Put(&classloader.ClassFile{
		ThisClassName: types.ObjectClassName,
		CP:            classloader.NewConstantPool(1),
		StaticFields:  map[string]*classloader.StaticSlot{},
		IsInit:        true,
	})
	l.Put(&classloader.ClassFile{
		ThisClassName:  types.StringClassName,
		SuperClassName: types.ObjectClassName,
		Fields:         []*classloader.Field{{Name: "value", Descriptor: "[B"}},
		CP:             classloader.NewConstantPool(1),
		StaticFields:   map[string]*classloader.StaticSlot{},
		IsInit:         true,
	})
	l.Put(&classloader.ClassFile{
		ThisClassName:  types.ClassClassName,
		SuperClassName: types.ObjectClassName,
		Fields: []*classloader.Field{
			{Name: "name", Descriptor: "Ljava/lang/String;"},
			{Name: "classLoader", Descriptor: "Ljava/lang/ClassLoader;"},
			{Name: "componentType", Descriptor: "Ljava/lang/Class;"},
		},
		CP:           classloader.NewConstantPool(1),
		StaticFields: map[string]*classloader.StaticSlot{},
		IsInit:       true,
	})
	for _, excName := range []string{
		"java/lang/Throwable", "java/lang/Exception", "java/lang/RuntimeException",
		"java/lang/NullPointerException", "java/lang/ArithmeticException",
		"java/lang/ArrayIndexOutOfBoundsException", "java/lang/ArrayStoreException",
		"java/lang/ClassCastException", "java/lang/NegativeArraySizeException",
	} {
		l.Put(&classloader.ClassFile{
			ThisClassName:  excName,
			SuperClassName: types.ObjectClassName,
			Fields:         []*classloader.Field{{Name: "detailMessage", Descriptor: "Ljava/lang/String;"}},
			CP:             classloader.NewConstantPool(1),
			StaticFields:   map[string]*classloader.StaticSlot{},
			IsInit:         true,
		})
	}
	putMethodHandleClasses(l)
}

// putMethodHandleClasses registers the minimal java.lang.invoke shapes
// newLookup/newMethodType/newMemberName/newDirectMethodHandle and the
// CallSite a bootstrap method hands back all need declared fields for,
// since heap.SetField only writes into already-declared slots.
func putMethodHandleClasses(l *classloader.Loader) {
	l.Put(&classloader.ClassFile{
		ThisClassName:  "java/lang/invoke/MethodHandles$Lookup",
		SuperClassName: types.ObjectClassName,
		Fields:         []*classloader.Field{{Name: "lookupClass", Descriptor: "Ljava/lang/Class;"}},
		CP:             classloader.NewConstantPool(1),
		StaticFields:   map[string]*classloader.StaticSlot{},
		IsInit:         true,
	})
	l.Put(&classloader.ClassFile{
		ThisClassName:  "java/lang/invoke/MethodType",
		SuperClassName: types.ObjectClassName,
		Fields:         []*classloader.Field{{Name: "descriptor", Descriptor: "Ljava/lang/String;"}},
		CP:             classloader.NewConstantPool(1),
		StaticFields:   map[string]*classloader.StaticSlot{},
		IsInit:         true,
	})
	l.Put(&classloader.ClassFile{
		ThisClassName:  "java/lang/invoke/MemberName",
		SuperClassName: types.ObjectClassName,
		Fields: []*classloader.Field{
			{Name: "name", Descriptor: "Ljava/lang/String;"},
			{Name: "clazz", Descriptor: "Ljava/lang/Class;"},
			{Name: "type", Descriptor: "Ljava/lang/invoke/MethodType;"},
			{Name: "flags", Descriptor: "I"},
		},
		CP:           classloader.NewConstantPool(1),
		StaticFields: map[string]*classloader.StaticSlot{},
		IsInit:       true,
	})
	l.Put(&classloader.ClassFile{
		ThisClassName:  "java/lang/invoke/DirectMethodHandle",
		SuperClassName: types.ObjectClassName,
		Fields:         []*classloader.Field{{Name: "member", Descriptor: "Ljava/lang/invoke/MemberName;"}},
		CP:             classloader.NewConstantPool(1),
		StaticFields:   map[string]*classloader.StaticSlot{},
		IsInit:         true,
	})
	l.Put(&classloader.ClassFile{
		ThisClassName:  "java/lang/invoke/CallSite",
		SuperClassName: types.ObjectClassName,
		Fields:         []*classloader.Field{{Name: "target", Descriptor: "Ljava/lang/invoke/MethodHandle;"}},
		CP:             classloader.NewConstantPool(1),
		StaticFields:   map[string]*classloader.StaticSlot{},
		IsInit:         true,
	})
}

// pushCode builds a frame directly over a raw bytecode array and CP,
// bypassing invokeResolved, for tests that drive a handful of opcodes in
// isolation rather than a whole method call.
func (vm *VM) pushCode(className, methodName string, cp *classloader.ConstantPool, code []byte, exceptions []classloader.ExceptionTableEntry, stackSize, localCount int) *frames.Frame {
	f := frames.NewFrame(stackSize, localCount)
	f.ClassName = className
	f.MethodName = methodName
	f.CP = cp
	f.Code = code
	f.Exceptions = exceptions
	_ = vm.F.PushFrame(f)
	return f
}
