/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package gfunction

import (
	"sync"

	"javelin/excNames"
	"javelin/types"
)

// loadUnsafe registers jdk/internal/misc/Unsafe's native surface:
// field/array offset queries and compare-and-set, the load-bearing
// natives spec.md §6 names. Field offsets are resolved through
// heap.FieldOffset/FieldByOffset (spec.md §4.4), so Unsafe and ordinary
// reflection share one offset numbering.
func loadUnsafe() {
	MethodSignatures[Key("jdk/internal/misc/Unsafe", "objectFieldOffset1", "(Ljava/lang/Class;Ljava/lang/String;)J")] = GMeth{ParamSlots: 3, GFunction: unsafeObjectFieldOffset1}
	MethodSignatures[Key("jdk/internal/misc/Unsafe", "arrayBaseOffset0", "(Ljava/lang/Class;)I")] = GMeth{ParamSlots: 2, GFunction: unsafeArrayBaseOffset0}
	MethodSignatures[Key("jdk/internal/misc/Unsafe", "arrayIndexScale0", "(Ljava/lang/Class;)I")] = GMeth{ParamSlots: 2, GFunction: unsafeArrayIndexScale0}
	MethodSignatures[Key("jdk/internal/misc/Unsafe", "compareAndSetInt", "(Ljava/lang/Object;JII)Z")] = GMeth{ParamSlots: 5, GFunction: unsafeCompareAndSetInt}
	MethodSignatures[Key("jdk/internal/misc/Unsafe", "compareAndSetLong", "(Ljava/lang/Object;JJJ)Z")] = GMeth{ParamSlots: 5, GFunction: unsafeCompareAndSetLong}
	MethodSignatures[Key("jdk/internal/misc/Unsafe", "compareAndSetReference", "(Ljava/lang/Object;JLjava/lang/Object;Ljava/lang/Object;)Z")] = GMeth{ParamSlots: 5, GFunction: unsafeCompareAndSetReference}
	MethodSignatures[Key("jdk/internal/misc/Unsafe", "allocateMemory0", "(J)J")] = GMeth{ParamSlots: 2, GFunction: unsafeAllocateMemory0}
	MethodSignatures[Key("jdk/internal/misc/Unsafe", "freeMemory0", "(J)V")] = GMeth{ParamSlots: 2, GFunction: unsafeFreeMemory0}
	MethodSignatures[Key("jdk/internal/misc/Unsafe", "getByte", "(Ljava/lang/Object;J)B")] = GMeth{ParamSlots: 3, GFunction: unsafeGetByte}
	MethodSignatures[Key("jdk/internal/misc/Unsafe", "putByte", "(Ljava/lang/Object;JB)V")] = GMeth{ParamSlots: 4, GFunction: unsafePutByte}
	MethodSignatures[Key("jdk/internal/misc/Unsafe", "setMemory0", "(Ljava/lang/Object;JJB)V")] = GMeth{ParamSlots: 5, GFunction: unsafeSetMemory0}
}

// unsafeLock serializes CAS operations; the engine's own execution is
// single-threaded cooperative (spec.md §5), so this only guards against
// a native's re-entrant call into another native.
var unsafeLock sync.Mutex

func unsafeObjectFieldOffset1(ctx NativeContext, params []types.Value) interface{} {
	classMirror, fieldName := params[1], params[2]
	nameRef, err := ctx.Heap().GetField(classMirror.Ref, "name")
	if err != nil {
		return getGErrBlk(excNames.IllegalArgumentException, err.Error())
	}
	className, err := ctx.Heap().StringValue(nameRef.Ref)
	if err != nil {
		return getGErrBlk(excNames.IllegalArgumentException, err.Error())
	}
	fname, err := ctx.Heap().StringValue(fieldName.Ref)
	if err != nil {
		return getGErrBlk(excNames.IllegalArgumentException, err.Error())
	}
	offset, err := ctx.Heap().FieldOffset(types.ToInternalName(className), fname)
	if err != nil {
		return getGErrBlk(excNames.NoSuchFieldException, err.Error())
	}
	return types.Long(int64(offset))
}

func unsafeArrayBaseOffset0(ctx NativeContext, params []types.Value) interface{} {
	return types.Int(0)
}

func unsafeArrayIndexScale0(ctx NativeContext, params []types.Value) interface{} {
	return types.Int(1)
}

func unsafeCompareAndSetInt(ctx NativeContext, params []types.Value) interface{} {
	obj, offset, expected, x := params[1], params[2], params[3], params[4]
	return unsafeCAS(ctx, obj, offset, expected, x)
}

func unsafeCompareAndSetLong(ctx NativeContext, params []types.Value) interface{} {
	obj, offset, expected, x := params[1], params[2], params[3], params[4]
	return unsafeCAS(ctx, obj, offset, expected, x)
}

func unsafeCompareAndSetReference(ctx NativeContext, params []types.Value) interface{} {
	obj, offset, expected, x := params[1], params[2], params[3], params[4]
	return unsafeCAS(ctx, obj, offset, expected, x)
}

func unsafeCAS(ctx NativeContext, obj, offset, expected, x types.Value) interface{} {
	unsafeLock.Lock()
	defer unsafeLock.Unlock()

	inst, ok := ctx.Heap().GetObject(obj.Ref)
	if !ok {
		return getGErrBlk(excNames.NullPointerException, "compareAndSet: null receiver")
	}
	name, err := ctx.Heap().FieldByOffset(inst.ClassName, int(offset.IVal))
	if err != nil {
		return getGErrBlk(excNames.IllegalArgumentException, err.Error())
	}
	current, err := ctx.Heap().GetField(obj.Ref, name)
	if err != nil {
		return getGErrBlk(excNames.IllegalArgumentException, err.Error())
	}
	if current.IVal != expected.IVal || current.Ref != expected.Ref {
		return types.Bool(false)
	}
	if err := ctx.Heap().SetField(obj.Ref, name, x); err != nil {
		return getGErrBlk(excNames.IllegalArgumentException, err.Error())
	}
	return types.Bool(true)
}

// unsafeAllocateMemory0 backs Unsafe.allocateMemory0(long), the entry
// point for off-heap buffers (spec.md §2's native memory row). The
// returned address is only ever valid through this same Registry.
func unsafeAllocateMemory0(ctx NativeContext, params []types.Value) interface{} {
	size := params[1]
	addr, err := ctx.NativeMem().Allocate(int(size.IVal))
	if err != nil {
		return getGErrBlk(excNames.OutOfMemoryError, err.Error())
	}
	return types.Long(int64(addr))
}

func unsafeFreeMemory0(ctx NativeContext, params []types.Value) interface{} {
	addr := params[1]
	if err := ctx.NativeMem().Free(uintptr(addr.IVal)); err != nil {
		return getGErrBlk(excNames.IllegalArgumentException, err.Error())
	}
	return nil
}

// unsafeGetByte backs Unsafe.getByte(Object, long); only the off-heap
// case (a null base, a raw address) is supported — the receiver's own
// address comes straight from a prior allocateMemory0 call.
func unsafeGetByte(ctx NativeContext, params []types.Value) interface{} {
	base, offset := params[1], params[2]
	if base.Tag != types.TagNull {
		return getGErrBlk(excNames.IllegalArgumentException, "getByte: on-heap base not supported")
	}
	b, err := ctx.NativeMem().ReadByte(uintptr(offset.IVal))
	if err != nil {
		return getGErrBlk(excNames.IllegalArgumentException, err.Error())
	}
	return types.Byte(b)
}

func unsafePutByte(ctx NativeContext, params []types.Value) interface{} {
	base, offset, value := params[1], params[2], params[3]
	if base.Tag != types.TagNull {
		return getGErrBlk(excNames.IllegalArgumentException, "putByte: on-heap base not supported")
	}
	if err := ctx.NativeMem().WriteByte(uintptr(offset.IVal), byte(value.IVal)); err != nil {
		return getGErrBlk(excNames.IllegalArgumentException, err.Error())
	}
	return nil
}

// unsafeSetMemory0 backs Unsafe.setMemory0, a memset over a validated
// off-heap range.
func unsafeSetMemory0(ctx NativeContext, params []types.Value) interface{} {
	base, addr, size, value := params[1], params[2], params[3], params[4]
	if base.Tag != types.TagNull {
		return getGErrBlk(excNames.IllegalArgumentException, "setMemory0: on-heap base not supported")
	}
	if err := ctx.NativeMem().Fill(uintptr(addr.IVal), int(size.IVal), byte(value.IVal)); err != nil {
		return getGErrBlk(excNames.IllegalArgumentException, err.Error())
	}
	return nil
}
