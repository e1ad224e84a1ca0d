/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"testing"

	"javelin/gfunction"
	"javelin/types"
)

func nativeCall(t *testing.T, vm *VM, owner, name, descriptor string, params []types.Value) interface{} {
	t.Helper()
	m, ok := gfunction.MethodSignatures[gfunction.Key(owner, name, descriptor)]
	if !ok {
		t.Fatalf("no native registered for %s.%s%s", owner, name, descriptor)
	}
	return m.GFunction(vm, params)
}

// TestUnsafeOffHeapAllocatePutGetFreeRoundTrip exercises the off-heap
// natives end to end: allocate, write a byte, read it back, then free
// and confirm the freed address no longer validates.
func TestUnsafeOffHeapAllocatePutGetFreeRoundTrip(t *testing.T) {
	vm := newTestVM(t)

	addrRet := nativeCall(t, vm, "jdk/internal/misc/Unsafe", "allocateMemory0", "(J)J", []types.Value{types.Null(), types.Long(8)})
	addr, ok := addrRet.(types.Value)
	if !ok || addr.Tag != types.TagLong {
		t.Fatalf("allocateMemory0 = %#v, want a Long", addrRet)
	}

	putRet := nativeCall(t, vm, "jdk/internal/misc/Unsafe", "putByte", "(Ljava/lang/Object;JB)V",
		[]types.Value{types.Null(), types.Null(), addr, types.Byte(42)})
	if putRet != nil {
		t.Fatalf("putByte returned %#v, want nil", putRet)
	}

	getRet := nativeCall(t, vm, "jdk/internal/misc/Unsafe", "getByte", "(Ljava/lang/Object;J)B",
		[]types.Value{types.Null(), types.Null(), addr})
	got, ok := getRet.(types.Value)
	if !ok || got.Tag != types.TagByte || int8(got.IVal) != 42 {
		t.Fatalf("getByte = %#v, want Byte(42)", getRet)
	}

	freeRet := nativeCall(t, vm, "jdk/internal/misc/Unsafe", "freeMemory0", "(J)V", []types.Value{types.Null(), addr})
	if freeRet != nil {
		t.Fatalf("freeMemory0 returned %#v, want nil", freeRet)
	}

	afterFree := nativeCall(t, vm, "jdk/internal/misc/Unsafe", "getByte", "(Ljava/lang/Object;J)B",
		[]types.Value{types.Null(), types.Null(), addr})
	if _, ok := afterFree.(*gfunction.GErrBlk); !ok {
		t.Fatalf("getByte after free = %#v, want a GErrBlk", afterFree)
	}
}

// TestUnsafeSetMemory0FillsWholeRange validates setMemory0 against every
// byte in the allocated region, not just the first.
func TestUnsafeSetMemory0FillsWholeRange(t *testing.T) {
	vm := newTestVM(t)

	addrRet := nativeCall(t, vm, "jdk/internal/misc/Unsafe", "allocateMemory0", "(J)J", []types.Value{types.Null(), types.Long(4)})
	addr := addrRet.(types.Value)

	setRet := nativeCall(t, vm, "jdk/internal/misc/Unsafe", "setMemory0", "(Ljava/lang/Object;JJB)V",
		[]types.Value{types.Null(), types.Null(), addr, types.Long(4), types.Byte(7)})
	if setRet != nil {
		t.Fatalf("setMemory0 returned %#v, want nil", setRet)
	}

	for i := int64(0); i < 4; i++ {
		off := types.Long(addr.IVal + i)
		ret := nativeCall(t, vm, "jdk/internal/misc/Unsafe", "getByte", "(Ljava/lang/Object;J)B",
			[]types.Value{types.Null(), types.Null(), off})
		b, ok := ret.(types.Value)
		if !ok || int8(b.IVal) != 7 {
			t.Errorf("byte at offset %d = %#v, want Byte(7)", i, ret)
		}
	}
}
