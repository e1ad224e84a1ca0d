/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"testing"

	"javelin/types"
)

func int32Bytes(v int32) []byte {
	u := uint32(v)
	return []byte{byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)}
}

func TestIfIcmpgeBranchTaken(t *testing.T) {
	vm := newTestVM(t)
	// if_icmpge +6 -> skip three nops straight to a fourth nop
	code := append([]byte{opIfIcmpeq + 3, 0x00, 0x06}, opNop, opNop, opNop, opNop)
	f := vm.pushCode("T", "m", nil, code, nil, 4, 0)
	_ = f.Push(types.Int(5))
	_ = f.Push(types.Int(5))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	if f.PC != 6 {
		t.Errorf("PC after if_icmpge(5,5) taken = %d, want 6", f.PC)
	}
}

func TestIfIcmpgeBranchNotTaken(t *testing.T) {
	vm := newTestVM(t)
	code := []byte{opIfIcmpeq + 3, 0x00, 0x06, opNop}
	f := vm.pushCode("T", "m", nil, code, nil, 4, 0)
	_ = f.Push(types.Int(1))
	_ = f.Push(types.Int(5))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	if f.PC != 3 {
		t.Errorf("PC after if_icmpge(1,5) not taken = %d, want 3 (fallthrough)", f.PC)
	}
}

func TestGotoJumpsRelativeToOpcodeStart(t *testing.T) {
	vm := newTestVM(t)
	code := []byte{opGoto, 0x00, 0x05, opNop, opNop}
	f := vm.pushCode("T", "m", nil, code, nil, 0, 0)
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	if f.PC != 5 {
		t.Errorf("PC after goto +5 = %d, want 5", f.PC)
	}
}

func TestTableswitchMatchedCase(t *testing.T) {
	vm := newTestVM(t)
	code := make([]byte, 28)
	code[0] = opTableswitch
	// indices 1-3 padding, 4-7 default, 8-11 low, 12-15 high
	copy(code[4:8], int32Bytes(999))
	copy(code[8:12], int32Bytes(0))
	copy(code[12:16], int32Bytes(2))
	copy(code[16:20], int32Bytes(10)) // key 0
	copy(code[20:24], int32Bytes(20)) // key 1
	copy(code[24:28], int32Bytes(30)) // key 2
	f := vm.pushCode("T", "m", nil, code, nil, 4, 0)
	_ = f.Push(types.Int(1))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	if f.PC != 20 {
		t.Errorf("PC after tableswitch(key=1) = %d, want 20", f.PC)
	}
}

func TestTableswitchDefaultCase(t *testing.T) {
	vm := newTestVM(t)
	code := make([]byte, 28)
	code[0] = opTableswitch
	copy(code[4:8], int32Bytes(999))
	copy(code[8:12], int32Bytes(0))
	copy(code[12:16], int32Bytes(2))
	f := vm.pushCode("T", "m", nil, code, nil, 4, 0)
	_ = f.Push(types.Int(42))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	if f.PC != 999 {
		t.Errorf("PC after tableswitch(key out of range) = %d, want default 999", f.PC)
	}
}

func TestLookupswitchMatchedPair(t *testing.T) {
	vm := newTestVM(t)
	code := make([]byte, 28)
	code[0] = opLookupswitch
	copy(code[4:8], int32Bytes(999))   // default
	copy(code[8:12], int32Bytes(2))    // npairs
	copy(code[12:16], int32Bytes(5))   // pair 0: match 5
	copy(code[16:20], int32Bytes(50))  // pair 0: offset 50
	copy(code[20:24], int32Bytes(9))   // pair 1: match 9
	copy(code[24:28], int32Bytes(90))  // pair 1: offset 90
	f := vm.pushCode("T", "m", nil, code, nil, 4, 0)
	_ = f.Push(types.Int(9))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	if f.PC != 90 {
		t.Errorf("PC after lookupswitch(key=9) = %d, want 90", f.PC)
	}
}
