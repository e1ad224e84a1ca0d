/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"math"
	"testing"

	"javelin/classloader"
	"javelin/excNames"
	"javelin/types"
)

func TestIaddWrapsOnOverflow(t *testing.T) {
	vm := newTestVM(t)
	f := vm.pushCode("T", "m", nil, []byte{opIadd}, nil, 4, 0)
	_ = f.Push(types.Int(math.MaxInt32))
	_ = f.Push(types.Int(1))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	v, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if int32(v.IVal) != math.MinInt32 {
		t.Errorf("MaxInt32+1 = %d, want wraparound to MinInt32", int32(v.IVal))
	}
}

func TestIdivByZeroThrowsArithmeticException(t *testing.T) {
	vm := newTestVM(t)
	code := []byte{opIadd + 12, opNop, opNop} // idiv; nop handler
	catchAll := []classloader.ExceptionTableEntry{{StartPc: 0, EndPc: 0, HandlerPc: 1, CatchType: ""}}
	f := vm.pushCode("T", "m", nil, code, catchAll, 4, 0) // idiv
	_ = f.Push(types.Int(7))
	_ = f.Push(types.Int(0))
	err := vm.step()
	if err != nil {
		t.Fatalf("step returned error instead of driving the exception table: %v", err)
	}
	if f.PC != 1 {
		t.Fatalf("PC after caught throw = %d, want handler pc 1", f.PC)
	}
	v, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if v.Tag != types.TagObjectRef {
		t.Fatalf("expected the ArithmeticException object pushed onto the handler frame, got %+v", v)
	}
	obj, ok := vm.H.GetObject(v.Ref)
	if !ok || obj.ClassName != excNames.JavaClassNameOf(excNames.ArithmeticException) {
		t.Errorf("expected an ArithmeticException instance, got %+v", obj)
	}
}

func TestLongDivisionTruncatesTowardZero(t *testing.T) {
	vm := newTestVM(t)
	f := vm.pushCode("T", "m", nil, []byte{opIadd + 13}, nil, 4, 0) // ldiv
	_ = f.Push(types.Long(-7))
	_ = f.Push(types.Long(2))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	v, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if v.IVal != -3 {
		t.Errorf("-7/2 = %d, want -3 (truncation toward zero)", v.IVal)
	}
}

func TestFcmpgTreatsNaNAsGreater(t *testing.T) {
	vm := newTestVM(t)
	f := vm.pushCode("T", "m", nil, []byte{opLcmp + 2}, nil, 4, 0) // fcmpg
	_ = f.Push(types.Float(1.0))
	_ = f.Push(types.Float(float32(math.NaN())))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	v, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if int32(v.IVal) != 1 {
		t.Errorf("fcmpg with NaN = %d, want 1", int32(v.IVal))
	}
}

func TestFcmplTreatsNaNAsLess(t *testing.T) {
	vm := newTestVM(t)
	f := vm.pushCode("T", "m", nil, []byte{opLcmp + 1}, nil, 4, 0) // fcmpl
	_ = f.Push(types.Float(1.0))
	_ = f.Push(types.Float(float32(math.NaN())))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	v, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if int32(v.IVal) != -1 {
		t.Errorf("fcmpl with NaN = %d, want -1", int32(v.IVal))
	}
}

func TestD2iSaturatesOnOverflow(t *testing.T) {
	vm := newTestVM(t)
	f := vm.pushCode("T", "m", nil, []byte{opI2l + 9}, nil, 4, 0) // d2i
	_ = f.Push(types.Double(1e100))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	v, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if int32(v.IVal) != math.MaxInt32 {
		t.Errorf("d2i(1e100) = %d, want MaxInt32", int32(v.IVal))
	}
}

func TestIincModifiesLocalInPlace(t *testing.T) {
	vm := newTestVM(t)
	f := vm.pushCode("T", "m", nil, []byte{opIinc, 0, 5}, nil, 0, 1)
	_ = f.SetLocal(0, types.Int(10))
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	v, err := f.GetLocal(0)
	if err != nil {
		t.Fatal(err)
	}
	if int32(v.IVal) != 15 {
		t.Errorf("iinc local 0 by 5 from 10 = %d, want 15", int32(v.IVal))
	}
}
