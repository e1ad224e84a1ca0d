/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"math"

	"javelin/excNames"
	"javelin/frames"
	"javelin/internalerror"
	"javelin/types"
)

// binaryArith covers the four-way {i,l,f,d}{add,sub,mul,div,rem} family
// (spec.md §4.6 "Arithmetic"). idiv/irem/ldiv/lrem by zero throw
// ArithmeticException; irem/lrem truncate toward zero (Go's % already
// does), and division wraps on MinInt/-1 rather than overflowing,
// matching the JVM's two's-complement arithmetic rule.
func (vm *VM) binaryArith(f *frames.Frame, op byte) error {
	rhs, err := f.Pop()
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	lhs, err := f.Pop()
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}

	group := (op - opIadd) / 4
	kind := (op - opIadd) % 4
	if op == opDrem {
		group, kind = 4, 3
	}

	switch kind {
	case 0: // int
		a, b := int32(lhs.IVal), int32(rhs.IVal)
		switch group {
		case 0:
			return f.Push(types.Int(a + b))
		case 1:
			return f.Push(types.Int(a - b))
		case 2:
			return f.Push(types.Int(a * b))
		case 3:
			if b == 0 {
				return vm.throwNamed(excNames.ArithmeticException, "/ by zero")
			}
			return f.Push(types.Int(a / b))
		case 4:
			if b == 0 {
				return vm.throwNamed(excNames.ArithmeticException, "/ by zero")
			}
			return f.Push(types.Int(a % b))
		}
	case 1: // long
		a, b := lhs.IVal, rhs.IVal
		switch group {
		case 0:
			return f.Push(types.Long(a + b))
		case 1:
			return f.Push(types.Long(a - b))
		case 2:
			return f.Push(types.Long(a * b))
		case 3:
			if b == 0 {
				return vm.throwNamed(excNames.ArithmeticException, "/ by zero")
			}
			return f.Push(types.Long(a / b))
		case 4:
			if b == 0 {
				return vm.throwNamed(excNames.ArithmeticException, "/ by zero")
			}
			return f.Push(types.Long(a % b))
		}
	case 2: // float
		a, b := lhs.FVal, rhs.FVal
		switch group {
		case 0:
			return f.Push(types.Float(a + b))
		case 1:
			return f.Push(types.Float(a - b))
		case 2:
			return f.Push(types.Float(a * b))
		case 3:
			return f.Push(types.Float(a / b))
		case 4:
			return f.Push(types.Float(float32(math.Mod(float64(a), float64(b)))))
		}
	case 3: // double
		a, b := lhs.DVal, rhs.DVal
		switch group {
		case 0:
			return f.Push(types.Double(a + b))
		case 1:
			return f.Push(types.Double(a - b))
		case 2:
			return f.Push(types.Double(a * b))
		case 3:
			return f.Push(types.Double(a / b))
		case 4:
			return f.Push(types.Double(math.Mod(a, b)))
		}
	}
	return internalerror.NewGeneral("binaryArith: unreachable")
}

func (vm *VM) unaryNeg(f *frames.Frame, op byte) error {
	v, err := f.Pop()
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	switch op {
	case opIneg:
		return f.Push(types.Int(-int32(v.IVal)))
	case opLneg:
		return f.Push(types.Long(-v.IVal))
	case opFneg:
		return f.Push(types.Float(-v.FVal))
	case opDneg:
		return f.Push(types.Double(-v.DVal))
	}
	return internalerror.NewGeneral("unaryNeg: unreachable")
}

// bitwiseOp covers the shift family (mask the shift distance to 5 bits
// for int, 6 for long, per JVMS §6.5.ishl) and the and/or/xor family.
func (vm *VM) bitwiseOp(f *frames.Frame, op byte) error {
	rhs, err := f.Pop()
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	lhs, err := f.Pop()
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	switch op {
	case opIshl:
		return f.Push(types.Int(int32(lhs.IVal) << (uint32(rhs.IVal) & 0x1f)))
	case opIshl + 1: // lshl
		return f.Push(types.Long(lhs.IVal << (uint64(rhs.IVal) & 0x3f)))
	case opIshl + 2: // ishr
		return f.Push(types.Int(int32(lhs.IVal) >> (uint32(rhs.IVal) & 0x1f)))
	case opIshl + 3: // lshr
		return f.Push(types.Long(lhs.IVal >> (uint64(rhs.IVal) & 0x3f)))
	case opIshl + 4: // iushr
		return f.Push(types.Int(int32(uint32(lhs.IVal) >> (uint32(rhs.IVal) & 0x1f))))
	case opIshl + 5: // lushr
		return f.Push(types.Long(int64(uint64(lhs.IVal) >> (uint64(rhs.IVal) & 0x3f))))
	case opIshl + 6: // iand
		return f.Push(types.Int(int32(lhs.IVal) & int32(rhs.IVal)))
	case opIshl + 7: // land
		return f.Push(types.Long(lhs.IVal & rhs.IVal))
	case opIshl + 8: // ior
		return f.Push(types.Int(int32(lhs.IVal) | int32(rhs.IVal)))
	case opIshl + 9: // lor
		return f.Push(types.Long(lhs.IVal | rhs.IVal))
	case opLxor - 1: // ixor
		return f.Push(types.Int(int32(lhs.IVal) ^ int32(rhs.IVal)))
	case opLxor: // lxor
		return f.Push(types.Long(lhs.IVal ^ rhs.IVal))
	}
	return internalerror.NewGeneral("bitwiseOp: unreachable")
}

func (vm *VM) iinc(f *frames.Frame) error {
	index := int(vm.u8(f))
	delta := int32(int8(vm.u8(f)))
	v, err := f.GetLocal(index)
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	return f.SetLocal(index, types.Int(int32(v.IVal)+delta))
}

// convert implements the fifteen numeric-widening/narrowing conversion
// opcodes (spec.md §4.6 "Conversions"); d2i/d2l/f2i/f2l saturate rather
// than overflow, matching JVMS §6.5's NaN-and-infinity rules.
func (vm *VM) convert(f *frames.Frame, op byte) error {
	v, err := f.Pop()
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	switch op {
	case opI2l:
		return f.Push(types.Long(int64(int32(v.IVal))))
	case opI2l + 1: // i2f
		return f.Push(types.Float(float32(int32(v.IVal))))
	case opI2l + 2: // i2d
		return f.Push(types.Double(float64(int32(v.IVal))))
	case opI2l + 3: // l2i
		return f.Push(types.Int(int32(v.IVal)))
	case opI2l + 4: // l2f
		return f.Push(types.Float(float32(v.IVal)))
	case opI2l + 5: // l2d
		return f.Push(types.Double(float64(v.IVal)))
	case opI2l + 6: // f2i
		return f.Push(types.Int(floatToInt32(v.FVal)))
	case opI2l + 7: // f2l
		return f.Push(types.Long(floatToInt64(float64(v.FVal))))
	case opI2l + 8: // f2d
		return f.Push(types.Double(float64(v.FVal)))
	case opI2l + 9: // d2i
		return f.Push(types.Int(floatToInt32(v.DVal)))
	case opI2l + 10: // d2l
		return f.Push(types.Long(floatToInt64(v.DVal)))
	case opD2f: // d2f
		return f.Push(types.Float(float32(v.DVal)))
	case opI2b:
		return f.Push(types.Int(int32(int8(v.IVal))))
	case opI2b + 1: // i2c
		return f.Push(types.Int(int32(uint16(v.IVal))))
	case opI2s:
		return f.Push(types.Int(int32(int16(v.IVal))))
	}
	return internalerror.NewGeneral("convert: unreachable")
}

func floatToInt32[T float32 | float64](v T) int32 {
	f := float64(v)
	if math.IsNaN(f) {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	if f <= math.MinInt32 {
		return math.MinInt32
	}
	return int32(f)
}

func floatToInt64(f float64) int64 {
	if math.IsNaN(f) {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	if f <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(f)
}

// compareOp covers lcmp/fcmpl/fcmpg/dcmpl/dcmpg, each pushing -1/0/1;
// the l/g suffix on the float/double forms only matters when either
// operand is NaN (spec.md §4.6 "Comparisons").
func (vm *VM) compareOp(f *frames.Frame, op byte) error {
	rhs, err := f.Pop()
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	lhs, err := f.Pop()
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	switch op {
	case opLcmp:
		return f.Push(types.Int(cmp3(lhs.IVal, rhs.IVal)))
	case opLcmp + 1: // fcmpl
		if math.IsNaN(float64(lhs.FVal)) || math.IsNaN(float64(rhs.FVal)) {
			return f.Push(types.Int(-1))
		}
		return f.Push(types.Int(cmp3f(float64(lhs.FVal), float64(rhs.FVal))))
	case opLcmp + 2: // fcmpg
		if math.IsNaN(float64(lhs.FVal)) || math.IsNaN(float64(rhs.FVal)) {
			return f.Push(types.Int(1))
		}
		return f.Push(types.Int(cmp3f(float64(lhs.FVal), float64(rhs.FVal))))
	case opLcmp + 3: // dcmpl
		if math.IsNaN(lhs.DVal) || math.IsNaN(rhs.DVal) {
			return f.Push(types.Int(-1))
		}
		return f.Push(types.Int(cmp3f(lhs.DVal, rhs.DVal)))
	case opDcmpg: // dcmpg
		if math.IsNaN(lhs.DVal) || math.IsNaN(rhs.DVal) {
			return f.Push(types.Int(1))
		}
		return f.Push(types.Int(cmp3f(lhs.DVal, rhs.DVal)))
	}
	return internalerror.NewGeneral("compareOp: unreachable")
}

func cmp3(a, b int64) int32 {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

func cmp3f(a, b float64) int32 {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}
