/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"javelin/frames"
	"javelin/types"
)

// ifCond implements the six single-operand comparisons against zero
// (ifeq..ifle); branch targets are relative to the opcode's own pc
// (f.OpStart), per spec.md §4.6 "Branches".
func (vm *VM) ifCond(f *frames.Frame, op byte) error {
	v, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	off := vm.s16(f)
	if evalCond(op-opIfeq, int32(v.IVal), 0) {
		f.PC = f.OpStart + off
	}
	return nil
}

func (vm *VM) ifIcmp(f *frames.Frame, op byte) error {
	rhs, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	lhs, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	off := vm.s16(f)
	if evalCond(op-opIfIcmpeq, int32(lhs.IVal), int32(rhs.IVal)) {
		f.PC = f.OpStart + off
	}
	return nil
}

func (vm *VM) ifAcmp(f *frames.Frame, op byte) error {
	rhs, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	lhs, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	off := vm.s16(f)
	eq := refEqual(lhs, rhs)
	if (op == opIfAcmpeq) == eq {
		f.PC = f.OpStart + off
	}
	return nil
}

func (vm *VM) ifNullCheck(f *frames.Frame, op byte) error {
	v, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	off := vm.s16(f)
	isNull := v.Tag == types.TagNull
	if (op == opIfnull) == isNull {
		f.PC = f.OpStart + off
	}
	return nil
}

// evalCond maps the 0..5 family offset (eq,ne,lt,ge,gt,le) shared by
// both the ifcond and if_icmpcond opcode groups to a boolean result.
func evalCond(variant byte, a, b int32) bool {
	switch variant {
	case 0:
		return a == b
	case 1:
		return a != b
	case 2:
		return a < b
	case 3:
		return a >= b
	case 4:
		return a > b
	case 5:
		return a <= b
	}
	return false
}

func refEqual(a, b types.Value) bool {
	if a.Tag == types.TagNull && b.Tag == types.TagNull {
		return true
	}
	if a.Tag == types.TagNull || b.Tag == types.TagNull {
		return false
	}
	return a.Ref == b.Ref
}

// tableswitch and lookupswitch both pad to the next 4-byte boundary
// measured from the method's start (spec.md §4.6 "Switches"); since
// f.PC already accounts for the opcode byte itself, padding is relative
// to f.OpStart+1.
func (vm *VM) tableswitch(f *frames.Frame) error {
	vm.alignSwitch(f)
	def := vm.s32(f)
	low := vm.s32(f)
	high := vm.s32(f)
	v, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	key := int32(v.IVal)
	if key < int32(low) || key > int32(high) {
		f.PC = f.OpStart + def
		return nil
	}
	offset := int(key-int32(low)) * 4
	skip(f, offset)
	target := vm.s32(f)
	f.PC = f.OpStart + target
	return nil
}

func (vm *VM) lookupswitch(f *frames.Frame) error {
	vm.alignSwitch(f)
	def := vm.s32(f)
	npairs := vm.s32(f)
	v, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	key := int32(v.IVal)
	for i := 0; i < npairs; i++ {
		match := vm.s32(f)
		offset := vm.s32(f)
		if int32(match) == key {
			f.PC = f.OpStart + offset
			return nil
		}
	}
	f.PC = f.OpStart + def
	return nil
}

// alignSwitch skips the 0-3 pad bytes the JVM spec inserts after a
// switch opcode so the first operand begins at a pc that is a multiple
// of 4, measured from the start of the method's bytecode array.
func (vm *VM) alignSwitch(f *frames.Frame) {
	for f.PC%4 != 0 {
		f.PC++
	}
}

func skip(f *frames.Frame, n int) {
	f.PC += n
}
