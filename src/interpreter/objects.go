/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"strings"

	"javelin/excNames"
	"javelin/frames"
	"javelin/internalerror"
	"javelin/types"
)

var newarrayTypes = map[byte]string{
	4: "Z", 5: "C", 6: "F", 7: "D", 8: "B", 9: "S", 10: "I", 11: "J",
}

func (vm *VM) opNewObj(f *frames.Frame) error {
	idx := vm.u16(f)
	className, err := f.CP.ResolveClassName(idx)
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	if err := vm.initClass(className); err != nil {
		return vm.rethrowAsSearch(err)
	}
	obj, err := vm.H.AllocObj(className)
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	return f.Push(types.ObjectRef(obj.Ref))
}

func (vm *VM) opNewarray(f *frames.Frame) error {
	atype := vm.u8(f)
	countv, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	count := int32(countv.IVal)
	if count < 0 {
		return vm.throwNamed(excNames.NegativeArraySizeException, "newarray")
	}
	elem, ok := newarrayTypes[atype]
	if !ok {
		return internalerror.NewGeneral("newarray: unknown atype")
	}
	arr, err := vm.H.AllocArray("["+elem, nil, int(count))
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	return f.Push(types.ArrayRef(arr.Ref))
}

func (vm *VM) opAnewarray(f *frames.Frame) error {
	idx := vm.u16(f)
	className, err := f.CP.ResolveClassName(idx)
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	countv, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	count := int32(countv.IVal)
	if count < 0 {
		return vm.throwNamed(excNames.NegativeArraySizeException, "anewarray")
	}
	elemDesc := className
	if !strings.HasPrefix(className, "[") {
		elemDesc = "L" + className + ";"
	}
	arr, err := vm.H.AllocArray("["+elemDesc, nil, int(count))
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	return f.Push(types.ArrayRef(arr.Ref))
}

// opMultianewarray resolves the array class's full descriptor, strips
// every leading '[' to find the leaf element type, and pops the
// declared dimension count of sizes off the stack. Those arrive
// innermost-pushed-last (spec.md §4.6 "multianewarray": "sizes are
// pushed outermost-first, so the operand stack holds them
// innermost-on-top"), so they are reversed before calling
// AllocMultiArray, which wants outermost-first.
func (vm *VM) opMultianewarray(f *frames.Frame) error {
	idx := vm.u16(f)
	dimsOperand := int(vm.u8(f))
	arrayDesc, err := f.CP.ResolveClassName(idx)
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	base := strings.TrimLeft(arrayDesc, "[")

	sizes := make([]int, dimsOperand)
	for i := dimsOperand - 1; i >= 0; i-- {
		v, err := f.Pop()
		if err != nil {
			return wrapErr(err)
		}
		if int32(v.IVal) < 0 {
			return vm.throwNamed(excNames.NegativeArraySizeException, "multianewarray")
		}
		sizes[i] = int(v.IVal)
	}
	arr, err := vm.H.AllocMultiArray(base, sizes)
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	return f.Push(types.ArrayRef(arr.Ref))
}

func (vm *VM) opArraylength(f *frames.Frame) error {
	v, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	if v.Tag == types.TagNull {
		return vm.throwNamed(excNames.NullPointerException, "arraylength")
	}
	arr, ok := vm.H.GetArray(v.Ref)
	if !ok {
		return internalerror.NewGeneral("arraylength: dangling array ref")
	}
	return f.Push(types.Int(int32(arr.Length())))
}

func (vm *VM) checkcast(f *frames.Frame) error {
	idx := vm.u16(f)
	target, err := f.CP.ResolveClassName(idx)
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	v, err := f.Peek()
	if err != nil {
		return wrapErr(err)
	}
	if v.Tag == types.TagNull {
		return nil
	}
	if !vm.checkType(target, vm.runtimeTypeOf(v)) {
		return vm.throwNamed(excNames.ClassCastException, "cannot cast to "+target)
	}
	return nil
}

func (vm *VM) instanceOf(f *frames.Frame) error {
	idx := vm.u16(f)
	target, err := f.CP.ResolveClassName(idx)
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	v, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	if v.Tag == types.TagNull {
		return f.Push(types.Int(0))
	}
	if vm.checkType(target, vm.runtimeTypeOf(v)) {
		return f.Push(types.Int(1))
	}
	return f.Push(types.Int(0))
}

// arrayLoad covers the eight {i,l,f,d,a,b,c,s}aload opcodes; byte arrays
// back both byte[] and boolean[] (spec.md §4.6 edge case) so baload
// widens whatever's stored without further interpretation.
func (vm *VM) arrayLoad(f *frames.Frame, op byte) error {
	idxv, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	arrv, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	if arrv.Tag == types.TagNull {
		return vm.throwNamed(excNames.NullPointerException, "array load")
	}
	arr, ok := vm.H.GetArray(arrv.Ref)
	if !ok {
		return internalerror.NewGeneral("array load: dangling ref")
	}
	v, err := arr.Get(int(idxv.IVal))
	if err != nil {
		return vm.throwNamed(excNames.ArrayIndexOutOfBoundsException, err.Error())
	}
	if op == opAaload {
		return f.Push(v)
	}
	return f.Push(normalizeNumeric(v.AsInt(), op))
}

// arrayStore covers the eight {i,l,f,d,a,b,c,s}astore opcodes. aastore
// additionally performs the array-store type check (spec.md §4.6 edge
// case / §8 testable property).
func (vm *VM) arrayStore(f *frames.Frame, op byte) error {
	v, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	idxv, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	arrv, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	if arrv.Tag == types.TagNull {
		return vm.throwNamed(excNames.NullPointerException, "array store")
	}
	arr, ok := vm.H.GetArray(arrv.Ref)
	if !ok {
		return internalerror.NewGeneral("array store: dangling ref")
	}
	var assignable func(string, types.Value) bool
	if op == opAastore {
		assignable = vm.assignableToArray
	}
	if err := arr.Set(int(idxv.IVal), v, assignable); err != nil {
		if strings.HasPrefix(err.Error(), "ArrayStoreException") {
			return vm.throwNamed(excNames.ArrayStoreException, err.Error())
		}
		return vm.throwNamed(excNames.ArrayIndexOutOfBoundsException, err.Error())
	}
	return nil
}

// normalizeNumeric narrows an already-int-widened value back to the
// array's element width for the sub-word load opcodes, so e.g. baload
// sign-extends a byte element the same way the JVM's operand stack
// representation expects.
func normalizeNumeric(v types.Value, op byte) types.Value {
	switch op {
	case opBaload:
		return types.Int(int32(int8(v.IVal)))
	case opCaload:
		return types.Int(int32(uint16(v.IVal)))
	case opSaload:
		return types.Int(int32(int16(v.IVal)))
	default:
		return v
	}
}
