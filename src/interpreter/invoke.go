/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"fmt"

	"javelin/excNames"
	"javelin/frames"
	"javelin/internalerror"
	"javelin/types"
)

// rethrowAsSearch converts an unhandled-past-this-call *JavaException
// (the error invokeResolved/initClass returns once they've popped their
// own host/callee frames down to the current bytecode frame) back into
// a fresh exception-table search rooted at the current frame, so a
// try/catch around the invoke instruction still gets a chance to catch
// it (spec.md §4.7). Anything else (an internalerror) passes through
// unconverted, since those are never exception-table-eligible (§7).
func (vm *VM) rethrowAsSearch(err error) error {
	if err == nil {
		return nil
	}
	if je, ok := err.(*JavaException); ok {
		return vm.handleThrow(je.Ref)
	}
	return err
}

func (vm *VM) popArgs(f *frames.Frame, n int) ([]types.Value, error) {
	args := make([]types.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := f.Pop()
		if err != nil {
			return nil, wrapErr(err)
		}
		args[i] = v
	}
	return args, nil
}

func (vm *VM) pushResult(f *frames.Frame, ret types.Value) error {
	if ret.Tag == types.TagNone {
		return nil
	}
	return wrapErr(f.Push(ret))
}

func (vm *VM) invokeStatic(f *frames.Frame) error {
	idx := vm.u16(f)
	owner, name, descriptor, err := f.CP.ResolveMethodRef(idx)
	if err != nil {
		return internalerror.NewMethodNotFound(err.Error())
	}
	md, err := types.ParseMethodDescriptor(descriptor)
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	args, err := vm.popArgs(f, len(md.Params))
	if err != nil {
		return err
	}
	if err := vm.initClass(owner); err != nil {
		return vm.rethrowAsSearch(err)
	}
	resolved, err := vm.L.Find(owner, name, descriptor, true)
	if err != nil {
		return internalerror.NewMethodNotFound(err.Error())
	}
	ret, err := vm.invokeResolved(resolved.DeclaringClass, resolved.Method, args)
	if err != nil {
		return vm.rethrowAsSearch(err)
	}
	return vm.pushResult(f, ret)
}

// invokespecial resolves non-virtually: <init>, private methods, and
// super.method() calls all invoke exactly the named class's declaration
// rather than redispatching on the receiver's runtime class (spec.md
// §4.6 "Invoke family").
func (vm *VM) invokeSpecial(f *frames.Frame) error {
	idx := vm.u16(f)
	owner, name, descriptor, err := f.CP.ResolveMethodRef(idx)
	if err != nil {
		return internalerror.NewMethodNotFound(err.Error())
	}
	md, err := types.ParseMethodDescriptor(descriptor)
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	args, err := vm.popArgs(f, len(md.Params))
	if err != nil {
		return err
	}
	recv, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	if recv.Tag == types.TagNull {
		return vm.throwNamed(excNames.NullPointerException, "invokespecial: "+name)
	}
	resolved, err := vm.L.Find(owner, name, descriptor, true)
	if err != nil {
		return internalerror.NewMethodNotFound(err.Error())
	}
	full := append([]types.Value{recv}, args...)
	ret, err := vm.invokeResolved(resolved.DeclaringClass, resolved.Method, full)
	if err != nil {
		return vm.rethrowAsSearch(err)
	}
	return vm.pushResult(f, ret)
}

func (vm *VM) invokeVirtual(f *frames.Frame) error {
	idx := vm.u16(f)
	owner, name, descriptor, err := f.CP.ResolveMethodRef(idx)
	if err != nil {
		return internalerror.NewMethodNotFound(err.Error())
	}
	md, err := types.ParseMethodDescriptor(descriptor)
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	args, err := vm.popArgs(f, len(md.Params))
	if err != nil {
		return err
	}
	recv, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	if recv.Tag == types.TagNull {
		return vm.throwNamed(excNames.NullPointerException, "invokevirtual: "+name)
	}
	dispatchClass := vm.runtimeTypeOf(recv)
	if dispatchClass == "" || dispatchClass == "Null" {
		dispatchClass = owner
	}
	resolved, err := vm.L.Find(dispatchClass, name, descriptor, true)
	if err != nil {
		return internalerror.NewMethodNotFound(err.Error())
	}
	full := append([]types.Value{recv}, args...)
	ret, err := vm.invokeResolved(resolved.DeclaringClass, resolved.Method, full)
	if err != nil {
		return vm.rethrowAsSearch(err)
	}
	return vm.pushResult(f, ret)
}

func (vm *VM) invokeInterface(f *frames.Frame) error {
	idx := vm.u16(f)
	_ = vm.u8(f) // argument count, redundant with the descriptor's own parameter count
	if reserved := vm.u8(f); reserved != 0 {
		return internalerror.NewGeneral(fmt.Sprintf("invokeinterface: reserved operand byte must be zero, got %d", reserved))
	}
	owner, name, descriptor, err := f.CP.ResolveMethodRef(idx)
	if err != nil {
		return internalerror.NewMethodNotFound(err.Error())
	}
	md, err := types.ParseMethodDescriptor(descriptor)
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	args, err := vm.popArgs(f, len(md.Params))
	if err != nil {
		return err
	}
	recv, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	if recv.Tag == types.TagNull {
		return vm.throwNamed(excNames.NullPointerException, "invokeinterface: "+name)
	}
	dispatchClass := vm.runtimeTypeOf(recv)
	if dispatchClass == "" || dispatchClass == "Null" {
		dispatchClass = owner
	}
	resolved, err := vm.L.Find(dispatchClass, name, descriptor, true)
	if err != nil {
		return internalerror.NewMethodNotFound(err.Error())
	}
	full := append([]types.Value{recv}, args...)
	ret, err := vm.invokeResolved(resolved.DeclaringClass, resolved.Method, full)
	if err != nil {
		return vm.rethrowAsSearch(err)
	}
	return vm.pushResult(f, ret)
}
