/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"fmt"

	"javelin/classloader"
	"javelin/internalerror"
	"javelin/types"
)

const (
	directMethodHandleClass = "java/lang/invoke/DirectMethodHandle"
	boundMethodHandleClass  = "java/lang/invoke/BoundMethodHandle"
	memberNameClass         = "java/lang/invoke/MemberName"

	// mnStatic marks a MemberName whose target is a static method; any
	// other Method-kind MemberName takes its first argument as the
	// receiver (spec.md §4.11).
	mnStatic = classloader.AccStatic
)

// invokeMethodHandle is the engine's own Call-the-method-handle
// primitive (spec.md §4.11), driving every invokedynamic call site
// (§4.10's final step) and each LambdaForm name's function. No
// MethodHandle.invoke* native is registered, so Java code calling
// invokeExact/invokeBasic does not reach it. args holds
// only the call's real arguments; the method handle reference itself is
// passed separately and is never part of args.
func (vm *VM) invokeMethodHandle(mhRef uint64, args []types.Value) (types.Value, error) {
	obj, ok := vm.H.GetObject(mhRef)
	if !ok {
		return types.None(), internalerror.NewGeneral("invokeMethodHandle: dangling reference")
	}

	switch {
	case vm.L.IsSubclassOf(obj.ClassName, directMethodHandleClass) || obj.ClassName == directMethodHandleClass:
		return vm.invokeDirect(obj.Ref, args)
	case vm.L.IsSubclassOf(obj.ClassName, boundMethodHandleClass) || obj.ClassName == boundMethodHandleClass:
		return vm.invokeBound(obj.Ref, args)
	default:
		return types.None(), internalerror.NewNotImplemented("method handle kind " + obj.ClassName)
	}
}

func (vm *VM) invokeDirect(mhRef uint64, args []types.Value) (types.Value, error) {
	memberV, err := vm.H.GetField(mhRef, "member")
	if err != nil || memberV.Tag != types.TagObjectRef {
		return types.None(), internalerror.NewGeneral("invokeDirect: missing member")
	}
	member := memberV.Ref

	nameV, err := vm.H.GetField(member, "name")
	if err != nil {
		return types.None(), internalerror.NewGeneral(err.Error())
	}
	name, err := vm.H.StringValue(nameV.Ref)
	if err != nil {
		return types.None(), internalerror.NewGeneral(err.Error())
	}

	clazzV, err := vm.H.GetField(member, "clazz")
	if err != nil {
		return types.None(), internalerror.NewGeneral(err.Error())
	}
	clazzNameV, err := vm.H.GetField(clazzV.Ref, "name")
	if err != nil {
		return types.None(), internalerror.NewGeneral(err.Error())
	}
	className, err := vm.H.StringValue(clazzNameV.Ref)
	if err != nil {
		return types.None(), internalerror.NewGeneral(err.Error())
	}

	typeV, err := vm.H.GetField(member, "type")
	if err != nil {
		return types.None(), internalerror.NewGeneral(err.Error())
	}
	descriptor, err := vm.methodTypeDescriptor(typeV.Ref)
	if err != nil {
		return types.None(), internalerror.NewGeneral(err.Error())
	}

	flagsV, _ := vm.H.GetField(member, "flags")
	isStatic := int32(flagsV.IVal)&mnStatic != 0

	resolved, err := vm.L.Find(className, name, descriptor, true)
	if err != nil {
		return types.None(), internalerror.NewMethodNotFound(err.Error())
	}

	if isStatic {
		return vm.invokeResolved(resolved.DeclaringClass, resolved.Method, args)
	}
	if len(args) == 0 {
		return types.None(), internalerror.NewGeneral("invokeDirect: instance method with no receiver")
	}
	return vm.invokeResolved(resolved.DeclaringClass, resolved.Method, args)
}

// invokeBound drives the LambdaForm mini-interpreter (spec.md §4.12):
// captured arguments argL0..argLn are prepended to args before the
// bound handle's form is evaluated.
func (vm *VM) invokeBound(mhRef uint64, args []types.Value) (types.Value, error) {
	formV, err := vm.H.GetField(mhRef, "form")
	if err != nil || formV.Tag != types.TagObjectRef {
		return types.None(), internalerror.NewGeneral("invokeBound: missing form")
	}

	captured := make([]types.Value, 0, 4)
	for i := 0; ; i++ {
		v, err := vm.H.GetField(mhRef, fmt.Sprintf("argL%d", i))
		if err != nil {
			break
		}
		captured = append(captured, v)
	}
	full := append(append([]types.Value(nil), captured...), args...)
	return vm.evalLambdaForm(formV.Ref, mhRef, full)
}

// methodTypeDescriptor returns the "(params)return" descriptor stored in
// a materialized java/lang/invoke/MethodType object's descriptor string
// field; ptypes/rtype class mirrors are not consulted.
func (vm *VM) methodTypeDescriptor(methodTypeRef uint64) (string, error) {
	descV, err := vm.H.GetField(methodTypeRef, "descriptor")
	if err == nil && descV.Tag == types.TagObjectRef {
		return vm.H.StringValue(descV.Ref)
	}
	return "", fmt.Errorf("methodTypeDescriptor: no descriptor field on MethodType")
}
