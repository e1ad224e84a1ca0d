/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"strconv"
	"strings"

	"javelin/internalerror"
	"javelin/types"
)

// evalLambdaForm interprets a LambdaForm (spec.md §4.12): a named-form
// mini-program describing how a bound method handle combines its
// captured arguments and invokes a target. receiverMH is the bound
// handle being evaluated, needed for the argL<n> synthetic-accessor
// interception.
func (vm *VM) evalLambdaForm(formRef, receiverMH uint64, args []types.Value) (types.Value, error) {
	arityV, err := vm.H.GetField(formRef, "arity")
	if err != nil {
		return types.None(), internalerror.NewGeneral(err.Error())
	}
	arity := int(arityV.IVal)

	namesV, err := vm.H.GetField(formRef, "names")
	if err != nil || namesV.Tag != types.TagArrayRef {
		return types.None(), internalerror.NewGeneral("evalLambdaForm: missing names")
	}
	names, ok := vm.H.GetArray(namesV.Ref)
	if !ok {
		return types.None(), internalerror.NewGeneral("evalLambdaForm: dangling names array")
	}

	resultV, err := vm.H.GetField(formRef, "result")
	if err != nil {
		return types.None(), internalerror.NewGeneral(err.Error())
	}
	resultIdx := int(resultV.IVal)

	values := make([]types.Value, len(names.Elements))
	for i := 0; i < arity && i < len(args); i++ {
		values[i] = args[i]
	}

	for i := arity; i < len(names.Elements); i++ {
		nameRef := names.Elements[i]
		if nameRef.Tag != types.TagObjectRef {
			continue
		}
		v, err := vm.evalName(nameRef.Ref, values, receiverMH)
		if err != nil {
			return types.None(), err
		}
		values[i] = v
	}

	if resultIdx < 0 || resultIdx >= len(values) {
		return types.None(), nil
	}
	return values[resultIdx], nil
}

func (vm *VM) evalName(nameRef uint64, values []types.Value, receiverMH uint64) (types.Value, error) {
	argsV, err := vm.H.GetField(nameRef, "arguments")
	if err != nil || argsV.Tag != types.TagArrayRef {
		return types.None(), internalerror.NewGeneral("evalName: missing arguments")
	}
	argRefs, ok := vm.H.GetArray(argsV.Ref)
	if !ok {
		return types.None(), internalerror.NewGeneral("evalName: dangling arguments array")
	}

	callArgs := make([]types.Value, 0, len(argRefs.Elements))
	for _, ref := range argRefs.Elements {
		if ref.Tag != types.TagObjectRef {
			continue
		}
		idxV, err := vm.H.GetField(ref.Ref, "index")
		if err != nil {
			return types.None(), internalerror.NewGeneral(err.Error())
		}
		idx := int(idxV.IVal)
		if idx < 0 || idx >= len(values) {
			return types.None(), internalerror.NewGeneral("evalName: argument index out of range")
		}
		callArgs = append(callArgs, values[idx])
	}

	funcV, err := vm.H.GetField(nameRef, "function")
	if err != nil || funcV.Tag != types.TagObjectRef {
		return types.None(), internalerror.NewGeneral("evalName: missing function")
	}

	if accessorField, ok := vm.syntheticAccessor(funcV.Ref); ok {
		return vm.H.GetField(receiverMH, accessorField)
	}
	return vm.invokeMethodHandle(funcV.Ref, callArgs)
}

// syntheticAccessor recognizes a DirectMethodHandle whose target member
// is named "argL<n>": the LambdaForm compiler's own field accessor for
// a bound handle's captured arguments, which the mini-interpreter
// serves directly off the receiver rather than by dispatching a call
// (spec.md §4.12).
func (vm *VM) syntheticAccessor(mhRef uint64) (string, bool) {
	memberV, err := vm.H.GetField(mhRef, "member")
	if err != nil || memberV.Tag != types.TagObjectRef {
		return "", false
	}
	nameV, err := vm.H.GetField(memberV.Ref, "name")
	if err != nil {
		return "", false
	}
	name, err := vm.H.StringValue(nameV.Ref)
	if err != nil {
		return "", false
	}
	if !strings.HasPrefix(name, "argL") {
		return "", false
	}
	if _, err := strconv.Atoi(name[4:]); err != nil {
		return "", false
	}
	return name, true
}
