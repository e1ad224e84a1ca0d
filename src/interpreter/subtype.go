/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"strings"

	"javelin/types"
)

// checkType answers spec.md §4.9's check_type(left, right): "is right
// assignable to left?" Both arguments accept either bare class names,
// reference descriptors ("Ljava/lang/String;"), array descriptors
// ("[I", "[Ljava/lang/Object;") or "Null".
func (vm *VM) checkType(left, right string) bool {
	left = normalizeTypeName(left)
	right = normalizeTypeName(right)

	if left == right {
		return true
	}
	if right == "Null" && !isPrimitiveName(left) {
		return true
	}
	if left == types.ObjectClassName || right == types.ObjectClassName {
		return true
	}
	if strings.HasPrefix(left, "[") && strings.HasPrefix(right, "[") {
		return vm.checkType(left[1:], right[1:])
	}
	if isIntFamily(left) && isIntFamily(right) {
		return true
	}
	if vm.L.IsSubclassOf(right, left) {
		return true
	}
	if vm.L.ImplementsInterface(right, left) {
		return true
	}
	return false
}

// normalizeTypeName strips a reference descriptor's "L...;" wrapper,
// leaving bare class names, array descriptors, and primitive tags
// untouched.
func normalizeTypeName(s string) string {
	if len(s) >= 2 && s[0] == 'L' && s[len(s)-1] == ';' {
		return s[1 : len(s)-1]
	}
	return s
}

func isPrimitiveName(s string) bool {
	return len(s) == 1 && types.IsPrimitiveDescriptor(s)
}

func isIntFamily(s string) bool {
	return types.IntFamilyDescriptors[s] || types.IntFamilyWrapperClasses[s]
}

// runtimeTypeOf returns the checkType-ready type name of an operand
// stack value: the object's own class name, an array's descriptor, or
// "Null".
func (vm *VM) runtimeTypeOf(v types.Value) string {
	switch v.Tag {
	case types.TagNull:
		return "Null"
	case types.TagObjectRef:
		if obj, ok := vm.H.GetObject(v.Ref); ok {
			return obj.ClassName
		}
		return "Null"
	case types.TagArrayRef:
		if arr, ok := vm.H.GetArray(v.Ref); ok {
			return arr.Descriptor
		}
		return "Null"
	default:
		return ""
	}
}

// assignableToArray is the ArrayInstance.Set callback: is v assignable
// into an array whose declared element descriptor is elementDesc
// (spec.md §8's aastore testable scenario).
func (vm *VM) assignableToArray(elementDesc string, v types.Value) bool {
	return vm.checkType(elementDesc, vm.runtimeTypeOf(v))
}
