/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package gfunction

import "javelin/types"

// loadMethodHandleNatives registers two java/lang/invoke/MethodHandleNatives
// natives: registerNatives, a no-op, and getConstant. No MethodHandle
// native (invokeExact, invokeBasic, ...) and no MethodHandleNatives.resolve
// is registered, and nothing fills in a MemberName's vmindex; the
// interpreter's own MemberName objects carry only a static flag bit.
func loadMethodHandleNatives() {
	MethodSignatures[Key("java/lang/invoke/MethodHandleNatives", "registerNatives", "()V")] = GMeth{ParamSlots: 0, GFunction: justReturn}
	MethodSignatures[Key("java/lang/invoke/MethodHandleNatives", "getConstant", "(I)I")] = GMeth{ParamSlots: 1, GFunction: methodHandleGetConstant}
}

// methodHandleGetConstant returns 0 for every constant id; no id is
// answered with any other value.
func methodHandleGetConstant(ctx NativeContext, params []types.Value) interface{} {
	return types.Int(0)
}
