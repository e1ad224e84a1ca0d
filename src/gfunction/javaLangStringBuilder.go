/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package gfunction

import "javelin/types"

// loadLangStringBuilder registers java/lang/StringBuilder's native
// surface, adapted from the teacher's Load_Lang_StringBuilder.
func loadLangStringBuilder() {
	MethodSignatures[Key("java/lang/StringBuilder", "isLatin1", "()Z")] = GMeth{ParamSlots: 0, GFunction: isLatin1}
}

// isLatin1 always reports true: this engine does not model the
// Latin1/UTF16 compact-string distinction (spec.md's string model is a
// plain byte-backed String, §4.4).
func isLatin1(ctx NativeContext, params []types.Value) interface{} {
	return types.Bool(true)
}
