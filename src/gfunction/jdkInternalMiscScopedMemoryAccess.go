/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package gfunction

// loadMiscScopedMemoryAccess registers jdk/internal/misc/ScopedMemoryAccess's
// native surface. This engine never implements the memory-segment
// confinement checks the JDK layers on top of nativemem (out of scope
// per spec.md §1); both natives are no-ops, adapted from the teacher's
// Load_Jdk_Internal_Misc_ScopedMemoryAccess.
func loadMiscScopedMemoryAccess() {
	MethodSignatures[Key("jdk/internal/misc/ScopedMemoryAccess", "<clinit>", "()V")] = GMeth{ParamSlots: 0, GFunction: justReturn}
	MethodSignatures[Key("jdk/internal/misc/ScopedMemoryAccess", "registerNatives", "()V")] = GMeth{ParamSlots: 0, GFunction: justReturn}
}
