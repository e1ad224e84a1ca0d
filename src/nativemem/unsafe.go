/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package nativemem

import "unsafe"

// peekByte reads one byte directly out of the process's address space at
// addr. Callers must have already validated addr via Registry.Validate;
// this is the one place the off-heap emulation actually touches raw
// memory, mirroring how Unsafe natives work in the real JVM.
func peekByte(addr uintptr) byte {
	return *(*byte)(unsafe.Pointer(addr))
}

// pokeByte is peekByte's write counterpart, used by Unsafe.putByte-style
// natives once a pointer has been validated.
func pokeByte(addr uintptr, v byte) {
	*(*byte)(unsafe.Pointer(addr)) = v
}
