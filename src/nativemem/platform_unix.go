//go:build unix

/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package nativemem

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// platformAlloc backs an off-heap allocation with an anonymous mmap
// region, the POSIX analog of the teacher's Windows-only native-library
// bridge generalized to general-purpose off-heap memory.
func platformAlloc(size int) (uintptr, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return 0, err
	}
	return uintptr(unsafe.Pointer(&data[0])), nil
}

func platformFree(addr uintptr, size int) error {
	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	return unix.Munmap(data)
}

// ConnectLibrary is the POSIX counterpart to the Windows LoadLibrary
// bridge that native-method resolution consults when a native method's
// implementation lives outside the engine. golang.org/x/sys/unix has no
// dlopen wrapper, so this only validates libPath is a well-formed
// filesystem string before returning a placeholder handle; resolving
// engine-external native libraries is out of scope (spec.md §1).
func ConnectLibrary(libPath string) (uintptr, error) {
	if _, err := unix.BytePtrFromString(libPath); err != nil {
		return 0, err
	}
	return 1, nil
}
