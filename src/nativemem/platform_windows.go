//go:build windows

/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package nativemem

import (
	"fmt"

	"golang.org/x/sys/windows"

	"javelin/trace"
)

// platformAlloc backs an off-heap allocation with VirtualAlloc, the
// Windows counterpart to the POSIX mmap path.
func platformAlloc(size int) (uintptr, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return 0, err
	}
	return addr, nil
}

func platformFree(addr uintptr, size int) error {
	return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}

// ConnectLibrary loads a native library by path, the same
// ConnectLibrary entry point the teacher lineage's osBridgeWindows.go
// exposes for native-method resolution.
func ConnectLibrary(libPath string) (uintptr, error) {
	handle, err := windows.LoadLibrary(libPath)
	if err != nil {
		errMsg := fmt.Sprintf("ConnectLibrary: windows.LoadLibrary for [%s] failed, reason: %s", libPath, err.Error())
		trace.Error(errMsg)
		return 0, err
	}
	return uintptr(handle), nil
}
