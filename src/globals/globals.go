/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

// Package globals consolidates the engine's mutable process-wide state
// into a single struct passed by reference, per spec.md §9's guidance to
// avoid true package-level globals for things like the current thread or
// the boot loader's unnamed module.
package globals

import (
	"os"
	"sync"
)

// Globals is the single VM context. Every other package that would
// otherwise reach for a package-level variable holds a *Globals instead.
type Globals struct {
	VMName string

	// environment variables consulted at bootstrap (spec.md §6)
	JavaHome   string // JHOME
	JmodsDir   string // JMODS
	UserHome   string // JUHOME
	UserDir    string // JUDIR
	TmpDir     string // JTMPDIR
	LibPath    string // JLIB

	StartingJar string
	StrictJDK   bool

	TraceClass  bool
	TraceCloadi bool

	// FuncThrowException lets lower layers (e.g. classloader) raise a Java
	// exception without importing the interpreter package (which would be
	// a cycle); the interpreter installs its real implementation during
	// bootstrap.
	FuncThrowException func(excName int, msg string)
}

var (
	mu  sync.Mutex
	ref *Globals
)

// InitGlobals creates the single Globals instance, seeding it from the
// environment variables named in spec.md §6, and returns it. Safe to call
// more than once (e.g. from tests); each call replaces the prior instance.
func InitGlobals(vmName string) *Globals {
	mu.Lock()
	defer mu.Unlock()
	g := &Globals{
		VMName:              vmName,
		JavaHome:            os.Getenv("JHOME"),
		JmodsDir:            os.Getenv("JMODS"),
		UserHome:            os.Getenv("JUHOME"),
		UserDir:             os.Getenv("JUDIR"),
		TmpDir:              envOrDefault("JTMPDIR", "/tmp"),
		LibPath:             os.Getenv("JLIB"),
		FuncThrowException: func(int, string) {},
	}
	ref = g
	return g
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// GetGlobalRef returns the current Globals, lazily creating one if tests
// or callers skipped InitGlobals.
func GetGlobalRef() *Globals {
	mu.Lock()
	defer mu.Unlock()
	if ref == nil {
		mu.Unlock()
		InitGlobals("javelin")
		mu.Lock()
	}
	return ref
}
