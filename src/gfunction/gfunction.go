/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

// Package gfunction is the native dispatch trampoline (SPEC_FULL §4.13):
// a registry mapping "owner/Class.name(descriptor)returnType" to a
// host-implemented Go function, the same MethodSignatures/GMeth shape
// the teacher's gfunction package uses, adapted from []interface{}
// boxing to the engine's typed types.Value and given a NativeContext so
// natives can reach the heap and loader without a global singleton.
package gfunction

import (
	"javelin/classloader"
	"javelin/excNames"
	"javelin/frames"
	"javelin/globals"
	"javelin/heap"
	"javelin/nativemem"
	"javelin/types"
)

// NativeContext is the surface a native method body needs. interpreter.VM
// implements this, avoiding an import cycle between gfunction and
// interpreter (natives call back into allocation/loading, never into
// the opcode dispatcher itself).
type NativeContext interface {
	Heap() *heap.Heap
	Loader() *classloader.Loader
	Frames() *frames.Stack
	Globals() *globals.Globals
	NativeMem() *nativemem.Registry
}

// GErrBlk reports a Java-visible exception a native raised, mirroring
// the teacher's error-block convention: GFunction's return value is
// either nil (void), a types.Value, or a *GErrBlk.
type GErrBlk struct {
	ExceptionType excNames.ExceptionCode
	ErrMsg        string
}

func getGErrBlk(excType excNames.ExceptionCode, msg string) *GErrBlk {
	return &GErrBlk{ExceptionType: excType, ErrMsg: msg}
}

// GMeth is one native method's registration: how many operand-stack
// slots the interpreter pops to build its argument vector, and the
// Go function implementing it.
type GMeth struct {
	ParamSlots int
	GFunction  func(ctx NativeContext, params []types.Value) interface{}
}

// MethodSignatures is the trampoline's lookup table, keyed exactly the
// way the teacher keys it: "owner/Class.name(descriptor)returnType".
var MethodSignatures = map[string]GMeth{}

// justReturn is the teacher's no-op native body, used for methods whose
// only job is to satisfy the JVM's expectation that registerNatives et
// al. exist.
func justReturn(ctx NativeContext, params []types.Value) interface{} {
	return nil
}

// Key builds a MethodSignatures lookup key from a method's identity.
// descriptor is the full method descriptor, e.g. "(J)V".
func Key(owner, name, descriptor string) string {
	return owner + "." + name + descriptor
}

func init() {
	loadLangString()
	loadLangStringBuilder()
	loadLangThread()
	loadIoInputStreamReader()
	loadUtilHashMap()
	loadLangClass()
	loadLangReflect()
	loadLangSystem()
	loadUnsafe()
	loadMethodHandleNatives()
	loadLangModule()
	loadMiscScopedMemoryAccess()
}
