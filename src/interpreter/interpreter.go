/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

// Package interpreter is the execution core (spec.md §4.5-§4.12): the
// frame-stack driver, the full opcode dispatch table, exception-table
// search, the class-initialization state machine, the subtype
// predicate, and method-handle/invokedynamic support. VM is the single
// object every one of those pieces hangs off, and it also satisfies
// gfunction.NativeContext so the native trampoline can call back into
// allocation and loading without an import cycle.
package interpreter

import (
	"fmt"

	"javelin/classloader"
	"javelin/excNames"
	"javelin/frames"
	"javelin/globals"
	"javelin/gfunction"
	"javelin/heap"
	"javelin/internalerror"
	"javelin/nativemem"
	"javelin/trace"
	"javelin/types"
)

// VM is the engine's single mutable execution context: the class loader,
// the heap, the live frame stack, and the process-wide Globals, per
// spec.md §9's "consolidate on a single VM context struct" note.
type VM struct {
	L *classloader.Loader
	H *heap.Heap
	F *frames.Stack
	G *globals.Globals

	// monitors tracks the monitorenter/monitorexit counter per object
	// reference; the engine is single-threaded cooperative (spec.md §5)
	// so this never actually blocks.
	monitors map[uint64]int

	// callSites memoizes invokedynamic call-site resolution, keyed by
	// (class, enclosing method, bytecode pc) per spec.md §4.10.
	callSites map[callSiteKey]uint64

	// mem backs Unsafe's off-heap allocation natives (allocateMemory0,
	// freeMemory0, getByte/putByte, setMemory0): one registry per VM so
	// a pointer handed out by one engine instance can't validate against
	// another's live allocations.
	mem *nativemem.Registry
}

type callSiteKey struct {
	class, method string
	pc            int
}

// NewVM wires a fresh execution context around an already-populated
// loader and heap, and installs the Globals hook that lets lower layers
// raise a Java exception without importing this package.
func NewVM(l *classloader.Loader, h *heap.Heap, g *globals.Globals) *VM {
	vm := &VM{
		L:         l,
		H:         h,
		F:         frames.NewStack(),
		G:         g,
		monitors:  make(map[uint64]int),
		callSites: make(map[callSiteKey]uint64),
		mem:       nativemem.NewRegistry(),
	}
	g.FuncThrowException = func(excCode int, msg string) {
		_ = vm.throwNamed(excNames.ExceptionCode(excCode), msg)
	}
	return vm
}

// gfunction.NativeContext

func (vm *VM) Heap() *heap.Heap               { return vm.H }
func (vm *VM) Loader() *classloader.Loader    { return vm.L }
func (vm *VM) Frames() *frames.Stack          { return vm.F }
func (vm *VM) Globals() *globals.Globals      { return vm.G }
func (vm *VM) NativeMem() *nativemem.Registry { return vm.mem }

// JavaException is the Go-visible form of an unhandled Java exception
// that unwound past every frame (or past a host-call boundary), the
// error callers of Call see when the exception-table search (§4.7)
// found no match.
type JavaException struct {
	Ref       uint64
	ClassName string
	Message   string
}

func (e *JavaException) Error() string {
	if e.Message != "" {
		return e.ClassName + ": " + e.Message
	}
	return e.ClassName
}

func (vm *VM) javaException(ref uint64) error {
	className := vm.runtimeClassName(ref)
	msg := ""
	if m, err := vm.H.GetField(ref, "detailMessage"); err == nil && m.Tag == types.TagObjectRef {
		if s, err := vm.H.StringValue(m.Ref); err == nil {
			msg = s
		}
	}
	return &JavaException{Ref: ref, ClassName: className, Message: msg}
}

func (vm *VM) runtimeClassName(ref uint64) string {
	if obj, ok := vm.H.GetObject(ref); ok {
		return obj.ClassName
	}
	if arr, ok := vm.H.GetArray(ref); ok {
		return arr.Descriptor
	}
	return ""
}

// Call is the host-initiated call-and-resolve entry point (§4.7's
// bounded-unwind "stop_at" caller, §4.8's <clinit> driver, and the JDK
// bootstrap path all go through this). It resolves (owner, name,
// descriptor), drives class initialization for static calls, invokes
// the method, and blocks until the method (and anything it calls)
// completes, returning its result or surfacing an unhandled Java
// exception as a *JavaException.
func (vm *VM) Call(owner, name, descriptor string, args []types.Value) (types.Value, error) {
	resolved, err := vm.L.Find(owner, name, descriptor, true)
	if err != nil {
		return types.None(), internalerror.NewMethodNotFound(fmt.Sprintf("%s.%s%s: %v", owner, name, descriptor, err))
	}
	if resolved.Method.IsStatic() {
		if err := vm.initClass(resolved.DeclaringClass); err != nil {
			return types.None(), err
		}
	}
	return vm.invokeResolved(resolved.DeclaringClass, resolved.Method, args)
}

// invokeResolved pushes (or, for natives, directly executes) a call to
// an already-resolved method and blocks until it completes, via a
// lightweight host frame that stands in for "whatever called this" so
// the ordinary return-opcode handling (doReturn) has somewhere to push
// the result.
func (vm *VM) invokeResolved(owner string, m *classloader.Method, args []types.Value) (types.Value, error) {
	if m.IsNative() {
		return vm.callNative(owner, m, args)
	}
	if m.Code == nil {
		return types.None(), internalerror.NewGeneral(fmt.Sprintf("abstract or codeless method invoked: %s.%s%s", owner, m.Name, m.Descriptor))
	}
	cf, err := vm.L.Get(owner)
	if err != nil {
		return types.None(), internalerror.NewGeneral(err.Error())
	}

	host := frames.NewFrame(2, 0)
	host.ClassName = owner
	host.MethodName = "<host>"
	host.Native = true
	if err := vm.F.PushFrame(host); err != nil {
		return types.None(), internalerror.NewFrameNotFound(err.Error())
	}

	callee := frames.NewFrame(m.Code.MaxStack+2, m.Code.MaxLocals)
	callee.ClassName = owner
	callee.MethodName = m.Name
	callee.Descriptor = m.Descriptor
	callee.Code = m.Code.Code
	callee.CP = cf.CP
	callee.Exceptions = m.Code.Exceptions
	placeLocals(callee, args)
	if err := vm.F.PushFrame(callee); err != nil {
		return types.None(), internalerror.NewFrameNotFound(err.Error())
	}

	depth := vm.F.Len()
	for vm.F.Len() >= depth {
		if err := vm.step(); err != nil {
			return types.None(), err
		}
	}

	ret := types.None()
	if v, err := host.Pop(); err == nil {
		ret = v
	}
	_ = vm.F.PopFrame() // discard host
	return ret, nil
}

// placeLocals lays args (already in left-to-right order, receiver
// first for instance calls) into a fresh frame's local-variable slots,
// advancing by each value's category so long/double arguments occupy
// their two slots (spec.md §4.6 "Argument popping": "the final
// local-vector is left-to-right").
func placeLocals(f *frames.Frame, args []types.Value) {
	slot := 0
	for _, a := range args {
		_ = f.SetLocal(slot, a)
		cat := a.Category()
		if cat == 0 {
			cat = 1
		}
		slot += cat
	}
}

func (vm *VM) callNative(owner string, m *classloader.Method, args []types.Value) (types.Value, error) {
	key := gfunction.Key(owner, m.Name, m.Descriptor)
	gm, ok := gfunction.MethodSignatures[key]
	if !ok {
		return types.None(), internalerror.NewNativeNotImplemented(owner, m.Name, m.Descriptor)
	}
	result := gm.GFunction(vm, args)
	switch r := result.(type) {
	case nil:
		return types.None(), nil
	case types.Value:
		return r, nil
	case *gfunction.GErrBlk:
		return types.None(), vm.throwNamed(r.ExceptionType, r.ErrMsg)
	default:
		return types.None(), internalerror.NewGeneral(fmt.Sprintf("native %s returned unexpected type %T", key, result))
	}
}

func (vm *VM) traceInst(f *frames.Frame, op byte) {
	if vm.G == nil || !vm.G.TraceClass {
		return
	}
	_ = trace.Trace(fmt.Sprintf("%s.%s%s pc=%d op=0x%02x", f.ClassName, f.MethodName, f.Descriptor, f.OpStart, op))
}
