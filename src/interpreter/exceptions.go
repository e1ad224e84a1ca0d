/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"fmt"

	"javelin/excNames"
	"javelin/internalerror"
	"javelin/types"
)

// throwNamed allocates a standard-library exception object with the
// given detail message and drives it through the exception-table
// search, matching what the `athrow` opcode does for a Java-thrown
// object (spec.md §4.7, §7).
func (vm *VM) throwNamed(code excNames.ExceptionCode, detail string) error {
	ref, err := vm.newException(code, detail)
	if err != nil {
		return err
	}
	return vm.handleThrow(ref)
}

func (vm *VM) newException(code excNames.ExceptionCode, detail string) (uint64, error) {
	className := excNames.JavaClassNameOf(code)
	if className == "" {
		return 0, internalerror.NewGeneral(fmt.Sprintf("unknown exception code %d", code))
	}
	obj, err := vm.H.AllocObj(className)
	if err != nil {
		return 0, internalerror.NewGeneral(fmt.Sprintf("cannot allocate %s: %v", className, err))
	}
	if detail != "" {
		if msgRef, err := vm.H.AllocString(detail); err == nil {
			_ = vm.H.SetField(obj.Ref, "detailMessage", types.ObjectRef(msgRef))
		}
	}
	return obj.Ref, nil
}

// handleThrow implements spec.md §4.7's search: walk from the top frame
// downward looking for an exception-table entry whose range covers the
// faulting pc and whose catch type is a supertype of (or finally for)
// the thrown object's class. A frame marked Native is a host-call
// boundary (§4.7's "stop_at" bounded-unwind variant): it never matches
// and, once reached, the search stops there rather than unwinding past
// it, surfacing the exception to the host as a *JavaException.
func (vm *VM) handleThrow(ref uint64) error {
	excClass := vm.runtimeClassName(ref)
	for {
		f, err := vm.F.Top()
		if err != nil {
			return vm.javaException(ref)
		}
		if f.Native {
			_ = vm.F.PopFrame()
			return vm.javaException(ref)
		}
		for _, et := range f.Exceptions {
			if et.StartPc <= f.OpStart && f.OpStart <= et.EndPc {
				if et.CatchType == "" || vm.checkType(et.CatchType, excClass) {
					f.OperandTOS = -1
					_ = f.Push(types.ObjectRef(ref))
					f.PC = et.HandlerPc
					return nil
				}
			}
		}
		_ = vm.F.PopFrame()
	}
}
