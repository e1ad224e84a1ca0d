/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"fmt"

	"javelin/internalerror"
	"javelin/types"
)

// initClass drives spec.md §4.8's six-step class-initialization state
// machine, replacing the teacher's runInitializationBlock/
// runJavaInitializer superclass-chain walk with one recursive function
// over the loader's ClassFile.IsInit flag.
func (vm *VM) initClass(name string) error {
	cf, err := vm.L.Get(name)
	if err != nil {
		return internalerror.NewGeneral(fmt.Sprintf("initClass(%s): %v", name, err))
	}
	if cf.IsInit {
		return nil
	}
	if cf.SuperClassName != "" && cf.SuperClassName != types.ObjectClassName {
		if err := vm.initClass(cf.SuperClassName); err != nil {
			return err
		}
	}
	if cf.IsInit {
		// a superclass's <clinit> re-entered this class (a cycle); the
		// recursive call above already finished it.
		return nil
	}
	cf.IsInit = true

	if _, err := vm.H.AllocClassObj(name); err != nil {
		return internalerror.NewGeneral(fmt.Sprintf("initClass(%s): mirror: %v", name, err))
	}

	if m := cf.FindOwnMethod("<clinit>", "()V"); m != nil {
		if _, err := vm.invokeResolved(name, m, nil); err != nil {
			return err
		}
	}
	return nil
}
