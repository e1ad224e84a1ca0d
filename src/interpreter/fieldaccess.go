/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"fmt"

	"javelin/classloader"
	"javelin/excNames"
	"javelin/frames"
	"javelin/internalerror"
	"javelin/types"
)

// findStaticOwner walks owner's superclass chain for the class that
// actually declares name as a static field, since StaticFields storage
// (spec.md §3 invariant c) lives only on the declaring class, not every
// subclass that inherits visibility to it.
func (vm *VM) findStaticOwner(owner, name string) (string, error) {
	cf, err := vm.L.Get(owner)
	if err != nil {
		return "", err
	}
	if field, _ := cf.FindOwnField(name); field != nil && field.IsStatic() {
		return cf.ThisClassName, nil
	}
	if cf.SuperClassName != "" {
		return vm.findStaticOwner(cf.SuperClassName, name)
	}
	return "", fmt.Errorf("NoSuchFieldException: %s.%s", owner, name)
}

func staticSlot(cf *classloader.ClassFile, name, descriptor string) *classloader.StaticSlot {
	if cf.StaticFields == nil {
		cf.StaticFields = make(map[string]*classloader.StaticSlot)
	}
	slot, ok := cf.StaticFields[name]
	if !ok {
		slot = &classloader.StaticSlot{Descriptor: descriptor, Value: types.FieldDescriptorDefault(descriptor)}
		cf.StaticFields[name] = slot
	}
	return slot
}

func (vm *VM) getstatic(f *frames.Frame) error {
	idx := vm.u16(f)
	owner, name, descriptor, err := f.CP.ResolveFieldRef(idx)
	if err != nil {
		return internalerror.NewFieldNotFound(err.Error())
	}
	if err := vm.initClass(owner); err != nil {
		return vm.rethrowAsSearch(err)
	}
	declClass, err := vm.findStaticOwner(owner, name)
	if err != nil {
		return internalerror.NewFieldNotFound(err.Error())
	}
	cf, err := vm.L.Get(declClass)
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	slot := staticSlot(cf, name, descriptor)
	v, ok := slot.Value.(types.Value)
	if !ok {
		return internalerror.NewGeneral(fmt.Sprintf("getstatic: malformed static slot %s.%s", declClass, name))
	}
	return f.Push(v)
}

func (vm *VM) putstatic(f *frames.Frame) error {
	idx := vm.u16(f)
	owner, name, descriptor, err := f.CP.ResolveFieldRef(idx)
	if err != nil {
		return internalerror.NewFieldNotFound(err.Error())
	}
	if err := vm.initClass(owner); err != nil {
		return vm.rethrowAsSearch(err)
	}
	v, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	declClass, err := vm.findStaticOwner(owner, name)
	if err != nil {
		return internalerror.NewFieldNotFound(err.Error())
	}
	cf, err := vm.L.Get(declClass)
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	staticSlot(cf, name, descriptor).Value = v
	return nil
}

func (vm *VM) getfield(f *frames.Frame) error {
	idx := vm.u16(f)
	_, name, _, err := f.CP.ResolveFieldRef(idx)
	if err != nil {
		return internalerror.NewFieldNotFound(err.Error())
	}
	objv, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	if objv.Tag == types.TagNull {
		return vm.throwNamed(excNames.NullPointerException, "getfield: null")
	}
	v, err := vm.H.GetField(objv.Ref, name)
	if err != nil {
		return vm.throwNamed(excNames.NoSuchFieldException, err.Error())
	}
	return f.Push(v)
}

func (vm *VM) putfield(f *frames.Frame) error {
	idx := vm.u16(f)
	_, name, _, err := f.CP.ResolveFieldRef(idx)
	if err != nil {
		return internalerror.NewFieldNotFound(err.Error())
	}
	v, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	objv, err := f.Pop()
	if err != nil {
		return wrapErr(err)
	}
	if objv.Tag == types.TagNull {
		return vm.throwNamed(excNames.NullPointerException, "putfield: null")
	}
	if err := vm.H.SetField(objv.Ref, name, v); err != nil {
		return vm.throwNamed(excNames.NoSuchFieldException, err.Error())
	}
	return nil
}
