/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"javelin/classloader"
	"javelin/frames"
	"javelin/internalerror"
	"javelin/types"
)

// invokeDynamic drives spec.md §4.10's four-step call-site protocol,
// memoized per (class, enclosing method, pc) so the bootstrap method
// runs exactly once for a given bytecode site (testable property:
// "invokedynamic memoization").
func (vm *VM) invokeDynamic(f *frames.Frame) error {
	idx := vm.u16(f)
	_ = vm.u16(f) // two reserved zero bytes

	key := callSiteKey{class: f.ClassName, method: f.MethodName + f.Descriptor, pc: f.OpStart}

	targetRef, ok := vm.callSites[key]
	if !ok {
		bootstrapIdx, _, descriptor, err := f.CP.ResolveInvokeDynamic(idx)
		if err != nil {
			return internalerror.NewGeneral(err.Error())
		}
		cf, err := vm.L.Get(f.ClassName)
		if err != nil {
			return internalerror.NewGeneral(err.Error())
		}
		if bootstrapIdx < 0 || bootstrapIdx >= len(cf.Bootstraps) {
			return internalerror.NewGeneral("invokedynamic: bootstrap index out of range")
		}
		callSiteRef, err := vm.runBootstrap(f, cf.Bootstraps[bootstrapIdx], descriptor)
		if err != nil {
			return vm.rethrowAsSearch(err)
		}
		targetV, err := vm.H.GetField(callSiteRef, "target")
		if err != nil {
			return internalerror.NewGeneral(err.Error())
		}
		targetRef = targetV.Ref
		vm.callSites[key] = targetRef
	}

	_, _, descriptor, err := f.CP.ResolveInvokeDynamic(idx)
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	md, err := types.ParseMethodDescriptor(descriptor)
	if err != nil {
		return internalerror.NewGeneral(err.Error())
	}
	args, err := vm.popArgs(f, len(md.Params))
	if err != nil {
		return err
	}
	ret, err := vm.invokeMethodHandle(targetRef, args)
	if err != nil {
		return vm.rethrowAsSearch(err)
	}
	return vm.pushResult(f, ret)
}

// runBootstrap materializes the bootstrap call's argument vector
// (Lookup, name, MethodType, then one resolved value per static
// argument) and invokes the bootstrap method through the normal call
// path, returning the CallSite it produces.
func (vm *VM) runBootstrap(f *frames.Frame, bsm classloader.BootstrapMethod, callDescriptor string) (uint64, error) {
	refKind, owner, name, descriptor, err := f.CP.ResolveMethodHandle(bsm.MethodRefIndex)
	if err != nil {
		return 0, internalerror.NewGeneral(err.Error())
	}
	_ = refKind

	lookupRef, err := vm.newLookup(f.ClassName)
	if err != nil {
		return 0, err
	}
	nameStrRef, err := vm.H.AllocString(name)
	if err != nil {
		return 0, internalerror.NewGeneral(err.Error())
	}
	callTypeRef, err := vm.newMethodType(callDescriptor)
	if err != nil {
		return 0, err
	}

	bsmArgs := []types.Value{types.ObjectRef(lookupRef), types.ObjectRef(nameStrRef), types.ObjectRef(callTypeRef)}
	for _, argIdx := range bsm.Args {
		v, err := vm.resolveStaticArg(f, argIdx)
		if err != nil {
			return 0, err
		}
		bsmArgs = append(bsmArgs, v)
	}

	resolved, err := vm.L.Find(owner, name, descriptor, true)
	if err != nil {
		return 0, internalerror.NewMethodNotFound(err.Error())
	}
	paramCount, err := bsmParamCount(descriptor)
	if err != nil {
		return 0, internalerror.NewGeneral(err.Error())
	}
	if len(bsmArgs) < paramCount {
		emptyArr, err := vm.H.AllocArray("[Ljava/lang/Object;", nil, 0)
		if err != nil {
			return 0, internalerror.NewGeneral(err.Error())
		}
		bsmArgs = append(bsmArgs, types.ArrayRef(emptyArr.Ref))
	}

	if !resolved.Method.IsStatic() {
		bsmArgs = append([]types.Value{types.ObjectRef(lookupRef)}, bsmArgs...)
	}

	ret, err := vm.invokeResolved(resolved.DeclaringClass, resolved.Method, bsmArgs)
	if err != nil {
		return 0, err
	}
	if ret.Tag != types.TagObjectRef {
		return 0, internalerror.NewGeneral("bootstrap method did not return a CallSite")
	}
	return ret.Ref, nil
}

func bsmParamCount(descriptor string) (int, error) {
	md, err := types.ParseMethodDescriptor(descriptor)
	if err != nil {
		return 0, err
	}
	return len(md.Params), nil
}

func (vm *VM) resolveStaticArg(f *frames.Frame, cpIdx int) (types.Value, error) {
	entry, err := f.CP.ResolveIndex(cpIdx)
	if err != nil {
		return types.None(), internalerror.NewGeneral(err.Error())
	}
	switch entry.Tag {
	case classloader.CPInteger:
		return types.Int(entry.IntVal), nil
	case classloader.CPFloat:
		return types.Float(entry.FloatVal), nil
	case classloader.CPLong:
		return types.Long(entry.LongVal), nil
	case classloader.CPDouble:
		return types.Double(entry.DoubleVal), nil
	case classloader.CPString:
		s, err := f.CP.ResolveString(cpIdx)
		if err != nil {
			return types.None(), internalerror.NewGeneral(err.Error())
		}
		ref, err := vm.H.AllocString(s)
		if err != nil {
			return types.None(), internalerror.NewGeneral(err.Error())
		}
		return types.ObjectRef(ref), nil
	case classloader.CPClass:
		cn, err := f.CP.ResolveClassName(cpIdx)
		if err != nil {
			return types.None(), internalerror.NewGeneral(err.Error())
		}
		ref, err := vm.H.AllocClassObj(cn)
		if err != nil {
			return types.None(), internalerror.NewGeneral(err.Error())
		}
		return types.ObjectRef(ref), nil
	case classloader.CPMethodType:
		desc, err := f.CP.ResolveMethodType(cpIdx)
		if err != nil {
			return types.None(), internalerror.NewGeneral(err.Error())
		}
		ref, err := vm.newMethodType(desc)
		if err != nil {
			return types.None(), err
		}
		return types.ObjectRef(ref), nil
	case classloader.CPMethodHandle:
		_, owner, name, descriptor, err := f.CP.ResolveMethodHandle(cpIdx)
		if err != nil {
			return types.None(), internalerror.NewGeneral(err.Error())
		}
		resolved, err := vm.L.Find(owner, name, descriptor, true)
		if err != nil {
			return types.None(), internalerror.NewMethodNotFound(err.Error())
		}
		ref, err := vm.newDirectMethodHandle(resolved.DeclaringClass, name, descriptor, resolved.Method.IsStatic())
		if err != nil {
			return types.None(), err
		}
		return types.ObjectRef(ref), nil
	default:
		return types.None(), internalerror.NewGeneral("resolveStaticArg: unsupported constant tag")
	}
}

func (vm *VM) newLookup(className string) (uint64, error) {
	obj, err := vm.H.AllocObj("java/lang/invoke/MethodHandles$Lookup")
	if err != nil {
		return 0, internalerror.NewGeneral(err.Error())
	}
	mirror, err := vm.H.AllocClassObj(className)
	if err != nil {
		return 0, internalerror.NewGeneral(err.Error())
	}
	_ = vm.H.SetField(obj.Ref, "lookupClass", types.ObjectRef(mirror))
	return obj.Ref, nil
}

func (vm *VM) newMethodType(descriptor string) (uint64, error) {
	obj, err := vm.H.AllocObj("java/lang/invoke/MethodType")
	if err != nil {
		return 0, internalerror.NewGeneral(err.Error())
	}
	descRef, err := vm.H.AllocString(descriptor)
	if err != nil {
		return 0, internalerror.NewGeneral(err.Error())
	}
	_ = vm.H.SetField(obj.Ref, "descriptor", types.ObjectRef(descRef))
	return obj.Ref, nil
}

func (vm *VM) newMemberName(owner, name, descriptor string, isStatic bool) (uint64, error) {
	obj, err := vm.H.AllocObj(memberNameClass)
	if err != nil {
		return 0, internalerror.NewGeneral(err.Error())
	}
	nameRef, err := vm.H.AllocString(name)
	if err != nil {
		return 0, internalerror.NewGeneral(err.Error())
	}
	clazzRef, err := vm.H.AllocClassObj(owner)
	if err != nil {
		return 0, internalerror.NewGeneral(err.Error())
	}
	typeRef, err := vm.newMethodType(descriptor)
	if err != nil {
		return 0, err
	}
	flags := int32(0)
	if isStatic {
		flags |= mnStatic
	}
	_ = vm.H.SetField(obj.Ref, "name", types.ObjectRef(nameRef))
	_ = vm.H.SetField(obj.Ref, "clazz", types.ObjectRef(clazzRef))
	_ = vm.H.SetField(obj.Ref, "type", types.ObjectRef(typeRef))
	_ = vm.H.SetField(obj.Ref, "flags", types.Int(flags))
	return obj.Ref, nil
}

func (vm *VM) newDirectMethodHandle(owner, name, descriptor string, isStatic bool) (uint64, error) {
	memberRef, err := vm.newMemberName(owner, name, descriptor, isStatic)
	if err != nil {
		return 0, err
	}
	obj, err := vm.H.AllocObj(directMethodHandleClass)
	if err != nil {
		return 0, internalerror.NewGeneral(err.Error())
	}
	_ = vm.H.SetField(obj.Ref, "member", types.ObjectRef(memberRef))
	return obj.Ref, nil
}
