/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package gfunction

import (
	"javelin/classloader"
	"javelin/excNames"
	"javelin/types"
)

// loadLangModule registers java/lang/Module's native surface (spec.md
// §6: defineModule0/addReads0/addExports0/addExportsToAll0), delegating
// straight into the classloader's ModuleManager (SPEC_FULL §4.14).
func loadLangModule() {
	MethodSignatures[Key("java/lang/Module", "defineModule0", "(Ljava/lang/Module;ZLjava/lang/String;Ljava/lang/String;[Ljava/lang/String;)V")] = GMeth{ParamSlots: 5, GFunction: moduleDefineModule0}
	MethodSignatures[Key("java/lang/Module", "addReads0", "(Ljava/lang/Module;Ljava/lang/Module;)V")] = GMeth{ParamSlots: 2, GFunction: moduleAddReads0}
	MethodSignatures[Key("java/lang/Module", "addExports0", "(Ljava/lang/Module;Ljava/lang/String;Ljava/lang/Module;)V")] = GMeth{ParamSlots: 3, GFunction: moduleAddExports0}
	MethodSignatures[Key("java/lang/Module", "addExportsToAll0", "(Ljava/lang/Module;Ljava/lang/String;)V")] = GMeth{ParamSlots: 2, GFunction: moduleAddExportsToAll0}
}

func moduleName(ctx NativeContext, moduleMirror types.Value) (string, *GErrBlk) {
	nameField, err := ctx.Heap().GetField(moduleMirror.Ref, "name")
	if err != nil {
		return "", getGErrBlk(excNames.IllegalStateException, err.Error())
	}
	name, err := ctx.Heap().StringValue(nameField.Ref)
	if err != nil {
		return "", getGErrBlk(excNames.IllegalStateException, err.Error())
	}
	return name, nil
}

func moduleDefineModule0(ctx NativeContext, params []types.Value) interface{} {
	moduleMirror, location := params[0], params[2]
	name, errBlk := moduleName(ctx, moduleMirror)
	if errBlk != nil {
		return errBlk
	}
	loc, err := ctx.Heap().StringValue(location.Ref)
	if err != nil {
		loc = ""
	}
	mod := classloader.NewModule(name, loc)
	if pkgs := params[4]; pkgs.Tag == types.TagArrayRef {
		if arr, ok := ctx.Heap().GetArray(pkgs.Ref); ok {
			for _, el := range arr.Elements {
				if pkg, err := ctx.Heap().StringValue(el.Ref); err == nil {
					mod.Packages = append(mod.Packages, types.ToInternalName(pkg))
				}
			}
		}
	}
	ctx.Loader().Modules.DefineModule(mod)
	return nil
}

func moduleAddReads0(ctx NativeContext, params []types.Value) interface{} {
	from, to := params[0], params[1]
	fromName, errBlk := moduleName(ctx, from)
	if errBlk != nil {
		return errBlk
	}
	toName, errBlk := moduleName(ctx, to)
	if errBlk != nil {
		return errBlk
	}
	if err := ctx.Loader().Modules.AddReads(fromName, toName); err != nil {
		return getGErrBlk(excNames.LinkageError, err.Error())
	}
	return nil
}

func moduleAddExports0(ctx NativeContext, params []types.Value) interface{} {
	from, pkg, to := params[0], params[1], params[2]
	fromName, errBlk := moduleName(ctx, from)
	if errBlk != nil {
		return errBlk
	}
	pkgName, err := ctx.Heap().StringValue(pkg.Ref)
	if err != nil {
		return getGErrBlk(excNames.IllegalArgumentException, err.Error())
	}
	toName, errBlk := moduleName(ctx, to)
	if errBlk != nil {
		return errBlk
	}
	if err := ctx.Loader().Modules.AddExports(fromName, pkgName, toName); err != nil {
		return getGErrBlk(excNames.LinkageError, err.Error())
	}
	return nil
}

func moduleAddExportsToAll0(ctx NativeContext, params []types.Value) interface{} {
	from, pkg := params[0], params[1]
	fromName, errBlk := moduleName(ctx, from)
	if errBlk != nil {
		return errBlk
	}
	pkgName, err := ctx.Heap().StringValue(pkg.Ref)
	if err != nil {
		return getGErrBlk(excNames.IllegalArgumentException, err.Error())
	}
	if err := ctx.Loader().Modules.AddExportsToAll(fromName, pkgName); err != nil {
		return getGErrBlk(excNames.LinkageError, err.Error())
	}
	return nil
}
