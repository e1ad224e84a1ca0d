/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package gfunction

import (
	"javelin/excNames"
	"javelin/types"
)

// loadLangClass registers java/lang/Class's native surface, the
// reflection entry points spec.md §6 names as load-bearing
// (getPrimitiveClass, forName0, isInstance).
func loadLangClass() {
	MethodSignatures[Key("java/lang/Class", "getPrimitiveClass", "(Ljava/lang/String;)Ljava/lang/Class;")] = GMeth{ParamSlots: 1, GFunction: classGetPrimitiveClass}
	MethodSignatures[Key("java/lang/Class", "forName0", "(Ljava/lang/String;ZLjava/lang/ClassLoader;Ljava/lang/Class;)Ljava/lang/Class;")] = GMeth{ParamSlots: 4, GFunction: classForName0}
	MethodSignatures[Key("java/lang/Class", "isInstance", "(Ljava/lang/Object;)Z")] = GMeth{ParamSlots: 2, GFunction: classIsInstance}
	MethodSignatures[Key("java/lang/Class", "getName", "()Ljava/lang/String;")] = GMeth{ParamSlots: 1, GFunction: classGetName}
}

func classGetPrimitiveClass(ctx NativeContext, params []types.Value) interface{} {
	name, err := ctx.Heap().StringValue(params[0].Ref)
	if err != nil {
		return getGErrBlk(excNames.NullPointerException, "getPrimitiveClass: null name")
	}
	prim, ok := primitiveDescriptorForName[name]
	if !ok {
		return getGErrBlk(excNames.ClassNotFoundException, "getPrimitiveClass: "+name)
	}
	ref, err := ctx.Heap().AllocClassObj(prim)
	if err != nil {
		return getGErrBlk(excNames.OutOfMemoryError, err.Error())
	}
	return types.ObjectRef(ref)
}

var primitiveDescriptorForName = map[string]string{
	"boolean": "Z", "byte": "B", "char": "C", "short": "S",
	"int": "I", "long": "J", "float": "F", "double": "D", "void": "V",
}

func classForName0(ctx NativeContext, params []types.Value) interface{} {
	name, err := ctx.Heap().StringValue(params[0].Ref)
	if err != nil {
		return getGErrBlk(excNames.NullPointerException, "forName0: null name")
	}
	internal := types.ToInternalName(name)
	if _, err := ctx.Loader().Get(internal); err != nil {
		return getGErrBlk(excNames.ClassNotFoundException, name)
	}
	ref, err := ctx.Heap().AllocClassObj(internal)
	if err != nil {
		return getGErrBlk(excNames.OutOfMemoryError, err.Error())
	}
	return types.ObjectRef(ref)
}

func classIsInstance(ctx NativeContext, params []types.Value) interface{} {
	classMirror, obj := params[0], params[1]
	if obj.Tag == types.TagNull {
		return types.Bool(false)
	}
	nameRef, err := ctx.Heap().GetField(classMirror.Ref, "name")
	if err != nil {
		return getGErrBlk(excNames.IllegalArgumentException, err.Error())
	}
	className, err := ctx.Heap().StringValue(nameRef.Ref)
	if err != nil {
		return getGErrBlk(excNames.IllegalArgumentException, err.Error())
	}
	inst, ok := ctx.Heap().GetObject(obj.Ref)
	if !ok {
		return types.Bool(false)
	}
	return types.Bool(ctx.Loader().IsSubclassOf(inst.ClassName, types.ToInternalName(className)) ||
		ctx.Loader().ImplementsInterface(inst.ClassName, types.ToInternalName(className)))
}

func classGetName(ctx NativeContext, params []types.Value) interface{} {
	self := params[0]
	nameRef, err := ctx.Heap().GetField(self.Ref, "name")
	if err != nil {
		return getGErrBlk(excNames.IllegalStateException, err.Error())
	}
	s, err := ctx.Heap().StringValue(nameRef.Ref)
	if err != nil {
		return getGErrBlk(excNames.IllegalStateException, err.Error())
	}
	return allocString(ctx, types.ToExternalName(s))
}
