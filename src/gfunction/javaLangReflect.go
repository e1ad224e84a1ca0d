/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package gfunction

import (
	"javelin/excNames"
	"javelin/types"
)

// loadLangReflect registers the reflection natives that actually reach
// heap's Reflect*/populateMemberMirror synthesis (SPEC_FULL §4.15):
// Class.getDeclaredField0 produces the mirror, Field.get/Field.set read
// and write through it.
func loadLangReflect() {
	MethodSignatures[Key("java/lang/Class", "getDeclaredField0", "(Ljava/lang/String;)Ljava/lang/reflect/Field;")] = GMeth{ParamSlots: 2, GFunction: classGetDeclaredField0}
	MethodSignatures[Key("java/lang/reflect/Field", "get", "(Ljava/lang/Object;)Ljava/lang/Object;")] = GMeth{ParamSlots: 2, GFunction: fieldGet}
	MethodSignatures[Key("java/lang/reflect/Field", "set", "(Ljava/lang/Object;Ljava/lang/Object;)V")] = GMeth{ParamSlots: 3, GFunction: fieldSet}
}

func classGetDeclaredField0(ctx NativeContext, params []types.Value) interface{} {
	self, nameArg := params[0], params[1]
	internal, err := classMirrorInternalName(ctx, self)
	if err != nil {
		return getGErrBlk(excNames.IllegalStateException, err.Error())
	}
	fname, err := ctx.Heap().StringValue(nameArg.Ref)
	if err != nil {
		return getGErrBlk(excNames.NullPointerException, "getDeclaredField0: null name")
	}
	ref, err := ctx.Heap().ReflectField(internal, fname)
	if err != nil {
		return getGErrBlk(excNames.NoSuchFieldException, err.Error())
	}
	return types.ObjectRef(ref)
}

func fieldGet(ctx NativeContext, params []types.Value) interface{} {
	self, target := params[0], params[1]
	fname, err := reflectMirrorName(ctx, self)
	if err != nil {
		return getGErrBlk(excNames.IllegalStateException, err.Error())
	}
	if target.Tag != types.TagObjectRef {
		return getGErrBlk(excNames.NullPointerException, "Field.get: null target")
	}
	v, err := ctx.Heap().GetField(target.Ref, fname)
	if err != nil {
		return getGErrBlk(excNames.IllegalArgumentException, err.Error())
	}
	return v
}

func fieldSet(ctx NativeContext, params []types.Value) interface{} {
	self, target, value := params[0], params[1], params[2]
	fname, err := reflectMirrorName(ctx, self)
	if err != nil {
		return getGErrBlk(excNames.IllegalStateException, err.Error())
	}
	if target.Tag != types.TagObjectRef {
		return getGErrBlk(excNames.NullPointerException, "Field.set: null target")
	}
	if err := ctx.Heap().SetField(target.Ref, fname, value); err != nil {
		return getGErrBlk(excNames.IllegalArgumentException, err.Error())
	}
	return nil
}

// classMirrorInternalName reads the slash-form class name a
// java/lang/Class mirror carries in its "name" field.
func classMirrorInternalName(ctx NativeContext, classMirror types.Value) (string, error) {
	nameRef, err := ctx.Heap().GetField(classMirror.Ref, "name")
	if err != nil {
		return "", err
	}
	return ctx.Heap().StringValue(nameRef.Ref)
}

// reflectMirrorName reads the member name a Field/Method/Constructor
// mirror carries in its "name" field.
func reflectMirrorName(ctx NativeContext, mirror types.Value) (string, error) {
	nameRef, err := ctx.Heap().GetField(mirror.Ref, "name")
	if err != nil {
		return "", err
	}
	return ctx.Heap().StringValue(nameRef.Ref)
}
