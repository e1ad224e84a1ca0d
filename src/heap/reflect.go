/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package heap

import (
	"fmt"

	"javelin/types"
)

// ReflectMethod lazily synthesizes (and memoizes) a java/lang/reflect/Method
// mirror for owner.name(descriptor) (spec.md §4.15 supplement).
func (h *Heap) ReflectMethod(owner, name, descriptor string) (uint64, error) {
	key := reflectKey{owner, name, descriptor}
	h.mu.Lock()
	if ref, ok := h.reflectMethods[key]; ok {
		h.mu.Unlock()
		return ref, nil
	}
	h.mu.Unlock()

	cf, err := h.Loader.Get(owner)
	if err != nil {
		return 0, err
	}
	m := cf.FindOwnMethod(name, descriptor)
	if m == nil {
		return 0, fmt.Errorf("NoSuchMethodException: %s.%s%s", owner, name, descriptor)
	}
	md, err := types.ParseMethodDescriptor(descriptor)
	if err != nil {
		return 0, err
	}

	obj, err := h.AllocObj("java/lang/reflect/Method")
	if err != nil {
		return 0, err
	}
	if err := h.populateMemberMirror(obj, owner, name, m.AccessFlags); err != nil {
		return 0, err
	}
	paramsRef, err := h.classArrayOf(paramDescriptors(md))
	if err != nil {
		return 0, err
	}
	obj.setField("parameterTypes", types.ArrayRef(paramsRef), "[Ljava/lang/Class;")

	retName := returnTypeClassName(md.ReturnType)
	retRef, err := h.AllocClassObj(retName)
	if err != nil {
		return 0, err
	}
	obj.setField("returnType", types.ObjectRef(retRef), "Ljava/lang/Class;")

	h.mu.Lock()
	h.reflectMethods[key] = obj.Ref
	h.mu.Unlock()
	return obj.Ref, nil
}

// ReflectConstructor mirrors ReflectMethod for <init>, with no returnType.
func (h *Heap) ReflectConstructor(owner, descriptor string) (uint64, error) {
	key := reflectKey{owner, "<init>", descriptor}
	h.mu.Lock()
	if ref, ok := h.reflectCtors[key]; ok {
		h.mu.Unlock()
		return ref, nil
	}
	h.mu.Unlock()

	cf, err := h.Loader.Get(owner)
	if err != nil {
		return 0, err
	}
	m := cf.FindOwnMethod("<init>", descriptor)
	if m == nil {
		return 0, fmt.Errorf("NoSuchMethodException: %s.<init>%s", owner, descriptor)
	}
	md, err := types.ParseMethodDescriptor(descriptor)
	if err != nil {
		return 0, err
	}

	obj, err := h.AllocObj("java/lang/reflect/Constructor")
	if err != nil {
		return 0, err
	}
	if err := h.populateMemberMirror(obj, owner, "<init>", m.AccessFlags); err != nil {
		return 0, err
	}
	paramsRef, err := h.classArrayOf(paramDescriptors(md))
	if err != nil {
		return 0, err
	}
	obj.setField("parameterTypes", types.ArrayRef(paramsRef), "[Ljava/lang/Class;")

	h.mu.Lock()
	h.reflectCtors[key] = obj.Ref
	h.mu.Unlock()
	return obj.Ref, nil
}

// ReflectField mirrors ReflectMethod for fields; modifiers come straight
// from the field's access flags, with no parameter/return decoration.
func (h *Heap) ReflectField(owner, name string) (uint64, error) {
	key := reflectKey{owner, name, ""}
	h.mu.Lock()
	if ref, ok := h.reflectFields[key]; ok {
		h.mu.Unlock()
		return ref, nil
	}
	h.mu.Unlock()

	cf, err := h.Loader.Get(owner)
	if err != nil {
		return 0, err
	}
	f, _ := cf.FindOwnField(name)
	if f == nil {
		return 0, fmt.Errorf("NoSuchFieldException: %s.%s", owner, name)
	}

	obj, err := h.AllocObj("java/lang/reflect/Field")
	if err != nil {
		return 0, err
	}
	if err := h.populateMemberMirror(obj, owner, name, f.AccessFlags); err != nil {
		return 0, err
	}

	h.mu.Lock()
	h.reflectFields[key] = obj.Ref
	h.mu.Unlock()
	return obj.Ref, nil
}

func (h *Heap) populateMemberMirror(obj *ObjectInstance, owner, name string, accessFlags int) error {
	classRef, err := h.AllocClassObj(owner)
	if err != nil {
		return err
	}
	nameRef, err := h.AllocString(name)
	if err != nil {
		return err
	}
	obj.setField("clazz", types.ObjectRef(classRef), "Ljava/lang/Class;")
	obj.setField("name", types.ObjectRef(nameRef), "Ljava/lang/String;")
	obj.setField("modifiers", types.Int(int32(accessFlags)), "I")
	return nil
}

func paramDescriptors(md types.MethodDescriptor) []string {
	out := make([]string, len(md.Params))
	for i, p := range md.Params {
		out[i] = p.Descriptor
	}
	return out
}

func (h *Heap) classArrayOf(descriptors []string) (uint64, error) {
	elems := make([]types.Value, len(descriptors))
	for i, d := range descriptors {
		ref, err := h.AllocClassObj(returnTypeClassName(d))
		if err != nil {
			return 0, err
		}
		elems[i] = types.ObjectRef(ref)
	}
	arr, err := h.AllocArray("[Ljava/lang/Class;", elems, 0)
	if err != nil {
		return 0, err
	}
	return arr.Ref, nil
}

// returnTypeClassName maps a field descriptor to the class name
// AllocClassObj expects: primitives and arrays pass through as-is,
// object references are unwrapped to their plain class name.
func returnTypeClassName(desc string) string {
	if desc == "" {
		return "void"
	}
	if cn, ok := types.ClassNameFromReferenceDescriptor(desc); ok {
		return cn
	}
	return desc
}
