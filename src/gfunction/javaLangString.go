/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package gfunction

import (
	"strings"

	"javelin/excNames"
	"javelin/types"
)

// loadLangString registers java/lang/String's native surface. Adapted
// from the teacher's Load_Lang_String, trimmed to the operations this
// engine's String model (a backing [B array on a java/lang/String
// instance, spec.md §4.4) actually needs, each rebuilt against
// NativeContext/types.Value instead of []interface{} boxing.
func loadLangString() {
	MethodSignatures[Key("java/lang/String", "<init>", "([B)V")] = GMeth{ParamSlots: 1, GFunction: stringInitFromBytes}
	MethodSignatures[Key("java/lang/String", "length", "()I")] = GMeth{ParamSlots: 0, GFunction: stringLength}
	MethodSignatures[Key("java/lang/String", "charAt", "(I)C")] = GMeth{ParamSlots: 1, GFunction: stringCharAt}
	MethodSignatures[Key("java/lang/String", "equals", "(Ljava/lang/Object;)Z")] = GMeth{ParamSlots: 1, GFunction: stringEquals}
	MethodSignatures[Key("java/lang/String", "hashCode", "()I")] = GMeth{ParamSlots: 0, GFunction: stringHashCode}
	MethodSignatures[Key("java/lang/String", "concat", "(Ljava/lang/String;)Ljava/lang/String;")] = GMeth{ParamSlots: 1, GFunction: stringConcat}
	MethodSignatures[Key("java/lang/String", "indexOf", "(Ljava/lang/String;)I")] = GMeth{ParamSlots: 1, GFunction: stringIndexOf}
	MethodSignatures[Key("java/lang/String", "substring", "(I)Ljava/lang/String;")] = GMeth{ParamSlots: 1, GFunction: stringSubstringFrom}
	MethodSignatures[Key("java/lang/String", "substring", "(II)Ljava/lang/String;")] = GMeth{ParamSlots: 2, GFunction: stringSubstringRange}
	MethodSignatures[Key("java/lang/String", "toUpperCase", "()Ljava/lang/String;")] = GMeth{ParamSlots: 0, GFunction: stringToUpperCase}
	MethodSignatures[Key("java/lang/String", "toLowerCase", "()Ljava/lang/String;")] = GMeth{ParamSlots: 0, GFunction: stringToLowerCase}
	MethodSignatures[Key("java/lang/String", "trim", "()Ljava/lang/String;")] = GMeth{ParamSlots: 0, GFunction: stringTrim}
	MethodSignatures[Key("java/lang/String", "startsWith", "(Ljava/lang/String;)Z")] = GMeth{ParamSlots: 1, GFunction: stringStartsWith}
	MethodSignatures[Key("java/lang/String", "isEmpty", "()Z")] = GMeth{ParamSlots: 0, GFunction: stringIsEmpty}
}

func stringInitFromBytes(ctx NativeContext, params []types.Value) interface{} {
	self, arr := params[0], params[1]
	bytes, ok := ctx.Heap().GetArray(arr.Ref)
	if !ok {
		return getGErrBlk(excNames.NullPointerException, "String(byte[]): null array")
	}
	backing, err := ctx.Heap().AllocArray("[B", bytes.Elements, 0)
	if err != nil {
		return getGErrBlk(excNames.OutOfMemoryError, err.Error())
	}
	if err := ctx.Heap().SetField(self.Ref, "value", types.ArrayRef(backing.Ref)); err != nil {
		return getGErrBlk(excNames.NullPointerException, err.Error())
	}
	return nil
}

func stringLength(ctx NativeContext, params []types.Value) interface{} {
	s, errBlk := selfString(ctx, params[0])
	if errBlk != nil {
		return errBlk
	}
	return types.Int(int32(len(s)))
}

func stringCharAt(ctx NativeContext, params []types.Value) interface{} {
	s, errBlk := selfString(ctx, params[0])
	if errBlk != nil {
		return errBlk
	}
	idx := int(params[1].IVal)
	if idx < 0 || idx >= len(s) {
		return getGErrBlk(excNames.StringIndexOutOfBoundsException, "charAt: index out of range")
	}
	return types.Char(uint16(s[idx]))
}

func stringEquals(ctx NativeContext, params []types.Value) interface{} {
	a, errBlk := selfString(ctx, params[0])
	if errBlk != nil {
		return errBlk
	}
	if params[1].Tag != types.TagObjectRef {
		return types.Bool(false)
	}
	b, err := ctx.Heap().StringValue(params[1].Ref)
	if err != nil {
		return types.Bool(false)
	}
	return types.Bool(a == b)
}

func stringHashCode(ctx NativeContext, params []types.Value) interface{} {
	s, errBlk := selfString(ctx, params[0])
	if errBlk != nil {
		return errBlk
	}
	var h int32
	for i := 0; i < len(s); i++ {
		h = 31*h + int32(s[i])
	}
	return types.Int(h)
}

func stringConcat(ctx NativeContext, params []types.Value) interface{} {
	a, errBlk := selfString(ctx, params[0])
	if errBlk != nil {
		return errBlk
	}
	b, err := ctx.Heap().StringValue(params[1].Ref)
	if err != nil {
		return getGErrBlk(excNames.NullPointerException, "concat: null argument")
	}
	return allocString(ctx, a+b)
}

func stringIndexOf(ctx NativeContext, params []types.Value) interface{} {
	s, errBlk := selfString(ctx, params[0])
	if errBlk != nil {
		return errBlk
	}
	sub, err := ctx.Heap().StringValue(params[1].Ref)
	if err != nil {
		return getGErrBlk(excNames.NullPointerException, "indexOf: null argument")
	}
	return types.Int(int32(strings.Index(s, sub)))
}

func stringSubstringFrom(ctx NativeContext, params []types.Value) interface{} {
	s, errBlk := selfString(ctx, params[0])
	if errBlk != nil {
		return errBlk
	}
	begin := int(params[1].IVal)
	if begin < 0 || begin > len(s) {
		return getGErrBlk(excNames.StringIndexOutOfBoundsException, "substring: begin index out of range")
	}
	return allocString(ctx, s[begin:])
}

func stringSubstringRange(ctx NativeContext, params []types.Value) interface{} {
	s, errBlk := selfString(ctx, params[0])
	if errBlk != nil {
		return errBlk
	}
	begin, end := int(params[1].IVal), int(params[2].IVal)
	if begin < 0 || end > len(s) || begin > end {
		return getGErrBlk(excNames.StringIndexOutOfBoundsException, "substring: index out of range")
	}
	return allocString(ctx, s[begin:end])
}

func stringToUpperCase(ctx NativeContext, params []types.Value) interface{} {
	s, errBlk := selfString(ctx, params[0])
	if errBlk != nil {
		return errBlk
	}
	return allocString(ctx, strings.ToUpper(s))
}

func stringToLowerCase(ctx NativeContext, params []types.Value) interface{} {
	s, errBlk := selfString(ctx, params[0])
	if errBlk != nil {
		return errBlk
	}
	return allocString(ctx, strings.ToLower(s))
}

func stringTrim(ctx NativeContext, params []types.Value) interface{} {
	s, errBlk := selfString(ctx, params[0])
	if errBlk != nil {
		return errBlk
	}
	return allocString(ctx, strings.TrimSpace(s))
}

func stringStartsWith(ctx NativeContext, params []types.Value) interface{} {
	s, errBlk := selfString(ctx, params[0])
	if errBlk != nil {
		return errBlk
	}
	prefix, err := ctx.Heap().StringValue(params[1].Ref)
	if err != nil {
		return getGErrBlk(excNames.NullPointerException, "startsWith: null argument")
	}
	return types.Bool(strings.HasPrefix(s, prefix))
}

func stringIsEmpty(ctx NativeContext, params []types.Value) interface{} {
	s, errBlk := selfString(ctx, params[0])
	if errBlk != nil {
		return errBlk
	}
	return types.Bool(len(s) == 0)
}

// selfString reads the Go string backing a receiver java/lang/String,
// the shared entry point every String native above funnels through.
func selfString(ctx NativeContext, self types.Value) (string, *GErrBlk) {
	if self.Tag != types.TagObjectRef {
		return "", getGErrBlk(excNames.NullPointerException, "receiver is null")
	}
	s, err := ctx.Heap().StringValue(self.Ref)
	if err != nil {
		return "", getGErrBlk(excNames.NullPointerException, err.Error())
	}
	return s, nil
}

func allocString(ctx NativeContext, s string) interface{} {
	ref, err := ctx.Heap().AllocString(s)
	if err != nil {
		return getGErrBlk(excNames.OutOfMemoryError, err.Error())
	}
	return types.ObjectRef(ref)
}

func goStringFrom(elements []types.Value) string {
	var sb strings.Builder
	for _, v := range elements {
		sb.WriteByte(byte(v.IVal))
	}
	return sb.String()
}
