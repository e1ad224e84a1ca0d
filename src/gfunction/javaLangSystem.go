/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package gfunction

import (
	"time"

	"javelin/excNames"
	"javelin/types"
)

// loadLangSystem registers java/lang/System's native surface: arraycopy
// and the three bootstrap-phase no-ops spec.md §6 lists as load-bearing.
func loadLangSystem() {
	MethodSignatures[Key("java/lang/System", "arraycopy", "(Ljava/lang/Object;ILjava/lang/Object;II)V")] = GMeth{ParamSlots: 5, GFunction: systemArraycopy}
	MethodSignatures[Key("java/lang/System", "initPhase1", "()V")] = GMeth{ParamSlots: 0, GFunction: justReturn}
	MethodSignatures[Key("java/lang/System", "initPhase2", "(ZZ)I")] = GMeth{ParamSlots: 2, GFunction: systemInitPhaseOK}
	MethodSignatures[Key("java/lang/System", "initPhase3", "()V")] = GMeth{ParamSlots: 0, GFunction: justReturn}
	MethodSignatures[Key("java/lang/System", "currentTimeMillis", "()J")] = GMeth{ParamSlots: 0, GFunction: systemCurrentTimeMillis}
	MethodSignatures[Key("java/lang/System", "identityHashCode", "(Ljava/lang/Object;)I")] = GMeth{ParamSlots: 1, GFunction: systemIdentityHashCode}
}

func systemArraycopy(ctx NativeContext, params []types.Value) interface{} {
	src, srcPos, dst, dstPos, length := params[0], params[1], params[2], params[3], params[4]
	if src.Tag == types.TagNull || dst.Tag == types.TagNull {
		return getGErrBlk(excNames.NullPointerException, "arraycopy: null array")
	}
	srcArr, ok := ctx.Heap().GetArray(src.Ref)
	if !ok {
		return getGErrBlk(excNames.ArrayStoreException, "arraycopy: src is not an array")
	}
	dstArr, ok := ctx.Heap().GetArray(dst.Ref)
	if !ok {
		return getGErrBlk(excNames.ArrayStoreException, "arraycopy: dst is not an array")
	}
	sp, dp, n := int(srcPos.IVal), int(dstPos.IVal), int(length.IVal)
	if sp < 0 || dp < 0 || n < 0 || sp+n > srcArr.Length() || dp+n > dstArr.Length() {
		return getGErrBlk(excNames.ArrayIndexOutOfBoundsException, "arraycopy: range out of bounds")
	}
	copy(dstArr.Elements[dp:dp+n], srcArr.Elements[sp:sp+n])
	return nil
}

// systemInitPhaseOK mirrors the real JDK's initPhase2 contract of
// returning 0 on success.
func systemInitPhaseOK(ctx NativeContext, params []types.Value) interface{} {
	return types.Int(0)
}

func systemCurrentTimeMillis(ctx NativeContext, params []types.Value) interface{} {
	return types.Long(time.Now().UnixMilli())
}

func systemIdentityHashCode(ctx NativeContext, params []types.Value) interface{} {
	obj := params[0]
	if obj.Tag == types.TagNull {
		return types.Int(0)
	}
	return types.Int(int32(obj.Ref))
}
