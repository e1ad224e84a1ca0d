/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package gfunction

import (
	"time"

	"javelin/excNames"
	"javelin/types"
)

// loadLangThread registers java/lang/Thread's native surface, adapted
// from the teacher's Load_Lang_Thread. The engine is single-threaded
// cooperative (spec.md §5): registerNatives is a no-op, sleep blocks the
// host for the given milliseconds, and currentThread hands back one
// lazily allocated Thread object.
func loadLangThread() {
	MethodSignatures[Key("java/lang/Thread", "registerNatives", "()V")] = GMeth{ParamSlots: 0, GFunction: justReturn}
	MethodSignatures[Key("java/lang/Thread", "sleep", "(J)V")] = GMeth{ParamSlots: 1, GFunction: threadSleep}
	MethodSignatures[Key("java/lang/Thread", "currentThread", "()Ljava/lang/Thread;")] = GMeth{ParamSlots: 0, GFunction: threadCurrentThread}
}

func threadSleep(ctx NativeContext, params []types.Value) interface{} {
	if params[0].Tag != types.TagLong {
		return getGErrBlk(excNames.IllegalArgumentException, "sleep: parameter must be a long")
	}
	time.Sleep(time.Duration(params[0].IVal) * time.Millisecond)
	return nil
}

// threadCurrentThread returns the single cooperative thread's mirror
// object, allocated lazily and cached on first request.
var mainThreadRef uint64

func threadCurrentThread(ctx NativeContext, params []types.Value) interface{} {
	if mainThreadRef != 0 {
		return types.ObjectRef(mainThreadRef)
	}
	obj, err := ctx.Heap().AllocObj("java/lang/Thread")
	if err != nil {
		return getGErrBlk(excNames.OutOfMemoryError, err.Error())
	}
	mainThreadRef = obj.Ref
	return types.ObjectRef(mainThreadRef)
}
