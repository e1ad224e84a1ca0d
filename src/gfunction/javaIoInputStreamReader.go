/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package gfunction

import (
	"bufio"
	"io"
	"os"
	"sync"

	"javelin/excNames"
	"javelin/types"
)

// loadIoInputStreamReader registers java/io/InputStreamReader's native
// surface, adapted from the teacher's Load_Io_InputStreamReader. The
// teacher keys a reader to an underlying os.File handle stashed in the
// Java object's field table; since types.Value has no slot for an
// opaque Go handle, this engine keeps that side table here, keyed by
// the receiver's heap ref, and only wires System.in (the one stream
// source spec.md's native surface actually requires).
func loadIoInputStreamReader() {
	MethodSignatures[Key("java/io/InputStreamReader", "<clinit>", "()V")] = GMeth{ParamSlots: 0, GFunction: justReturn}
	MethodSignatures[Key("java/io/InputStreamReader", "<init>", "(Ljava/io/InputStream;)V")] = GMeth{ParamSlots: 1, GFunction: inputStreamReaderInit}
	MethodSignatures[Key("java/io/InputStreamReader", "close", "()V")] = GMeth{ParamSlots: 0, GFunction: isrClose}
	MethodSignatures[Key("java/io/InputStreamReader", "read", "()I")] = GMeth{ParamSlots: 0, GFunction: isrReadOneChar}
	MethodSignatures[Key("java/io/InputStreamReader", "ready", "()Z")] = GMeth{ParamSlots: 0, GFunction: isrReady}
}

var (
	readerMu    sync.Mutex
	readerTable = map[uint64]*bufio.Reader{}
)

func inputStreamReaderInit(ctx NativeContext, params []types.Value) interface{} {
	self := params[0]
	readerMu.Lock()
	readerTable[self.Ref] = bufio.NewReader(os.Stdin)
	readerMu.Unlock()
	return nil
}

func isrClose(ctx NativeContext, params []types.Value) interface{} {
	self := params[0]
	readerMu.Lock()
	delete(readerTable, self.Ref)
	readerMu.Unlock()
	return nil
}

func isrReadOneChar(ctx NativeContext, params []types.Value) interface{} {
	self := params[0]
	readerMu.Lock()
	r, ok := readerTable[self.Ref]
	readerMu.Unlock()
	if !ok {
		return getGErrBlk(excNames.IOException, "read: stream is closed or was never opened")
	}
	b, err := r.ReadByte()
	if err == io.EOF {
		return types.Int(-1)
	}
	if err != nil {
		return getGErrBlk(excNames.IOException, err.Error())
	}
	return types.Int(int32(b))
}

func isrReady(ctx NativeContext, params []types.Value) interface{} {
	self := params[0]
	readerMu.Lock()
	r, ok := readerTable[self.Ref]
	readerMu.Unlock()
	if !ok {
		return getGErrBlk(excNames.IOException, "ready: stream is closed or was never opened")
	}
	return types.Bool(r.Buffered() > 0)
}
