/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package heap

import (
	"strings"
	"unicode"

	"javelin/types"
)

// GoStringFromJavaBytes and its companions adapt the teacher's
// byte-array/Go-string bridging helpers to javelin's Value-based array
// model, used by string-bridging natives (System.arraycopy's byte-array
// path, String(byte[]) constructors, and the trace layer's dump of
// String contents).

func GoStringFromJavaBytes(elements []types.Value) string {
	var sb strings.Builder
	for _, v := range elements {
		sb.WriteByte(byte(v.IVal))
	}
	return sb.String()
}

func JavaBytesFromGoString(s string) []types.Value {
	out := make([]types.Value, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = types.Byte(int8(s[i]))
	}
	return out
}

func JavaBytesFromGoBytes(b []byte) []types.Value {
	out := make([]types.Value, len(b))
	for i, c := range b {
		out[i] = types.Byte(int8(c))
	}
	return out
}

func GoBytesFromJavaBytes(elements []types.Value) []byte {
	out := make([]byte, len(elements))
	for i, v := range elements {
		out[i] = byte(v.IVal)
	}
	return out
}

func JavaByteArrayEquals(a, b []types.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].IVal != b[i].IVal {
			return false
		}
	}
	return true
}

func JavaByteArrayEqualsIgnoreCase(a, b []types.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := rune(byte(a[i].IVal)), rune(byte(b[i].IVal))
		if unicode.ToLower(ca) != unicode.ToLower(cb) {
			return false
		}
	}
	return true
}
