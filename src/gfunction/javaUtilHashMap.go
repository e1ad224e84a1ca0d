/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package gfunction

import (
	"crypto/md5"
	"encoding/binary"
	"math"

	"javelin/excNames"
	"javelin/types"
)

// loadUtilHashMap registers java/util/HashMap's native surface,
// adapted from the teacher's Load_Util_HashMap: HashMap.hash still
// derives its spread value from an MD5 digest of the key's bit
// representation, now read off a types.Value instead of an
// object.Object field table.
func loadUtilHashMap() {
	MethodSignatures[Key("java/util/HashMap", "hash", "(Ljava/lang/Object;)I")] = GMeth{ParamSlots: 1, GFunction: hashMapHash}
}

func hashMapHash(ctx NativeContext, params []types.Value) interface{} {
	key := params[0]
	var raw []byte
	switch key.Tag {
	case types.TagNull:
		return types.Int(0)
	case types.TagObjectRef:
		s, err := ctx.Heap().StringValue(key.Ref)
		if err != nil {
			return getGErrBlk(excNames.IllegalArgumentException, "hash: unsupported object key")
		}
		raw = []byte(s)
	case types.TagInt, types.TagLong, types.TagShort, types.TagByte, types.TagChar, types.TagBoolean:
		raw = make([]byte, 8)
		binary.BigEndian.PutUint64(raw, uint64(key.IVal))
	case types.TagFloat:
		raw = make([]byte, 4)
		binary.BigEndian.PutUint32(raw, math.Float32bits(key.FVal))
	case types.TagDouble:
		raw = make([]byte, 8)
		binary.BigEndian.PutUint64(raw, math.Float64bits(key.DVal))
	default:
		return getGErrBlk(excNames.IllegalArgumentException, "hash: unrecognized key type")
	}
	digest := md5.Sum(raw)
	spread := binary.BigEndian.Uint32(digest[:4])
	return types.Int(int32(spread))
}
