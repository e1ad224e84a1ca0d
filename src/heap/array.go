/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package heap

import (
	"fmt"

	"javelin/types"
)

// ArrayInstance is a heap-resident array (spec.md §4.4). Descriptor is
// the full array descriptor ("[I", "[[Ljava/lang/String;") so that
// arraylength/checkcast/instanceof have the type available without a
// side table.
type ArrayInstance struct {
	Ref               uint64
	Descriptor        string
	ElementDescriptor string
	Elements          []types.Value
	HashCode          int32
}

func (a *ArrayInstance) Length() int { return len(a.Elements) }

// Get bounds-checks index against the array's length, the source of
// ArrayIndexOutOfBoundsException (spec.md §4.4, §9).
func (a *ArrayInstance) Get(index int) (types.Value, error) {
	if index < 0 || index >= len(a.Elements) {
		return types.Value{}, fmt.Errorf("ArrayIndexOutOfBoundsException: index %d out of bounds for length %d", index, len(a.Elements))
	}
	return a.Elements[index], nil
}

// Set bounds-checks and, for reference-element arrays, type-checks the
// stored value against the array's declared element type; a mismatch is
// ArrayStoreException (spec.md §4.4 edge case).
func (a *ArrayInstance) Set(index int, v types.Value, assignable func(elementDesc string, v types.Value) bool) error {
	if index < 0 || index >= len(a.Elements) {
		return fmt.Errorf("ArrayIndexOutOfBoundsException: index %d out of bounds for length %d", index, len(a.Elements))
	}
	if !types.IsPrimitiveDescriptor(a.ElementDescriptor) && v.Tag != types.TagNull && assignable != nil {
		if !assignable(a.ElementDescriptor, v) {
			return fmt.Errorf("ArrayStoreException: incompatible element for %s", a.Descriptor)
		}
	}
	a.Elements[index] = v
	return nil
}

// ToByteSlice reads a "[B" array back out as a Go []byte, for native
// methods bridging into Go string/io APIs.
func (a *ArrayInstance) ToByteSlice() ([]byte, error) {
	if a.ElementDescriptor != "B" {
		return nil, fmt.Errorf("ToByteSlice: not a byte array (%s)", a.Descriptor)
	}
	out := make([]byte, len(a.Elements))
	for i, e := range a.Elements {
		out[i] = byte(e.IVal)
	}
	return out, nil
}
