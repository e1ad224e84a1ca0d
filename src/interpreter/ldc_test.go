/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package interpreter

import (
	"testing"

	"javelin/classloader"
	"javelin/types"
)

// TestLdcInternsEqualStringLiteralsToTheSameRef validates the
// string-interning round trip: two distinct constant-pool String
// entries holding the same UTF-8 text must resolve to the same heap
// object once both have gone through ldc.
func TestLdcInternsEqualStringLiteralsToTheSameRef(t *testing.T) {
	vm := newTestVM(t)
	cp := classloader.NewConstantPool(5)
	cp.Entries[1] = classloader.CPEntry{Tag: classloader.CPUtf8, Utf8: "hello"}
	cp.Entries[2] = classloader.CPEntry{Tag: classloader.CPString, NameIndex: 1}
	cp.Entries[3] = classloader.CPEntry{Tag: classloader.CPUtf8, Utf8: "hello"}
	cp.Entries[4] = classloader.CPEntry{Tag: classloader.CPString, NameIndex: 3}

	code := []byte{opLdc, 0x02, opLdc, 0x04}
	f := vm.pushCode("T", "m", cp, code, nil, 4, 0)
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	if err := vm.step(); err != nil {
		t.Fatal(err)
	}
	second, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	first, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if first.Tag != types.TagObjectRef || second.Tag != types.TagObjectRef {
		t.Fatalf("ldc of a String constant should push an ObjectRef, got %+v and %+v", first, second)
	}
	if first.Ref != second.Ref {
		t.Errorf("two equal string literals interned to distinct refs %d and %d, want the same ref", first.Ref, second.Ref)
	}
	s, err := vm.H.StringValue(first.Ref)
	if err != nil {
		t.Fatal(err)
	}
	if s != "hello" {
		t.Errorf("interned string value = %q, want \"hello\"", s)
	}
}
