/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package nativemem

import "testing"

func TestAllocateFreeRoundTrip(t *testing.T) {
	r := NewRegistry()
	addr, err := r.Allocate(64)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Validate(addr, 64); err != nil {
		t.Errorf("expected freshly allocated region to validate: %v", err)
	}
	if err := r.Free(addr); err != nil {
		t.Fatal(err)
	}
	if err := r.Validate(addr, 1); err == nil {
		t.Error("expected freed region to fail validation")
	}
}

func TestDoubleFreeFails(t *testing.T) {
	r := NewRegistry()
	addr, err := r.Allocate(8)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Free(addr); err != nil {
		t.Fatal(err)
	}
	if err := r.Free(addr); err == nil {
		t.Error("expected double free to return an error")
	}
}

func TestValidateRejectsOutOfRangeAccess(t *testing.T) {
	r := NewRegistry()
	addr, err := r.Allocate(16)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Free(addr)
	if err := r.Validate(addr+8, 16); err == nil {
		t.Error("expected an access spanning past the region end to fail validation")
	}
}

func TestReadCStringRespectsTerminator(t *testing.T) {
	r := NewRegistry()
	addr, err := r.Allocate(8)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Free(addr)
	pokeByte(addr, 'h')
	pokeByte(addr+1, 'i')
	pokeByte(addr+2, 0)

	s, err := r.ReadCString(addr, 8)
	if err != nil {
		t.Fatal(err)
	}
	if s != "hi" {
		t.Errorf("ReadCString = %q, want hi", s)
	}
}
