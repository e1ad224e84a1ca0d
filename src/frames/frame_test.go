/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package frames

import (
	"testing"

	"javelin/types"
)

func TestPushPopRoundTrip(t *testing.T) {
	f := NewFrame(4, 2)
	if err := f.Push(types.Int(5)); err != nil {
		t.Fatal(err)
	}
	if err := f.Push(types.Long(9)); err != nil {
		t.Fatal(err)
	}
	v, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if v.Tag != types.TagLong || v.IVal != 9 {
		t.Errorf("popped %+v, want Long(9)", v)
	}
	v, err = f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if v.Tag != types.TagInt || v.IVal != 5 {
		t.Errorf("popped %+v, want Int(5)", v)
	}
}

func TestPopUnderflow(t *testing.T) {
	f := NewFrame(2, 0)
	if _, err := f.Pop(); err == nil {
		t.Error("expected underflow error on empty stack")
	}
}

func TestPushOverflow(t *testing.T) {
	f := NewFrame(1, 0)
	if err := f.Push(types.Int(1)); err != nil {
		t.Fatal(err)
	}
	if err := f.Push(types.Int(2)); err == nil {
		t.Error("expected StackOverflowError on full stack")
	}
}

func TestSetLocalBlanksFollowingSlotForCategory2(t *testing.T) {
	f := NewFrame(0, 3)
	if err := f.SetLocal(0, types.Double(1.5)); err != nil {
		t.Fatal(err)
	}
	v, err := f.GetLocal(1)
	if err != nil {
		t.Fatal(err)
	}
	if v.Tag != types.TagNone {
		t.Errorf("slot after a category-2 local = %+v, want None", v)
	}
}

func TestStackPushPopOrder(t *testing.T) {
	s := NewStack()
	a := &Frame{MethodName: "a"}
	b := &Frame{MethodName: "b"}
	s.PushFrame(a)
	s.PushFrame(b)

	top, err := s.Top()
	if err != nil {
		t.Fatal(err)
	}
	if top != b {
		t.Error("expected b to be on top")
	}
	if err := s.PopFrame(); err != nil {
		t.Fatal(err)
	}
	top, err = s.Top()
	if err != nil {
		t.Fatal(err)
	}
	if top != a {
		t.Error("expected a to be on top after popping b")
	}
}

func TestPopFrameOnEmptyStackErrors(t *testing.T) {
	s := NewStack()
	if err := s.PopFrame(); err == nil {
		t.Error("expected error popping an empty frame stack")
	}
}
