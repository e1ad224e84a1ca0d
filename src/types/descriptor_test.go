/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package types

import "testing"

func TestParseMethodDescriptorArgumentCount(t *testing.T) {
	cases := []struct {
		desc string
		args int
		ret  string
	}{
		{"()V", 0, ""},
		{"(I)I", 1, "I"},
		{"(IJ)Ljava/lang/Object;", 2, "Ljava/lang/Object;"},
		{"([BII)I", 3, "I"},
		{"(Ljava/lang/String;[I)V", 2, ""},
	}
	for _, c := range cases {
		md, err := ParseMethodDescriptor(c.desc)
		if err != nil {
			t.Fatalf("ParseMethodDescriptor(%q): %v", c.desc, err)
		}
		if md.ArgumentCount() != c.args {
			t.Errorf("%q: got %d params, want %d", c.desc, md.ArgumentCount(), c.args)
		}
		if md.ReturnType != c.ret {
			t.Errorf("%q: got return %q, want %q", c.desc, md.ReturnType, c.ret)
		}
	}
}

func TestParseMethodDescriptorSlotCount(t *testing.T) {
	md, err := ParseMethodDescriptor("(IJD)V")
	if err != nil {
		t.Fatal(err)
	}
	if md.SlotCount() != 5 { // I=1, J=2, D=2
		t.Errorf("got slot count %d, want 5", md.SlotCount())
	}
}

func TestParseMethodDescriptorRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "V", "(I", "(Q)V", "(I)"} {
		if _, err := ParseMethodDescriptor(bad); err == nil {
			t.Errorf("expected error parsing %q", bad)
		}
	}
}

func TestValueCategory(t *testing.T) {
	if Int(1).Category() != 1 {
		t.Error("int should be category 1")
	}
	if Long(1).Category() != 2 {
		t.Error("long should be category 2")
	}
	if Double(1).Category() != 2 {
		t.Error("double should be category 2")
	}
	if None().Category() != 0 {
		t.Error("none should be category 0")
	}
}

func TestComponentType(t *testing.T) {
	comp, ok := ComponentType("[Ljava/lang/String;")
	if !ok || comp != "Ljava/lang/String;" {
		t.Errorf("got (%q, %v)", comp, ok)
	}
	if _, ok := ComponentType("Ljava/lang/String;"); ok {
		t.Error("expected non-array to fail")
	}
}
