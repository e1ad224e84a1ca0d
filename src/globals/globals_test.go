/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package globals

import (
	"os"
	"testing"
)

func TestInitGlobalsReadsEnvironment(t *testing.T) {
	os.Setenv("JHOME", "/opt/jdk-23")
	os.Setenv("JMODS", "/opt/jdk-23/jmods")
	os.Unsetenv("JTMPDIR")
	defer os.Unsetenv("JHOME")
	defer os.Unsetenv("JMODS")

	g := InitGlobals("test")
	if g.JavaHome != "/opt/jdk-23" {
		t.Errorf("JavaHome = %q", g.JavaHome)
	}
	if g.JmodsDir != "/opt/jdk-23/jmods" {
		t.Errorf("JmodsDir = %q", g.JmodsDir)
	}
	if g.TmpDir != "/tmp" {
		t.Errorf("TmpDir default = %q, want /tmp", g.TmpDir)
	}
}

func TestGetGlobalRefReturnsSameInstance(t *testing.T) {
	InitGlobals("test")
	a := GetGlobalRef()
	b := GetGlobalRef()
	if a != b {
		t.Error("GetGlobalRef should return the same pointer across calls")
	}
}
