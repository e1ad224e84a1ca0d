/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package main

import "testing"

func TestGetEnvArgsWhenNoneArePresent(t *testing.T) {
	t.Setenv("JAVA_TOOL_OPTIONS", "")
	t.Setenv("_JAVA_OPTIONS", "")
	t.Setenv("JDK_JAVA_OPTIONS", "")
	if got := getEnvArgs(); got != "" {
		t.Errorf("getEnvArgs() = %q, want empty string", got)
	}
}

func TestGetEnvArgsWhenTwoArePresent(t *testing.T) {
	t.Setenv("JAVA_TOOL_OPTIONS", "")
	t.Setenv("_JAVA_OPTIONS", "Hello,")
	t.Setenv("JDK_JAVA_OPTIONS", "Jacobin!")
	want := "Hello, Jacobin!"
	if got := getEnvArgs(); got != want {
		t.Errorf("getEnvArgs() = %q, want %q", got, want)
	}
}

func TestGetEnvArgsJoinsAllThreeInOrder(t *testing.T) {
	t.Setenv("JAVA_TOOL_OPTIONS", "-Xone")
	t.Setenv("_JAVA_OPTIONS", "-Xtwo")
	t.Setenv("JDK_JAVA_OPTIONS", "-Xthree")
	want := "-Xone -Xtwo -Xthree"
	if got := getEnvArgs(); got != want {
		t.Errorf("getEnvArgs() = %q, want %q", got, want)
	}
}

func TestParseArgsSeparatesClasspathFromProgramArgs(t *testing.T) {
	cp, mainClass, progArgs, traceOn, ok := parseArgs([]string{"-cp", "out", "-trace", "com/example/Main", "a", "b"})
	if !ok {
		t.Fatal("parseArgs reported failure on valid input")
	}
	if cp != "out" || mainClass != "com/example/Main" || !traceOn {
		t.Errorf("parseArgs = (%q, %q, %v, %v), want (\"out\", \"com/example/Main\", _, true)", cp, mainClass, progArgs, traceOn)
	}
	if len(progArgs) != 2 || progArgs[0] != "a" || progArgs[1] != "b" {
		t.Errorf("progArgs = %v, want [a b]", progArgs)
	}
}

func TestParseArgsRejectsMissingClass(t *testing.T) {
	if _, _, _, _, ok := parseArgs([]string{"-cp", "out"}); ok {
		t.Error("parseArgs should fail when no class is given")
	}
}
