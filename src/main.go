/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"javelin/classloader"
	"javelin/globals"
	"javelin/heap"
	"javelin/interpreter"
	"javelin/trace"
	"javelin/types"
)

const usage = `Usage: javelin [options] class [args...]
where options include:
    -cp <dir>       classpath directory holding the application's .class files
    -trace          log every executed instruction
    -help           print this message
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	trace.Init()

	classpath, mainClass, progArgs, traceOn, ok := parseArgs(args)
	if !ok {
		fmt.Fprint(os.Stderr, usage)
		return 1
	}

	if extra := getEnvArgs(); extra != "" {
		_ = trace.Info("JDK environment options: " + extra)
	}

	g := globals.InitGlobals("javelin")
	g.TraceClass = traceOn

	l := classloader.NewLoader()
	if err := defineModules(l, g, classpath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	h := heap.NewHeap(l)
	vm := interpreter.NewVM(l, h, g)

	argsRef, err := buildArgsArray(h, progArgs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	_, err = vm.Call(mainClass, "main", "([Ljava/lang/String;)V", []types.Value{types.ArrayRef(argsRef)})
	if err != nil {
		return reportUncaught(err)
	}
	return 0
}

// parseArgs is a deliberately small flag handler: one classpath
// directory, an optional trace switch, the class to run, and its
// program arguments (everything after the class name).
func parseArgs(args []string) (classpath, mainClass string, progArgs []string, traceOn, ok bool) {
	classpath = "."
	i := 0
	for i < len(args) {
		switch args[i] {
		case "-help", "-h", "--help":
			return "", "", nil, false, false
		case "-trace":
			traceOn = true
			i++
		case "-cp", "-classpath":
			if i+1 >= len(args) {
				return "", "", nil, false, false
			}
			classpath = args[i+1]
			i += 2
		default:
			mainClass = args[i]
			progArgs = args[i+1:]
			return classpath, mainClass, progArgs, traceOn, true
		}
	}
	return "", "", nil, false, false
}

// getEnvArgs collects the three env vars the JDK launcher consults,
// space-joining whichever are set.
func getEnvArgs() string {
	var parts []string
	for _, name := range []string{"JAVA_TOOL_OPTIONS", "_JAVA_OPTIONS", "JDK_JAVA_OPTIONS"} {
		if v := os.Getenv(name); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// defineModules registers the two module locations the loader's
// package->module index needs: java.base at JMODS (an already-exploded
// directory of the standard library's .class files; this engine does
// not unpack .jmod archives itself) and a single "app" module covering
// every package found under classpath.
func defineModules(l *classloader.Loader, g *globals.Globals, classpath string) error {
	if g.JmodsDir != "" {
		base := classloader.NewModule("java.base", g.JmodsDir)
		l.Modules.DefineModule(base)
	}

	app := classloader.NewModule("app", classpath)
	pkgs, err := discoverPackages(classpath)
	if err != nil {
		return fmt.Errorf("javelin: scanning classpath %q: %w", classpath, err)
	}
	app.Packages = pkgs
	l.Modules.DefineModule(app)
	return nil
}

// discoverPackages walks root for .class files and returns the set of
// internal package names (slash-separated, "" for the default package)
// it finds, so defineModules can register them all against one module
// without the caller enumerating packages by hand.
func discoverPackages(root string) ([]string, error) {
	seen := make(map[string]bool)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".class") {
			return nil
		}
		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		pkg := filepath.ToSlash(rel)
		if pkg == "." {
			pkg = ""
		}
		seen[pkg] = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	pkgs := make([]string, 0, len(seen))
	for pkg := range seen {
		pkgs = append(pkgs, pkg)
	}
	return pkgs, nil
}

func buildArgsArray(h *heap.Heap, progArgs []string) (uint64, error) {
	elems := make([]types.Value, len(progArgs))
	for i, a := range progArgs {
		ref, err := h.AllocString(a)
		if err != nil {
			return 0, err
		}
		elems[i] = types.ObjectRef(ref)
	}
	arr, err := h.AllocArray("[Ljava/lang/String;", elems, 0)
	if err != nil {
		return 0, err
	}
	return arr.Ref, nil
}

func reportUncaught(err error) int {
	if je, ok := err.(*interpreter.JavaException); ok {
		msg := je.ClassName
		if je.Message != "" {
			msg += ": " + je.Message
		}
		fmt.Fprintln(os.Stderr, "Exception in thread \"main\" "+msg)
		return 1
	}
	fmt.Fprintln(os.Stderr, "javelin: "+err.Error())
	return 1
}
