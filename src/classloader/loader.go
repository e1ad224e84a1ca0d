/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package classloader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"javelin/trace"
	"javelin/types"
)

// Loader is the name->ClassFile cache (spec.md §4.3), keyed by internal
// class name. A single Loader instance is shared by the whole VM; there
// is no notion of a delegating parent/child loader hierarchy in this
// engine (out of scope per spec.md §1's class loader simplification).
type Loader struct {
	mu      sync.RWMutex
	classes map[string]*ClassFile
	Modules *ModuleManager
}

func NewLoader() *Loader {
	return &Loader{
		classes: make(map[string]*ClassFile),
		Modules: NewModuleManager(),
	}
}

// Get retrieves (loading if necessary) the ClassFile for name, which may
// be given in dotted or slash form. Array classes are fabricated
// synthetically per spec.md §4.3 step 2.
func (l *Loader) Get(name string) (*ClassFile, error) {
	name = types.ToInternalName(name)

	l.mu.RLock()
	cf, ok := l.classes[name]
	l.mu.RUnlock()
	if ok {
		return cf, nil
	}

	if types.IsArrayClassName(name) {
		return l.defineSyntheticArrayClass(name)
	}

	return l.loadFromModule(name)
}

// Lookup returns a previously-loaded class without triggering a load;
// used by code that must not recurse into loading (e.g. cycle checks).
func (l *Loader) Lookup(name string) (*ClassFile, bool) {
	name = types.ToInternalName(name)
	l.mu.RLock()
	defer l.mu.RUnlock()
	cf, ok := l.classes[name]
	return cf, ok
}

// Put registers an already-parsed class file under its own this-class
// name. Each class is parsed at most once (spec.md §3 invariant a); a
// second Put for the same name is a no-op, returning the original entry.
func (l *Loader) Put(cf *ClassFile) *ClassFile {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.classes[cf.ThisClassName]; ok {
		return existing
	}
	l.classes[cf.ThisClassName] = cf
	return cf
}

func (l *Loader) defineSyntheticArrayClass(name string) (*ClassFile, error) {
	cf := &ClassFile{
		ThisClassName:  name,
		SuperClassName: types.ObjectClassName,
		Interfaces:     []string{types.CloneableIface, types.SerializableIface},
		CP:             NewConstantPool(1),
		IsInit:         true,
		StaticFields:   make(map[string]*StaticSlot),
	}
	return l.Put(cf), nil
}

func (l *Loader) loadFromModule(name string) (*ClassFile, error) {
	mod := l.Modules.GetModuleByClass(name)
	if mod == nil {
		return nil, fmt.Errorf("ClassNotFoundException: no module owns class %s", name)
	}
	path := filepath.Join(mod.Location, filepath.FromSlash(name)+".class")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ClassNotFoundException: %s: %w", name, err)
	}
	cf, err := l.LoadFromBytes(raw, path)
	if err == nil {
		cf.ModuleName = mod.Name
	}
	return cf, err
}

// LoadFromBytes parses raw and registers the result, the entry point
// used both by module-backed loading and by callers handing the engine
// class bytes directly (e.g. from a JAR, out of scope for parsing here
// but still routed through this one path).
func (l *Loader) LoadFromBytes(raw []byte, sourceDescription string) (*ClassFile, error) {
	cf, err := Parse(raw)
	if err != nil {
		_ = trace.Error(fmt.Sprintf("LoadFromBytes: %s: %v", sourceDescription, err))
		return nil, err
	}
	cf.ModuleName, cf.PackageName = packageAndModuleOf(cf.ThisClassName)
	return l.Put(cf), nil
}

func packageAndModuleOf(className string) (module, pkg string) {
	pkg = packageOf(className)
	return "", pkg
}

// NormalizeClassReference converts a reference string from a class file
// into z/y/x form, stripping array-reference decoration, the way
// spec.md's normalizeClassReference helper does. Plain array descriptors
// ("[I") have no normalized class-name form and yield "".
func NormalizeClassReference(ref string) string {
	if strings.HasPrefix(ref, "[L") {
		ref = strings.TrimPrefix(ref, "[L")
		return strings.TrimSuffix(ref, ";")
	}
	if strings.HasPrefix(ref, "[") {
		return ""
	}
	return ref
}
