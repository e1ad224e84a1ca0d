/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

package classloader

import "fmt"

// Module models one entry of the module manager (spec.md §3 "Module",
// §4.14 supplement).
type Module struct {
	Name    string
	Location string // filesystem path, or a synthetic marker for unnamed/bootstrap
	Open    bool
	Version string
	Packages []string

	Reads         map[string]bool
	ExportsToAll  map[string]bool
	ExportsTo     map[string]map[string]bool // package -> set of target modules
}

func NewModule(name, location string) *Module {
	return &Module{
		Name: name, Location: location,
		Reads:        make(map[string]bool),
		ExportsToAll: make(map[string]bool),
		ExportsTo:    make(map[string]map[string]bool),
	}
}

// ModuleManager is the registry of loaded modules plus the reverse
// package->module index spec.md §4.14 calls for.
type ModuleManager struct {
	modules     map[string]*Module
	pkgToModule map[string]string
}

func NewModuleManager() *ModuleManager {
	return &ModuleManager{
		modules:     make(map[string]*Module),
		pkgToModule: make(map[string]string),
	}
}

// DefineModule registers a module and indexes its packages.
func (mm *ModuleManager) DefineModule(m *Module) {
	mm.modules[m.Name] = m
	for _, pkg := range m.Packages {
		mm.pkgToModule[pkg] = m.Name
	}
}

func (mm *ModuleManager) AddPackage(moduleName, pkg string) error {
	m, ok := mm.modules[moduleName]
	if !ok {
		return fmt.Errorf("unknown module: %s", moduleName)
	}
	m.Packages = append(m.Packages, pkg)
	mm.pkgToModule[pkg] = moduleName
	return nil
}

func (mm *ModuleManager) GetModule(name string) (*Module, bool) {
	m, ok := mm.modules[name]
	return m, ok
}

func (mm *ModuleManager) AddReads(moduleName, targetModule string) error {
	m, ok := mm.modules[moduleName]
	if !ok {
		return fmt.Errorf("unknown module: %s", moduleName)
	}
	m.Reads[targetModule] = true
	return nil
}

func (mm *ModuleManager) AddExports(moduleName, pkg, targetModule string) error {
	m, ok := mm.modules[moduleName]
	if !ok {
		return fmt.Errorf("unknown module: %s", moduleName)
	}
	if m.ExportsTo[pkg] == nil {
		m.ExportsTo[pkg] = make(map[string]bool)
	}
	m.ExportsTo[pkg][targetModule] = true
	return nil
}

func (mm *ModuleManager) AddExportsToAll(moduleName, pkg string) error {
	m, ok := mm.modules[moduleName]
	if !ok {
		return fmt.Errorf("unknown module: %s", moduleName)
	}
	m.ExportsToAll[pkg] = true
	return nil
}

// GetModuleByClass resolves the owning module for an internal class
// name by computing its package and consulting the reverse index.
// Classes in packages nobody has registered fall back to "java.base",
// the bootstrap module, matching the spec's bootstrap sequence.
func (mm *ModuleManager) GetModuleByClass(className string) *Module {
	pkg := packageOf(className)
	if modName, ok := mm.pkgToModule[pkg]; ok {
		if m, ok := mm.modules[modName]; ok {
			return m
		}
	}
	if m, ok := mm.modules["java.base"]; ok {
		return m
	}
	return nil
}

func packageOf(className string) string {
	for i := len(className) - 1; i >= 0; i-- {
		if className[i] == '/' {
			return className[:i]
		}
	}
	return ""
}
