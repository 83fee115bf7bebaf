//go:build governance

package core_test

import (
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/leapstack-labs/morkxml"

// =============================================================================
// COHESION TEST - Core types must be shared by multiple packages
// =============================================================================

// TestGovernance_CoreCohesion verifies that types in pkg/core are genuinely
// shared across multiple packages. Single-use types belong to their consumer.
func TestGovernance_CoreCohesion(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes |
			packages.NeedTypesInfo | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	coreTypes := make(map[types.Object]string)
	var corePkg *packages.Package
	for _, p := range pkgs {
		if p.PkgPath != modulePath+"/pkg/core" {
			continue
		}
		corePkg = p
		scope := p.Types.Scope()
		for _, name := range scope.Names() {
			if obj, ok := scope.Lookup(name).(*types.TypeName); ok && obj.Exported() {
				coreTypes[obj] = name
			}
		}
	}
	if corePkg == nil {
		t.Fatal("Could not find pkg/core")
	}

	// type name -> set of packages naming it
	usage := make(map[string]map[string]bool)
	for _, name := range coreTypes {
		usage[name] = make(map[string]bool)
	}
	for _, p := range pkgs {
		if p.PkgPath == corePkg.PkgPath || strings.HasSuffix(p.PkgPath, "_test") || p.TypesInfo == nil {
			continue
		}
		for _, obj := range p.TypesInfo.Uses {
			if name, ok := coreTypes[obj]; ok {
				usage[name][strings.TrimPrefix(p.PkgPath, modulePath+"/")] = true
			}
		}
	}

	for name, users := range usage {
		if isCohesionAllowlisted(name) {
			continue
		}
		switch len(users) {
		case 0:
			t.Logf("WARNING: Unused Core Type: %s (consider deleting)", name)
		case 1:
			for user := range users {
				t.Errorf("COHESION VIOLATION: 'core.%s' is used ONLY by '%s'.\n"+
					"   Fix: Move type from pkg/core to %s.", name, user, user)
			}
		}
	}
}

// isCohesionAllowlisted returns true for types allowed to have single usage.
func isCohesionAllowlisted(name string) bool {
	allowlist := map[string]bool{
		"TableEntry": true, // Iteration element, consumers rarely name it
		"RowEntry":   true,
	}
	return allowlist[name]
}

// =============================================================================
// LAYERING TEST - Library packages stay independent of the CLI
// =============================================================================

// TestGovernance_PkgDoesNotImportInternal ensures everything under pkg/ can be
// used without the internal CLI packages.
func TestGovernance_PkgDoesNotImportInternal(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	for _, p := range pkgs {
		for path := range p.Imports {
			if strings.HasPrefix(path, modulePath+"/internal/") {
				t.Errorf("LAYERING VIOLATION: '%s' imports '%s'",
					strings.TrimPrefix(p.PkgPath, modulePath+"/"), strings.TrimPrefix(path, modulePath+"/"))
			}
		}
	}
}

// TestGovernance_SourcesRegister ensures each source driver package imports
// pkg/source, which it needs to register itself.
func TestGovernance_SourcesRegister(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/sources/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	for _, p := range pkgs {
		if strings.HasSuffix(p.PkgPath, "/sqldb") {
			continue // shared implementation, registered by the driver packages
		}
		if _, ok := p.Imports[modulePath+"/pkg/source"]; !ok {
			t.Errorf("'%s' does not import pkg/source and cannot register",
				strings.TrimPrefix(p.PkgPath, modulePath+"/"))
		}
	}
}
