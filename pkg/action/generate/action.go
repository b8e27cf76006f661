package generate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"

	"github.com/gtkgen/girgen/pkg/catalog"
	"github.com/gtkgen/girgen/pkg/generator"
	"github.com/gtkgen/girgen/pkg/manifest"
)

// Generate loads the catalog, runs a full generation pass, and records
// the written units in the manifest.
func Generate(manifestPath, version string, opts ...generator.Option) error {
	o := generator.NewOptions()
	for _, fn := range opts {
		fn(o)
	}

	cat, err := catalog.Load(o.CatalogFile)
	if err != nil {
		return err
	}
	gen, err := generator.New(cat, opts...)
	if err != nil {
		return err
	}
	written, err := gen.WriteAll()
	if err != nil {
		return err
	}

	if manifestPath == "" {
		return nil
	}
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}
	m.SetVersion(version)
	for ns, file := range written {
		m.AddUnit(manifest.Unit{
			Namespace: ns,
			Package:   gen.PkgName(ns),
			Version:   version,
			File:      filepath.Clean(file),
		})
	}
	return m.Save(manifestPath)
}

// List returns all units recorded in the manifest.
func List(manifestPath string) (*manifest.Manifest, error) {
	return manifest.Load(manifestPath)
}

// DiffCurrentWithPrevious loads the manifest, locates one namespace's
// current and previous generated units, and returns a textual diff.
func DiffCurrentWithPrevious(manifestPath, namespace string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	if m.CurrentVersion == "" || m.PreviousVersion == "" {
		return "", fmt.Errorf("no current/previous generation recorded")
	}

	currentPath := m.UnitFile(namespace, m.CurrentVersion)
	previousPath := m.UnitFile(namespace, m.PreviousVersion)

	if currentPath == "" || previousPath == "" {
		return "", fmt.Errorf("units for %s not found in manifest", namespace)
	}

	current, err := os.ReadFile(currentPath)
	if err != nil {
		return "", fmt.Errorf("read current unit: %w", err)
	}

	previous, err := os.ReadFile(previousPath)
	if err != nil {
		return "", fmt.Errorf("read previous unit: %w", err)
	}

	return cmp.Diff(string(previous), string(current)), nil
}
