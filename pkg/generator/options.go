package generator

import (
	"path/filepath"
	"strings"

	"golang.org/x/mod/module"
)

// Options control one generation run.
//
// CatalogFile      – introspection catalog to load (YAML)
// OutDir           – directory receiving one package per namespace
// BasePkg          – import path root of the generated packages
// Namespaces       – namespaces to generate (default: all in catalog)
// Prefixes         – per-namespace prefix overrides
// Overrides        – identifier spelling overrides, keyed by local name
// Deny             – extra deny-list patterns on top of the fixed set
// ImportNamespaces – namespaces whose units are imported verbatim
// Note: Options are fixed at construction; generation never mutates them.
type Options struct {
	CatalogFile      string            `json:"catalog_file,omitempty" yaml:"catalog_file,omitempty" toml:"catalog_file,omitempty" mapstructure:"catalog_file,omitempty"`
	OutDir           string            `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	BasePkg          string            `json:"base_pkg,omitempty" yaml:"base_pkg,omitempty" toml:"base_pkg,omitempty" mapstructure:"base_pkg,omitempty"`
	Namespaces       []string          `json:"namespaces,omitempty" yaml:"namespaces,omitempty" toml:"namespaces,omitempty" mapstructure:"namespaces,omitempty"`
	Prefixes         map[string]string `json:"prefixes,omitempty" yaml:"prefixes,omitempty" toml:"prefixes,omitempty" mapstructure:"prefixes,omitempty"`
	Overrides        map[string]string `json:"overrides,omitempty" yaml:"overrides,omitempty" toml:"overrides,omitempty" mapstructure:"overrides,omitempty"`
	Deny             []string          `json:"deny,omitempty" yaml:"deny,omitempty" toml:"deny,omitempty" mapstructure:"deny,omitempty"`
	ImportNamespaces []string          `json:"import_namespaces,omitempty" yaml:"import_namespaces,omitempty" toml:"import_namespaces,omitempty" mapstructure:"import_namespaces,omitempty"`
}

func NewOptions() *Options {
	return &Options{
		OutDir:  "bindings",
		BasePkg: "bindings",
	}
}

// Normalize fills defaults and validates the import path root.
func (o *Options) Normalize() error {
	if len(o.OutDir) == 0 {
		o.OutDir = "bindings"
	}
	if strings.Contains(o.OutDir, ".") {
		o.OutDir, _ = filepath.Abs(o.OutDir)
	}
	if len(o.BasePkg) == 0 {
		o.BasePkg = "bindings"
	}
	if err := module.CheckImportPath(o.BasePkg); err != nil {
		return err
	}
	return nil
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithCatalogFile(f string) Option { return func(o *Options) { o.CatalogFile = f } }
func WithOutDir(d string) Option      { return func(o *Options) { o.OutDir = d } }
func WithBasePkg(p string) Option     { return func(o *Options) { o.BasePkg = p } }
func WithNamespaces(ns ...string) Option {
	return func(o *Options) { o.Namespaces = append(o.Namespaces, ns...) }
}
func WithPrefix(ns, prefix string) Option {
	return func(o *Options) {
		if o.Prefixes == nil {
			o.Prefixes = map[string]string{}
		}
		o.Prefixes[ns] = prefix
	}
}
func WithOverride(local, spelling string) Option {
	return func(o *Options) {
		if o.Overrides == nil {
			o.Overrides = map[string]string{}
		}
		o.Overrides[local] = spelling
	}
}
func WithDeny(patterns ...string) Option {
	return func(o *Options) { o.Deny = append(o.Deny, patterns...) }
}
func WithImportNamespaces(ns ...string) Option {
	return func(o *Options) { o.ImportNamespaces = append(o.ImportNamespaces, ns...) }
}
