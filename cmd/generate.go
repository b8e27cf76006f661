package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gtkgen/girgen/pkg/action/generate"
	"github.com/gtkgen/girgen/pkg/generator"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
	rootCmd.AddCommand(NewDiffCommand())
}

func NewGenerateCommand() *cobra.Command {
	var (
		options      = generator.NewOptions()
		prefixPairs  []string
		spellPairs   []string
		manifestPath string
		version      string
	)

	// generateCmd represents the girgen generate command
	var generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "generate binding units",
		Long:  "Generate one wrapper package per catalog namespace",
		RunE: func(c *cobra.Command, args []string) error {
			for _, p := range prefixPairs {
				ns, prefix, ok := strings.Cut(p, "=")
				if !ok {
					return fmt.Errorf("malformed prefix %q, want Namespace=prefix", p)
				}
				generator.WithPrefix(ns, prefix)(options)
			}
			for _, p := range spellPairs {
				local, spelling, ok := strings.Cut(p, "=")
				if !ok {
					return fmt.Errorf("malformed override %q, want Local=Spelling", p)
				}
				generator.WithOverride(local, spelling)(options)
			}
			return generate.Generate(manifestPath, version, func(o *generator.Options) { *o = *options })
		},
	}
	generateCmd.PersistentFlags().StringVarP(&options.CatalogFile, "catalog", "c", "catalog.yaml", "introspection catalog to load")
	generateCmd.PersistentFlags().StringVarP(&options.OutDir, "output-directory", "o", "bindings", "directory to write generated packages")
	generateCmd.PersistentFlags().StringVarP(&options.BasePkg, "base-pkg", "p", "bindings", "import path root of generated packages")
	generateCmd.PersistentFlags().StringSliceVarP(&options.Namespaces, "namespace", "n", []string{}, "namespaces to generate (default all)")
	generateCmd.PersistentFlags().StringSliceVar(&prefixPairs, "prefix", []string{}, "namespace prefix override, ex: GObject=gobject")
	generateCmd.PersistentFlags().StringSliceVar(&spellPairs, "override", []string{}, "identifier spelling override, ex: IMContext=IMContext")
	generateCmd.PersistentFlags().StringSliceVar(&options.Deny, "deny", []string{}, "extra deny-list patterns")
	generateCmd.PersistentFlags().StringSliceVar(&options.ImportNamespaces, "import", []string{}, "namespaces imported verbatim by every unit")
	generateCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "", "manifest file recording generated units")
	generateCmd.PersistentFlags().StringVar(&version, "version", "", "version label recorded in the manifest")

	return generateCmd
}

func NewDiffCommand() *cobra.Command {
	var manifestPath string

	var diffCmd = &cobra.Command{
		Use:   "diff [namespace]",
		Short: "diff a namespace's current unit against the previous one",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			diff, err := generate.DiffCurrentWithPrevious(manifestPath, args[0])
			if err != nil {
				return err
			}
			if diff == "" {
				slog.Info("no changes", "namespace", args[0])
				return nil
			}
			_, err = fmt.Fprintln(os.Stdout, diff)
			return err
		},
	}
	diffCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "girgen-manifest.yaml", "manifest file recording generated units")

	return diffCmd
}
