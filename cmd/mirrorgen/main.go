// Command mirrorgen writes mirror registrations for the exported struct
// types of Go packages.
package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	genOpts = struct {
		output string
		dir    string
		dryRun bool
	}{}

	rootCmd = &cobra.Command{
		Use:          "mirrorgen [packages]",
		Short:        "Generate mirror registrations",
		Long:         "Load Go packages and write a file registering their exported struct types with mirror.",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mdls, pkgs, err := load(cmd.Context(), genOpts.dir, args...)
			if err != nil {
				return err
			}
			for idx, mdl := range mdls {
				if len(mdl.Types) == 0 {
					log.Printf("%s: no struct types", mdl.Path)
					continue
				}
				src, err := render(mdl)
				if err != nil {
					return err
				}
				if genOpts.dryRun || len(pkgs[idx].GoFiles) == 0 {
					cmd.OutOrStdout().Write(src)
					continue
				}
				path := filepath.Join(filepath.Dir(pkgs[idx].GoFiles[0]), genOpts.output)
				if err := os.WriteFile(path, src, 0o644); err != nil {
					return errors.Wrapf(err, "write %s", path)
				}
				log.Printf("wrote %s (%d types)", path, len(mdl.Types))
			}
			return nil
		},
	}
)

func init() {
	log.SetFlags(0)
	log.SetPrefix("[mirrorgen] ")
	rootCmd.Flags().StringVarP(&genOpts.output, "output", "o", "zz_mirror.go", "Name of the generated file")
	rootCmd.Flags().StringVarP(&genOpts.dir, "dir", "C", "", "Directory to load the packages from")
	rootCmd.Flags().BoolVarP(&genOpts.dryRun, "dry-run", "n", false, "Print the generated code instead of writing it")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
