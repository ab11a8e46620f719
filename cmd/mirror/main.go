// Command mirror inspects the types registered with the reflection core.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/sugawarayuuta/mirror"
	_ "github.com/sugawarayuuta/mirror/internal/sample"
)

var (
	cfgPath string
	verbose bool
	cfg     config

	rootCmd = &cobra.Command{
		Use:           "mirror",
		Short:         "Inspect reflected types",
		Long:          "List registered types, dump reflected values and manage snapshots of them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("format") {
				loaded.Format = cfg.Format
			}
			if flags.Changed("depth") {
				loaded.Depth = cfg.Depth
			}
			if flags.Changed("indent") {
				loaded.Indent = cfg.Indent
			}
			if flags.Changed("app") {
				loaded.App = cfg.App
			}
			cfg = loaded
			if verbose {
				mirror.SetLogger(log.New(os.Stderr, "", log.LstdFlags))
			}
			return cfg.validate()
		},
	}
)

func init() {
	log.SetFlags(0)
	log.SetPrefix("[mirror] ")

	def := defaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgPath, "config", "c", "mirror.yaml", "Configuration file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log registry diagnostics")
	flags.StringVarP(&cfg.Format, "format", "f", def.Format, "Output format: text or yaml")
	flags.IntVarP(&cfg.Depth, "depth", "d", def.Depth, "Maximum depth printed, 0 for no limit")
	flags.StringVar(&cfg.Indent, "indent", def.Indent, "Indentation of text output")
	flags.StringVar(&cfg.App, "app", def.App, "Application name of the snapshot directory")

	rootCmd.AddCommand(typesCmd, dumpCmd, snapshotCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
