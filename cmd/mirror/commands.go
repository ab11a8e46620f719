package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sugawarayuuta/mirror"
	"github.com/sugawarayuuta/mirror/internal/sample"
	"github.com/sugawarayuuta/mirror/snapshot"
)

var (
	typesCmd = &cobra.Command{
		Use:   "types",
		Short: "List registered types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range mirror.Types().PermanentNames() {
				rt := mirror.Types().GetByPermanentName(name)
				db := rt.ReflectionDB()
				ref, err := instance(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-20s %-24s fields=%d ctors=%d\n", name, rt.RttiName(), len(ref.GetFields()), len(db.GetCtors()))
			}
			return nil
		},
	}

	dumpCmd = &cobra.Command{
		Use:   "dump [permanent-name]",
		Short: "Dump a value",
		Long:  "Construct a value of a registered type and dump it. Without a name the demo scene is dumped.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) != 0 {
				name = args[0]
			}
			ref, err := instance(name)
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), ref)
		},
	}

	snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "Save and load snapshots of the demo scene",
	}

	saveCmd = &cobra.Command{
		Use:   "save [id]",
		Short: "Save the demo scene",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := snapshot.Open(cfg.App)
			if err != nil {
				return err
			}
			ref := mirror.Reflect(sample.Demo())
			if len(args) != 0 {
				if err := st.SaveAs(ref, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), args[0])
				return nil
			}
			id, err := st.Save(ref)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	loadCmd = &cobra.Command{
		Use:   "load <id>",
		Short: "Load a scene snapshot and dump it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := snapshot.Open(cfg.App)
			if err != nil {
				return err
			}
			ref := mirror.Reflect(new(sample.Scene))
			if err := st.Load(args[0], ref); err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), ref)
		},
	}
)

func init() {
	snapshotCmd.AddCommand(saveCmd, loadCmd)
}

// instance returns a value of the type registered as name, built with its
// default constructor, or the demo scene for an empty name.
func instance(name string) (mirror.Reflection, error) {
	if name == "" {
		return mirror.Reflect(sample.Demo()), nil
	}
	rt := mirror.Types().GetByPermanentName(name)
	if rt == nil {
		return mirror.Reflection{}, errors.Wrapf(mirror.ErrNotFound, "type %q", name)
	}
	val, err := rt.ReflectionDB().New()
	if err != nil {
		return mirror.Reflection{}, errors.Wrapf(err, "construct %s", name)
	}
	return mirror.Reflect(val.Interface()), nil
}

func write(out io.Writer, ref mirror.Reflection) error {
	if cfg.Format == "yaml" {
		data, err := mirror.MarshalYAML(ref)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}
	return ref.Dump(out, mirror.DumpDepth(cfg.Depth), mirror.DumpIndent(cfg.Indent))
}
