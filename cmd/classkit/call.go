package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrhapile/classkit/class"
	"github.com/mrhapile/classkit/invoke"
	"github.com/mrhapile/classkit/runtime"
)

func newCallCmd(a *app) *cobra.Command {
	var (
		function string
		offsets  []string
	)

	cmd := &cobra.Command{
		Use:   "call PLUGIN [ARG...]",
		Short: "Call a plugin export through offset decorators",
		Example: `  classkit call hello 21
  classkit call hello 21 --offset process=24 --offset process=5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := invoke.Request{Plugin: args[0], Function: function}
			for _, s := range args[1:] {
				n, err := strconv.Atoi(s)
				if err != nil {
					return fmt.Errorf("argument %q is not an integer", s)
				}
				req.Args = append(req.Args, n)
			}
			for _, s := range offsets {
				o, err := invoke.ParseOffset(s)
				if err != nil {
					return err
				}
				req.Offsets = append(req.Offsets, o)
			}

			out, err := invoke.New(a.store, a.logger).Run(req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&function, "function", invoke.DefaultFunction, "export to call")
	cmd.Flags().StringArrayVar(&offsets, "offset", nil, "op=amount decorator, repeatable, innermost first")
	return cmd
}

func newOpsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ops PLUGIN",
		Short: "List the operations of a plugin class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.store.Resolve(args[0])
			if err != nil {
				return err
			}
			plugin, err := runtime.LoadPlugin(path)
			if err != nil {
				return err
			}
			defer plugin.Close()

			cls, err := runtime.NewClass(args[0], plugin)
			if err != nil {
				return err
			}
			printOperations(cmd, cls)
			return nil
		},
	}
}

func printOperations(cmd *cobra.Command, cls *class.Class) {
	for _, op := range cls.Operations() {
		fmt.Fprintln(cmd.OutOrStdout(), op)
	}
}

func newPluginsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List plugins in the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := a.store.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
