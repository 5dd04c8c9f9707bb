// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ifpp/cppif/internal/diag"

	"github.com/ifpp/cppif"
)

type evalOptions struct {
	defines []string
}

func newEvalCommand(g *globalConfig) *cobra.Command {
	opts := new(evalOptions)
	c := &cobra.Command{
		Use:                   "eval [options] EXPRESSION",
		Short:                 "evaluate a single #if expression",
		DisableFlagsInUseLine: true,
		Args:                  cobra.ExactArgs(1),
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	c.Flags().StringArrayVarP(&opts.defines, "define", "D", nil, "treat `NAME` as a defined macro")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		return runEval(cmd.Context(), g, opts, args[0])
	}
	return c
}

func runEval(ctx context.Context, g *globalConfig, opts *evalOptions, expr string) error {
	ev := cppif.New(g.target)
	for _, name := range opts.defines {
		ev.Define(strings.TrimPrefix(name, "-D"))
	}

	sink := &diag.CollectingSink{}
	result, ok := ev.Evaluate(expr, sink)
	for _, d := range sink.Diagnostics {
		fmt.Fprintln(os.Stderr, d.String())
	}
	if !ok {
		return fmt.Errorf("could not evaluate expression")
	}

	fmt.Println(result.Value)
	if result.HasControllingMacro {
		fmt.Printf("controlling macro: %s\n", result.ControllingMacro)
	}
	return nil
}
