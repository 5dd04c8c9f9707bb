// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

// Command cppif evaluates C/C++ preprocessor #if expressions from the
// command line, against a configurable target (integer precision and
// dialect switches), and can detect and cache header include guards.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"go4.org/xdgdir"
	"zombiezen.com/go/log"

	"github.com/ifpp/cppif/internal/targetconfig"
)

type globalConfig struct {
	configPath string
	cacheDB    string
	target     targetconfig.Config
}

func defaultConfig() targetconfig.Config {
	return targetconfig.Config{Precision: 64}
}

func main() {
	rootCommand := &cobra.Command{
		Use:           "cppif",
		Short:         "evaluate C preprocessor #if expressions",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	g := &globalConfig{
		cacheDB: filepath.Join(xdgdir.Cache.Path(), "cppif", "guards.db"),
		target:  defaultConfig(),
	}
	rootCommand.PersistentFlags().StringVar(&g.configPath, "config", "", "`path` to a target configuration file (JSONC)")
	rootCommand.PersistentFlags().StringVar(&g.cacheDB, "cache", g.cacheDB, "`path` to the include-guard cache database")
	showDebug := rootCommand.PersistentFlags().Bool("debug", false, "show debugging output")
	rootCommand.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		initLogging(*showDebug)
		if g.configPath != "" {
			f, err := os.Open(g.configPath)
			if err != nil {
				return fmt.Errorf("load --config: %w", err)
			}
			defer f.Close()
			cfg, err := targetconfig.Load(f)
			if err != nil {
				return err
			}
			g.target = cfg
		}
		return nil
	}

	rootCommand.AddCommand(
		newEvalCommand(g),
		newCheckCommand(g),
		newServeCommand(g),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCommand.ExecuteContext(ctx)
	cancel()
	if err != nil {
		initLogging(*showDebug)
		log.Errorf(context.Background(), "%v", err)
		os.Exit(1)
	}
}

var initLogOnce sync.Once

func initLogging(showDebug bool) {
	initLogOnce.Do(func() {
		minLogLevel := log.Info
		if showDebug {
			minLogLevel = log.Debug
		}
		log.SetDefault(&log.LevelFilter{
			Min:    minLogLevel,
			Output: log.New(os.Stderr, "cppif: ", log.StdFlags, nil),
		})
	})
}
