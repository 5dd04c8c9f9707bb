// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"zombiezen.com/go/log"

	"github.com/ifpp/cppif"
	"github.com/ifpp/cppif/internal/diag"
	"github.com/ifpp/cppif/internal/guardcache"
)

type checkOptions struct {
	jobs int
}

func newCheckCommand(g *globalConfig) *cobra.Command {
	opts := &checkOptions{jobs: runtime.GOMAXPROCS(0)}
	c := &cobra.Command{
		Use:                   "check [options] HEADER [...]",
		Short:                 "detect and cache include guards for a set of header files",
		DisableFlagsInUseLine: true,
		Args:                  cobra.MinimumNArgs(1),
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	c.Flags().IntVar(&opts.jobs, "jobs", opts.jobs, "maximum number of headers to check concurrently")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.Context(), g, opts, args)
	}
	return c
}

func runCheck(ctx context.Context, g *globalConfig, opts *checkOptions, paths []string) error {
	runID := uuid.New()
	log.Infof(ctx, "check run %s: %d header(s), cache %s", runID, len(paths), g.cacheDB)

	if err := os.MkdirAll(dirOf(g.cacheDB), 0o777); err != nil {
		return fmt.Errorf("check: %w", err)
	}
	cache, err := guardcache.Open(ctx, g.cacheDB)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	defer cache.Close()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(opts.jobs, 1))

	for _, path := range paths {
		path := path
		group.Go(func() error {
			macro, hit, err := checkHeader(groupCtx, cache, path)
			if err != nil {
				log.Errorf(groupCtx, "%s: %v", path, err)
				return nil
			}
			if hit {
				fmt.Printf("%s: guarded by %s\n", path, macro)
			} else {
				fmt.Printf("%s: no include guard detected\n", path)
			}
			return nil
		})
	}

	return group.Wait()
}

func dirOf(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "."
	}
	return path[:i]
}

// checkHeader detects path's controlling macro, consulting and
// updating cache by the header's size and modification time so an
// unchanged header whose guard was already found is not read again.
// Only headers with a detected guard are cached.
func checkHeader(ctx context.Context, cache *guardcache.Cache, path string) (macro string, ok bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", false, err
	}
	size := info.Size()
	modTime := info.ModTime().UnixNano()

	if macro, ok, err := cache.Lookup(ctx, path, size, modTime); err != nil {
		return "", false, err
	} else if ok {
		return macro, true, nil
	}

	expr, found := firstDirectiveExpression(path)
	if !found {
		return "", false, nil
	}

	ev := cppif.New(cppif.Config{Precision: 64})
	sink := &diag.CollectingSink{}
	result, evalOK := ev.Evaluate(expr, sink)
	if !evalOK || !result.HasControllingMacro {
		return "", false, nil
	}

	if err := cache.Store(ctx, path, size, modTime, result.ControllingMacro); err != nil {
		return "", false, err
	}
	return result.ControllingMacro, true, nil
}

// firstDirectiveExpression scans path for its first non-blank,
// non-comment line and, if it is a "#if" or "#ifndef" directive,
// returns the equivalent #if expression text.
func firstDirectiveExpression(path string) (expr string, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	inBlock := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if inBlock {
			inBlock = !strings.Contains(line, "*/")
			continue
		}
		if strings.HasPrefix(line, "/*") {
			inBlock = !strings.Contains(line[2:], "*/")
			continue
		}
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "#ifndef"):
			name := strings.TrimSpace(strings.TrimPrefix(line, "#ifndef"))
			return "!defined(" + name + ")", name != ""
		case strings.HasPrefix(line, "#if"):
			return strings.TrimSpace(strings.TrimPrefix(line, "#if")), true
		default:
			return "", false
		}
	}
	return "", false
}
