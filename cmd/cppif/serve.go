// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"zombiezen.com/go/log"

	"github.com/ifpp/cppif"
	"github.com/ifpp/cppif/internal/diag"
)

type serveOptions struct {
	addr           string
	notifySystemd  bool
	shutdownWindow time.Duration
}

func newServeCommand(g *globalConfig) *cobra.Command {
	opts := &serveOptions{addr: "localhost:8980", shutdownWindow: 5 * time.Second}
	c := &cobra.Command{
		Use:                   "serve [options]",
		Short:                 "serve #if expression evaluation over HTTP",
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	c.Flags().StringVar(&opts.addr, "addr", opts.addr, "`address` to listen on")
	c.Flags().BoolVar(&opts.notifySystemd, "notify-systemd", false, "notify systemd (READY=1) once the listener is up")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), g, opts)
	}
	return c
}

// evalRequest is the JSON body of a POST /eval request.
type evalRequest struct {
	Expression string   `json:"expression"`
	Defines    []string `json:"defines"`
}

// evalResponse is the JSON body returned for a request, successful or
// not: a malformed or unevaluable expression is reported as ok=false
// with Diagnostics filled in rather than an HTTP error status, so a
// client can distinguish "the server is broken" from "the expression
// is broken".
type evalResponse struct {
	OK                  bool     `json:"ok"`
	Value               bool     `json:"value,omitempty"`
	ControllingMacro    string   `json:"controllingMacro,omitempty"`
	HasControllingMacro bool     `json:"hasControllingMacro,omitempty"`
	Diagnostics         []string `json:"diagnostics,omitempty"`
}

func runServe(ctx context.Context, g *globalConfig, opts *serveOptions) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/eval", func(w http.ResponseWriter, r *http.Request) {
		handleEval(g, w, r)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	listener, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	server := &http.Server{Handler: requestLogger(mux)}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()

	log.Infof(ctx, "listening on %s", listener.Addr())
	if opts.notifySystemd {
		if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
			log.Warnf(ctx, "systemd notify failed: %v", err)
		} else if !ok {
			log.Debugf(ctx, "systemd notification socket not set, skipping READY=1")
		}
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.shutdownWindow)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("serve: shutdown: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

func handleEval(g *globalConfig, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req evalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	ev := cppif.New(g.target)
	for _, name := range req.Defines {
		ev.Define(name)
	}

	sink := &diag.CollectingSink{}
	result, ok := ev.Evaluate(req.Expression, sink)

	resp := evalResponse{OK: ok}
	if ok {
		resp.Value = result.Value
		resp.ControllingMacro = result.ControllingMacro
		resp.HasControllingMacro = result.HasControllingMacro
	}
	for _, d := range sink.Diagnostics {
		resp.Diagnostics = append(resp.Diagnostics, d.String())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// requestLogger wraps h so every request is logged with a fresh
// correlation ID, the way a production service ties a log line back
// to a single client round trip.
func requestLogger(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New()
		start := time.Now()
		h.ServeHTTP(w, r)
		log.Infof(r.Context(), "request %s %s %s (%s)", id, r.Method, r.URL.Path, time.Since(start))
	})
}
