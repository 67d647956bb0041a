package main

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/alnah/go-outline2deck/internal/hints"
	"github.com/alnah/go-outline2deck/internal/server"
)

// ErrListen is returned when the server cannot bind its address.
var ErrListen = errors.New("cannot listen")

// listen is replaced in tests.
var listen = net.Listen

// runServe starts the HTTP export boundary and blocks until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	setString(&cfg.Server.Addr, flags.addr)
	setString(&cfg.Templates.AssetPath, flags.assets)
	if flags.common.verbose {
		cfg.Log.Level = "debug"
	}

	renderer, err := newRenderer(cfg, env)
	if err != nil {
		return err
	}

	logger, err := server.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	srv := server.New(renderer, server.Config{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		Timeout:        cfg.Server.RequestTimeout(),
		Version:        Version,
	}, logger)

	ln, err := listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("%w %s: %v%s", ErrListen, cfg.Server.Addr, err, hints.ForListen(cfg.Server.Addr))
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Listening on %s\n", ln.Addr())
	}

	if err := srv.Serve(ctx, ln); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}
