// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/altalias-project/altalias/lib/botconfig"
	"github.com/altalias-project/altalias/lib/clock"
	"github.com/altalias-project/altalias/lib/secret"
	"github.com/altalias-project/altalias/lib/service"
	"github.com/altalias-project/altalias/messaging"
)

// version is stamped by the release build; "dev" for local builds.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		homeserverURL string
		configPath    string
		stateDir      string
		login         bool
		username      string
		passwordFile  string
		logLevel      string
		showVersion   bool
	)

	flagSet := pflag.NewFlagSet("altalias-bot", pflag.ContinueOnError)
	flagSet.StringVar(&homeserverURL, "homeserver", "", "Matrix homeserver URL (default: from session.json)")
	flagSet.StringVar(&configPath, "config", "", "path to the YAML config file (required)")
	flagSet.StringVar(&stateDir, "state-dir", "", "directory containing session.json (required)")
	flagSet.BoolVar(&login, "login", false, "log in with --username/--password-file, write session.json, and exit")
	flagSet.StringVar(&username, "username", "", "Matrix localpart for --login")
	flagSet.StringVar(&passwordFile, "password-file", "", "file holding the password for --login, or - for stdin")
	flagSet.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flagSet.BoolVar(&showVersion, "version", false, "print the version and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	if showVersion {
		fmt.Println("altalias-bot " + version)
		return nil
	}

	if stateDir == "" {
		return fmt.Errorf("--state-dir is required")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if login {
		return runLogin(ctx, homeserverURL, stateDir, username, passwordFile, logger)
	}

	if configPath == "" {
		return fmt.Errorf("--config is required")
	}

	clk := clock.Real()

	store := botconfig.NewStore(configPath, clk, logger)
	if err := store.Load(); err != nil {
		return err
	}
	go func() {
		if err := store.Watch(ctx); err != nil && ctx.Err() == nil {
			logger.Error("config watcher stopped", "error", err)
		}
	}()

	// Load and validate the Matrix session.
	_, session, err := service.LoadSession(stateDir, homeserverURL, logger)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	defer session.Close()

	userID, err := service.ValidateSession(ctx, session)
	if err != nil {
		return err
	}
	logger.Info("matrix session valid", "user_id", userID)

	bot := NewBot(session, store, clk, logger)

	// The initial sync establishes the position in the event stream.
	// Everything before it is history the bot must not react to, so
	// the response is used only to accept pending invites.
	filter := messaging.BuildSyncFilter()
	sinceToken, response, err := service.InitialSync(ctx, session, filter)
	if err != nil {
		return err
	}
	service.AcceptInvites(ctx, session, response.Rooms.Invite, logger)
	logger.Info("initial sync complete", "since", sinceToken)

	service.RunSyncLoop(ctx, session, service.SyncConfig{
		Filter: filter,
	}, sinceToken, bot.handleSync, clk, logger)

	logger.Info("shutting down")
	return nil
}

// runLogin performs a password login, writes session.json to the state
// directory, and exits. The password is read into mmap-backed memory
// and never stored; only the access token is persisted.
func runLogin(ctx context.Context, homeserverURL, stateDir, username, passwordFile string, logger *slog.Logger) error {
	if homeserverURL == "" {
		return fmt.Errorf("--homeserver is required with --login")
	}
	if username == "" {
		return fmt.Errorf("--username is required with --login")
	}
	if passwordFile == "" {
		return fmt.Errorf("--password-file is required with --login")
	}

	password, err := secret.ReadFromPath(passwordFile)
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	defer password.Close()

	client, err := messaging.NewClient(messaging.ClientConfig{
		HomeserverURL: homeserverURL,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	session, err := client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	if err := service.SaveSession(stateDir, homeserverURL, session); err != nil {
		return err
	}
	logger.Info("session saved", "state_dir", stateDir, "user_id", session.UserID())
	return nil
}
