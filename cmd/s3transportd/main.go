package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"s3transport/internal/config"
	"s3transport/internal/daemon"
	"s3transport/internal/logging"
	"s3transport/internal/state"
	"s3transport/internal/transport"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "daemon error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	defaultConfigPath, err := state.ConfigPath()
	if err != nil {
		return fmt.Errorf("state path: %w", err)
	}

	fs := flag.NewFlagSet("s3transportd", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "path to config file")
	ipcAddr := fs.String("ipc-addr", daemon.DefaultIPCAddress, "listen address for the HTTP IPC API")
	allowRemote := fs.Bool("allow-remote-ipc", false, "permit non-loopback listeners (requires "+daemon.IPCTokenEnv+")")
	if err := fs.Parse(args); err != nil {
		return err
	}

	addr, err := daemon.ValidateIPCAddress(*ipcAddr, *allowRemote)
	if err != nil {
		return err
	}
	token := os.Getenv(daemon.IPCTokenEnv)
	if err := daemon.RequireRemoteToken(*allowRemote, token); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	objectsDir, err := state.ObjectStoreDir()
	if err != nil {
		return fmt.Errorf("state path: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr, err := transport.Open(ctx, cfg, objectsDir, logger)
	if err != nil {
		return fmt.Errorf("open transport: %w", err)
	}

	d := daemon.New(tr, logger)
	d.SetIPCAddress(addr)
	d.SetIPCAuthToken(token)
	return d.Run(ctx)
}
