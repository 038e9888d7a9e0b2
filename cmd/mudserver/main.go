// Package main provides the mudserver CLI: a Telnet MUD frontend with
// run-server and create-account subcommands, mirroring the original
// implementation's argparse-subcommand launcher.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/rcarlsen/mudserver/internal/auth"
	"github.com/rcarlsen/mudserver/internal/config"
	"github.com/rcarlsen/mudserver/internal/frontend/telnet"
	"github.com/rcarlsen/mudserver/internal/observability"
	"github.com/rcarlsen/mudserver/internal/server"
	"github.com/rcarlsen/mudserver/internal/shell"
	"github.com/rcarlsen/mudserver/internal/storage/postgres"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	subcommand := os.Args[1]
	args := os.Args[2:]

	switch subcommand {
	case "run-server":
		runServer(args)
	case "create-account":
		createAccount(args)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: mudserver <run-server|create-account> [flags]")
}

func runServer(args []string) {
	start := time.Now()

	fs := flag.NewFlagSet("run-server", flag.ExitOnError)
	configPath := fs.String("config", "configs/dev.yaml", "path to configuration file")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting mudserver", zap.String("telnet_addr", cfg.Telnet.Addr()))

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}

	accounts := postgres.NewAccountRepository(pool.DB())
	authenticator := auth.FromRepository(accounts)

	handler := &shell.Handler{Authenticator: authenticator, Logger: logger}
	acceptor := telnet.NewAcceptor(cfg.Telnet, handler, logger)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("postgres", &server.FuncService{
		StartFn: func() error {
			for {
				time.Sleep(30 * time.Second)
				if err := pool.Health(ctx, 5*time.Second); err != nil {
					logger.Warn("database health check failed", zap.Error(err))
				}
			}
		},
		StopFn: func() { pool.Close() },
	})
	lifecycle.Add("telnet", &server.FuncService{
		StartFn: acceptor.ListenAndServe,
		StopFn:  acceptor.Stop,
	})

	logger.Info("mudserver initialized", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func createAccount(args []string) {
	fs := flag.NewFlagSet("create-account", flag.ExitOnError)
	configPath := fs.String("config", "configs/dev.yaml", "path to configuration file")
	username := fs.String("username", "", "account username")
	_ = fs.Parse(args)

	if *username == "" {
		log.Fatal("missing required -username flag")
	}
	if !shell.ValidUsername(*username) {
		log.Fatalf("invalid username: %s", *username)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// A dedicated terminal-masked password prompt is a client-side concern
	// outside this package's scope; reading an unmasked line from stdin
	// documents the known UX gap the original's getpass() papered over.
	fmt.Print("Password: ")
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("reading password: %v", err)
	}
	password = trimNewline(password)

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer pool.Close()

	accounts := postgres.NewAccountRepository(pool.DB())
	acct, err := accounts.Create(ctx, *username, password)
	if err != nil {
		log.Fatalf("creating account: %v", err)
	}

	fmt.Printf("created account %q (id=%d)\n", acct.Username, acct.ID)
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
