package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/events"
	server "fintrack/internal/http"
	"fintrack/internal/http/handlers"
	applog "fintrack/internal/log"
	"fintrack/internal/repos"
	"fintrack/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fintrack: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("fintrack", pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	port := flags.StringP("port", "p", "", "listen port (overrides PORT)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	config.LoadEnvFile(*envFile)
	cfg := config.Load()
	if *port != "" {
		cfg.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Optional file logging
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	applog.Setup(out, cfg.LogLevel)

	db, err := repos.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var ledger services.RevocationLedger = repos.NewRevokedTokenRepo(db)
	if cfg.RevocationStore == "redis" {
		client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer client.Close()
		ledger = cache.NewRedisLedger(client)
	}

	var pub events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			applog.Error(nil, "events.amqp.connect.fail", err, map[string]any{"fallback": "nop"})
		} else {
			pub = p
		}
	}
	defer pub.Close()

	deps := handlers.NewDeps(db, cfg, ledger, pub)
	app := server.New(cfg, deps, out)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		applog.Info(nil, "server.start", map[string]any{
			"addr":       cfg.HTTPAddress(),
			"db_driver":  cfg.DBDriver,
			"revocation": cfg.RevocationStore,
		})
		return app.Listen(cfg.HTTPAddress())
	})
	g.Go(func() error {
		return services.RunPruner(gctx, ledger, cfg.PruneInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	err = g.Wait()
	applog.Info(nil, "server.stop", nil)
	return err
}
