package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dialogforge/workbench/internal/archive"
	"github.com/dialogforge/workbench/internal/blueprint"
	"github.com/dialogforge/workbench/internal/fetch"
	"github.com/dialogforge/workbench/internal/index"
	"github.com/dialogforge/workbench/internal/infrastructure/config"
	"github.com/dialogforge/workbench/internal/infrastructure/logging"
	"github.com/dialogforge/workbench/internal/registry"
	"github.com/dialogforge/workbench/internal/shared/paths"
)

func main() {
	// Parse flags
	appPath := flag.String("app-path", "", "Install path for the application (default: ./<name>)")
	indexHost := flag.String("index-host", "", "Index host address (default: WORKBENCH_INDEX_HOST)")
	cacheRoot := flag.String("cache-root", "", "Blueprint cache root (default: per-user cache dir)")
	baseURL := flag.String("base-url", "", "Blueprint store base URL")
	timeout := flag.Duration("timeout", 0, "HTTP request timeout")
	retries := flag.Int("retries", -1, "Transport-level download retries (0 disables)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dev := flag.Bool("dev", false, "Development logging (colored console output)")
	appOnly := flag.Bool("app-only", false, "Only set up the application archive")
	kbOnly := flag.Bool("kb-only", false, "Only set up the knowledge base")
	flag.Parse()

	name := flag.Arg(0)
	if name == "" {
		log.Fatalf("Usage: blueprint [flags] <name>\nKnown blueprints: %s",
			strings.Join(registry.Names(), ", "))
	}
	if *appOnly && *kbOnly {
		log.Fatal("-app-only and -kb-only are mutually exclusive")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags override environment configuration.
	if *baseURL == "" {
		*baseURL = cfg.Store.BaseURL
	}
	if *timeout == 0 {
		*timeout = cfg.HTTP.Timeout
	}
	if *retries < 0 {
		*retries = cfg.HTTP.Retries
	}
	if *cacheRoot == "" {
		*cacheRoot = cfg.Cache.Root
	}
	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}

	logger, err := logging.New(logging.Config{
		Level:       *logLevel,
		Development: *dev || cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	root, err := paths.Root(*cacheRoot)
	if err != nil {
		log.Fatalf("Failed to resolve cache root: %v", err)
	}

	client := fetch.NewClient(fetch.Options{Timeout: *timeout, Retries: *retries})
	fetcher := fetch.NewFetcher(client, *baseURL, root, logger)
	installer := archive.NewInstaller(logger)
	dispatcher := index.NewDispatcher(index.NewHTTPLoader(*timeout), logger)
	provisioner := blueprint.NewProvisioner(fetcher, installer, dispatcher, root, cfg.Index.Host, logger)

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *appOnly:
		resolved, err := provisioner.SetupApp(ctx, name, *appPath)
		if err != nil {
			log.Fatalf("App setup failed: %v", err)
		}
		fmt.Println(resolved)
	case *kbOnly:
		if err := provisioner.SetupKB(ctx, name, *appPath, *indexHost); err != nil {
			log.Fatalf("Knowledge base setup failed: %v", err)
		}
	default:
		resolved, err := provisioner.Provision(ctx, name, blueprint.Options{
			AppPath:   *appPath,
			IndexHost: *indexHost,
		})
		if err != nil {
			log.Fatalf("Provisioning failed: %v", err)
		}
		fmt.Println(resolved)
	}
}
