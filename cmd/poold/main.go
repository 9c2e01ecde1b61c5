// shieldpoold is the daemon entry point for the shielded-pool node.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shieldpool/core/internal/config"
	"github.com/shieldpool/core/internal/indexer"
	"github.com/shieldpool/core/internal/merkle"
	"github.com/shieldpool/core/internal/registry"
	"github.com/shieldpool/core/internal/storage"
	"github.com/shieldpool/core/pkg/types"
)

const (
	version = "0.1.0"
	banner  = `
  shieldpoold v%s
  shielded-value transfer pool daemon
`
)

// Config holds daemon configuration.
type Config struct {
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	P2PListenAddr string

	UsePostgres bool

	DataDir string
}

func main() {
	cfg := parseFlags()
	fmt.Printf(banner, version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		cancel()
	}()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.DBHost, "db-host", "localhost", "PostgreSQL host")
	flag.IntVar(&cfg.DBPort, "db-port", 5432, "PostgreSQL port")
	flag.StringVar(&cfg.DBUser, "db-user", "shieldpool", "PostgreSQL user")
	flag.StringVar(&cfg.DBPassword, "db-password", "", "PostgreSQL password")
	flag.StringVar(&cfg.DBName, "db-name", "shieldpool", "PostgreSQL database name")
	flag.BoolVar(&cfg.UsePostgres, "postgres", false, "Use PostgreSQL persistence instead of in-memory")

	flag.StringVar(&cfg.P2PListenAddr, "listen", "/ip4/0.0.0.0/tcp/9100", "Indexer gossip listen address")

	flag.StringVar(&cfg.DataDir, "data-dir", "./data", "Data directory")

	flag.Parse()

	return cfg
}

func run(ctx context.Context, cfg *Config) error {
	fmt.Println("Initializing shielded pool node...")

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	var treeStore merkle.Store
	var acctRegistry registry.AccountRegistry
	var cfgStore config.Store

	if cfg.UsePostgres {
		fmt.Println("Connecting to database...")
		dbConfig := &storage.Config{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			Database: cfg.DBName,
			SSLMode:  "disable",
			MaxConns: 20,
		}
		store, err := storage.NewPostgresStore(ctx, dbConfig)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer store.Close()
		if err := store.ApplySchema(ctx); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
		fmt.Println("Database connected.")
		treeStore = store
		cfgStore = store
		acctRegistry = store
	} else {
		fmt.Println("Using in-memory persistence.")
		treeStore = merkle.NewInMemoryStore()
		acctRegistry = registry.NewInMemoryRegistry()
		cfgStore = config.NewInMemoryStore()
	}

	treeEngine := merkle.NewEngine(treeStore)
	configManager := config.NewManager(cfgStore)

	authority := types.Address{}
	treeState, err := treeEngine.Store.Load(ctx)
	if err != nil {
		fmt.Println("No existing tree state found; initializing a fresh pool...")
		treeState, err = merkle.InitializeState(types.TreeHeight, authority, 0)
		if err != nil {
			return fmt.Errorf("failed to initialize tree: %w", err)
		}
		if err := treeEngine.Store.Save(ctx, treeState); err != nil {
			return fmt.Errorf("failed to persist initial tree state: %w", err)
		}
		if _, err := configManager.Initialize(authority); err != nil {
			return fmt.Errorf("failed to initialize global config: %w", err)
		}
	}
	fmt.Printf("Tree loaded. next_index=%d root=%s\n", treeState.NextIndex, treeState.Root)

	fmt.Println("Starting indexer gossip node...")
	idxNode, err := indexer.NewNode(ctx, &indexer.Config{ListenAddrs: []string{cfg.P2PListenAddr}})
	if err != nil {
		fmt.Printf("Warning: indexer node failed to start: %v\n", err)
	} else {
		defer idxNode.Close()
		fmt.Printf("Indexer node id: %s\n", idxNode.ID())
	}

	fmt.Println("Shielded pool node started successfully!")
	fmt.Println("Press Ctrl+C to stop.")

	<-ctx.Done()

	fmt.Println("Node stopped.")
	return nil
}
