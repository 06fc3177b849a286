package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/interdict/internal/config"
	imcp "github.com/peterkuimelis/interdict/internal/mcp"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flag.StringVar(&cfg.DecksFile, "decks", cfg.DecksFile, "path to decks YAML file")
	flag.StringVar(&cfg.MCPPort, "port", cfg.MCPPort, "TCP port for human player connection")
	flag.StringVar(&cfg.Catalog, "catalog", cfg.Catalog, `card name source: "registry", "yaml:PATH" or "sqlite:PATH"`)
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		return err
	}

	cat, closeCatalog, err := cfg.OpenCatalog(context.Background())
	if err != nil {
		return err
	}
	defer closeCatalog()

	stores, err := cfg.StateStores()
	if err != nil {
		return err
	}

	tools := imcp.NewTools(imcp.Options{
		DecksFile: cfg.DecksFile,
		Port:      cfg.MCPPort,
		Catalog:   cat,
		Stores:    stores,
		MaxTurns:  cfg.MaxTurns,
	})

	s := server.NewMCPServer("interdict", "1.0.0")
	tools.Register(s)

	return server.ServeStdio(s)
}
