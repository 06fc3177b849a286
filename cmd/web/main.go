package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/peterkuimelis/interdict/internal/config"
	"github.com/peterkuimelis/interdict/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	flag.IntVar(&cfg.WebPort, "port", cfg.WebPort, "HTTP port to listen on")
	flag.StringVar(&cfg.DecksFile, "decks", cfg.DecksFile, "path to decks YAML file")
	flag.StringVar(&cfg.Catalog, "catalog", cfg.Catalog, `card name source: "registry", "yaml:PATH" or "sqlite:PATH"`)
	flag.Parse()

	cat, closeCatalog, err := cfg.OpenCatalog(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeCatalog()

	srv := web.NewServer(cfg.DecksFile, cat)

	addr := fmt.Sprintf(":%d", cfg.WebPort)
	log.Printf("interdict web API listening on http://localhost:%d", cfg.WebPort)
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
