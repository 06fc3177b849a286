package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/peterkuimelis/interdict/internal/config"
	inet "github.com/peterkuimelis/interdict/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch os.Args[1] {
	case "host":
		err = runHost(ctx, cfg, os.Args[2:])
	case "join":
		err = runJoin(ctx, cfg, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  interdict host [--deck N] [--port P] [--decks FILE] [--catalog SRC] [--max-turns N]")
	fmt.Println("  interdict join [--deck N] [--addr ADDR]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host    Start a game server and play as Player 1")
	fmt.Println("  join    Connect to a game server and play as Player 2")
	fmt.Println()
	fmt.Println("Defaults come from INTERDICT_* environment variables and .env.")
}

func runHost(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	deck := fs.Int("deck", 1, "deck number to use (from the decks file)")
	fs.StringVar(&cfg.Port, "port", cfg.Port, "TCP port to listen on")
	fs.StringVar(&cfg.DecksFile, "decks", cfg.DecksFile, "path to decks file")
	fs.StringVar(&cfg.Catalog, "catalog", cfg.Catalog, `card name source: "registry", "yaml:PATH" or "sqlite:PATH"`)
	fs.IntVar(&cfg.MaxTurns, "max-turns", cfg.MaxTurns, "declare a draw after this many turns")
	fs.Parse(args)
	if err := cfg.Validate(); err != nil {
		return err
	}

	cat, closeCatalog, err := cfg.OpenCatalog(ctx)
	if err != nil {
		return err
	}
	defer closeCatalog()

	stores, err := cfg.StateStores()
	if err != nil {
		return err
	}

	srv := &inet.Server{
		DeckFile: cfg.DecksFile,
		Port:     cfg.Port,
		HostDeck: *deck,
		Catalog:  cat,
		Stores:   stores,
		MaxTurns: cfg.MaxTurns,
	}
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	deck := fs.Int("deck", 2, "deck number to use (from the host's decks file)")
	addr := fs.String("addr", "localhost:"+cfg.Port, "server address to connect to")
	fs.Parse(args)

	return inet.Connect(ctx, *addr, *deck)
}
