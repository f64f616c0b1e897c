package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hersh/gotris-pro/internal/app"
)

// This is the standalone entry point. It plays offline unless a relay
// address is configured. For spectating, use:
//   Server: go run ./cmd/server
//   Client: go run ./cmd/client --server ws://localhost:8080/ws --name YourName

func main() {
	var opts app.Options
	flag.StringVar(&opts.ConfigPath, "config", "", "YAML config file (defaults to $GOTRIS_CONFIG)")
	flag.StringVar(&opts.Name, "name", "", "Player name (defaults to OS username)")
	flag.IntVar(&opts.Width, "width", 0, "Board width: 10, 12 or 15")
	flag.StringVar(&opts.Difficulty, "difficulty", "", "easy, medium or hard")
	flag.Int64Var(&opts.Seed, "seed", 0, "Piece sequence seed (0 = random)")
	flag.StringVar(&opts.Server, "server", "", "Spectator relay address (optional)")
	flag.Parse()

	if err := app.Run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
