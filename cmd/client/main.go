package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hersh/gotris-pro/internal/app"
)

func main() {
	opts := app.Options{RequireRelay: true}
	flag.StringVar(&opts.Server, "server", "ws://localhost:8080/ws", "WebSocket relay address")
	flag.StringVar(&opts.Name, "name", "", "Player name (defaults to OS username)")
	flag.StringVar(&opts.ConfigPath, "config", "", "YAML config file (defaults to $GOTRIS_CONFIG)")
	flag.IntVar(&opts.Width, "width", 0, "Board width: 10, 12 or 15")
	flag.StringVar(&opts.Difficulty, "difficulty", "", "easy, medium or hard")
	flag.Parse()

	if err := app.Run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Make sure the server is running (go run ./cmd/server)\n")
		os.Exit(1)
	}
}
