package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chainsafe/wallet-dashboard/pkg/app"
	"github.com/chainsafe/wallet-dashboard/pkg/app/api"
	"github.com/chainsafe/wallet-dashboard/pkg/config"
)

func main() {
	// An empty path runs on defaults plus ALCHEMY_API_KEY from the environment.
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	var runner app.Runner = api.NewServer(cfg)
	if err := runner.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
