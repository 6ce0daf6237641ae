// Command brickbid is a terminal client for the BrickBid trading platform.
//
// Usage:
//
//	brickbid [-config file] <command> [args]
//
// Commands:
//
//	login                               authenticate and store the session
//	logout                              clear the stored session
//	register                            create an account
//	funds                               watch balance and display name
//	funds add <amount>                  deposit funds
//	funds withdraw <amount>             withdraw funds
//	property <id>                       watch a listing and its order book
//	order market <buy|sell> <id>        place a market order
//	order limit <buy|sell> <id> <price> place a limit order
//	watchlist [add|remove <id>]         show or edit the watchlist
//	portfolio                           show held properties
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/brickbid/brickbid-go/config"
	"github.com/brickbid/brickbid-go/logging"
)

func main() {
	configPath := flag.String("config", os.Getenv("BRICKBID_CONFIG"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Service: "brickbid"}); err != nil {
		fmt.Fprintln(os.Stderr, "logger setup:", err)
		os.Exit(1)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := newApp(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer cleanup()

	if err := app.Run(ctx, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
