package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersion(version, commit, date)
	if err := commands.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
