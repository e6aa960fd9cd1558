package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/idilsaglam/chores/internal/cli"
)

const (
	cmdName   = "chores"
	shortDesc = "Today's household chores, from the terminal."
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, cli.NewRootCmd(cmdName, shortDesc))
	stop()
	os.Exit(code)
}
