package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"evcast/backend/libs/logging"
	"evcast/backend/services/scheduling-service/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logging.NewLogger("evcastctl")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := cli.NewRootCommand(cli.DefaultDeps(logger)).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "evcastctl:", err)
		os.Exit(1)
	}
}
