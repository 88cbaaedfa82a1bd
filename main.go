package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"route_automation/presentation/terminal"
)

func main() {
	termInterface, err := terminal.NewTerminalInterface()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := termInterface.Run(ctx)
	stop()

	os.Exit(code)
}
