// Command wid generates, validates and parses WIDs and HLC-WIDs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/wid/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		// Commands print their own output; only surface errors they did not.
		if !cli.Reported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	stop()
	os.Exit(cli.GetExitCode(err))
}
