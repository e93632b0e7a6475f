package cli

import (
	"context"
	"os"
)

// Execute runs the panelmap CLI with results on stdout and logs on stderr.
// The context is passed to every command; cancelling it aborts a running
// layout or stops the server.
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	c := New(os.Stdout, os.Stderr, LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
