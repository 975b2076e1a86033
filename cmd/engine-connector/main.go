// Command engine-connector runs container-engine operations against a
// Docker-compatible REST API, either one-shot from the command line or as an
// HTTP gateway.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
