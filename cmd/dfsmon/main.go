// Command dfsmon monitors a distributed file system cluster through its
// coordinator's snapshot API.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	root := NewRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
