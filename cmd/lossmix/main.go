// Package main provides the lossmix CLI.
package main

import (
	"context"
	"os"
)

func main() {
	if err := NewCLI().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
