// Package main provides the entry point for the callwatch service.
package main

import (
	"context"
	"fmt"
	"os"

	"call-digest-go/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
