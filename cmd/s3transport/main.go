package main

import (
	"fmt"
	"os"

	"s3transport/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "s3transport: %v\n", err)
		os.Exit(1)
	}
}
