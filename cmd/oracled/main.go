package main

import (
	"context"
	"fmt"
	"os"

	"github.com/paw-chain/oraclenet/cmd/oracled/cmd"
	"github.com/paw-chain/oraclenet/x/oraclenet/client/cli"
)

func main() {
	if err := cmd.Execute(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}
