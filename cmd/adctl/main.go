package main

import (
	"context"
	"fmt"
	"os"

	"github.com/adzkyyy/adCTF/cmd/adctl/cmds"
)

func runApp(ctx context.Context) int {
	err := cmds.Execute(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		return 1
	}

	return 0
}

func main() {
	ctx := context.Background()
	os.Exit(runApp(ctx))
}
