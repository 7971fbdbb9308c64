package main

import (
	"context"
	"fmt"
	"os"

	"academy/internal/app"
)

func main() {
	if err := app.Root().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "academy:", err)
		os.Exit(1)
	}
}
