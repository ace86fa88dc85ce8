package main

import (
	"fmt"
	"os"

	"github.com/kolserdav/ravif-go/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ravif:", err)
		os.Exit(1)
	}
}
