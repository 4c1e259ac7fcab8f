// main is the entry point for the gridsight CLI.
package main

import (
	"fmt"
	"os"

	"github.com/gridsight/gridsight/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}
