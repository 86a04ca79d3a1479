// Command web runs the data-quality HTTP server.
package main

import (
	"flag"
	"fmt"
	"os"

	"rapihcli/internal/app"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	application, err := app.New(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
