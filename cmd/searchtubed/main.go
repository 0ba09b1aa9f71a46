package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"searchtube/internal/config"
	"searchtube/internal/daemonrun"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	logLevel := flag.String("log-level", "", "override log level (debug, info, warn, error)")
	flag.Parse()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	err = daemonrun.Run(context.Background(), cfg, daemonrun.Options{LogLevel: *logLevel})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
