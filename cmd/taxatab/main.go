// SPDX-License-Identifier: MIT

// Command taxatab runs the abundance-table sweep described by a YAML file:
//
//	taxatab -config run.yaml
//	taxatab -config run.yaml -validate
//
// Exit codes: 0 success, 1 run failure, 2 usage or configuration error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/katalvlaran/taxatab/pipeline"
)

const (
	exitOK = iota
	exitRun
	exitUsage
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("taxatab", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to the YAML run description")
	validate := fs.Bool("validate", false, "validate the configuration and exit")
	showVersion := fs.Bool("version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *showVersion {
		fmt.Println("taxatab", version)
		return exitOK
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "taxatab: -config is required")
		fs.Usage()
		return exitUsage
	}

	cfg, err := pipeline.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "taxatab: %v\n", err)
		return exitUsage
	}
	if *validate {
		fmt.Println("configuration is valid")
		return exitOK
	}

	log, err := pipeline.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "taxatab: %v\n", err)
		return exitUsage
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting", zap.String("version", version), zap.String("config", *configPath))
	sum, err := pipeline.Execute(ctx, cfg, log)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("run interrupted", zap.Int("tables", sum.Tables))
		} else {
			log.Error("run failed", zap.Error(err))
		}
		return exitRun
	}
	log.Info("done",
		zap.String("run_id", sum.RunID),
		zap.Int("combinations", sum.Combinations),
		zap.Int("skipped", sum.Skipped),
		zap.Int("tables", sum.Tables))

	return exitOK
}
