package main

import (
	"errors"
	"fmt"
	"os"

	"virtmem"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := virtmem.ParseArgs(args)
	if errors.Is(err, virtmem.ErrUsage) {
		fmt.Fprintf(os.Stderr, "Usage: %s npages nframes algorithm nrefs locality\n", os.Args[0])
		return 1
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := virtmem.NewLogger(os.Stderr, cfg.LogLevel)
	opts := []virtmem.Option{virtmem.WithLogger(logger)}
	if cfg.TracePath != "" {
		tw, err := virtmem.NewTraceFile(cfg.TracePath)
		if err != nil {
			logger.Error("cannot open trace", "path", cfg.TracePath, "error", err)
			return 1
		}
		defer tw.Close()
		opts = append(opts, virtmem.WithTrace(tw))
	}

	sim, err := virtmem.NewSimulator(cfg, opts...)
	if err != nil {
		logger.Error("cannot build simulator", "error", err)
		return 1
	}
	logger.Debug("seeded workload", "seed", cfg.Seed, "locality", cfg.Locality)
	report, err := sim.Generate(virtmem.NewGenerator(cfg.Seed))
	if err != nil {
		logger.Error("simulation failed", "error", err)
		return 1
	}
	if _, err := report.WriteTo(os.Stdout); err != nil {
		return 1
	}
	return 0
}
