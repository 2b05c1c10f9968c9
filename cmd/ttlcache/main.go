// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Command ttlcache loads a cache snapshot and reports what survived import.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luxfi/metric"
	"go.uber.org/zap"

	"github.com/luxfi/ttlcache"
	"github.com/luxfi/ttlcache/expiring"
	"github.com/luxfi/ttlcache/internal/config"
	"github.com/luxfi/ttlcache/metercacher"
)

func main() {
	configFile := flag.String("config", "config.toml", "location of config file")
	snapshotFile := flag.String("snapshot", "", "snapshot JSON to import (- for stdin)")
	wait := flag.Duration("wait", 0, "wait this long and report again")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configFile, *snapshotFile, *wait, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "ttlcache:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile, snapshotFile string, wait time.Duration, out io.Writer) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	c := expiring.New[any](
		expiring.WithDefaultTTL(cfg.TTL()),
		expiring.WithLogger(log),
		expiring.WithDebug(cfg.Debug),
	)

	var (
		target   ttlcache.ExpiringCacher[any] = c
		registry metric.Registry
	)
	if cfg.Metrics.Enabled {
		registry = metric.NewRegistry()
		metered, err := metercacher.NewExpiring[any](cfg.Metrics.Namespace, registry, c)
		if err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
		target = metered
	}

	snapshot, err := readSnapshot(snapshotFile)
	if err != nil {
		return err
	}
	size, err := target.Import(snapshot)
	if err != nil {
		return fmt.Errorf("importing %s: %w", snapshotFile, err)
	}
	log.Info("snapshot imported", zap.String("file", snapshotFile), zap.Int("size", size))
	if err := report(out, c, registry); err != nil {
		return err
	}

	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
		return nil
	case <-timer.C:
	}
	return report(out, c, registry)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func readSnapshot(path string) ([]byte, error) {
	switch path {
	case "":
		return nil, nil
	case "-":
		return io.ReadAll(os.Stdin)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return b, nil
}

func report(out io.Writer, c *expiring.Cache[any], registry metric.Registry) error {
	fmt.Fprintf(out, "size=%d memsize=%d\n", c.Size(), c.MemSize())
	for _, k := range c.Keys() {
		v, ok := c.Get(k)
		if !ok {
			continue
		}
		fmt.Fprintf(out, "  %s = %v\n", k, v)
	}
	if registry == nil {
		return nil
	}

	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			name := family.GetName()
			for _, label := range m.GetLabel() {
				name += fmt.Sprintf("{%s=%q}", label.GetName(), label.GetValue())
			}
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			}
			fmt.Fprintf(out, "  %s %g\n", name, value)
		}
	}
	return nil
}
