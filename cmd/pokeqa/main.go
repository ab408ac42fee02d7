package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/leca/dt-pokeapi/internal/client"
	"github.com/leca/dt-pokeapi/internal/config"
	"github.com/leca/dt-pokeapi/internal/scenario"
	"github.com/leca/dt-pokeapi/internal/steps"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := config.LoadSuite()

	var (
		dir  = flag.String("features", cfg.FeaturesDir, "directory of YAML feature files")
		tags = flag.String("tags", strings.Join(cfg.Tags, ","), "comma-separated tag filter; prefix a tag with ~ to exclude it")
		base = flag.String("base", cfg.BaseURL, "API base URL")
	)
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(*base, "/")

	features, err := scenario.LoadDir(*dir)
	if err != nil {
		slog.Error("failed to load features", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(cfg.BaseURL, client.WithDefaultTimeout(cfg.Timeout), client.WithLogger(logger))
	runner := scenario.NewRunner(steps.Vocabulary(),
		func() *steps.World { return steps.NewWorld(cfg, c, logger) },
		scenario.WithLogger(logger),
		scenario.WithTags(strings.Split(*tags, ",")...),
	)

	report := runner.Run(ctx, features)
	for _, s := range report.Scenarios {
		mark := "PASS"
		if !s.Passed {
			mark = "FAIL"
		}
		fmt.Printf("%s  %s / %s (%s)\n", mark, s.Feature, s.Name, s.Duration.Round(time.Millisecond))
		for _, st := range s.Steps {
			if st.Status == scenario.StatusPassed {
				continue
			}
			fmt.Printf("      %-9s %s\n", st.Status, st.Line)
			if st.Error != "" {
				fmt.Printf("                %s\n", st.Error)
			}
		}
	}

	failed := len(report.Failed())
	fmt.Printf("\n%d scenarios, %d passed, %d failed in %s\n",
		len(report.Scenarios), len(report.Scenarios)-failed, failed, report.Duration.Round(time.Millisecond))
	if failed > 0 {
		os.Exit(1)
	}
}
