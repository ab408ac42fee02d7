package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/leca/dt-pokeapi/internal/client"
	"github.com/leca/dt-pokeapi/internal/config"
	"github.com/leca/dt-pokeapi/internal/loadgen"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	suite := config.LoadSuite()
	defaults := loadgen.DefaultConfig()

	var (
		host     = flag.String("host", suite.BaseURL, "API base URL")
		users    = flag.Int("users", defaults.Users, "number of concurrent users")
		duration = flag.Duration("duration", defaults.Duration, "run time")
		minWait  = flag.Duration("min-wait", defaults.MinWait, "minimum think time between tasks")
		maxWait  = flag.Duration("max-wait", defaults.MaxWait, "maximum think time between tasks")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := defaults
	cfg.Users = *users
	cfg.Duration = *duration
	cfg.MinWait = *minWait
	cfg.MaxWait = *maxWait

	c := client.New(*host, client.WithDefaultTimeout(suite.Timeout), client.WithLogger(logger))
	stats, err := loadgen.NewRunner(c, logger).Run(ctx, cfg)
	if err != nil {
		slog.Error("load run failed", "error", err)
		os.Exit(1)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tREQUESTS\tFAILURES\tMIN\tMEAN\tMAX")
	for _, t := range stats.Tasks() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\n", t.Name, t.Requests, t.Failures, t.Min, t.Mean(), t.Max)
	}
	fmt.Fprintf(tw, "TOTAL\t%d\t%d\t\t%.2f req/s\t\n", stats.Requests(), stats.Failures(), stats.RPS())
	tw.Flush()
}
