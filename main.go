package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ridelog/ridestats/internal/config"
	"github.com/ridelog/ridestats/internal/ingest"
	"github.com/ridelog/ridestats/internal/stats"
)

func main() {
	if err := runCLI(os.Args[1:]); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runCLI(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no recording given, try: ridestats activity.fit")
	}
	switch args[0] {
	case "help", "--help", "-h":
		fmt.Println("Usage: ridestats <recording.fit>")
		fmt.Println("Options:")
		fmt.Println("  --help, -h     Show this help message")
		fmt.Println("  HR_MAX         Your maximum heart rate (e.g. 185)")
		return nil
	case "version", "--version", "-v":
		fmt.Println("ridestats v0.1.0")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	activity, err := ingest.ReadFile(args[0], cfg.HRMax)
	if err != nil {
		return err
	}
	values, err := stats.NewCalculator(logger).Compute(context.Background(), activity.Table)
	if err != nil {
		return err
	}
	values[stats.Time] = activity.Finish.Sub(activity.Start).Seconds()

	fmt.Printf("%s  %s\n", activity.Sport, activity.Start.Format("2006-01-02 15:04"))
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-20s %10.2f\n", name, values[name])
	}
	return nil
}
