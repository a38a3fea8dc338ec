package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/ridelog/ridestats/internal/config"
	"github.com/ridelog/ridestats/internal/ingest"
	"github.com/ridelog/ridestats/internal/jobs"
	"github.com/ridelog/ridestats/internal/stats"
	"github.com/ridelog/ridestats/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	st, err := store.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal("unable to connect to database:", err)
	}
	defer st.Close()

	calc := stats.NewCalculator(logger)

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, asynq.Config{
		Concurrency: 8,
		Queues: map[string]int{
			"compute": 10, // higher priority
			"default": 5,  // default priority
		},
	})
	mux := asynq.NewServeMux()

	mux.HandleFunc(jobs.TaskComputeActivity, func(ctx context.Context, t *asynq.Task) error {
		var p jobs.ComputeActivityPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			logger.Error().Err(err).Msg("bad payload")
			return err
		}
		start := time.Now()
		err := computeActivity(ctx, st, calc, cfg.HRMax, p.Path)
		duration := time.Since(start)
		if err != nil {
			logger.Error().Err(err).Str("path", p.Path).Dur("duration", duration).
				Msg("compute failed")
			return err
		}
		logger.Info().Str("path", p.Path).Dur("duration", duration).Msg("compute done")
		return nil
	})

	// sweep the data directory for recordings not yet registered
	queue := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer queue.Close()
	c := cron.New()
	if _, err := c.AddFunc(cfg.SweepCron, func() {
		if err := sweep(context.Background(), st, queue, cfg.DataDir); err != nil {
			logger.Warn().Err(err).Msg("sweep failed")
		}
	}); err != nil {
		log.Fatalf("bad SWEEP_CRON: %v", err)
	}
	c.Start()
	defer c.Stop()

	log.Println("Worker running...")
	log.Fatal(srv.Run(mux))
}

// computeActivity ingests one recording, derives its statistic mapping and
// stores the result.
func computeActivity(ctx context.Context, st *store.Store, calc *stats.Calculator, hrMax int, path string) error {
	activity, err := ingest.ReadFile(path, hrMax)
	if err != nil {
		return err
	}
	id, err := st.UpsertActivity(ctx, store.Activity{
		ID:     activity.ID,
		Path:   path,
		Sport:  activity.Sport,
		Start:  activity.Start,
		Finish: activity.Finish,
	})
	if err != nil {
		return err
	}
	values, err := calc.Compute(ctx, activity.Table)
	if err != nil {
		return err
	}
	values[stats.Time] = activity.Finish.Sub(activity.Start).Seconds()
	return st.ReplaceStatistics(ctx, id, values)
}

// sweep enqueues a compute task for every FIT file in dir that the store
// does not know yet.
func sweep(ctx context.Context, st *store.Store, queue *asynq.Client, dir string) error {
	known, err := st.KnownPaths(ctx)
	if err != nil {
		return err
	}
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".fit") {
			return err
		}
		if known[path] {
			return nil
		}
		payload, _ := json.Marshal(jobs.ComputeActivityPayload{Path: path})
		_, err = queue.EnqueueContext(ctx, asynq.NewTask(jobs.TaskComputeActivity, payload),
			asynq.Queue("compute"))
		return err
	})
}
