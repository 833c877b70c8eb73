package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"relationship_engine/internal/domain/anchor"
	"relationship_engine/internal/engine"
	"relationship_engine/internal/infra/config"
	idb "relationship_engine/internal/infra/database"
	"relationship_engine/internal/infra/logger"
	"relationship_engine/internal/infra/scheduler"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Version kong.VersionFlag

	Serve ServeCmd `cmd:"" help:"Run the daily anchor sweep as a cron daemon." default:"1"`
	Run   RunCmd   `cmd:"" help:"Execute anchors once for one organization and print stats."`
}

// Runtime carries the wired dependencies into the commands.
type Runtime struct {
	Cfg       *config.AppConfig
	Factory   *engine.Factory
	Templates *idb.PostgresTemplateRepository
}

type ServeCmd struct{}

func (c *ServeCmd) Run(rt *Runtime) error {
	if len(rt.Cfg.OrgIDs) == 0 {
		return fmt.Errorf("ORG_IDS is empty, nothing to sweep")
	}

	sweep := scheduler.NewSweepScheduler(
		rt.Factory,
		rt.Templates,
		logger.Get(),
		rt.Cfg.OrgIDs,
		rt.Cfg.CronSpecDailySweep,
		rt.Cfg.FollowupTargetDays,
	)
	if err := sweep.Start(); err != nil {
		return fmt.Errorf("could not start sweep scheduler: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Get().Info("shutting down...")
	sweep.Stop()
	return nil
}

type RunCmd struct {
	Org     string   `required:"" help:"Organization id to run against."`
	Anchors []string `help:"Anchor codes to execute (default: all sweep anchors)." name:"anchor"`
}

func (c *RunCmd) Run(rt *Runtime) error {
	codes := make([]anchor.EventCode, 0, len(c.Anchors))
	for _, a := range c.Anchors {
		codes = append(codes, anchor.EventCode(a))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	templates, err := rt.Templates.ListActive(ctx, c.Org)
	if err != nil {
		return fmt.Errorf("could not load templates: %w", err)
	}

	cfg := &anchor.Config{
		AdditionalFilters: map[string]any{"target_days": rt.Cfg.FollowupTargetDays},
	}

	var results []engine.ExecutionResult
	if len(codes) == 0 {
		results = rt.Factory.ExecuteMultipleStrategies(ctx, []anchor.EventCode{
			anchor.EventSaleClose,
			anchor.EventFirstWorkout,
			anchor.EventRenewalWindow,
			anchor.EventBirthday,
			anchor.EventTrainingFollowup,
		}, c.Org, templates, cfg)
	} else {
		results = rt.Factory.ExecuteMultipleStrategies(ctx, codes, c.Org, templates, cfg)
	}

	for _, r := range results {
		if !r.Success {
			fmt.Printf("%-20s FAILED: %s\n", r.EventCode, r.Error)
			continue
		}
		fmt.Printf("%-20s found=%d created=%d skipped=%d errors=%d (%dms)\n",
			r.EventCode, r.Stats.StudentsFound, r.Stats.TasksCreated,
			r.Stats.TasksSkipped, len(r.Stats.Errors), r.Stats.DurationMS)
	}

	consolidated := engine.ConsolidateStats(results)
	fmt.Printf("total: found=%d created=%d skipped=%d\n",
		consolidated.Total.StudentsFound, consolidated.Total.TasksCreated, consolidated.Total.TasksSkipped)
	return nil
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("engine"),
		kong.Description("Relationship task scheduling engine"),
		kong.UsageOnError(),
		kong.Vars{"version": "v1.0.0"},
	)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg)

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		logger.Get().Fatalf("could not connect to database: %v", err)
	}
	defer db.Close()
	logger.Get().Info("database connection established")

	deps := engine.Deps{
		Students:    idb.NewPostgresStudentRepository(db),
		Tasks:       idb.NewPostgresTaskRepository(db),
		Services:    idb.NewPostgresServiceRepository(db),
		Occurrences: idb.NewPostgresOccurrenceRepository(db),
		Logger:      logger.Get(),
	}

	rt := &Runtime{
		Cfg:       cfg,
		Factory:   engine.NewFactory(deps),
		Templates: idb.NewPostgresTemplateRepository(db),
	}

	if err := kctx.Run(rt); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
