package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/tasks"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v3"
)

// queueEngine builds a QueueEngine with the configured failure policy.
func (r *Runner) queueEngine(s *stores, runner tasks.ImportRunner) *tasks.QueueEngine {
	retryDelay := time.Duration(r.config.Queue.RetryDelayMS) * time.Millisecond
	notifier := tasks.NewLogNotifier(r.logger)
	return tasks.NewQueueEngine(s.queue, runner, notifier, r.config.Queue.MaxAttempts, retryDelay, r.logger)
}

// QueueRun drains pending tasks until the queue is empty or --max is reached.
func (r *Runner) QueueRun(ctx context.Context, cmd *cli.Command) error {
	max := int(cmd.Int("max"))

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s := newStores(db)

	runner, err := r.importer(s)
	if err != nil {
		return err
	}

	engine := r.queueEngine(s, runner)

	r.logger.Info("draining queue", "max", max)

	processed, err := engine.Drain(ctx, max)
	if err != nil {
		return fmt.Errorf("queue drain failed after %d tasks: %w", processed, err)
	}

	r.writePlain("✓ Processed %d tasks\n", processed)
	return nil
}

// QueueStatus shows task counts grouped by status.
func (r *Runner) QueueStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s := newStores(db)

	r.writePlainHeader("Queue Status")
	for _, status := range []string{models.TaskPending, models.TaskDone, models.TaskDead} {
		count, err := s.queue.CountByStatus(status)
		if err != nil {
			return fmt.Errorf("failed to count %s tasks: %w", status, err)
		}
		r.writePlain("%-8s %d\n", status, count)
	}

	dead, err := s.queue.List(models.TaskDead)
	if err != nil {
		return fmt.Errorf("failed to list dead tasks: %w", err)
	}
	if len(dead) > 0 {
		r.writePlainln("Dead tasks:")
		for _, task := range dead {
			r.writePlain("  #%d %s (attempts %d): %s\n", task.ID, task.Kind, task.Attempts, task.LastError)
		}
	}

	return nil
}

// QueueWatch drains the queue on a cron schedule until interrupted.
func (r *Runner) QueueWatch(ctx context.Context, cmd *cli.Command) error {
	schedule := cmd.String("cron")
	if schedule == "" {
		schedule = r.config.Queue.WatchCron
	}

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s := newStores(db)

	runner, err := r.importer(s)
	if err != nil {
		return err
	}

	engine := r.queueEngine(s, runner)

	scheduler := cron.New()
	_, err = scheduler.AddFunc(schedule, func() {
		processed, err := engine.Drain(ctx, 0)
		if err != nil {
			r.logger.Error("scheduled drain failed", "error", err)
			return
		}
		if processed > 0 {
			r.logger.Info("scheduled drain complete", "processed", processed)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", schedule, err)
	}

	r.logger.Info("watching queue", "cron", schedule)
	scheduler.Start()
	defer scheduler.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-sig:
		r.logger.Info("shutting down queue watcher")
		return nil
	}
}
