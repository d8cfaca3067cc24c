package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"lotflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultOverdueReworkSpec runs the scan at the top of every hour.
const DefaultOverdueReworkSpec = "0 0 * * * *"

const overdueReworkJobName = "overdue_rework"

type OverdueFlagger interface {
	Handle(ctx context.Context, command commands.FlagOverdueReworkCommand) (int, error)
}

// RunRecorder observes job executions.
type RunRecorder interface {
	JobRun(job string, took time.Duration, err error)
}

// OverdueReworkJob periodically notifies about units held for rework longer
// than the threshold. Each unit is flagged at most once. Runs are serialized
// within one process.
type OverdueReworkJob struct {
	handler   OverdueFlagger
	threshold time.Duration
	spec      string
	recorder  RunRecorder
	cron      *cron.Cron
	logger    *slog.Logger

	mu sync.Mutex
}

func NewOverdueReworkJob(
	handler OverdueFlagger,
	threshold time.Duration,
	spec string,
	recorder RunRecorder,
	logger *slog.Logger,
) *OverdueReworkJob {
	if threshold <= 0 {
		threshold = commands.DefaultOverdueThreshold
	}
	if spec == "" {
		spec = DefaultOverdueReworkSpec
	}
	return &OverdueReworkJob{
		handler:   handler,
		threshold: threshold,
		spec:      spec,
		recorder:  recorder,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "overdue_rework_job"),
	}
}

// Start schedules the scan.
func (j *OverdueReworkJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() {
		_, _ = j.RunOnce(context.Background())
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Overdue rework job started",
		"schedule", j.spec, "threshold", j.threshold.String())
	return nil
}

// RunOnce performs a single scan and returns the number of units flagged.
func (j *OverdueReworkJob) RunOnce(ctx context.Context) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	started := time.Now()
	flagged, err := j.run(ctx)
	if j.recorder != nil {
		j.recorder.JobRun(overdueReworkJobName, time.Since(started), err)
	}

	if err != nil {
		j.logger.ErrorContext(ctx, "Overdue rework job failed", "error", err)
		return flagged, err
	}
	if flagged > 0 {
		j.logger.InfoContext(ctx, "Overdue rework reminders sent", "count", flagged)
	}
	return flagged, nil
}

func (j *OverdueReworkJob) run(ctx context.Context) (int, error) {
	cmd, err := commands.NewFlagOverdueReworkCommand(j.threshold)
	if err != nil {
		return 0, err
	}
	return j.handler.Handle(ctx, cmd)
}

// Stop stops scheduling and waits for a running scan to finish.
func (j *OverdueReworkJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Overdue rework job stopped")
}
