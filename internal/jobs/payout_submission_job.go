package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultPayoutSchedule runs a submission pass every ten seconds.
const DefaultPayoutSchedule = "*/10 * * * * *"

// PayoutSubmitter runs one submission pass over pending payouts.
type PayoutSubmitter interface {
	Handle(ctx context.Context, cmd commands.SubmitPayoutsCommand) (commands.SubmitPayoutsResult, error)
}

// PayoutSubmissionJob periodically hands pending payouts to the payment rail.
// A pass that is still running when the next tick fires makes that tick a no-op.
type PayoutSubmissionJob struct {
	handler   PayoutSubmitter
	schedule  string
	batchSize int
	timeout   time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewPayoutSubmissionJob creates the job. schedule is a six-field cron
// expression (seconds first); an empty schedule selects DefaultPayoutSchedule.
func NewPayoutSubmissionJob(
	handler PayoutSubmitter,
	schedule string,
	batchSize int,
	logger *slog.Logger,
) *PayoutSubmissionJob {
	if schedule == "" {
		schedule = DefaultPayoutSchedule
	}
	return &PayoutSubmissionJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		timeout:   time.Minute,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger.With("component", "payout_submission_job"),
	}
}

// Start schedules the job. It fails on an invalid schedule or batch size.
func (j *PayoutSubmissionJob) Start() error {
	cmd, err := commands.NewSubmitPayoutsCommand(j.batchSize)
	if err != nil {
		return err
	}

	if _, err = j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		_, _ = j.run(ctx, cmd)
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Payout submission job started",
		"schedule", j.schedule, "batch_size", j.batchSize)
	return nil
}

// RunOnce executes a single pass outside the schedule.
func (j *PayoutSubmissionJob) RunOnce(ctx context.Context) (commands.SubmitPayoutsResult, error) {
	cmd, err := commands.NewSubmitPayoutsCommand(j.batchSize)
	if err != nil {
		return commands.SubmitPayoutsResult{}, err
	}
	return j.run(ctx, cmd)
}

func (j *PayoutSubmissionJob) run(ctx context.Context, cmd commands.SubmitPayoutsCommand) (commands.SubmitPayoutsResult, error) {
	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Payout submission pass failed", "error", err)
		return result, err
	}
	if result.Submitted+result.Failed+result.Skipped > 0 {
		j.logger.InfoContext(ctx, "Payout submission pass finished",
			"submitted", result.Submitted,
			"failed", result.Failed,
			"skipped", result.Skipped,
		)
	}
	return result, nil
}

// Stop stops scheduling and waits for a running pass to finish.
func (j *PayoutSubmissionJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Payout submission job stopped")
}
