package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	payoutSubmissionJob *PayoutSubmissionJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	payoutSubmitter PayoutSubmitter,
	payoutSchedule string,
	payoutBatchSize int,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		payoutSubmissionJob: NewPayoutSubmissionJob(payoutSubmitter, payoutSchedule, payoutBatchSize, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.payoutSubmissionJob.Start(); err != nil {
		return fmt.Errorf("failed to start payout submission job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.payoutSubmissionJob.Stop()
}
