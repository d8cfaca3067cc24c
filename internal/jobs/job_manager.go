package jobs

import (
	"fmt"
)

// Job is a scheduled background task.
type Job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs  []namedJob
	start int
}

type namedJob struct {
	name string
	job  Job
}

// NewJobManager creates a job manager running the overdue rework scan.
func NewJobManager(overdueRework *OverdueReworkJob) *JobManager {
	jm := &JobManager{}
	jm.Add(overdueReworkJobName, overdueRework)
	return jm
}

// Add registers another job. It must be called before StartAll.
func (jm *JobManager) Add(name string, job Job) {
	jm.jobs = append(jm.jobs, namedJob{name: name, job: job})
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	for i, nj := range jm.jobs {
		if err := nj.job.Start(); err != nil {
			// Stop already started jobs if this one fails
			for _, started := range jm.jobs[:i] {
				started.job.Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", nj.name, err)
		}
	}
	jm.start = len(jm.jobs)
	return nil
}

// StopAll stops all started jobs gracefully, newest first.
func (jm *JobManager) StopAll() {
	for i := jm.start - 1; i >= 0; i-- {
		jm.jobs[i].job.Stop()
	}
	jm.start = 0
}
