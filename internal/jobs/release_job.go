package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"careconnect/internal/usecase"
)

const DefaultReleaseInterval = time.Hour

type releaser interface {
	ReleaseDuePayments(ctx context.Context) (usecase.ReleaseSummary, error)
}

// ReleaseJob periodically releases held funds whose holdback has passed.
type ReleaseJob struct {
	releaser releaser
	interval time.Duration
	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewReleaseJob(r releaser, interval time.Duration) *ReleaseJob {
	if interval <= 0 {
		interval = DefaultReleaseInterval
	}
	return &ReleaseJob{
		releaser: r,
		interval: interval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs one cycle right away and then one per interval until Stop.
func (j *ReleaseJob) Start() {
	go j.run()
	log.Printf("[booking][release] job started interval=%s", j.interval)
}

// Stop cancels any in-flight cycle and waits for the loop to exit.
func (j *ReleaseJob) Stop() {
	j.stopOnce.Do(func() {
		close(j.stopChan)
		<-j.done
		log.Printf("[booking][release] job stopped")
	})
}

// RunOnce executes a single release cycle.
func (j *ReleaseJob) RunOnce(ctx context.Context) (usecase.ReleaseSummary, error) {
	summary, err := j.releaser.ReleaseDuePayments(ctx)
	if err != nil {
		log.Printf("[booking][release] cycle failed err=%v", err)
	}
	return summary, err
}

func (j *ReleaseJob) run() {
	defer close(j.done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-j.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	_, _ = j.RunOnce(ctx)
	for {
		select {
		case <-ticker.C:
			_, _ = j.RunOnce(ctx)
		case <-j.stopChan:
			return
		}
	}
}
