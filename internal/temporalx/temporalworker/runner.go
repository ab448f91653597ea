package temporalworker

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	extraction "github.com/yungbote/relation-engine/internal/modules/extraction"
	"github.com/yungbote/relation-engine/internal/platform/envutil"
	"github.com/yungbote/relation-engine/internal/platform/logger"
	"github.com/yungbote/relation-engine/internal/temporalx"
	"github.com/yungbote/relation-engine/internal/temporalx/extractrun"
)

type Runner struct {
	log      *logger.Logger
	tc       temporalsdkclient.Client
	usecases extraction.Usecases
}

func NewRunner(log *logger.Logger, tc temporalsdkclient.Client, usecases extraction.Usecases) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	return &Runner{log: log, tc: tc, usecases: usecases}, nil
}

// Start registers the extract-run workflow and activities and begins
// polling the task queue. Start failures retry with backoff until
// TEMPORAL_WORKER_START_MAX_WAIT_SECONDS elapses.
func (r *Runner) Start(ctx context.Context) error {
	if r == nil || r.tc == nil {
		return fmt.Errorf("temporal worker not initialized")
	}
	cfg := temporalx.LoadConfig()
	if r.log != nil {
		r.log.Info("starting Temporal worker", "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue)
	}

	maxWait := time.Duration(envutil.Int("TEMPORAL_WORKER_START_MAX_WAIT_SECONDS", 60)) * time.Second
	backoff := 250 * time.Millisecond
	deadline := time.Now().Add(maxWait)

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		w := r.newWorker(cfg)
		startErr := w.Start()
		if startErr == nil {
			go func() {
				<-ctx.Done()
				w.Stop()
			}()
			if r.log != nil {
				r.log.Info("Temporal worker started", "task_queue", cfg.TaskQueue, "attempts", attempt)
			}
			return nil
		}
		w.Stop()

		if maxWait <= 0 || time.Now().After(deadline) {
			return startErr
		}
		if r.log != nil {
			r.log.Warn("Temporal worker failed to start; retrying", "attempt", attempt, "error", startErr)
		}
		time.Sleep(backoff)
		if backoff < 5*time.Second {
			backoff *= 2
		}
	}
}

func (r *Runner) newWorker(cfg temporalx.Config) worker.Worker {
	concurrency := envutil.Int("WORKER_CONCURRENCY", 4)
	if concurrency < 1 {
		concurrency = 1
	}

	w := worker.New(r.tc, cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: concurrency,
	})

	acts := &extractrun.Activities{Usecases: r.usecases}
	w.RegisterWorkflowWithOptions(extractrun.Workflow, workflow.RegisterOptions{Name: extractrun.WorkflowName})
	w.RegisterActivityWithOptions(acts.Extract, activity.RegisterOptions{Name: extractrun.ActivityExtract})
	w.RegisterActivityWithOptions(acts.Promote, activity.RegisterOptions{Name: extractrun.ActivityPromote})
	return w
}
