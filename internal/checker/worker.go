package checker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/August26/nullvadcheck-go/internal/model"
)

// accountChecker is the slice of Validator the worker needs. Narrowed
// to an interface so worker tests can run against a scripted fake.
type accountChecker interface {
	SetAccount(ctx context.Context, account string) (bool, model.Reason)
	Validity(ctx context.Context, account string) model.AccountStatus
	Logout(ctx context.Context) bool
}

// Worker drives the validator over an ordered account list in a single
// background goroutine. Outcomes are emitted on the events channel
// strictly in input order, exactly one per processed account; the done
// channel then delivers the terminal summary.
//
// Accounts are checked sequentially on purpose: the external client
// keeps single-session login state, and parallel invocations would
// corrupt each other's login/logout sequencing.
//
// A worker runs at most once. Completed and Cancelled are terminal;
// a new run needs a new worker.
type Worker struct {
	checker accountChecker
	pacer   *Pacer
	log     *slog.Logger

	runID  string
	events chan model.Outcome
	done   chan model.RunSummary
	cancel context.CancelFunc

	mu      sync.Mutex
	started bool
}

// NewWorker builds a worker around a validator and pacer.
func NewWorker(checker accountChecker, pacer *Pacer, log *slog.Logger) *Worker {
	runID := uuid.NewString()
	return &Worker{
		checker: checker,
		pacer:   pacer,
		log:     log.With("run_id", runID),
		runID:   runID,
	}
}

// RunID identifies this run in logs and the terminal summary.
func (w *Worker) RunID() string {
	return w.runID
}

// Events delivers one outcome per processed account, in input order.
// The channel is closed once the run ends. Nil until Start succeeds.
func (w *Worker) Events() <-chan model.Outcome {
	return w.events
}

// Done delivers the terminal run summary after the events channel is
// closed. Nil until Start succeeds.
func (w *Worker) Done() <-chan model.RunSummary {
	return w.done
}

// Start launches the batch over the given accounts. An empty list is
// rejected with model.ErrNoAccounts and the worker stays idle; so does
// a second Start on the same worker.
func (w *Worker) Start(accounts []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return fmt.Errorf("worker already started")
	}
	if len(accounts) == 0 {
		return model.ErrNoAccounts
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.events = make(chan model.Outcome)
	w.done = make(chan model.RunSummary, 1)
	w.started = true

	go w.run(ctx, accounts)
	return nil
}

// Stop requests cooperative cancellation. It is checked only between
// accounts: an in-flight client call always completes first, and its
// outcome is still emitted. Safe to call multiple times.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
	}
}

func (w *Worker) run(ctx context.Context, accounts []string) {
	start := time.Now()
	state := model.RunCompleted
	processed := 0

	w.log.Info("batch started", "accounts", len(accounts))

	for _, account := range accounts {
		// Cancellation boundary: never mid-invocation.
		if ctx.Err() != nil {
			state = model.RunCancelled
			break
		}

		if err := w.pacer.PreWait(ctx); err != nil {
			state = model.RunCancelled
			break
		}

		// The client call in flight is atomic: Stop must not kill it,
		// so the check runs detached from the cancellable run context.
		w.events <- w.checkOne(context.WithoutCancel(ctx), account)
		processed++

		if err := w.pacer.PostWait(ctx); err != nil {
			state = model.RunCancelled
			break
		}
	}

	if state == model.RunCancelled {
		// Do not leave the client authenticated. Best effort.
		w.checker.Logout(context.Background())
	}

	close(w.events)
	w.done <- model.RunSummary{
		RunID:     w.runID,
		State:     state,
		Processed: processed,
		Total:     len(accounts),
		Duration:  time.Since(start),
	}
	w.log.Info("batch finished",
		"state", state.String(),
		"processed", processed,
		"total", len(accounts),
	)
}

// checkOne processes a single account and never lets a failure escape:
// whatever happens, the account gets exactly one outcome.
func (w *Worker) checkOne(ctx context.Context, account string) (out model.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("panic while checking account", "account", account, "panic", r)
			out = model.Outcome{
				Account:  account,
				Category: model.CategoryError,
				Message:  fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	accepted, reason := w.checker.SetAccount(ctx, account)
	if !accepted {
		return model.Outcome{
			Account:  account,
			Category: rejectionCategory(reason),
			Message:  string(reason),
		}
	}

	status := w.checker.Validity(ctx, account)
	defer w.checker.Logout(ctx)

	switch {
	case status.IsValid:
		return model.Outcome{
			Account:  account,
			Category: model.CategoryValid,
			Message:  "Valid until " + status.ExpiryDate.Format("2006-01-02"),
		}
	case status.ErrorMessage != "":
		return model.Outcome{
			Account:  account,
			Category: model.CategoryError,
			Message:  status.ErrorMessage,
		}
	default:
		return model.Outcome{
			Account:  account,
			Category: model.CategoryInvalid,
			Message:  "Account expired",
		}
	}
}

// rejectionCategory maps a login rejection to its outcome category.
// Terminal negatives about the account itself (unknown account, device
// limit) are Invalid; everything else is Error.
func rejectionCategory(reason model.Reason) model.Category {
	switch reason {
	case model.ReasonNotFound, model.ReasonTooManyDevices:
		return model.CategoryInvalid
	default:
		return model.CategoryError
	}
}
