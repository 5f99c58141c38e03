package search

import (
	"context"
	"log"
	"time"

	"github.com/shubhamdhabu/trace-rescue/internal/cases"
	"github.com/shubhamdhabu/trace-rescue/internal/config"
	"github.com/shubhamdhabu/trace-rescue/internal/recognizer"
)

// Backend is the full recognition backend contract consumed by the
// orchestrator. *recognizer.Client satisfies it.
type Backend interface {
	EnrollFace(ctx context.Context, label string) error
	Train(ctx context.Context) error
	StartRecognition(ctx context.Context, caseID, label string) error
	DetectionSource
}

// Orchestrator drives the four-step recognition workflow for one session and
// reconciles a confirmed match back into case state.
type Orchestrator struct {
	backend         Backend
	store           *cases.Store
	pollInterval    time.Duration
	maxPollFailures int
}

// NewOrchestrator creates an orchestrator using the recognizer tunables.
func NewOrchestrator(backend Backend, store *cases.Store, cfg *config.RecognizerConfig) *Orchestrator {
	return &Orchestrator{
		backend:         backend,
		store:           store,
		pollInterval:    cfg.PollInterval,
		maxPollFailures: cfg.MaxPollFailures,
	}
}

// Run executes the workflow to completion and records the terminal outcome on
// the session. It blocks; callers run it in a goroutine and observe progress
// through session events.
//
// The three setup steps are strictly sequential and a failure in any of them
// aborts the session. Cancellation between steps lets the in-flight call
// finish but suppresses everything after it.
func (o *Orchestrator) Run(ctx context.Context, sess *Session) {
	defer close(sess.done)

	steps := []struct {
		name  string
		state State
		call  func(context.Context) error
	}{
		{StepEnroll, StateEnrolling, func(ctx context.Context) error {
			return o.backend.EnrollFace(ctx, sess.Label)
		}},
		{StepTrain, StateTraining, func(ctx context.Context) error {
			return o.backend.Train(ctx)
		}},
		{StepStartRecognition, StateRecognizing, func(ctx context.Context) error {
			return o.backend.StartRecognition(ctx, sess.CaseID, sess.Label)
		}},
	}

	for _, step := range steps {
		if ctx.Err() != nil {
			sess.finish(StateCancelled, nil, "")
			return
		}
		sess.setState(step.state)

		if err := step.call(ctx); err != nil {
			if ctx.Err() != nil {
				sess.finish(StateCancelled, nil, "")
				return
			}
			stepErr := &StepError{Step: step.name, Err: err}
			log.Printf("search session %s: %v", sess.ID, stepErr)
			sess.finish(StateFailed, nil, stepErr.Error())
			return
		}

		// Re-check after the call returns so a cancel issued mid-step never
		// starts the next one.
		if ctx.Err() != nil {
			sess.finish(StateCancelled, nil, "")
			return
		}
	}

	sess.setState(StatePolling)

	poller := NewPoller(o.backend, o.pollInterval, o.maxPollFailures)
	det, err := poller.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			sess.finish(StateCancelled, nil, "")
			return
		}
		stepErr := &StepError{Step: StepPoll, Err: err}
		log.Printf("search session %s: %v", sess.ID, stepErr)
		sess.finish(StateFailed, nil, stepErr.Error())
		return
	}

	sess.finish(StateMatched, o.reconcile(ctx, sess, det), "")
}

// reconcile marks the case resolved on behalf of its owner and builds the
// match report. A failed update (for example the case was concurrently
// closed) still reports the match, flagged unreconciled, so the detection is
// never silently lost.
func (o *Orchestrator) reconcile(ctx context.Context, sess *Session, det *recognizer.Detection) *Match {
	match := &Match{
		Name:     det.Name,
		Location: det.Location,
		Message:  det.Message,
		ImageURL: det.ImageURL,
	}

	// The update must survive a cancel racing in after the match arrived.
	owner := cases.Principal{ID: sess.OwnerID}
	if _, err := o.store.UpdateStatus(context.WithoutCancel(ctx), owner, sess.CaseID, cases.StatusResolved); err != nil {
		log.Printf("search session %s: match found but case %s not reconciled: %v", sess.ID, sess.CaseID, err)
		match.Unreconciled = true
	}
	return match
}
