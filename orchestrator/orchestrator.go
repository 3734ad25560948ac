// Package orchestrator implements the per-turn state machine: load session,
// classify, dispatch to one handler, execute under the retry policy, append
// the transcript delta, return the reply. Upstream failures are absorbed
// here; callers always receive reply text unless the session store itself
// breaks its contract.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/realvia/realvia/core"
	"github.com/realvia/realvia/handler"
	"github.com/realvia/realvia/logging"
)

// State names the phases one inbound message moves through. The graph is
// start → routed → dispatched → {completed, failed}; it is never reentered
// within a single turn.
type State string

// Turn states.
const (
	StateStart      State = "start"
	StateRouted     State = "routed"
	StateDispatched State = "dispatched"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// FallbackReply is the fixed user-facing text for a turn whose handler
// execution failed terminally. The transcript is left unchanged in that case.
const FallbackReply = "I apologize, but I encountered an error. Please try again or rephrase your question."

// Options configures an Orchestrator.
type Options struct {
	// WindowEntries bounds the context passed to classifier and handlers.
	WindowEntries int
	// Retry governs handler execution; classifier failures are never
	// retried, they degrade to the general handler immediately.
	Retry core.RetryPolicy
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Orchestrator runs one turn at a time against shared collaborators. It is
// stateless between turns and safe for concurrent use; per-conversation
// ordering is the facade's concern.
type Orchestrator struct {
	store         core.Store
	classifier    core.Classifier
	pool          *handler.Pool
	windowEntries int
	retry         core.RetryPolicy
	logger        logging.Logger
}

// New constructs an Orchestrator with optional overrides.
func New(store core.Store, classifier core.Classifier, pool *handler.Pool, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		WindowEntries: core.DefaultWindowEntries,
		Retry:         core.DefaultRetryPolicy(),
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Orchestrator{
		store:         store,
		classifier:    classifier,
		pool:          pool,
		windowEntries: opts.WindowEntries,
		retry:         opts.Retry,
		logger:        opts.Logger,
	}
}

// Run processes one inbound message for the given conversation. The returned
// error is reserved for session store contract violations; every upstream
// failure (classifier, handler, budget, malformed output) is absorbed into
// reply text.
func (o *Orchestrator) Run(ctx context.Context, conversationID, message string) (string, error) {
	state := StateStart
	o.logTransition(conversationID, state)

	sess, err := o.store.Get(conversationID)
	if err != nil {
		return "", fmt.Errorf("load session %q: %w", conversationID, err)
	}
	history := core.Window(sess.Entries, o.windowEntries)

	decision := o.classify(ctx, conversationID, message, history)
	state = StateRouted
	o.logTransition(conversationID, state, "label", decision.Label)

	h := o.pool.Dispatch(decision.Label)
	state = StateDispatched
	o.logTransition(conversationID, state, "handler", h.Name())

	var result core.HandlerResult
	err = o.retry.Do(ctx, func() error {
		r, runErr := h.Run(ctx, message, history)
		if runErr != nil {
			o.logger.Warn("handler attempt failed",
				"conversation_id", conversationID, "handler", h.Name(), "error", runErr)
			return runErr
		}
		// Retries replace the result; only the final successful attempt's
		// delta survives.
		result = r
		return nil
	})
	if err != nil {
		state = StateFailed
		o.logTransition(conversationID, state, "handler", h.Name(), "error", err)
		return FallbackReply, nil
	}

	if len(result.Delta) > 0 {
		entry := core.NewTranscriptEntry(h.Name(), result.Delta)
		if err := o.store.Append(conversationID, entry, decision); err != nil {
			return "", fmt.Errorf("append session %q: %w", conversationID, err)
		}
	}

	state = StateCompleted
	o.logTransition(conversationID, state)
	return result.Reply, nil
}

// classify runs the classifier step, degrading any failure to the general
// label with a rationale noting the cause. A turn is never left unrouted.
func (o *Orchestrator) classify(ctx context.Context, conversationID, message string, history []core.Message) core.RoutingDecision {
	decision, err := o.classifier.Classify(ctx, message, history)
	if err != nil {
		o.logger.Warn("classifier failed, routing to general",
			"conversation_id", conversationID, "error", err)
		return core.RoutingDecision{
			Label:     core.LabelGeneral,
			Rationale: fmt.Sprintf("classifier unavailable: %v", err),
		}
	}
	decision.Label = core.NormalizeLabel(decision.Label)
	return decision
}

func (o *Orchestrator) logTransition(conversationID string, state State, args ...any) {
	o.logger.Debug("turn state", append([]any{"conversation_id", conversationID, "state", string(state)}, args...)...)
}
