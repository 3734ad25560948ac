package core

import "context"

// Classifier decides which handler processes the current turn. Implementations
// are fallible and quota-limited; the orchestrator absorbs their failures and
// falls back to LabelGeneral, so a turn is never left unrouted.
type Classifier interface {
	Classify(ctx context.Context, message string, history []Message) (RoutingDecision, error)
}

// HandlerResult is everything one handler invocation produced. An empty Reply
// is valid (the handler chose not to speak this turn). Delta is the opaque
// encoded exchange to append to the transcript; a nil Delta appends nothing.
type HandlerResult struct {
	Reply string
	Delta []byte
}

// Handler is a specialized responder bound to one routing label. Run receives
// the latest user message plus the windowed history and returns at most one
// reply and one transcript delta. Failures are caught by the orchestrator.
type Handler interface {
	Name() string
	Run(ctx context.Context, message string, history []Message) (HandlerResult, error)
}
