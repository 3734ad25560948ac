// Package realvia is a conversational real estate assistant. One inbound
// message is classified onto a routing label, dispatched to the matching
// specialist, and answered from the conversation's transcript context. The
// subpackages carry the moving parts; this package wires them into a single
// Assistant.
package realvia

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/realvia/realvia/core"
	"github.com/realvia/realvia/logging"
	"github.com/realvia/realvia/model"
	"github.com/realvia/realvia/orchestrator"
	"github.com/realvia/realvia/realty"
	"github.com/realvia/realvia/router"
	"github.com/realvia/realvia/session"
)

// DefaultReply is sent when a turn completes without the specialist saying
// anything.
const DefaultReply = "I'm here to help you with your real estate needs. How can I assist you today?"

// Options configures an Assistant.
type Options struct {
	// CompanyName and AgentName personalize every specialist prompt.
	CompanyName string
	AgentName   string
	// WindowEntries bounds the transcript context per turn.
	WindowEntries int
	// Retry governs specialist retries on transient upstream failures.
	Retry core.RetryPolicy
	// Store defaults to an in-memory store.
	Store core.Store
	// Catalog and Book default to fresh in-memory services.
	Catalog *realty.Catalog
	Book    *realty.Book
	// Mailer enables the email tools when set.
	Mailer realty.Mailer
	// Logger defaults to NoOp.
	Logger logging.Logger
	// Now supplies the current time to time-sensitive tools.
	Now func() time.Time
}

// Assistant is the top-level entry point. It owns the session store, the
// classifier and the specialist pool, and serializes turns per conversation
// so concurrent webhook deliveries cannot interleave a single client's
// transcript.
type Assistant struct {
	orch   *orchestrator.Orchestrator
	logger logging.Logger

	mu    sync.Mutex
	turns map[string]*sync.Mutex
}

// New builds an Assistant around the given model.
func New(llm model.Model, optFns ...func(o *Options)) (*Assistant, error) {
	opts := Options{
		CompanyName:   "Premium Realty",
		AgentName:     "Sarah",
		WindowEntries: core.DefaultWindowEntries,
		Retry:         core.DefaultRetryPolicy(),
		Logger:        logging.NoOpLogger{},
		Now:           time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Store == nil {
		opts.Store = session.NewInMemoryStore()
	}
	if opts.Catalog == nil {
		opts.Catalog = realty.NewCatalog()
	}
	if opts.Book == nil {
		opts.Book = realty.NewBook(func(o *realty.BookOptions) { o.Now = opts.Now })
	}

	classifier := router.New(llm, func(o *router.Options) {
		o.CompanyName = opts.CompanyName
		o.Logger = opts.Logger
	})

	ts := toolset{
		catalog: opts.Catalog,
		book:    opts.Book,
		mailer:  opts.Mailer,
		now:     opts.Now,
	}
	pool, err := buildHandlers(llm, ts, opts.AgentName, opts.CompanyName, opts.Logger)
	if err != nil {
		return nil, err
	}

	orch := orchestrator.New(opts.Store, classifier, pool, func(o *orchestrator.Options) {
		o.WindowEntries = opts.WindowEntries
		o.Retry = opts.Retry
		o.Logger = opts.Logger
	})

	return &Assistant{
		orch:   orch,
		logger: opts.Logger,
		turns:  map[string]*sync.Mutex{},
	}, nil
}

// Handle processes one inbound message and returns the reply to send back.
// The conversation id is the client's channel identity, e.g. their phone
// number. Replies are never empty; upstream failures come back as apology
// text, and the returned error is reserved for session store faults.
func (a *Assistant) Handle(ctx context.Context, conversationID, message string) (string, error) {
	unlock := a.lockConversation(conversationID)
	defer unlock()

	reply, err := a.orch.Run(ctx, conversationID, message)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return DefaultReply, nil
	}
	return reply, nil
}

// lockConversation serializes turns per conversation id.
func (a *Assistant) lockConversation(id string) func() {
	a.mu.Lock()
	mu, ok := a.turns[id]
	if !ok {
		mu = &sync.Mutex{}
		a.turns[id] = mu
	}
	a.mu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// Labels reexports the routing labels in classifier order, mostly for
// diagnostics and CLI help output.
func Labels() []string { return core.Labels() }
