// Package router implements the classifier step: a model-backed routing
// decision over the closed handler label set. The classifier is fallible and
// quota-limited; the orchestrator owns the fallback to the general handler.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/realvia/realvia/core"
	"github.com/realvia/realvia/logging"
	"github.com/realvia/realvia/model"
)

// DefaultMaxCalls is the upstream request budget for one classification,
// distinct from the handler execution budget.
const DefaultMaxCalls = 2

// Options configures a ModelClassifier.
type Options struct {
	// MaxCalls bounds upstream requests per classification.
	MaxCalls int
	// CompanyName is interpolated into the routing instructions.
	CompanyName string
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// ModelClassifier routes messages by asking a model for a JSON decision
// {"agent": ..., "reasoning": ...} constrained to the closed label set.
type ModelClassifier struct {
	llm          model.Model
	instructions string
	maxCalls     int
	logger       logging.Logger
}

// New constructs a classifier backed by llm.
func New(llm model.Model, optFns ...func(o *Options)) *ModelClassifier {
	opts := Options{
		MaxCalls:    DefaultMaxCalls,
		CompanyName: "Premium Realty",
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxCalls <= 0 {
		opts.MaxCalls = DefaultMaxCalls
	}
	return &ModelClassifier{
		llm:          llm,
		instructions: routingInstructions(opts.CompanyName),
		maxCalls:     opts.MaxCalls,
		logger:       opts.Logger,
	}
}

// Classify implements core.Classifier. The returned label is always a member
// of the closed set; unknown labels are remapped to general. Upstream
// failures and unparseable output surface as errors for the orchestrator's
// fallback path.
func (c *ModelClassifier) Classify(ctx context.Context, message string, history []core.Message) (core.RoutingDecision, error) {
	limiter := core.NewCallLimiter(c.maxCalls)

	req := model.Request{
		Instructions: c.instructions,
		Messages:     append(model.HistoryMessages(history), model.ChatMessage{Role: core.RoleUser, Text: message}),
	}

	resp, err := c.generate(ctx, limiter, req)
	if err != nil {
		return core.RoutingDecision{}, err
	}

	decision, err := parseDecision(resp.Text)
	if err == nil {
		return c.normalize(decision), nil
	}

	// One repair round within the request budget: echo the malformed output
	// back and ask for bare JSON.
	c.logger.Debug("router repair round", "output", resp.Text)
	req.Messages = append(req.Messages,
		model.ChatMessage{Role: core.RoleAssistant, Text: resp.Text},
		model.ChatMessage{Role: core.RoleUser, Text: "Respond with only the JSON object, no other text."},
	)
	resp, gerr := c.generate(ctx, limiter, req)
	if gerr != nil {
		return core.RoutingDecision{}, gerr
	}
	decision, err = parseDecision(resp.Text)
	if err != nil {
		return core.RoutingDecision{}, err
	}
	return c.normalize(decision), nil
}

func (c *ModelClassifier) generate(ctx context.Context, limiter *core.CallLimiter, req model.Request) (*model.Response, error) {
	if err := limiter.Take(); err != nil {
		return nil, err
	}
	resp, err := c.llm.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	return resp, nil
}

func (c *ModelClassifier) normalize(d core.RoutingDecision) core.RoutingDecision {
	label := core.NormalizeLabel(d.Label)
	if label != d.Label {
		c.logger.Debug("router label remapped", "from", d.Label, "to", label)
	}
	d.Label = label
	return d
}

// parseDecision extracts a routing decision from model output, tolerating
// surrounding prose or markdown code fences.
func parseDecision(text string) (core.RoutingDecision, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return core.RoutingDecision{}, fmt.Errorf("%w: no JSON object in %q", core.ErrMalformedOutput, text)
	}

	var decision core.RoutingDecision
	if err := json.Unmarshal([]byte(text[start:end+1]), &decision); err != nil {
		return core.RoutingDecision{}, fmt.Errorf("%w: %v", core.ErrMalformedOutput, err)
	}
	if decision.Label == "" {
		return core.RoutingDecision{}, fmt.Errorf("%w: missing agent field", core.ErrMalformedOutput)
	}
	return decision, nil
}

func routingInstructions(company string) string {
	labels := make([]string, 0, len(core.Labels()))
	for i, l := range core.Labels() {
		labels = append(labels, fmt.Sprintf("%d. %s - %s", i+1, l, labelPurpose(l)))
	}

	return fmt.Sprintf(`You are a routing agent for %s. Your job is to analyze user messages and determine which specialized agent should handle them.

Available agents:
%s

Always respond with a JSON object containing:
- agent: the name of the agent to route to
- reasoning: brief explanation of why this agent was chosen

Be decisive and choose the most appropriate agent based on the user's intent.`, company, strings.Join(labels, "\n"))
}

func labelPurpose(label string) string {
	switch label {
	case core.LabelLeadQualification:
		return "When user is a new lead or needs to provide their requirements (budget, preferences, timeline)"
	case core.LabelPropertySearch:
		return "When user wants to search for properties or browse listings"
	case core.LabelPropertyDetails:
		return "When user asks about specific property details or wants more info about a property"
	case core.LabelScheduling:
		return "When user wants to schedule a viewing, appointment, or tour"
	case core.LabelMarketAnalysis:
		return "When user asks about market trends, prices, or financial calculations"
	case core.LabelFAQ:
		return "When user has general questions about the buying/selling process, documents, etc."
	default:
		return "For general conversation, greetings, or unclear requests"
	}
}
