// Package handler implements the specialist responders bound to routing
// labels: a model-backed handler with function calling, and the pool that
// dispatches a routing decision to exactly one handler.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/realvia/realvia/core"
	"github.com/realvia/realvia/logging"
	"github.com/realvia/realvia/model"
	"github.com/realvia/realvia/tool"
)

// DefaultMaxCalls is the upstream request budget for one handler invocation,
// distinct from the classifier budget.
const DefaultMaxCalls = 3

// Options configures a ModelHandler.
type Options struct {
	// MaxCalls bounds upstream model requests per invocation; tool rounds
	// consume from the same budget.
	MaxCalls int
	// Tools available to the model for function calling.
	Tools []tool.Tool
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// ModelHandler is a specialist responder driven by a language model with a
// system prompt and optional tools. One Run produces at most one reply and
// one transcript delta; tool rounds happen inside the invocation and are
// recorded in the delta.
type ModelHandler struct {
	name         string
	llm          model.Model
	instructions string
	tools        map[string]tool.Tool
	defs         []model.ToolDefinition
	maxCalls     int
	logger       logging.Logger
}

// New constructs a named handler with the given system instructions.
func New(name string, llm model.Model, instructions string, optFns ...func(o *Options)) *ModelHandler {
	opts := Options{
		MaxCalls: DefaultMaxCalls,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxCalls <= 0 {
		opts.MaxCalls = DefaultMaxCalls
	}

	h := &ModelHandler{
		name:         name,
		llm:          llm,
		instructions: instructions,
		tools:        make(map[string]tool.Tool, len(opts.Tools)),
		maxCalls:     opts.MaxCalls,
		logger:       opts.Logger,
	}
	for _, t := range opts.Tools {
		h.tools[t.Name()] = t
		h.defs = append(h.defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return h
}

// Name implements core.Handler.
func (h *ModelHandler) Name() string { return h.name }

// Run implements core.Handler. It drives the model through as many tool
// rounds as the call budget allows, then returns the final reply and the
// encoded exchange. Budget exhaustion and upstream failures surface as
// errors; the orchestrator owns retry and fallback.
func (h *ModelHandler) Run(ctx context.Context, message string, history []core.Message) (core.HandlerResult, error) {
	limiter := core.NewCallLimiter(h.maxCalls)

	chat := append(model.HistoryMessages(history), model.ChatMessage{Role: core.RoleUser, Text: message})
	exchange := []core.Message{core.UserMessage(message)}

	for {
		if err := limiter.Take(); err != nil {
			return core.HandlerResult{}, fmt.Errorf("handler %s: %w", h.name, err)
		}

		start := time.Now()
		resp, err := h.llm.Generate(ctx, model.Request{
			Instructions: h.instructions,
			Messages:     chat,
			Tools:        h.defs,
		})
		if err != nil {
			return core.HandlerResult{}, fmt.Errorf("handler %s: %w", h.name, err)
		}
		h.logger.Debug("handler model call",
			"handler", h.name, "duration", time.Since(start), "tool_calls", len(resp.ToolCalls))

		if len(resp.ToolCalls) == 0 {
			if resp.Text != "" {
				exchange = append(exchange, core.AssistantMessage(resp.Text))
			}
			delta, err := core.EncodeExchange(exchange)
			if err != nil {
				return core.HandlerResult{}, fmt.Errorf("handler %s: %w", h.name, err)
			}
			return core.HandlerResult{Reply: resp.Text, Delta: delta}, nil
		}

		if resp.Text != "" {
			exchange = append(exchange, core.AssistantMessage(resp.Text))
		}
		chat = append(chat, model.ChatMessage{
			Role:      core.RoleAssistant,
			Text:      resp.Text,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			result := h.executeTool(ctx, call)
			chat = append(chat, model.ChatMessage{
				Role:       core.RoleTool,
				Text:       result,
				ToolCallID: call.ID,
			})
			exchange = append(exchange, core.ToolMessage(result))
		}
	}
}

// executeTool runs one requested tool. Tool failures are reported back to the
// model as JSON error payloads rather than aborting the invocation; the model
// decides how to phrase the condition to the user.
func (h *ModelHandler) executeTool(ctx context.Context, call model.ToolCall) string {
	t, ok := h.tools[call.Name]
	if !ok {
		h.logger.Warn("handler requested unknown tool", "handler", h.name, "tool", call.Name)
		return fmt.Sprintf(`{"error": "unknown tool %s"}`, call.Name)
	}

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return fmt.Sprintf(`{"error": "invalid arguments: %s"}`, err)
		}
	}

	result, err := t.Call(ctx, args)
	if err != nil {
		h.logger.Warn("tool execution failed", "handler", h.name, "tool", call.Name, "error", err)
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return result
}
