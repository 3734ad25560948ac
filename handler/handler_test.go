package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realvia/realvia/core"
	"github.com/realvia/realvia/model"
	"github.com/realvia/realvia/tool"
)

var _ core.Handler = (*ModelHandler)(nil)

func echoTool(t *testing.T, calls *[]map[string]any) tool.Tool {
	t.Helper()
	return tool.NewFunctionTool("echo", "echoes its input",
		map[string]any{
			"type":       "object",
			"properties": map[string]any{"text": map[string]any{"type": "string"}},
			"required":   []string{"text"},
		},
		func(_ context.Context, args map[string]any) (string, error) {
			*calls = append(*calls, args)
			text, _ := args["text"].(string)
			return `{"echoed": "` + text + `"}`, nil
		})
}

func TestRunPlainReply(t *testing.T) {
	m := model.NewMockModel("h", "mock")
	m.AddResponse("hello", "Hi there! How can I help with your home search?")
	h := New(core.LabelGeneral, m, "You are a friendly assistant.")

	result, err := h.Run(context.Background(), "hello", nil)

	require.NoError(t, err)
	assert.Equal(t, "Hi there! How can I help with your home search?", result.Reply)

	msgs, err := core.TranscriptEntry{Payload: result.Delta}.Decode()
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, core.RoleUser, msgs[0].Role)
	assert.Equal(t, core.RoleAssistant, msgs[1].Role)
}

func TestRunToolRound(t *testing.T) {
	var toolCalls []map[string]any
	generation := 0
	m := model.NewMockModel("h", "mock")
	m.GenerateFunc = func(ctx context.Context, req model.Request) (*model.Response, error) {
		generation++
		if generation == 1 {
			return &model.Response{
				ToolCalls:    []model.ToolCall{{ID: "tc1", Name: "echo", Arguments: `{"text": "PROP002"}`}},
				FinishReason: "tool_calls",
			}, nil
		}
		// Second round must carry the tool result back to the model.
		last := req.Messages[len(req.Messages)-1]
		assert.Equal(t, core.RoleTool, last.Role)
		assert.Equal(t, "tc1", last.ToolCallID)
		return &model.Response{Text: "Found it.", FinishReason: "stop"}, nil
	}
	h := New(core.LabelPropertyDetails, m, "details", func(o *Options) {
		o.Tools = []tool.Tool{echoTool(t, &toolCalls)}
	})

	result, err := h.Run(context.Background(), "tell me about PROP002", nil)

	require.NoError(t, err)
	assert.Equal(t, "Found it.", result.Reply)
	require.Len(t, toolCalls, 1)
	assert.Equal(t, "PROP002", toolCalls[0]["text"])

	msgs, err := core.TranscriptEntry{Payload: result.Delta}.Decode()
	require.NoError(t, err)
	require.Len(t, msgs, 3) // user, tool result, assistant
	assert.Equal(t, core.RoleTool, msgs[1].Role)
}

func TestRunEmptyReplyIsValid(t *testing.T) {
	m := model.NewMockModel("h", "mock")
	m.GenerateFunc = func(ctx context.Context, req model.Request) (*model.Response, error) {
		return &model.Response{Text: "", FinishReason: "stop"}, nil
	}
	h := New(core.LabelLeadQualification, m, "quiet")

	result, err := h.Run(context.Background(), "noted", nil)

	require.NoError(t, err)
	assert.Empty(t, result.Reply)
	assert.NotNil(t, result.Delta)
}

func TestRunBudgetExceeded(t *testing.T) {
	m := model.NewMockModel("h", "mock")
	m.GenerateFunc = func(ctx context.Context, req model.Request) (*model.Response, error) {
		// Always demand another tool round.
		return &model.Response{
			ToolCalls:    []model.ToolCall{{ID: "x", Name: "missing", Arguments: "{}"}},
			FinishReason: "tool_calls",
		}, nil
	}
	h := New(core.LabelGeneral, m, "busy", func(o *Options) { o.MaxCalls = 3 })

	_, err := h.Run(context.Background(), "loop forever", nil)

	assert.ErrorIs(t, err, core.ErrBudgetExceeded)
}

func TestRunPropagatesUpstreamErrors(t *testing.T) {
	m := model.NewMockModel("h", "mock")
	m.GenerateFunc = func(ctx context.Context, req model.Request) (*model.Response, error) {
		return nil, core.ErrTimeout
	}
	h := New(core.LabelGeneral, m, "flaky")

	_, err := h.Run(context.Background(), "hi", nil)

	assert.ErrorIs(t, err, core.ErrTimeout)
}

func TestRunToolFailureReportedToModel(t *testing.T) {
	failing := tool.NewFunctionTool("broken", "always fails", map[string]any{"type": "object"},
		func(context.Context, map[string]any) (string, error) {
			return "", tool.NewToolError("broken", "backend down", tool.CodeExecutionError)
		})

	generation := 0
	m := model.NewMockModel("h", "mock")
	m.GenerateFunc = func(ctx context.Context, req model.Request) (*model.Response, error) {
		generation++
		if generation == 1 {
			return &model.Response{
				ToolCalls: []model.ToolCall{{ID: "tc1", Name: "broken", Arguments: "{}"}},
			}, nil
		}
		last := req.Messages[len(req.Messages)-1]
		assert.Contains(t, last.Text, "backend down")
		return &model.Response{Text: "Sorry, that lookup is unavailable."}, nil
	}
	h := New(core.LabelGeneral, m, "g", func(o *Options) { o.Tools = []tool.Tool{failing} })

	result, err := h.Run(context.Background(), "try it", nil)

	require.NoError(t, err)
	assert.NotEmpty(t, result.Reply)
}
