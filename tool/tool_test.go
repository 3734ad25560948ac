package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumTool() *FunctionTool {
	return NewFunctionTool(
		"calculate_sum",
		"Calculate the sum of two numbers",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"a": map[string]any{"type": "number"},
				"b": map[string]any{"type": "number"},
			},
			"required": []string{"a", "b"},
		},
		func(_ context.Context, args map[string]any) (string, error) {
			a, _ := args["a"].(float64)
			b, _ := args["b"].(float64)
			return "result: " + string(rune('0'+int(a+b))), nil
		},
	)
}

func TestFunctionToolCall(t *testing.T) {
	result, err := sumTool().Call(context.Background(), map[string]any{"a": 1.0, "b": 2.0})
	require.NoError(t, err)
	assert.Equal(t, "result: 3", result)
}

func TestFunctionToolMissingRequiredArgument(t *testing.T) {
	_, err := sumTool().Call(context.Background(), map[string]any{"a": 1.0})

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidationError, toolErr.Code)
	assert.Equal(t, "calculate_sum", toolErr.Tool)
}

func TestFunctionToolWrapsExecutionErrors(t *testing.T) {
	failing := NewFunctionTool("boom", "always fails", map[string]any{"type": "object"},
		func(context.Context, map[string]any) (string, error) {
			return "", errors.New("backend unavailable")
		})

	_, err := failing.Call(context.Background(), nil)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeExecutionError, toolErr.Code)
	assert.Contains(t, toolErr.Message, "backend unavailable")
}

func TestFunctionToolPreservesCustomToolErrors(t *testing.T) {
	custom := NewToolError("custom", "not found", "NOT_FOUND")
	failing := NewFunctionTool("custom", "custom errors", map[string]any{"type": "object"},
		func(context.Context, map[string]any) (string, error) {
			return "", custom
		})

	_, err := failing.Call(context.Background(), nil)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "NOT_FOUND", toolErr.Code)
}
