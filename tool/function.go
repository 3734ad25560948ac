package tool

import (
	"context"
	"errors"
	"fmt"
)

// FunctionTool is a generic adapter that exposes a plain Go function as a
// Tool.
//
// Responsibilities:
//   - Holds a lightweight JSON-Schema-like parameter specification
//   - Checks required arguments before execution
//   - Normalizes error handling so callers receive *ToolError with
//     consistent codes (VALIDATION_ERROR for argument mismatch,
//     EXECUTION_ERROR for underlying function failures; custom codes are
//     preserved when the function returns *ToolError directly)
//
// A FunctionTool has no internal mutable state after construction and is safe
// for concurrent use by multiple goroutines.
type FunctionTool struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(ctx context.Context, args map[string]any) (string, error)
}

// NewFunctionTool constructs a FunctionTool from explicit schema and function.
//
// Example:
//
//	mortgage := NewFunctionTool(
//	  "calculate_mortgage",
//	  "Calculate the monthly mortgage payment",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "property_price": map[string]any{"type": "number"},
//	      "down_payment":   map[string]any{"type": "number"},
//	    },
//	    "required": []string{"property_price", "down_payment"},
//	  },
//	  func(ctx context.Context, args map[string]any) (string, error) { ... },
//	)
func NewFunctionTool(
	name, description string,
	parameters map[string]any,
	fn func(ctx context.Context, args map[string]any) (string, error),
) *FunctionTool {
	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// Name implements Tool.
func (t *FunctionTool) Name() string { return t.name }

// Description implements Tool.
func (t *FunctionTool) Description() string { return t.description }

// Parameters implements Tool.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Call validates required arguments then invokes the wrapped function.
func (t *FunctionTool) Call(ctx context.Context, args map[string]any) (string, error) {
	if err := t.checkRequired(args); err != nil {
		return "", err
	}

	result, err := t.fn(ctx, args)
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) {
			return "", toolErr
		}
		return "", NewToolError(t.name, err.Error(), CodeExecutionError)
	}
	return result, nil
}

func (t *FunctionTool) checkRequired(args map[string]any) error {
	required, ok := t.parameters["required"]
	if !ok {
		return nil
	}

	var names []string
	switch req := required.(type) {
	case []string:
		names = req
	case []any:
		for _, r := range req {
			if s, ok := r.(string); ok {
				names = append(names, s)
			}
		}
	}

	for _, name := range names {
		if _, present := args[name]; !present {
			return NewToolError(t.name, fmt.Sprintf("missing required argument %q", name), CodeValidationError)
		}
	}
	return nil
}
