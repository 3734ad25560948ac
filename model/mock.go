package model

import "context"

// MockModel is a lightweight in-memory Model useful for tests and examples.
// Canned completions are keyed by the text of the last user message; an
// optional GenerateFunc script overrides everything else.
type MockModel struct {
	info      Info
	responses map[string]string

	// GenerateFunc, when set, fully scripts Generate.
	GenerateFunc func(ctx context.Context, req Request) (*Response, error)
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      provider,
			SupportsTools: true,
		},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var inputText string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			inputText = req.Messages[i].Text
			break
		}
	}
	full := m.responses[inputText]
	if full == "" {
		full = "Mock response to: " + inputText
	}
	return &Response{Text: full, FinishReason: "stop"}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
