package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realvia/realvia/core"
	"github.com/realvia/realvia/model"
)

var _ core.Classifier = (*ModelClassifier)(nil)

func scripted(responses ...*model.Response) (*model.MockModel, *int) {
	calls := 0
	m := model.NewMockModel("router-mock", "mock")
	m.GenerateFunc = func(ctx context.Context, req model.Request) (*model.Response, error) {
		resp := responses[calls]
		if calls < len(responses)-1 {
			calls++
		}
		return resp, nil
	}
	return m, &calls
}

func TestClassifyParsesDecision(t *testing.T) {
	m, _ := scripted(&model.Response{Text: `{"agent": "scheduling", "reasoning": "viewing request"}`})
	c := New(m)

	decision, err := c.Classify(context.Background(), "I want to schedule a viewing of PROP002", nil)

	require.NoError(t, err)
	assert.Equal(t, core.LabelScheduling, decision.Label)
	assert.Equal(t, "viewing request", decision.Rationale)
}

func TestClassifyToleratesCodeFences(t *testing.T) {
	m, _ := scripted(&model.Response{Text: "```json\n{\"agent\": \"faq\", \"reasoning\": \"process question\"}\n```"})
	c := New(m)

	decision, err := c.Classify(context.Background(), "what documents do I need?", nil)

	require.NoError(t, err)
	assert.Equal(t, core.LabelFAQ, decision.Label)
}

func TestClassifyRemapsUnknownLabels(t *testing.T) {
	m, _ := scripted(&model.Response{Text: `{"agent": "bookkeeping", "reasoning": "made up"}`})
	c := New(m)

	decision, err := c.Classify(context.Background(), "hello", nil)

	require.NoError(t, err)
	assert.Equal(t, core.LabelGeneral, decision.Label)
}

func TestClassifyRepairsMalformedOutput(t *testing.T) {
	m, calls := scripted(
		&model.Response{Text: "I think scheduling fits best here."},
		&model.Response{Text: `{"agent": "scheduling", "reasoning": "repaired"}`},
	)
	c := New(m)

	decision, err := c.Classify(context.Background(), "book a tour", nil)

	require.NoError(t, err)
	assert.Equal(t, core.LabelScheduling, decision.Label)
	assert.Equal(t, 1, *calls)
}

func TestClassifyMalformedAfterRepairFails(t *testing.T) {
	m, _ := scripted(
		&model.Response{Text: "no json here"},
		&model.Response{Text: "still no json"},
	)
	c := New(m)

	_, err := c.Classify(context.Background(), "hello", nil)

	assert.ErrorIs(t, err, core.ErrMalformedOutput)
}

func TestClassifyRespectsCallBudget(t *testing.T) {
	calls := 0
	m := model.NewMockModel("router-mock", "mock")
	m.GenerateFunc = func(ctx context.Context, req model.Request) (*model.Response, error) {
		calls++
		return &model.Response{Text: "never json"}, nil
	}
	c := New(m, func(o *Options) { o.MaxCalls = 2 })

	_, err := c.Classify(context.Background(), "hello", nil)

	require.Error(t, err)
	assert.LessOrEqual(t, calls, 2)
}

func TestClassifyPropagatesUpstreamFailure(t *testing.T) {
	m := model.NewMockModel("router-mock", "mock")
	m.GenerateFunc = func(ctx context.Context, req model.Request) (*model.Response, error) {
		return nil, core.ErrTimeout
	}
	c := New(m)

	_, err := c.Classify(context.Background(), "hello", nil)

	assert.ErrorIs(t, err, core.ErrTimeout)
}
