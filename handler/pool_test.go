package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realvia/realvia/core"
)

type namedHandler string

func (h namedHandler) Name() string { return string(h) }
func (h namedHandler) Run(context.Context, string, []core.Message) (core.HandlerResult, error) {
	return core.HandlerResult{Reply: "from " + string(h)}, nil
}

func TestPoolDispatch(t *testing.T) {
	pool, err := NewPool(
		namedHandler(core.LabelGeneral),
		namedHandler(core.LabelScheduling),
	)
	require.NoError(t, err)

	assert.Equal(t, core.LabelScheduling, pool.Dispatch(core.LabelScheduling).Name())
	assert.Equal(t, core.LabelGeneral, pool.Dispatch(core.LabelGeneral).Name())
}

func TestPoolDispatchFallsBackToGeneral(t *testing.T) {
	pool, err := NewPool(namedHandler(core.LabelGeneral))
	require.NoError(t, err)

	assert.Equal(t, core.LabelGeneral, pool.Dispatch("no_such_label").Name())
}

func TestPoolRequiresGeneralHandler(t *testing.T) {
	_, err := NewPool(namedHandler(core.LabelFAQ))
	assert.Error(t, err)
}

func TestPoolRejectsDuplicates(t *testing.T) {
	_, err := NewPool(namedHandler(core.LabelGeneral), namedHandler(core.LabelGeneral))
	assert.Error(t, err)
}
