package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAppend(t *testing.T) {
	s := NewSession("+15551234567")
	assert.Equal(t, 0, s.Len())

	entry := NewTranscriptEntry(LabelScheduling, []byte(`[]`))
	s.Append(entry, RoutingDecision{Label: LabelScheduling, Rationale: "viewing request"})

	assert.Equal(t, 1, s.Len())
	require.NotNil(t, s.LastRouting)
	assert.Equal(t, LabelScheduling, s.LastRouting.Label)
	assert.Equal(t, LabelScheduling, s.LastHandler)
	assert.True(t, s.Updated.After(s.Created) || s.Updated.Equal(s.Created))
}

func TestSessionSnapshotIsolation(t *testing.T) {
	s := NewSession("id")
	s.Append(NewTranscriptEntry(LabelGeneral, []byte(`[]`)), RoutingDecision{Label: LabelGeneral})

	snap := s.Snapshot()
	s.Append(NewTranscriptEntry(LabelFAQ, []byte(`[]`)), RoutingDecision{Label: LabelFAQ})

	assert.Equal(t, 1, len(snap.Entries))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, LabelGeneral, snap.LastHandler)

	// Mutating the snapshot's routing must not reach the original.
	snap.LastRouting.Label = "mutated"
	assert.Equal(t, LabelFAQ, s.LastRouting.Label)
}

func TestTranscriptEntryDecode(t *testing.T) {
	msgs := []Message{UserMessage("hi"), AssistantMessage("hello")}
	payload, err := EncodeExchange(msgs)
	require.NoError(t, err)

	entry := NewTranscriptEntry(LabelGeneral, payload)
	decoded, err := entry.Decode()
	require.NoError(t, err)
	assert.Equal(t, msgs, decoded)
}

func TestTranscriptEntryDecodeMalformed(t *testing.T) {
	entry := NewTranscriptEntry(LabelGeneral, []byte("{not json"))
	_, err := entry.Decode()
	assert.ErrorIs(t, err, ErrMalformedEntry)
}

func TestTranscriptEntryDecodeEmpty(t *testing.T) {
	entry := NewTranscriptEntry(LabelGeneral, nil)
	decoded, err := entry.Decode()
	assert.NoError(t, err)
	assert.Empty(t, decoded)
}
