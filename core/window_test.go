package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryWithText(text string) TranscriptEntry {
	payload, _ := EncodeExchange([]Message{UserMessage(text), AssistantMessage("re: " + text)})
	return NewTranscriptEntry(LabelGeneral, payload)
}

func TestWindowBoundsByEntry(t *testing.T) {
	var entries []TranscriptEntry
	for i := 0; i < 25; i++ {
		entries = append(entries, entryWithText(fmt.Sprintf("turn-%d", i)))
	}

	msgs := Window(entries, 10)

	// Two messages per entry, ten most recent entries.
	require.Len(t, msgs, 20)
	assert.Equal(t, "turn-15", msgs[0].Text)
	assert.Equal(t, "re: turn-24", msgs[len(msgs)-1].Text)
}

func TestWindowShorterThanLimit(t *testing.T) {
	entries := []TranscriptEntry{entryWithText("only")}
	msgs := Window(entries, 10)
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
}

func TestWindowSkipsMalformedEntries(t *testing.T) {
	entries := []TranscriptEntry{
		entryWithText("good"),
		NewTranscriptEntry(LabelGeneral, []byte("garbage")),
		entryWithText("also good"),
	}

	msgs := Window(entries, 10)

	require.Len(t, msgs, 4)
	assert.Equal(t, "good", msgs[0].Text)
	assert.Equal(t, "also good", msgs[2].Text)
}

func TestWindowNeverSplitsAnExchange(t *testing.T) {
	// The oldest in-window entry carries a multi-message exchange; every one
	// of its messages must survive the cutoff.
	payload, _ := EncodeExchange([]Message{
		UserMessage("a"), ToolMessage("tool result"), AssistantMessage("b"),
	})
	entries := []TranscriptEntry{
		entryWithText("dropped"),
		NewTranscriptEntry(LabelScheduling, payload),
		entryWithText("kept"),
	}

	msgs := Window(entries, 2)

	require.Len(t, msgs, 5)
	assert.Equal(t, "a", msgs[0].Text)
	assert.Equal(t, RoleTool, msgs[1].Role)
}

func TestWindowZeroLimitUsesDefault(t *testing.T) {
	var entries []TranscriptEntry
	for i := 0; i < DefaultWindowEntries+5; i++ {
		entries = append(entries, entryWithText("x"))
	}
	msgs := Window(entries, 0)
	assert.Len(t, msgs, DefaultWindowEntries*2)
}
