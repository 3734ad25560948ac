package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrMalformedEntry reports a transcript entry whose payload could not be
// decoded. Window construction treats it as a local, recoverable failure:
// the entry is skipped, never aborting the turn.
var ErrMalformedEntry = errors.New("malformed transcript entry")

// TranscriptEntry records everything a single handler invocation produced.
// The payload is an opaque blob owned by the handler that emitted it; the
// orchestrator stores and forwards it without interpretation. Entries are
// append-only and never mutated after being written to a session.
type TranscriptEntry struct {
	ID        string    `json:"id"`
	Handler   string    `json:"handler"`
	Payload   []byte    `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTranscriptEntry creates an entry tagged with the handler that produced
// the payload.
func NewTranscriptEntry(handler string, payload []byte) TranscriptEntry {
	return TranscriptEntry{
		ID:        uuid.NewString(),
		Handler:   handler,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// EncodeExchange serializes a handler's internal message exchange into the
// opaque payload form stored in a TranscriptEntry.
func EncodeExchange(msgs []Message) ([]byte, error) {
	data, err := json.Marshal(msgs)
	if err != nil {
		return nil, fmt.Errorf("encode exchange: %w", err)
	}
	return data, nil
}

// Decode recovers the message exchange carried by the entry. A payload that
// fails to decode yields an error wrapping ErrMalformedEntry.
func (e TranscriptEntry) Decode() ([]Message, error) {
	if len(e.Payload) == 0 {
		return nil, nil
	}
	var msgs []Message
	if err := json.Unmarshal(e.Payload, &msgs); err != nil {
		return nil, fmt.Errorf("%w: entry %s: %v", ErrMalformedEntry, e.ID, err)
	}
	return msgs, nil
}
