package core

// DefaultWindowEntries bounds the context passed to classifier and handler
// calls to the most recent invocations.
const DefaultWindowEntries = 10

// Window builds the bounded context for the next turn: the most recent n
// transcript entries in original order, flattened into a single message list.
// The cutoff is by entry, so one invocation's internal exchange is never split
// across the window boundary. Entries that fail to decode are skipped.
func Window(entries []TranscriptEntry, n int) []Message {
	if n <= 0 {
		n = DefaultWindowEntries
	}
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	var msgs []Message
	for _, entry := range entries {
		decoded, err := entry.Decode()
		if err != nil {
			continue
		}
		msgs = append(msgs, decoded...)
	}
	return msgs
}
