package core

// Message roles used across classifier and handler exchanges.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a single role-tagged utterance inside a handler exchange. It is
// the unit the context window builder flattens transcript entries into.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// UserMessage builds a user-authored message.
func UserMessage(text string) Message { return Message{Role: RoleUser, Text: text} }

// AssistantMessage builds an assistant-authored message.
func AssistantMessage(text string) Message { return Message{Role: RoleAssistant, Text: text} }

// ToolMessage builds a tool result message.
func ToolMessage(text string) Message { return Message{Role: RoleTool, Text: text} }
