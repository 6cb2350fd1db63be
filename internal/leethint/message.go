package leethint

// Role identifies the author of a provider-facing message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation sent to the provider.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// RenderKind tells a rendering surface how to present a ChatEntry.
type RenderKind string

const (
	RenderPlain    RenderKind = "plain"
	RenderMarkdown RenderKind = "markdown"
)

// ChatEntry is one turn of the visible conversation log.
// Only RoleUser and RoleAssistant appear in entries; failures are assistant
// entries rendered as plain text.
type ChatEntry struct {
	Role       Role       `json:"role"`
	Text       string     `json:"text"`
	RenderKind RenderKind `json:"renderKind"`
}

// UserEntry returns the entry recorded for a user submission.
func UserEntry(text string) ChatEntry {
	return ChatEntry{Role: RoleUser, Text: text, RenderKind: RenderPlain}
}

// AssistantEntry returns the entry recorded for a successful reply.
func AssistantEntry(text string) ChatEntry {
	return ChatEntry{Role: RoleAssistant, Text: text, RenderKind: RenderMarkdown}
}

// ErrorEntry returns the entry recorded when a reply could not be produced.
func ErrorEntry(text string) ChatEntry {
	return ChatEntry{Role: RoleAssistant, Text: text, RenderKind: RenderPlain}
}

// Message converts the entry into the provider-facing message that replays it.
func (e ChatEntry) Message() Message {
	return Message{Role: e.Role, Content: e.Text}
}
