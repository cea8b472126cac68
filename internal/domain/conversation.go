package domain

import "time"

// AnonymousSession is the session id recorded when a chat request carries none.
const AnonymousSession = "anonymous"

// Turn roles used in a chat context.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message of a chat conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationRecord is the log entry written for every successful chat.
type ConversationRecord struct {
	ID        string
	Timestamp time.Time
	Model     string
	Prompt    string
	Response  string
	SessionID string
}

// NewConversationRecord creates a ConversationRecord, defaulting the session id.
func NewConversationRecord(id, model, prompt, response, sessionID string, ts time.Time) *ConversationRecord {
	if sessionID == "" {
		sessionID = AnonymousSession
	}
	return &ConversationRecord{
		ID:        id,
		Timestamp: ts,
		Model:     model,
		Prompt:    prompt,
		Response:  response,
		SessionID: sessionID,
	}
}

// SearchRecord is the log entry written for every answered search.
type SearchRecord struct {
	ID          string
	Timestamp   time.Time
	Query       string
	ResultCount int
	Answer      string
}
