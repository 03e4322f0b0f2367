// Package chat holds the conversation state and the dispatcher that turns
// user input into assistant replies.
package chat

import (
	"github.com/diogo/supportchat/internal/models"
)

// Session is the state of one conversation. It has a single owner and is
// never shared between goroutines. Messages are append-only.
type Session struct {
	messages      []models.Message
	pendingInput  string
	typing        bool
	awaitingEmail bool
	sessionID     string
}

// NewSession creates an empty conversation
func NewSession() *Session {
	return &Session{}
}

// Messages returns a copy of the history in arrival order
func (s *Session) Messages() []models.Message {
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages in the history
func (s *Session) Len() int {
	return len(s.messages)
}

// Last returns the most recent message, if any
func (s *Session) Last() (models.Message, bool) {
	if len(s.messages) == 0 {
		return models.Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// LastAssistant returns the most recent assistant message, if any
func (s *Session) LastAssistant() (models.Message, bool) {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Sender == models.SenderAssistant {
			return s.messages[i], true
		}
	}
	return models.Message{}, false
}

// PendingInput returns the text typed but not yet submitted
func (s *Session) PendingInput() string {
	return s.pendingInput
}

// SetPendingInput records the current contents of the input field
func (s *Session) SetPendingInput(text string) {
	s.pendingInput = text
}

// IsTyping reports whether a request is in flight
func (s *Session) IsTyping() bool {
	return s.typing
}

// AwaitingEmail reports whether the assistant last asked for an email address
func (s *Session) AwaitingEmail() bool {
	return s.awaitingEmail
}

// SessionID returns the service session id seen on the latest structured reply
func (s *Session) SessionID() string {
	return s.sessionID
}

func (s *Session) append(msg models.Message) {
	s.messages = append(s.messages, msg)
}
