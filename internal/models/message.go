package models

import "time"

// Sender identifies who authored a message
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one entry of the conversation history.
// Messages are never mutated once appended.
type Message struct {
	Sender         Sender
	Text           string
	Classification Classification // only set for assistant messages
	Timestamp      time.Time
}

// IsUser reports whether the message was written by the user
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// NewUserMessage creates a user message
func NewUserMessage(text string) Message {
	return Message{
		Sender:    SenderUser,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an assistant message with a classification
func NewAssistantMessage(text string, class Classification) Message {
	if class == "" {
		class = ClassificationUnclassified
	}
	return Message{
		Sender:         SenderAssistant,
		Text:           text,
		Classification: class,
		Timestamp:      time.Now(),
	}
}

// FallbackMessage returns the fixed assistant message used for transport failures
func FallbackMessage() Message {
	return NewAssistantMessage(FallbackText, ClassificationError)
}
