// Package models contains data types and constants for the support assistant client.
package models

// Default endpoint paths, relative to the configured base URL
const (
	DefaultAskPath    = "/simplify-question"
	DefaultStatusPath = "/session-status"
)

// Reply type values declared by the assistant service
const (
	ReplyTypeSuccess              = "success"
	ReplyTypeWarning              = "warning"
	ReplyTypeError                = "error"
	ReplyTypeAnswer               = "answer"
	ReplyTypeEmailRequired        = "email_required"
	ReplyTypeSupportTicketCreated = "support_ticket_created"
)

// FallbackText is shown in place of any reply that could not be obtained.
// It never carries the underlying cause.
const FallbackText = "⚠️ Unable to reach the assistant. Please try again later."

// AssistantName is the display name used for assistant messages
const AssistantName = "JoinAI Support Assistant"

// MaxReplyBytes caps how much of a reply body is read
const MaxReplyBytes = 1 << 20

// DefaultHeaders returns the headers sent with every request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":          "application/json, text/plain;q=0.9, */*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
		"User-Agent":      "supportchat/1.0",
	}
}
