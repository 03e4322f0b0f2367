package models

// Reply is the outcome of one outbound call. It is either a
// StructuredReply or a PlainTextReply, resolved once at the network boundary.
type Reply interface {
	// Text returns the human readable reply text
	Text() string
	isReply()
}

// StructuredReply is a JSON reply carrying a declared type
type StructuredReply struct {
	Message        string
	Type           string
	Classification Classification
	SessionID      string
	Warning        string
}

// Text returns the reply message
func (r StructuredReply) Text() string { return r.Message }

func (StructuredReply) isReply() {}

// PlainTextReply is a legacy reply with a bare text body
type PlainTextReply struct {
	Body string
}

// Text returns the reply body
func (r PlainTextReply) Text() string { return r.Body }

func (PlainTextReply) isReply() {}

// AskRequest is the JSON body of the outbound question call
type AskRequest struct {
	Question string  `json:"question"`
	Email    *string `json:"email"`
}

// SessionStatus is the diagnostic result of the session-status query
type SessionStatus struct {
	SessionID string
	Active    bool
	Raw       string
}
