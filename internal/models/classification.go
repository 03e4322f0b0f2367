package models

import "strings"

// Classification is the category attached to an assistant reply.
// It drives both presentation and the awaiting-email flag.
type Classification string

const (
	ClassificationUnclassified         Classification = "unclassified"
	ClassificationSuccess              Classification = "success"
	ClassificationWarning              Classification = "warning"
	ClassificationError                Classification = "error"
	ClassificationAnswer               Classification = "answer"
	ClassificationEmailRequired        Classification = "email_required"
	ClassificationSupportTicketCreated Classification = "support_ticket_created"
)

// ClassificationFromType maps the reply's declared type field to a Classification.
// Unknown or empty values resolve to ClassificationUnclassified.
func ClassificationFromType(replyType string) Classification {
	switch strings.ToLower(strings.TrimSpace(replyType)) {
	case ReplyTypeSuccess:
		return ClassificationSuccess
	case ReplyTypeWarning:
		return ClassificationWarning
	case ReplyTypeError:
		return ClassificationError
	case ReplyTypeAnswer:
		return ClassificationAnswer
	case ReplyTypeEmailRequired:
		return ClassificationEmailRequired
	case ReplyTypeSupportTicketCreated:
		return ClassificationSupportTicketCreated
	default:
		return ClassificationUnclassified
	}
}

// String returns the string representation of the classification
func (c Classification) String() string {
	if c == "" {
		return string(ClassificationUnclassified)
	}
	return string(c)
}

// RequestsEmail reports whether a reply with this classification
// puts the conversation into the awaiting-email state.
func (c Classification) RequestsEmail() bool {
	return c == ClassificationEmailRequired
}

// Label returns a short human readable name
func (c Classification) Label() string {
	switch c {
	case ClassificationSuccess:
		return "Success"
	case ClassificationWarning:
		return "Warning"
	case ClassificationError:
		return "Error"
	case ClassificationAnswer:
		return "Answer"
	case ClassificationEmailRequired:
		return "Email required"
	case ClassificationSupportTicketCreated:
		return "Ticket created"
	default:
		return ""
	}
}

// AllClassifications returns every classification, including Unclassified
func AllClassifications() []Classification {
	return []Classification{
		ClassificationSuccess,
		ClassificationWarning,
		ClassificationError,
		ClassificationAnswer,
		ClassificationEmailRequired,
		ClassificationSupportTicketCreated,
		ClassificationUnclassified,
	}
}
