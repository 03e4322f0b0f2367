package chat

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	apierrors "github.com/diogo/supportchat/internal/errors"
	"github.com/diogo/supportchat/internal/models"
)

// Asker sends one question to the assistant service
type Asker interface {
	Ask(ctx context.Context, question string) (models.Reply, error)
}

// Dispatcher applies submissions and reply settlements to a Session.
// The outbound call itself is left to the caller so an event loop can run
// it off the state-owning goroutine; Submit does both steps in-line.
type Dispatcher struct {
	session *Session
	asker   Asker
	logger  zerolog.Logger
}

// DispatcherOption configures a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a dispatcher bound to one session
func NewDispatcher(session *Session, asker Asker, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		session: session,
		asker:   asker,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Session returns the session the dispatcher mutates
func (d *Dispatcher) Session() *Session {
	return d.session
}

// Begin starts a turn. When text is blank or a request is already in flight
// it returns ok=false and leaves the session untouched. Otherwise it appends
// the user message, clears the pending input, marks the session as typing and
// returns the trimmed question that must be sent exactly once.
func (d *Dispatcher) Begin(text string) (question string, ok bool) {
	question = strings.TrimSpace(text)
	if question == "" || d.session.typing {
		return "", false
	}

	d.session.append(models.NewUserMessage(question))
	d.session.pendingInput = ""
	d.session.typing = true

	d.logger.Debug().
		Int("history", d.session.Len()).
		Bool("awaiting_email", d.session.awaitingEmail).
		Msg("turn started")

	return question, true
}

// Settle finishes the in-flight turn with the outcome of the outbound call
// and returns the assistant message it appended. It returns ok=false when no
// turn is in flight.
func (d *Dispatcher) Settle(reply models.Reply, err error) (models.Message, bool) {
	if !d.session.typing {
		d.logger.Warn().Msg("settle without a turn in flight")
		return models.Message{}, false
	}
	d.session.typing = false

	if err == nil && reply == nil {
		err = apierrors.NewParseError("empty reply", "")
	}
	if err != nil {
		d.logger.Error().
			Err(err).
			Str("kind", apierrors.Kind(err)).
			Int("status", apierrors.GetHTTPStatus(err)).
			Str("endpoint", apierrors.GetEndpoint(err)).
			Msg("assistant unreachable")
		msg := models.FallbackMessage()
		d.session.append(msg)
		return msg, true
	}

	var msg models.Message
	switch r := reply.(type) {
	case models.StructuredReply:
		class := r.Classification
		if class == "" {
			class = models.ClassificationFromType(r.Type)
		}
		d.session.awaitingEmail = class.RequestsEmail()
		if r.SessionID != "" {
			d.session.sessionID = r.SessionID
		}

		event := d.logger.Info()
		if class == models.ClassificationWarning {
			event = d.logger.Warn().Str("warning", r.Warning)
		}
		event.
			Str("classification", class.String()).
			Str("session_id", r.SessionID).
			Bool("awaiting_email", d.session.awaitingEmail).
			Msg("reply received")

		msg = models.NewAssistantMessage(r.Message, class)
	default:
		d.logger.Info().
			Str("classification", models.ClassificationUnclassified.String()).
			Msg("plain text reply received")
		msg = models.NewAssistantMessage(reply.Text(), models.ClassificationUnclassified)
	}

	d.session.append(msg)
	return msg, true
}

// Submit runs a whole turn synchronously. It returns ok=false when the
// submission was refused.
func (d *Dispatcher) Submit(ctx context.Context, text string) (models.Message, bool) {
	question, ok := d.Begin(text)
	if !ok {
		return models.Message{}, false
	}
	reply, err := d.asker.Ask(ctx, question)
	return d.Settle(reply, err)
}

// Ask sends a question through the dispatcher's asker without touching the
// session. It is what the event loop runs between Begin and Settle.
func (d *Dispatcher) Ask(ctx context.Context, question string) (models.Reply, error) {
	return d.asker.Ask(ctx, question)
}
