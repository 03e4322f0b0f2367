package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/supportchat/internal/api"
	"github.com/diogo/supportchat/internal/chat"
	apierrors "github.com/diogo/supportchat/internal/errors"
	"github.com/diogo/supportchat/internal/models"
	"github.com/diogo/supportchat/internal/render"
)

func newTestModel(t *testing.T, mock *api.MockClient) Model {
	t.Helper()
	d := chat.NewDispatcher(chat.NewSession(), mock)
	m := NewChatModel(context.Background(), d, mock, Options{
		Markdown:  render.DefaultOptions().WithStyle(render.StyleNoTTY),
		Clipboard: func(string) error { return nil },
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updated.(Model)
}

func press(t *testing.T, m Model, key tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(key)
	return updated.(Model), cmd
}

var (
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyAltEnter = tea.KeyMsg{Type: tea.KeyEnter, Alt: true}
	keyCtrlJ    = tea.KeyMsg{Type: tea.KeyCtrlJ}
)

func TestNewChatModel_Defaults(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})

	assert.True(t, m.ready)
	assert.Equal(t, render.MidnightTheme.Name, m.theme.Name)
	assert.Equal(t, "Type your message here...", m.textarea.Placeholder)
	assert.Equal(t, 0, m.Session().Len())
	assert.Contains(t, m.View(), "Welcome to "+models.AssistantName)
}

func TestInit_FetchesSessionStatus(t *testing.T) {
	mock := &api.MockClient{StatusVal: &models.SessionStatus{SessionID: "s-1", Active: true}}
	m := newTestModel(t, mock)

	msg := m.fetchStatus()()
	status, ok := msg.(statusMsg)
	require.True(t, ok)
	assert.Equal(t, "s-1", status.status.SessionID)
	assert.Equal(t, 1, mock.StatusCalls)

	// the status is diagnostic only
	updated, _ := m.Update(status)
	assert.Equal(t, 0, updated.(Model).Session().Len())
	assert.Empty(t, updated.(Model).Session().SessionID())
}

func TestFetchStatus_NoClient(t *testing.T) {
	d := chat.NewDispatcher(chat.NewSession(), &api.MockClient{})
	m := NewChatModel(context.Background(), d, nil, Options{})
	assert.Nil(t, m.fetchStatus())
}

func TestEnter_SubmitsAndSuppressesNewline(t *testing.T) {
	mock := &api.MockClient{AskReply: models.StructuredReply{
		Message:        "Please share your email",
		Type:           "email_required",
		Classification: models.ClassificationEmailRequired,
	}}
	m := newTestModel(t, mock)
	m = typeText(t, m, "I need a refund")
	assert.Equal(t, "I need a refund", m.Session().PendingInput())

	m, cmd := press(t, m, keyEnter)
	require.NotNil(t, cmd)

	assert.True(t, m.Session().IsTyping())
	assert.Equal(t, 1, m.Session().Len())
	assert.Empty(t, m.textarea.Value())
	assert.Empty(t, m.Session().PendingInput())
	assert.Contains(t, m.View(), "Assistant is typing...")

	reply := m.ask("I need a refund")()
	updated, _ := m.Update(reply)
	m = updated.(Model)

	assert.False(t, m.Session().IsTyping())
	assert.Equal(t, 2, m.Session().Len())
	assert.True(t, m.Session().AwaitingEmail())
	assert.Equal(t, "Enter your email address...", m.textarea.Placeholder)
	assert.Contains(t, m.View(), "Email")
	assert.Equal(t, []string{"I need a refund"}, mock.Questions)
}

func TestModifierEnter_InsertsNewline(t *testing.T) {
	for name, key := range map[string]tea.KeyMsg{"alt+enter": keyAltEnter, "ctrl+j": keyCtrlJ} {
		t.Run(name, func(t *testing.T) {
			m := newTestModel(t, &api.MockClient{})
			m = typeText(t, m, "line one")

			m, cmd := press(t, m, key)
			assert.Nil(t, cmd)
			m = typeText(t, m, "line two")

			assert.False(t, m.Session().IsTyping())
			assert.Equal(t, 0, m.Session().Len())
			assert.Equal(t, "line one\nline two", m.textarea.Value())
			assert.Equal(t, "line one\nline two", m.Session().PendingInput())
			assert.Equal(t, 2, m.inputLines)
		})
	}
}

func TestEnter_BlankIsNoop(t *testing.T) {
	mock := &api.MockClient{}
	m := newTestModel(t, mock)
	m = typeText(t, m, "   ")

	m, cmd := press(t, m, keyEnter)
	assert.Nil(t, cmd)
	assert.False(t, m.Session().IsTyping())
	assert.Equal(t, 0, m.Session().Len())
	assert.Equal(t, 0, mock.AskCount())
}

func TestInput_RefusedWhileTyping(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})
	m = typeText(t, m, "first")
	m, _ = press(t, m, keyEnter)
	require.True(t, m.Session().IsTyping())

	m = typeText(t, m, "second")
	assert.Empty(t, m.textarea.Value())

	m, cmd := press(t, m, keyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.Session().Len())
}

func TestReply_TransportFailure(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})
	m = typeText(t, m, "hello")
	m, _ = press(t, m, keyEnter)

	failure := apierrors.NewNetworkError("ask", "http://assistant.test", errors.New("connection refused"))
	updated, _ := m.Update(replyMsg{err: failure})
	m = updated.(Model)

	last, ok := m.Session().Last()
	require.True(t, ok)
	assert.Equal(t, models.FallbackText, last.Text)
	assert.Equal(t, models.ClassificationError, last.Classification)
	assert.NotContains(t, m.viewport.View(), "connection refused")
}

func TestReply_StaleIgnored(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})
	updated, _ := m.Update(replyMsg{reply: models.PlainTextReply{Body: "late"}})
	assert.Equal(t, 0, updated.(Model).Session().Len())
}

func TestSlashTextIsSubmitted(t *testing.T) {
	for _, text := range []string{"/quit", "/exit"} {
		t.Run(text, func(t *testing.T) {
			mock := &api.MockClient{AskReply: models.PlainTextReply{Body: "ok"}}
			m := newTestModel(t, mock)
			m = typeText(t, m, text)

			m, cmd := press(t, m, keyEnter)
			require.NotNil(t, cmd)
			require.Equal(t, 1, m.Session().Len())
			assert.Equal(t, text, m.Session().Messages()[0].Text)
			assert.True(t, m.Session().IsTyping())

			reply, err := m.dispatcher.Ask(context.Background(), text)
			updated, _ := m.Update(replyMsg{reply: reply, err: err})
			assert.Equal(t, 2, updated.(Model).Session().Len())
			assert.Equal(t, []string{text}, mock.Questions)
		})
	}
}

func TestInputAutoResize(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})
	baseHeight := m.viewport.Height

	for i := 0; i < 9; i++ {
		m = typeText(t, m, "x")
		m, _ = press(t, m, keyAltEnter)
	}

	assert.Equal(t, maxInputLines, m.inputLines)
	assert.Less(t, m.viewport.Height, baseHeight)

	m.textarea.Reset()
	m.resizeInput()
	assert.Equal(t, minInputLines, m.inputLines)
	assert.Equal(t, baseHeight, m.viewport.Height)
}

func TestToggleTheme(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})
	require.True(t, m.theme.Dark)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.False(t, m.theme.Dark)
	assert.Equal(t, "daylight", m.theme.Name)
	assert.Equal(t, render.DaylightTheme.Text, colorText)
	assert.Contains(t, m.notice, "light mode")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.True(t, m.theme.Dark)
	assert.Equal(t, render.MidnightTheme.Text, colorText)
}

func TestToggleTheme_RestoresMarkdownStyle(t *testing.T) {
	mock := &api.MockClient{}
	d := chat.NewDispatcher(chat.NewSession(), mock)
	m := NewChatModel(context.Background(), d, mock, Options{
		Markdown:  render.DefaultOptions().WithStyle(render.StyleTokyoNight),
		Clipboard: func(string) error { return nil },
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)
	require.Equal(t, render.StyleTokyoNight, m.markdown.Style)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, render.StyleLight, m.markdown.Style)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, render.StyleTokyoNight, m.markdown.Style)
}

func TestCopyLastReply(t *testing.T) {
	var copied string
	mock := &api.MockClient{AskReply: models.PlainTextReply{Body: "Thanks, got it."}}
	d := chat.NewDispatcher(chat.NewSession(), mock)
	m := NewChatModel(context.Background(), d, mock, Options{
		Clipboard: func(s string) error { copied = s; return nil },
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.NotNil(t, cmd)
	assert.Equal(t, "Nothing to copy yet", m.notice)

	d.Submit(context.Background(), "hello")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, "Thanks, got it.", copied)
	assert.Equal(t, "Copied last reply", m.notice)

	updated, _ = m.Update(clearNoticeMsg{})
	assert.Empty(t, updated.(Model).notice)
}

func TestCopyLastReply_ClipboardError(t *testing.T) {
	mock := &api.MockClient{AskReply: models.PlainTextReply{Body: "x"}}
	d := chat.NewDispatcher(chat.NewSession(), mock)
	d.Submit(context.Background(), "hello")
	m := NewChatModel(context.Background(), d, mock, Options{
		Clipboard: func(string) error { return errors.New("no clipboard") },
	})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, "Clipboard unavailable", m.notice)
}

func TestView_ClassificationLabels(t *testing.T) {
	replies := []models.Reply{
		models.StructuredReply{Message: "Ticket #7 created", Type: "support_ticket_created", Classification: models.ClassificationSupportTicketCreated},
		models.StructuredReply{Message: "Careful", Type: "warning", Classification: models.ClassificationWarning},
		models.PlainTextReply{Body: "Thanks, got it."},
	}
	mock := &api.MockClient{}
	d := chat.NewDispatcher(chat.NewSession(), mock)
	for _, r := range replies {
		mock.AskReply = r
		d.Submit(context.Background(), "q")
	}

	m := NewChatModel(context.Background(), d, mock, Options{
		Markdown: render.DefaultOptions().WithStyle(render.StyleNoTTY),
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 80})
	view := updated.(Model).viewport.View()

	assert.Contains(t, view, "Ticket created")
	assert.Contains(t, view, "Warning")
	assert.Contains(t, view, "Thanks, got it.")
	assert.Equal(t, 3, strings.Count(view, "✦ Assistant"))
}

func TestView_NotReady(t *testing.T) {
	d := chat.NewDispatcher(chat.NewSession(), &api.MockClient{})
	m := NewChatModel(context.Background(), d, nil, Options{})
	assert.Contains(t, m.View(), "Initializing")
}

func TestFormatError(t *testing.T) {
	assert.Empty(t, FormatError(nil))

	out := FormatError(apierrors.NewAPIErrorWithBody(502, "http://assistant.test/simplify-question", "bad gateway", "upstream"))
	assert.Contains(t, out, "HTTP Status: 502")
	assert.Contains(t, out, "Endpoint: http://assistant.test/simplify-question")
	assert.Contains(t, out, "upstream")

	out = FormatError(apierrors.NewNetworkError("ask", "", errors.New("refused")))
	assert.Contains(t, out, "Hint: Check that base_url")
}
