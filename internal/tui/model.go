package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/diogo/supportchat/internal/api"
	"github.com/diogo/supportchat/internal/chat"
	"github.com/diogo/supportchat/internal/models"
	"github.com/diogo/supportchat/internal/render"
)

const (
	minInputLines = 1
	maxInputLines = 6
)

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	// replyMsg carries the settled outbound call back to the update loop
	replyMsg struct {
		reply models.Reply
		err   error
	}
	statusMsg struct {
		status *models.SessionStatus
		err    error
	}
	clearNoticeMsg struct{}
)

// Options configures the chat model
type Options struct {
	Theme    render.TUITheme
	Markdown render.Options
	Logger   zerolog.Logger
	// Clipboard writes text to the system clipboard. Defaults to atotto/clipboard.
	Clipboard func(string) error
}

// Model represents the TUI state
type Model struct {
	ctx        context.Context
	dispatcher *chat.Dispatcher
	session    *chat.Session
	client     api.ClientInterface
	logger     zerolog.Logger
	clipboard  func(string) error

	theme    render.TUITheme
	markdown render.Options

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	ready          bool
	animationFrame int
	notice         string
	inputLines     int

	width  int
	height int
}

// NewChatModel creates a chat model bound to a dispatcher. The client is
// used for the diagnostic session-status query and may be nil.
func NewChatModel(ctx context.Context, dispatcher *chat.Dispatcher, client api.ClientInterface, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Theme.Name == "" {
		opts.Theme = render.MidnightTheme
	}
	if opts.Markdown.Style == "" {
		opts.Markdown = render.DefaultOptions()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	ApplyTheme(opts.Theme)

	ta := textarea.New()
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(minInputLines)
	ta.Focus()

	s := spinner.New()
	s.Spinner = spinner.Points

	m := Model{
		ctx:        ctx,
		dispatcher: dispatcher,
		session:    dispatcher.Session(),
		client:     client,
		logger:     opts.Logger,
		clipboard:  opts.Clipboard,
		theme:      opts.Theme,
		markdown:   opts.Markdown.WithDarkMode(opts.Theme.Dark),
		textarea:   ta,
		spinner:    s,
		inputLines: minInputLines,
	}
	m.styleInput()
	return m
}

// Session returns the conversation the model renders
func (m Model) Session() *chat.Session {
	return m.session
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.fetchStatus(),
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

func clearNoticeAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearNoticeMsg{}
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentWidth := m.width - 4
		if !m.ready {
			m.viewport = viewport.New(contentWidth, m.viewportHeight())
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = m.viewportHeight()
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+t":
			m.toggleTheme()
			return m, nil
		case "ctrl+y":
			return m, m.copyLastReply()
		}

		switch chat.ResolveSubmitKey(msg.String()) {
		case chat.KeySubmit:
			return m.submit()
		case chat.KeyNewline:
			if !m.session.IsTyping() {
				m.textarea.InsertString("\n")
				m.syncInput()
			}
			return m, nil
		}

		// input is refused while a reply is pending
		if !m.session.IsTyping() {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
			m.syncInput()
		}

	case replyMsg:
		if _, ok := m.dispatcher.Settle(msg.reply, msg.err); ok {
			m.styleInput()
			m.updateViewport()
			m.viewport.GotoBottom()
		}

	case statusMsg:
		m.logStatus(msg)

	case clearNoticeMsg:
		m.notice = ""

	case spinner.TickMsg:
		if m.session.IsTyping() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.session.IsTyping() {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit starts a turn with the current input
func (m Model) submit() (tea.Model, tea.Cmd) {
	question, ok := m.dispatcher.Begin(m.textarea.Value())
	if !ok {
		return m, nil
	}

	m.textarea.Reset()
	m.resizeInput()
	m.animationFrame = 0
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.ask(question),
		m.spinner.Tick,
		animationTick(),
	)
}

// ask runs the outbound call off the update loop. It must not touch the session.
func (m Model) ask(question string) tea.Cmd {
	d, ctx := m.dispatcher, m.ctx
	return func() tea.Msg {
		reply, err := d.Ask(ctx, question)
		return replyMsg{reply: reply, err: err}
	}
}

// fetchStatus queries the diagnostic session status once
func (m Model) fetchStatus() tea.Cmd {
	if m.client == nil {
		return nil
	}
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		status, err := client.SessionStatus(ctx)
		return statusMsg{status: status, err: err}
	}
}

func (m Model) logStatus(msg statusMsg) {
	if msg.err != nil {
		m.logger.Debug().Err(msg.err).Msg("session status unavailable")
		return
	}
	if msg.status == nil {
		return
	}
	m.logger.Info().
		Str("session_id", msg.status.SessionID).
		Bool("active", msg.status.Active).
		Msg("session status")
}

// syncInput mirrors the textarea into the session and resizes it
func (m *Model) syncInput() {
	m.session.SetPendingInput(m.textarea.Value())
	m.resizeInput()
}

// resizeInput grows the textarea with its content, within bounds
func (m *Model) resizeInput() {
	lines := m.textarea.LineCount()
	if lines < minInputLines {
		lines = minInputLines
	}
	if lines > maxInputLines {
		lines = maxInputLines
	}
	if lines == m.inputLines {
		return
	}
	m.inputLines = lines
	m.textarea.SetHeight(lines)
	if m.ready {
		m.viewport.Height = m.viewportHeight()
	}
}

func (m Model) viewportHeight() int {
	headerHeight := 4               // header panel with border
	inputHeight := m.inputLines + 4 // label, border and margin
	statusHeight := 2               // status bar with margin
	padding := 2

	h := m.height - headerHeight - inputHeight - statusHeight - padding
	if h < 5 {
		h = 5
	}
	return h
}

// styleInput applies theme colors and the awaiting-email affordance
func (m *Model) styleInput() {
	if m.session.AwaitingEmail() {
		m.textarea.Placeholder = "Enter your email address..."
	} else {
		m.textarea.Placeholder = "Type your message here..."
	}
	m.textarea.FocusedStyle.CursorLine = lipgloss.NewStyle()
	m.textarea.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	m.textarea.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	m.textarea.BlurredStyle = m.textarea.FocusedStyle
	m.spinner.Style = typingStyle
}

// toggleTheme switches between the light and dark variant of the theme
func (m *Model) toggleTheme() {
	m.theme = m.theme.Toggle()
	m.markdown = m.markdown.WithDarkMode(m.theme.Dark)
	ApplyTheme(m.theme)
	m.styleInput()
	m.updateViewport()

	mode := "light"
	if m.theme.Dark {
		mode = "dark"
	}
	m.notice = fmt.Sprintf("%s mode (%s)", mode, m.theme.Name)
	m.logger.Debug().Str("theme", m.theme.Name).Msg("theme toggled")
}

// copyLastReply puts the latest assistant message on the clipboard
func (m *Model) copyLastReply() tea.Cmd {
	last, ok := m.session.LastAssistant()
	if !ok {
		m.notice = "Nothing to copy yet"
		return clearNoticeAfter(2 * time.Second)
	}
	if err := m.clipboard(last.Text); err != nil {
		m.logger.Warn().Err(err).Msg("clipboard write failed")
		m.notice = "Clipboard unavailable"
		return clearNoticeAfter(2 * time.Second)
	}
	m.notice = "Copied last reply"
	return clearNoticeAfter(2 * time.Second)
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return typingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	sections = append(sections, m.renderHeader(contentWidth))

	var messagesContent string
	if m.session.Len() == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	var inputContent string
	if m.session.IsTyping() {
		inputContent = m.renderTypingIndicator()
	} else {
		label := inputLabelStyle.Render("You")
		if m.session.AwaitingEmail() {
			label = emailLabelStyle.Render("Email")
		}
		inputContent = lipgloss.JoinVertical(lipgloss.Left, label, m.textarea.View())
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(width int) string {
	parts := []string{
		titleStyle.Render("✦ " + models.AssistantName),
	}
	if m.client != nil {
		if u, err := url.Parse(m.client.BaseURL()); err == nil && u.Host != "" {
			parts = append(parts, hintStyle.Render("  •  "), subtitleStyle.Render(u.Host))
		}
	}
	if id := m.session.SessionID(); id != "" {
		parts = append(parts, hintStyle.Render("  •  "), subtitleStyle.Render("session "+id))
	}
	return headerStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Center, parts...))
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	icon := welcomeIconStyle.Width(width).Render("✦")
	title := welcomeTitleStyle.Width(width).Render("Welcome to " + models.AssistantName)
	subtitle := welcomeStyle.Width(width).Render("Ask a question about your account, an order or a product")

	content := lipgloss.JoinVertical(lipgloss.Center, "", icon, "", title, "", subtitle, "")

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// renderTypingIndicator renders the animated "assistant is typing" line
func (m Model) renderTypingIndicator() string {
	frame := m.animationFrame

	dots := ""
	numDots := (frame / 3) % 4
	for i := 0; i < numDots; i++ {
		dotColor := render.GradientColors[(frame+i)%len(render.GradientColors)]
		dots += lipgloss.NewStyle().Foreground(dotColor).Render("●")
	}
	for i := numDots; i < 3; i++ {
		dots += lipgloss.NewStyle().Foreground(colorTextMute).Render("○")
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Assistant is typing... ")
	return fmt.Sprintf("%s%s%s", m.spinner.View(), text, dots)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Alt+Enter", "Newline"},
		{"Ctrl+Y", "Copy"},
		{"Ctrl+T", "Theme"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	bar := strings.Join(items, "  │  ")
	if m.notice != "" {
		bar = noticeStyle.Render(m.notice) + "    " + bar
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	for i, msg := range m.session.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}
		if msg.IsUser() {
			content.WriteString(userLabelStyle.Render("● You"))
			content.WriteString("\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(msg.Text))
		} else {
			content.WriteString(m.renderAssistantMessage(msg, bubbleWidth))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// renderAssistantMessage styles one reply by its classification
func (m Model) renderAssistantMessage(msg models.Message, width int) string {
	tone := render.ToneFor(msg.Classification)
	color := toneColor(tone)

	label := assistantLabelStyle.Render("✦ Assistant")
	if text := msg.Classification.Label(); text != "" {
		tag := lipgloss.NewStyle().Foreground(color).Bold(true).
			Render(render.ToneIcon(tone) + " " + text)
		label = lipgloss.JoinHorizontal(lipgloss.Center, label, "  ", tag)
	}

	body := render.MarkdownOrPlain(msg.Text, m.markdown.WithWidth(width-4))
	bubble := assistantBubbleStyle.
		BorderForeground(color).
		Width(width).
		Render(body)

	return label + "\n" + bubble
}

// RunChat starts the chat TUI and blocks until the user quits
func RunChat(ctx context.Context, dispatcher *chat.Dispatcher, client api.ClientInterface, opts Options) error {
	m := NewChatModel(ctx, dispatcher, client, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
