package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/burntcarrot/chatpad/commons"
	"github.com/burntcarrot/chatpad/decorator"
	"github.com/burntcarrot/chatpad/document"
	"github.com/burntcarrot/chatpad/editor"
)

type (
	// serverMsg is a message read from the server.
	serverMsg commons.Message

	// disconnectedMsg reports that the connection to the server is gone.
	disconnectedMsg struct{}
)

const helpText = "enter send • alt+enter newline • ctrl+b/t/e/x/s bold/italic/code/strike/spoiler • ctrl+q quote • esc quit"

type model struct {
	editor  *editor.Editor
	session *session

	textInput  textinput.Model
	transcript viewport.Model
	entries    []chatEntry

	width    int
	status   string
	users    string
	LoggedIn bool
	Quitting bool
}

// newModel creates the UI model. A non-empty username skips the login prompt.
func newModel(ed *editor.Editor, s *session, username string) model {
	ti := textinput.New()
	ti.Placeholder = "Username"
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 20

	m := model{
		editor:     ed,
		session:    s,
		textInput:  ti,
		transcript: viewport.New(80, 10),
		width:      80,
	}
	if username != "" {
		m.login(username)
	}
	return m
}

func (m *model) login(username string) {
	m.session.join(username)
	m.LoggedIn = true
	m.status = fmt.Sprintf("Logged in as %s", username)
}

func (m model) Init() tea.Cmd {
	if m.LoggedIn {
		return nil
	}
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.transcript.Width = msg.Width
		m.transcript.Height = transcriptHeight(msg.Height)
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.Quitting = true
			return m, tea.Quit
		}
		if !m.LoggedIn {
			if msg.Type == tea.KeyEnter {
				if name := strings.TrimSpace(m.textInput.Value()); name != "" {
					m.login(name)
				}
				return m, nil
			}
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}
		if !handleKey(m.editor, msg) {
			m.transcript, cmd = m.transcript.Update(msg)
		}
		return m, cmd

	case serverMsg:
		m.handleMsg(commons.Message(msg))
		return m, nil

	case disconnectedMsg:
		m.status = "lost connection!"
		return m, nil
	}

	return m, nil
}

// handleMsg updates the model with a message from the server.
func (m *model) handleMsg(msg commons.Message) {
	switch msg.Type {
	case commons.ChatMessage:
		m.addEntry(msg.Username, false, msg.Text)

	case commons.SentMessage:
		m.addEntry(msg.Username, true, msg.Text)

	case commons.JoinMessage:
		m.status = fmt.Sprintf("%s has joined the session!", msg.Username)

	case commons.UsersMessage:
		m.users = msg.Text

	case commons.OperationMessage:
		if msg.Operation == nil {
			return
		}
		if msg.EditorID != "" && msg.EditorID != m.editor.ID() {
			return
		}
		if err := handleOperation(m.editor, *msg.Operation); err != nil {
			m.session.logger.WithError(err).Warn("ignoring operation")
			m.status = err.Error()
		}
	}
}

func (m *model) addEntry(name string, own bool, text string) {
	m.entries = append(m.entries, chatEntry{name: name, own: own, text: text})
	m.refreshTranscript()
}

func (m *model) refreshTranscript() {
	lines := make([]string, len(m.entries))
	for i, c := range m.entries {
		lines[i] = chatLine(c.name, c.own, c.text, m.width)
	}
	m.transcript.SetContent(strings.Join(lines, "\n"))
	m.transcript.GotoBottom()
}

// transcriptHeight leaves room for the composer, the status bar and the help line.
func transcriptHeight(height int) int {
	if h := height - 8; h > 1 {
		return h
	}
	return 1
}

func loginView(m model) string {
	return fmt.Sprintf(
		"Enter username:\n\n%s\n\n%s",
		m.textInput.View(),
		"(esc to quit)",
	) + "\n"
}

func composerView(m model) string {
	snap := m.editor.Snapshot()
	sel := m.editor.Selection()
	lines := composerLines(snap, sel, m.decorate)
	return promptStyle.Render("> ") + strings.Join(lines, "\n  ")
}

func (m model) decorate(in *document.Inline) []decorator.Range {
	ranges, err := m.editor.Decorations(in.ID)
	if err != nil {
		return nil
	}
	return ranges
}

func statusView(m model) string {
	col := caretColumn(m.editor.Snapshot(), m.editor.Selection())
	left := m.status
	right := fmt.Sprintf("users: %s | col %d", m.users, col+1)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return statusStyle.Render(left + strings.Repeat(" ", gap) + right)
}

func editorView(m model) string {
	return fmt.Sprintf(
		"%s\n\n%s\n\n%s\n%s",
		m.transcript.View(),
		composerView(m),
		statusView(m),
		delimStyle.Render(helpText),
	) + "\n"
}

func (m model) View() string {
	if m.Quitting {
		return "\n  See you later!\n\n"
	}
	if !m.LoggedIn {
		return loginView(m)
	}
	return editorView(m)
}

// chatEntry is one line of the transcript.
type chatEntry struct {
	name string
	own  bool
	text string
}
