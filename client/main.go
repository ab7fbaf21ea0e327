package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/burntcarrot/chatpad/commons"
	"github.com/burntcarrot/chatpad/config"
	"github.com/burntcarrot/chatpad/editor"
)

func main() {
	// Parse flags.
	flags, set := parseFlags()

	settings, err := config.Load(flags.Config)
	if err != nil {
		color.Red("Config error, exiting: %s", err)
		os.Exit(1)
	}
	applyFlags(&settings, flags, set)

	logger := logrus.New()
	logFile, debugLogFile, err := setupLogger(logger)
	if err != nil {
		fmt.Printf("Failed to setup logger, exiting: %s", err)
		os.Exit(1)
	}
	defer closeLogFiles(logFile, debugLogFile)

	if settings.Log.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	draft, err := readDraft(flags.File)
	if err != nil {
		color.Red("Failed to read %s, exiting: %s", flags.File, err)
		return
	}

	color.Green("Connecting to server @ %s\n", settings.Client.Server)

	// Get WebSocket connection.
	conn, _, err := createConn(settings.Client)
	if err != nil {
		color.Red("Connection error, exiting: %s", err)
		return
	}
	defer conn.Close()

	out := make(chan commons.Message, 64)
	go func() { _ = writeLoop(conn, out, logger) }()

	ed := editor.New(draft, editor.Config{
		Logger:      logger,
		Debounce:    settings.Editor.Debounce,
		HistorySize: settings.Editor.History,
		MarkToggle:  settings.Editor.Marks,
	})
	defer ed.Close()

	s := &session{editorID: ed.ID(), out: out, logger: logger.WithField("editor", ed.ID())}
	s.bind(ed)

	username := ""
	if !settings.Client.Login {
		username = defaultUsername()
	}

	p := tea.NewProgram(newModel(ed, s, username), tea.WithAltScreen())

	go func() {
		for msg := range getMsgChan(conn, logger) {
			p.Send(serverMsg(msg))
		}
		p.Send(disconnectedMsg{})
	}()

	if err := p.Start(); err != nil {
		color.Red("UI error, exiting: %s", err)
		logger.Errorf("ui error: %v", err)
	}
}

// defaultUsername names the user when the login prompt is off.
func defaultUsername() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "anonymous"
}
