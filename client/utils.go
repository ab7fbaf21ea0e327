package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/writer"

	"github.com/burntcarrot/chatpad/config"
)

// Flags represents the command-line flags that are passed to chatpad's client.
type Flags struct {
	Server string
	Secure bool
	Login  bool
	File   string
	Config string
	Debug  bool
}

// parseFlags parses command-line flags and returns the names of the flags
// that were set explicitly.
func parseFlags() (Flags, map[string]bool) {
	serverAddr := flag.String("server", "localhost:8080", "The network address of the server")
	useSecureConn := flag.Bool("secure", false, "Enable a secure WebSocket connection (wss://)")
	enableDebug := flag.Bool("debug", false, "Enable debugging mode to show more verbose logs")
	enableLogin := flag.Bool("login", false, "Enable the login prompt for the server")
	file := flag.String("file", "", "The file to load the initial draft from")
	configPath := flag.String("config", "", "Path to a chatpad config file")

	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	return Flags{
		Server: *serverAddr,
		Secure: *useSecureConn,
		Debug:  *enableDebug,
		Login:  *enableLogin,
		File:   *file,
		Config: *configPath,
	}, set
}

// applyFlags overrides configured values with explicitly set flags.
func applyFlags(s *config.Settings, flags Flags, set map[string]bool) {
	if set["server"] {
		s.Client.Server = flags.Server
	}
	if set["secure"] {
		s.Client.Secure = flags.Secure
	}
	if set["login"] {
		s.Client.Login = flags.Login
	}
	if set["debug"] {
		s.Log.Debug = flags.Debug
	}
}

// serverURL returns the WebSocket URL of the server.
func serverURL(s config.ClientSettings) url.URL {
	if s.Secure {
		return url.URL{Scheme: "wss", Host: s.Server, Path: "/"}
	}
	return url.URL{Scheme: "ws", Host: s.Server, Path: "/"}
}

// createConn creates a WebSocket connection.
func createConn(s config.ClientSettings) (*websocket.Conn, *http.Response, error) {
	u := serverURL(s)

	// Get WebSocket connection.
	dialer := websocket.Dialer{
		HandshakeTimeout: 2 * time.Minute,
	}

	return dialer.Dial(u.String(), nil)
}

// ensureDirExists ensures that a directory exists, and if it isn't present, it tries to create a new one.
func ensureDirExists(path string) (bool, error) {
	// Check if the directory exists
	if _, err := os.Stat(path); err == nil {
		return true, nil
	}

	// Create the directory
	err := os.Mkdir(path, 0700)
	if err != nil {
		return false, err
	}

	return true, nil
}

// setupLogger initializes the client's logger (logrus).
func setupLogger(logger *logrus.Logger) (*os.File, *os.File, error) {
	// define log file paths, based on the home directory.
	logPath := "chatpad.log"
	debugLogPath := "chatpad-debug.log"

	// Get the home directory.
	homeDirExists := true
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDirExists = false
	}

	chatpadDir := filepath.Join(homeDir, ".chatpad")

	dirExists, err := ensureDirExists(chatpadDir)
	if err != nil {
		return nil, nil, err
	}

	// Get log paths based on the home directory.
	if dirExists && homeDirExists {
		logPath = filepath.Join(chatpadDir, "chatpad.log")
		debugLogPath = filepath.Join(chatpadDir, "chatpad-debug.log")
	}

	// Open the log file and create if it does not exist.
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) // skipcq: GSC-G302
	if err != nil {
		fmt.Printf("Logger error, exiting: %s", err)
		return nil, nil, err
	}

	// Create a separate log file for verbose logs.
	debugLogFile, err := os.OpenFile(debugLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) // skipcq: GSC-G302
	if err != nil {
		fmt.Printf("Logger error, exiting: %s", err)
		return nil, nil, err
	}

	logger.SetOutput(io.Discard)
	logger.SetFormatter(&logrus.JSONFormatter{})
	addHooks(logger, logFile, debugLogFile)

	return logFile, debugLogFile, nil
}

// addHooks splits the log by level: warnings and worse go to logW, the rest
// to debugW.
func addHooks(logger *logrus.Logger, logW, debugW io.Writer) {
	logger.AddHook(&writer.Hook{
		Writer: logW,
		LogLevels: []logrus.Level{
			logrus.WarnLevel,
			logrus.ErrorLevel,
			logrus.FatalLevel,
			logrus.PanicLevel,
		},
	})
	logger.AddHook(&writer.Hook{
		Writer: debugW,
		LogLevels: []logrus.Level{
			logrus.TraceLevel,
			logrus.DebugLevel,
			logrus.InfoLevel,
		},
	})
}

// closeLogFiles closes the log files created by the client.
// closeLogFiles is meant to be used for defer calls.
func closeLogFiles(logFile, debugLogFile *os.File) {
	if err := logFile.Close(); err != nil {
		fmt.Printf("Failed to close log file: %s", err)
		return
	}

	if err := debugLogFile.Close(); err != nil {
		fmt.Printf("Failed to close debug log file: %s", err)
		return
	}
}

// readDraft returns the initial draft stored in path. An empty path gives an
// empty draft.
func readDraft(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
