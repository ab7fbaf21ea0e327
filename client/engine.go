package main

import (
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/burntcarrot/chatpad/commons"
	"github.com/burntcarrot/chatpad/editor"
)

type ConnReader interface {
	ReadJSON(v interface{}) error
}

type ConnWriter interface {
	WriteJSON(v interface{}) error
}

var errUnknownOperation = errors.New("unknown operation")

// session carries what the composer callbacks need to talk to the server.
type session struct {
	editorID string
	username string
	out      chan<- commons.Message
	logger   logrus.FieldLogger
}

// send queues msg for the server. The message is dropped when the queue is
// full.
func (s *session) send(msg commons.Message) {
	msg.Username = s.username
	msg.EditorID = s.editorID
	select {
	case s.out <- msg:
	default:
		s.logger.WithField("type", msg.Type).Warn("outgoing queue full, dropping message")
	}
}

// bind connects the composer's callbacks to the session.
func (s *session) bind(ed *editor.Editor) {
	ed.OnChange(func(text string) {
		s.send(commons.Message{Type: commons.UpdateMessage, Markdown: commons.MarkdownValue(text)})
	})
	ed.OnSubmit(func(text string) {
		s.send(commons.Message{Type: commons.SubmitMessage, Markdown: commons.MarkdownValue(text)})
	})
}

// join announces the user to the server.
func (s *session) join(username string) {
	s.username = username
	s.send(commons.Message{Type: commons.JoinMessage})
}

// handleOperation applies a host command to the composer.
func handleOperation(ed *editor.Editor, op commons.Operation) error {
	switch op.Type {
	case commons.FormatOperation:
		f, err := editor.ParseFormat(op.Format)
		if err != nil {
			return err
		}
		ed.ApplyFormat(f)
	case commons.ResetOperation:
		ed.Reset()
	case commons.LoadOperation:
		ed.Load(op.Value)
	case commons.FocusOperation:
		// The composer always has the terminal's focus.
	default:
		return fmt.Errorf("%w: %q", errUnknownOperation, op.Type)
	}
	return nil
}

// getMsgChan returns a message channel that repeatedly reads from a websocket connection.
// The channel is closed once the connection fails.
func getMsgChan(conn ConnReader, logger logrus.FieldLogger) chan commons.Message {
	messageChan := make(chan commons.Message)
	go func() {
		defer close(messageChan)
		for {
			var msg commons.Message

			// Read message.
			err := conn.ReadJSON(&msg)
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logger.Errorf("websocket error: %v", err)
				}
				return
			}

			logger.Infof("message received: %+v\n", msg)

			// send message through channel
			messageChan <- msg
		}
	}()
	return messageChan
}

// writeLoop writes queued messages to the connection until the queue is
// closed or a write fails.
func writeLoop(conn ConnWriter, out <-chan commons.Message, logger logrus.FieldLogger) error {
	for msg := range out {
		if err := conn.WriteJSON(msg); err != nil {
			logger.Errorf("failed to send message: %v", err)
			return err
		}
		logger.Debugf("message sent: %s", msg.Type)
	}
	return nil
}
