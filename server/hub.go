package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/burntcarrot/chatpad/commons"
	"github.com/burntcarrot/chatpad/transcoder"
)

// sendBuffer is the number of outgoing messages queued per client.
const sendBuffer = 32

// client is one connected composer.
type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan commons.Message

	username string
	editorID string
	draft    string
}

type inbound struct {
	from *client
	msg  commons.Message
}

// Hub tracks connected composers and relays their messages.
type Hub struct {
	upgrader   websocket.Upgrader
	logger     logrus.FieldLogger
	transcript *color.Color
	out        io.Writer
	messages   chan inbound

	mu      sync.Mutex
	clients map[uuid.UUID]*client
}

// NewHub returns a hub that logs to logger and prints the chat transcript to
// out.
func NewHub(logger logrus.FieldLogger, out io.Writer) *Hub {
	return &Hub{
		logger:     logger,
		transcript: color.New(color.FgGreen),
		out:        out,
		messages:   make(chan inbound),
		clients:    make(map[uuid.UUID]*client),
	}
}

// ServeHTTP upgrades the connection to a WebSocket and reads messages from it
// until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Error("error upgrading connection to websocket")
		return
	}

	c := &client{id: uuid.New(), conn: conn, send: make(chan commons.Message, sendBuffer)}
	h.add(c)

	go h.writeLoop(c)
	h.readLoop(r.Context(), c)
}

// Run handles incoming messages until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case in := <-h.messages:
			h.handleMsg(in.from, in.msg)
		}
	}
}

// Drafts returns the latest draft of every client that has sent one, keyed by
// username.
func (h *Hub) Drafts() map[string]string {
	h.mu.Lock()
	defer h.mu.Unlock()
	drafts := make(map[string]string)
	for _, c := range h.clients {
		if c.draft != "" {
			drafts[c.username] = c.draft
		}
	}
	return drafts
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
	h.logger.WithField("client", c.id).Info("client connected")
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	h.logger.WithField("client", c.id).Info("closing connection")
	h.broadcastUsers()
}

func (h *Hub) readLoop(ctx context.Context, c *client) {
	defer h.remove(c)
	defer c.conn.Close()

	for {
		var msg commons.Message

		// Read message from the connection.
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).WithField("client", c.id).Warn("websocket error")
			}
			return
		}

		// Set message ID.
		msg.ID = c.id

		select {
		case h.messages <- inbound{from: c, msg: msg}:
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			h.logger.WithError(err).WithField("client", c.id).Error("error sending message to client")
			c.conn.Close()
			break
		}
	}
	// Drain until remove closes the channel.
	for range c.send {
	}
}

// enqueue must be called with h.mu held.
func (h *Hub) enqueue(c *client, msg commons.Message) {
	select {
	case c.send <- msg:
	default:
		h.logger.WithField("client", c.id).Warn("send buffer full, dropping message")
	}
}

// broadcast sends msg to every client except the one with the given ID.
// It must be called with h.mu held.
func (h *Hub) broadcast(from uuid.UUID, msg commons.Message) {
	for id, c := range h.clients {
		if id != from {
			h.enqueue(c, msg)
		}
	}
}

// broadcastUsers sends the list of named clients to everyone. It must be
// called with h.mu held.
func (h *Hub) broadcastUsers() {
	var names []string
	for _, c := range h.clients {
		if c.username != "" {
			names = append(names, c.username)
		}
	}
	sort.Strings(names)
	h.broadcast(uuid.Nil, commons.Message{Type: commons.UsersMessage, Text: strings.Join(names, ",")})
}

func (h *Hub) handleMsg(c *client, msg commons.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.id]; !ok {
		return
	}
	logger := h.logger.WithFields(logrus.Fields{"client": c.id, "type": msg.Type})

	switch msg.Type {
	case commons.JoinMessage:
		c.username = msg.Username
		c.editorID = msg.EditorID
		h.printf("%s has joined the chat.", c.username)
		h.broadcast(c.id, commons.Message{Type: commons.JoinMessage, Username: c.username, ID: c.id, Text: "has joined the chat."})
		h.broadcastUsers()

	case commons.UpdateMessage:
		text, err := canonicalize(msg.Markdown)
		if err != nil {
			logger.WithError(err).Warn("ignoring malformed draft")
			return
		}
		c.draft = text
		logger.WithField("length", len(text)).Debug("draft updated")

	case commons.SubmitMessage:
		text, err := canonicalize(msg.Markdown)
		if err != nil {
			logger.WithError(err).Warn("ignoring malformed submission")
			return
		}
		if text == "" {
			logger.Debug("dropping empty submission")
			return
		}
		c.draft = ""
		h.printf("%s: %s", c.username, text)
		h.enqueue(c, commons.Message{Type: commons.SentMessage, Username: c.username, Text: text, ID: c.id, EditorID: msg.EditorID})
		h.broadcast(c.id, commons.Message{Type: commons.ChatMessage, Username: c.username, Text: text, ID: c.id})

	case commons.OperationMessage:
		// Operations for another composer are relayed as they are.
		if msg.Operation == nil {
			logger.Warn("operation message without an operation")
			return
		}
		h.broadcast(c.id, msg)

	default:
		logger.Warn("unknown message type")
	}
}

// canonicalize passes composer content through the transcoder so every chat
// line has the same shape, whatever the sender did to it.
func canonicalize(raw json.RawMessage) (string, error) {
	doc, err := transcoder.DeserializeJSON(raw)
	if err != nil {
		return "", err
	}
	return transcoder.Serialize(doc), nil
}

func (h *Hub) printf(format string, args ...interface{}) {
	t := time.Now().Format(time.ANSIC)
	h.transcript.Fprintf(h.out, "%s >> "+format+"\n", append([]interface{}{t}, args...)...)
}
