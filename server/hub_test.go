package main

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/burntcarrot/chatpad/commons"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	hub := NewHub(logger, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url, username string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := conn.WriteJSON(commons.Message{Type: commons.JoinMessage, Username: username}); err != nil {
		t.Fatalf("join: %v", err)
	}
	return conn
}

// waitFor reads from conn until a message of the given type arrives.
func waitFor(t *testing.T, conn *websocket.Conn, typ commons.MessageType) commons.Message {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}
	for {
		var msg commons.Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		if msg.Type == typ {
			return msg
		}
	}
}

func submit(t *testing.T, conn *websocket.Conn, typ commons.MessageType, markdown string) {
	t.Helper()
	msg := commons.Message{Type: typ, EditorID: "editor-1", Markdown: []byte(markdown)}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestHub_Submit(t *testing.T) {
	_, url := startHub(t)
	alice := dial(t, url, "alice")
	bob := dial(t, url, "bob")

	// Both joins are in once bob appears in a users list seen by alice.
	for {
		if users := waitFor(t, alice, commons.UsersMessage); users.Text == "alice,bob" {
			break
		}
	}

	tests := []struct {
		description string
		markdown    string
	}{
		{description: "empty submission is dropped", markdown: `""`},
		{description: "malformed submission is dropped", markdown: `42`},
		{description: "blank lines are canonicalized away", markdown: `"> hi\n\n**there**  \n"`},
	}
	for _, tc := range tests {
		submit(t, alice, commons.SubmitMessage, tc.markdown)
	}

	ack := waitFor(t, alice, commons.SentMessage)
	got := waitFor(t, bob, commons.ChatMessage)

	want := commons.Message{Type: commons.ChatMessage, Username: "alice", Text: "> hi\n**there**", ID: ack.ID}
	if !cmp.Equal(got, want) {
		t.Errorf("got != expected, diff: %v\n", cmp.Diff(got, want))
	}
	if ack.Text != want.Text || ack.EditorID != "editor-1" {
		t.Errorf("unexpected ack %+v", ack)
	}
}

func TestHub_Drafts(t *testing.T) {
	hub, url := startHub(t)
	alice := dial(t, url, "alice")
	waitFor(t, alice, commons.UsersMessage)

	submit(t, alice, commons.UpdateMessage, `"draft  "`)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if got := hub.Drafts(); got["alice"] == "draft" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("draft never recorded, drafts: %v", hub.Drafts())
}

func TestHub_Leave(t *testing.T) {
	_, url := startHub(t)
	alice := dial(t, url, "alice")
	bob := dial(t, url, "bob")

	for {
		if users := waitFor(t, alice, commons.UsersMessage); users.Text == "alice,bob" {
			break
		}
	}

	bob.Close()

	for {
		if users := waitFor(t, alice, commons.UsersMessage); users.Text == "alice" {
			return
		}
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		description string
		raw         string
		expected    string
		expectErr   bool
	}{
		{description: "plain", raw: `"hi"`, expected: "hi"},
		{description: "quote with blank line", raw: `">\n> a\n\n"`, expected: ">\n> a"},
		{description: "null", raw: `null`, expected: ""},
		{description: "object", raw: `{}`, expectErr: true},
	}

	for _, tc := range tests {
		got, err := canonicalize([]byte(tc.raw))
		if (err != nil) != tc.expectErr {
			t.Errorf("(%s) unexpected error state: %v", tc.description, err)
		}
		if got != tc.expected {
			t.Errorf("(%s) got %q, expected %q", tc.description, got, tc.expected)
		}
	}
}
