package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/fleetconsole/internal/protocol"
)

// fakeServer acks the hello and echoes each command back as a user log.
func fakeServer(t *testing.T, reject bool) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var hello protocol.HelloMessage
		if err := conn.ReadJSON(&hello); err != nil {
			return
		}
		if reject {
			_ = conn.WriteJSON(protocol.ErrorMessage{
				BaseMessage: protocol.NewBase(protocol.TypeError),
				Code:        "denied",
				Message:     "go away",
			})
			return
		}
		_ = conn.WriteJSON(protocol.HelloAckMessage{
			BaseMessage:  protocol.NewBase(protocol.TypeHelloAck),
			ConnectionID: "conn_test",
		})

		for {
			var cmd protocol.CommandMessage
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			_ = conn.WriteJSON(protocol.LogMessage{
				BaseMessage: protocol.NewBase(protocol.TypeLog),
				Kind:        "User",
				Text:        `"` + cmd.Text + `"`,
			})
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClientHelloAndCommand(t *testing.T) {
	client, err := NewClient(fakeServer(t, false))
	require.NoError(t, err)
	defer client.Close()

	ack, err := client.SendHello()
	require.NoError(t, err)
	assert.Equal(t, "conn_test", ack.ConnectionID)

	require.NoError(t, client.SendCommand("battery report"))

	var got []string
	err = client.ReadMessages(time.Now().Add(2*time.Second), func(data []byte) bool {
		line, ok := Renderer{}.Render(data)
		if ok {
			got = append(got, line)
		}
		return false
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], `"battery report"`)
}

func TestClientHelloRejected(t *testing.T) {
	client, err := NewClient(fakeServer(t, true))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.SendHello()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}
