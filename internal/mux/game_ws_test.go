package mux

import (
	"encoding/json"
	"fmt"
	"holdem-server/pkg/holdem"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

type wsMessage struct {
	Key     string          `json:"key"`
	Value   string          `json:"value"`
	Context string          `json:"context"`
	Data    json.RawMessage `json:"data"`
}

func dialWS(t *testing.T, url, signedJWT string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(url, "http") + "/api/game/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Authorization": {"Bearer " + signedJWT}})
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

// readWS returns the next message with the key
func readWS(t *testing.T, conn *websocket.Conn, key string) wsMessage {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", key, err)
		}

		if msg.Key == key {
			return msg
		}
	}
}

func Test_getGameWS(t *testing.T) {
	a := assert.New(t)
	ts, _, store := setupServer(t)

	_, j1 := user(t, store)
	u2, j2 := user(t, store)

	var v holdem.View
	assertPost(t, ts, "/api/game/create/100000", nil, &v, 200, j1)

	conn := dialWS(t, ts.URL, j1)

	msg := readWS(t, conn, "table")
	var view holdem.View
	a.NoError(json.Unmarshal(msg.Data, &view))
	a.Equal(v.ID, view.ID)
	a.Equal(holdem.StatusWaiting, view.Status)

	assertPost(t, ts, fmt.Sprintf("/api/game/join/%d", v.ID), nil, nil, 200, j2)

	msg = readWS(t, conn, "table")
	a.NoError(json.Unmarshal(msg.Data, &view))
	a.Equal(holdem.StatusStarted, view.Status)
	a.Len(view.Players, 2)

	a.NoError(conn.WriteJSON(map[string]interface{}{"action": "check", "context": "1"}))
	msg = readWS(t, conn, "error")
	a.Equal("1", msg.Context)
	a.Equal("Wrong user has made a move", msg.Value)

	assertPost(t, ts, "/api/game/call", nil, nil, 200, j2)
	msg = readWS(t, conn, "table")
	a.NoError(json.Unmarshal(msg.Data, &view))
	for _, p := range view.Players {
		if p.Username == u2.Username {
			a.Equal(2000, p.Bet)
		}
	}

	a.NoError(conn.WriteJSON(map[string]interface{}{"action": "exit", "context": "2"}))
	msg = readWS(t, conn, "gameover")
	a.Equal("Success", msg.Value)
}

func Test_getGameWS_unauthorized(t *testing.T) {
	ts, _, _ := setupServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/game/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	assert.Error(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}
