package room

import (
	"holdem-server/pkg/holdem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// receive waits for the next message pushed to the client
func receive(t *testing.T, c *Client) *Response {
	t.Helper()

	select {
	case msg := <-c.SendChan():
		return msg.(*Response)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}

	return nil
}

func TestClient_Send(t *testing.T) {
	a := assert.New(t)

	c := NewClient(nil, 1, "player1")
	for i := 0; i < cap(c.send); i++ {
		a.True(c.Send(i))
	}

	a.False(c.Send("dropped"))
	a.Equal("player1:1", c.String())
}

func TestPitBoss_ClientConnected(t *testing.T) {
	a := assert.New(t)
	p, store, _ := setupPitBoss(t)

	u1 := createUser(t, store, 1000000)
	u2 := createUser(t, store, 1000000)

	// not at a table yet, so nothing is sent
	c1 := NewClient(nil, u1.ID, u1.Username)
	p.ClientConnected(cbg, c1)
	a.Len(c1.SendChan(), 0)

	v, err := p.Create(cbg, u1, 100000)
	a.NoError(err)

	c2 := NewClient(nil, u2.ID, u2.Username)
	p.ClientConnected(cbg, c2)

	_, err = p.Join(cbg, u2, v.ID)
	a.NoError(err)

	msg := receive(t, c1)
	a.Equal("table", msg.Key)
	view := msg.Data.(*holdem.View)
	a.Equal(holdem.StatusStarted, view.Status)
	a.Len(view.Players, 2)

	msg = receive(t, c2)
	a.Equal("table", msg.Key)

	p.ClientDisconnected(c2)
	a.NoError(p.Exit(cbg, u1.ID))

	msg = receive(t, c1)
	a.Equal("gameover", msg.Key)
	a.Len(c2.SendChan(), 0)
}

func TestPitBoss_ReceivedMessage(t *testing.T) {
	a := assert.New(t)
	p, store, _ := setupPitBoss(t)
	u1, u2 := headsUp(t, p, store)

	c1 := NewClient(nil, u1.ID, u1.Username)
	c2 := NewClient(nil, u2.ID, u2.Username)
	p.ClientConnected(cbg, c1)
	p.ClientConnected(cbg, c2)
	a.Equal("table", receive(t, c1).Key)
	a.Equal("table", receive(t, c2).Key)

	p.ReceivedMessage(cbg, c1, &PayloadIn{Action: "check", Context: "a"})
	msg := receive(t, c1)
	a.Equal("error", msg.Key)
	a.Equal("a", msg.Context)
	a.Equal(holdem.ErrWrongTurn.Error(), msg.Value)

	p.ReceivedMessage(cbg, c2, &PayloadIn{Action: "call", Context: "b"})
	a.Equal("table", receive(t, c2).Key)
	msg = receive(t, c2)
	a.Equal("ok", msg.Key)
	a.Equal("b", msg.Context)
	a.Equal(ResultSuccess, msg.Value)
	a.Equal("table", receive(t, c1).Key)

	p.ReceivedMessage(cbg, c1, &PayloadIn{Action: "shuffle", Context: "c"})
	msg = receive(t, c1)
	a.Equal("error", msg.Key)
	a.Equal(ErrUnknownAction.Error(), msg.Value)

	p.ReceivedMessage(cbg, c1, &PayloadIn{Action: "exit", Context: "d"})
	a.Equal("gameover", receive(t, c1).Key)
	msg = receive(t, c1)
	a.Equal("gameover", msg.Key)
	a.Equal("d", msg.Context)

	// exiting again still ends the game for the client
	p.ReceivedMessage(cbg, c1, &PayloadIn{Action: "exit", Context: "e"})
	msg = receive(t, c1)
	a.Equal("gameover", msg.Key)
	a.Equal("e", msg.Context)
}
