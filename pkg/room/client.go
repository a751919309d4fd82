package room

import (
	"context"
	"fmt"
	"holdem-server/internal/metrics"
	"holdem-server/pkg/holdem"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	userID   int64
	username string
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, userID int64, username string) *Client {
	return &Client{
		Conn:     conn,
		send:     make(chan interface{}, 256),
		userID:   userID,
		username: username,
	}
}

// Send send a message to the web client
// The message is dropped if the client is not keeping up
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the user
func (c *Client) String() string {
	return fmt.Sprintf("%s:%d", c.username, c.userID)
}

// ClientConnected registers the client and sends it the user's view of their table
func (p *PitBoss) ClientConnected(ctx context.Context, c *Client) {
	logrus.WithField("client", c.String()).Debug("client connected")

	p.clientsLock.Lock()
	clients, ok := p.clients[c.userID]
	if !ok {
		clients = make(map[*Client]bool)
		p.clients[c.userID] = clients
	}
	clients[c] = true
	p.clientsLock.Unlock()

	metrics.Metrics.ClientConnected()

	v, err := p.View(ctx, c.userID)
	if err != nil {
		if err != holdem.ErrNotInGame {
			logrus.WithField("client", c.String()).WithError(err).Error("could not get view")
		}

		return
	}

	c.Send(newTableResponse(v))
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(c *Client) {
	logrus.WithField("client", c.String()).Debug("client disconnected")

	p.clientsLock.Lock()
	if clients, ok := p.clients[c.userID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(p.clients, c.userID)
		}
	}
	p.clientsLock.Unlock()

	metrics.Metrics.ClientDisconnected()
}

// send pushes the message to every client of the user
func (p *PitBoss) send(userID int64, msg interface{}) {
	p.clientsLock.RLock()
	defer p.clientsLock.RUnlock()

	for c := range p.clients[userID] {
		if !c.Send(msg) {
			logrus.WithField("client", c.String()).Warn("client is not keeping up, dropped message")
		}
	}
}

// ReceivedMessage is called when a client sends a message to the server
func (p *PitBoss) ReceivedMessage(ctx context.Context, c *Client, msg *PayloadIn) {
	result := ResultSuccess
	var err error

	switch msg.Action {
	case "exit":
		err = p.Exit(ctx, c.userID)
	case string(holdem.ActionCheck), string(holdem.ActionCall), string(holdem.ActionBet), string(holdem.ActionFold):
		result, err = p.Act(ctx, c.userID, holdem.Action(msg.Action), msg.Amount)
	default:
		err = ErrUnknownAction
	}

	if err == ErrLeftTable || (err == nil && msg.Action == "exit") {
		c.Send(newGameOverResponse(msg.Context))
		return
	}

	if err != nil {
		if _, ok := err.(holdem.UserError); !ok {
			logrus.WithField("client", c.String()).WithError(err).Error("could not perform action")
		}

		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	c.Send(newOKResponse(msg.Context, result))
}
