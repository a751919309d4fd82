package room

import (
	"holdem-server/pkg/holdem"
)

// Results of a successful action
const (
	ResultSuccess = "Success"
	ResultAllIn   = "All In"
)

// Response is a message pushed to a websocket client
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value,omitempty"`
	Context string      `json:"context,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// PayloadIn is a message received from a websocket client
type PayloadIn struct {
	Action  string `json:"action"`
	Amount  int    `json:"amount"`
	Context string `json:"context"`
}

func newErrorResponse(ctx string, err error) *Response {
	msg := "could not complete the request"
	if _, ok := err.(holdem.UserError); ok {
		msg = err.Error()
	}

	return &Response{
		Key:     "error",
		Value:   msg,
		Context: ctx,
	}
}

func newTableResponse(v *holdem.View) *Response {
	return &Response{
		Key:  "table",
		Data: v,
	}
}

func newGameOverResponse(ctx string) *Response {
	return &Response{
		Key:     "gameover",
		Value:   ResultSuccess,
		Context: ctx,
	}
}

func newOKResponse(ctx, result string) *Response {
	return &Response{
		Key:     "ok",
		Value:   result,
		Context: ctx,
	}
}
