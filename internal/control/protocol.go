// Package control handles the crop websocket protocol and pointer gestures.
package control

import "github.com/frudas24/cropslice/internal/session"

// Message types sent by the client UI.
const (
	MsgDown   = "down"
	MsgMove   = "move"
	MsgUp     = "up"
	MsgCancel = "cancel"
	MsgRatio  = "ratio"
	MsgReset  = "reset"
	MsgLayout = "layout"
)

// Reply types sent back to the client.
const (
	ReplyState = "state"
	ReplyError = "error"
)

// Message is a control websocket payload.
type Message struct {
	T     string   `json:"t"`
	ID    int      `json:"id,omitempty"`
	X     float64  `json:"x,omitempty"`
	Y     float64  `json:"y,omitempty"`
	Norm  bool     `json:"norm,omitempty"`
	Ratio *float64 `json:"ratio,omitempty"`
	W     int      `json:"w,omitempty"`
	H     int      `json:"h,omitempty"`
}

// Reply answers every message: either the session state or an error.
type Reply struct {
	T     string         `json:"t"`
	State *session.State `json:"state,omitempty"`
	Error string         `json:"error,omitempty"`
}

// stateReply wraps a snapshot.
func stateReply(st session.State) Reply {
	return Reply{T: ReplyState, State: &st}
}

// errorReply wraps err for the client.
func errorReply(err error) Reply {
	return Reply{T: ReplyError, Error: err.Error()}
}
