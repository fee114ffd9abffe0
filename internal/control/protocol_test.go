package control

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/frudas24/cropslice/internal/geom"
	"github.com/frudas24/cropslice/internal/session"
)

// TestProtocol_Down verifies decoding a down message.
func TestProtocol_Down(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"t":"down","id":1,"x":0.5,"y":0.2,"norm":true}`), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.T != MsgDown || msg.ID != 1 || msg.X != 0.5 || msg.Y != 0.2 || !msg.Norm {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

// TestProtocol_Move verifies decoding a move message in view pixels.
func TestProtocol_Move(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"t":"move","id":2,"x":310,"y":25.5}`), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.T != MsgMove || msg.ID != 2 || msg.X != 310 || msg.Y != 25.5 || msg.Norm {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

// TestProtocol_Ratio verifies a null ratio decodes as free-form.
func TestProtocol_Ratio(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"t":"ratio","ratio":1.5}`), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.Ratio == nil || *msg.Ratio != 1.5 {
		t.Fatalf("unexpected ratio: %+v", msg.Ratio)
	}

	msg = Message{}
	if err := json.Unmarshal([]byte(`{"t":"ratio","ratio":null}`), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.T != MsgRatio || msg.Ratio != nil {
		t.Fatalf("expected free-form ratio, got %+v", msg)
	}
}

// TestProtocol_Layout verifies decoding a layout message.
func TestProtocol_Layout(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"t":"layout","w":640,"h":480}`), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.T != MsgLayout || msg.W != 640 || msg.H != 480 {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

// TestProtocol_Replies verifies state and error replies encode their payloads.
func TestProtocol_Replies(t *testing.T) {
	data, err := json.Marshal(stateReply(session.State{Rect: geom.R(1, 2, 3, 4)}))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"t":"state"`) || !strings.Contains(string(data), `"right":3`) {
		t.Fatalf("unexpected state reply: %s", data)
	}

	data, err = json.Marshal(errorReply(errors.New("boom")))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"t":"error","error":"boom"}` {
		t.Fatalf("unexpected error reply: %s", data)
	}
}
