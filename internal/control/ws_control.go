package control

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/frudas24/cropslice/internal/session"
)

// Server handles websocket control input.
type Server struct {
	mu       sync.Mutex
	upgrader websocket.Upgrader
	session  *session.Session
	gestures *GestureState
	log      *slog.Logger
	conn     *websocket.Conn
}

// NewServer creates a control websocket server.
func NewServer(sess *session.Session, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		session:  sess,
		gestures: NewGestureState(),
		log:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and processes control messages.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.session.IsAuthenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	if err := s.acceptConn(conn); err != nil {
		s.log.Warn("control connection rejected", "remote", r.RemoteAddr, "err", err)
		_ = conn.WriteJSON(errorReply(err))
		_ = conn.Close()
		return
	}
	wsConnections.Inc()
	defer wsConnections.Dec()
	defer s.cleanupConn(conn)
	s.log.Info("control connected", "remote", r.RemoteAddr)

	if err := conn.WriteJSON(stateReply(s.session.Snapshot())); err != nil {
		return
	}
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			s.log.Debug("control read ended", "err", err)
			return
		}
		if err := conn.WriteJSON(s.handleMessage(msg)); err != nil {
			return
		}
	}
}

// acceptConn ensures only one active control connection exists.
func (s *Server) acceptConn(conn *websocket.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return fmt.Errorf("control connection already active")
	}
	s.conn = conn
	return nil
}

// cleanupConn clears the active connection and any drag it left behind.
func (s *Server) cleanupConn(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
		if s.gestures.Active() {
			s.session.Release()
		}
		s.gestures.Reset()
	}
	s.mu.Unlock()
	_ = conn.Close()
}

// handleMessage dispatches a single control message and builds the reply.
func (s *Server) handleMessage(msg Message) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.T {
	case MsgDown, MsgMove, MsgUp, MsgCancel, MsgRatio, MsgReset, MsgLayout:
		messagesTotal.WithLabelValues(msg.T).Inc()
	default:
		messagesTotal.WithLabelValues("unknown").Inc()
	}

	switch msg.T {
	case MsgDown:
		x, y := s.point(msg)
		s.applyActions(s.gestures.HandleDown(msg.ID, x, y))
	case MsgMove:
		x, y := s.point(msg)
		s.applyActions(s.gestures.HandleMove(msg.ID, x, y))
	case MsgUp:
		x, y := s.point(msg)
		s.applyActions(s.gestures.HandleUp(msg.ID, x, y))
	case MsgCancel:
		s.applyActions(s.gestures.HandleCancel(msg.ID))
	case MsgRatio:
		if err := s.session.SetAspectRatio(msg.Ratio); err != nil {
			return s.reject("ratio", err)
		}
	case MsgReset:
		s.gestures.Reset()
		s.session.Reset()
	case MsgLayout:
		if err := s.session.Layout(msg.W, msg.H); err != nil {
			return s.reject("layout", err)
		}
		s.gestures.Reset()
	default:
		return errorReply(fmt.Errorf("unknown message type %q", msg.T))
	}
	return stateReply(s.session.Snapshot())
}

// reject records a refused configuration change.
func (s *Server) reject(kind string, err error) Reply {
	configRejections.WithLabelValues(kind).Inc()
	s.log.Warn("control change rejected", "kind", kind, "err", err)
	return errorReply(err)
}

// point converts the message coordinates to view pixels.
func (s *Server) point(msg Message) (float64, float64) {
	if msg.Norm {
		return NormToView(msg.X, msg.Y, s.session.Viewport())
	}
	return msg.X, msg.Y
}

// applyActions executes actions against the session.
func (s *Server) applyActions(actions []Action) {
	for _, action := range actions {
		s.applyAction(action)
	}
}

// applyAction executes a single action.
func (s *Server) applyAction(action Action) {
	switch action.Type {
	case ActPress:
		cp, ok := s.session.Press(action.X, action.Y)
		if !ok {
			s.log.Debug("press missed the crop rectangle", "x", action.X, "y", action.Y)
			return
		}
		dragsTotal.WithLabelValues(cp.String()).Inc()
	case ActMove:
		s.session.Move(action.X, action.Y)
	case ActRelease:
		s.session.Release()
	}
}
