package socket

import (
	"net/http"
	"strings"

	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
)

func NewServer() *socketio.Server {
	// Configure polling transport
	pollTransport := &polling.Transport{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	// Configure websocket transport
	wsTransport := &websocket.Transport{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	opts := &engineio.Options{
		Transports: []transport.Transport{
			pollTransport,
			wsTransport,
		},
	}

	return socketio.NewServer(opts)
}

// Register binds the engine's handlers to the socket.io server and makes
// the server the engine's broadcast target.
func (e *Engine) Register(srv *socketio.Server) {
	e.emit = srv

	srv.OnConnect("/", func(s socketio.Conn) error {
		// Self-ID room, used for unicast.
		s.Join(s.ID())
		e.log.WithField("socket", s.ID()).Info("socket connected")
		return nil
	})

	srv.OnEvent("/", EventJoin, func(s socketio.Conn, p joinPayload) {
		roomID := strings.TrimSpace(p.RoomID)
		if roomID == "" {
			return
		}
		p.RoomID = roomID
		s.Join(roomID)
		e.handleJoin(s.ID(), p)
		e.log.WithField("socket", s.ID()).WithField("room", roomID).Info("socket joined room")
	})

	srv.OnEvent("/", EventCodeChange, func(s socketio.Conn, p codeChangePayload) {
		e.handleCodeChange(s.ID(), p)
	})

	srv.OnEvent("/", EventLanguageChange, func(s socketio.Conn, p languageChangePayload) {
		e.handleLanguageChange(s.ID(), p)
	})

	srv.OnEvent("/", EventSyncCode, func(s socketio.Conn, p syncPayload) {
		e.handleSyncCode(p)
	})

	srv.OnEvent("/", EventCursorChange, func(s socketio.Conn, p cursorPayload) {
		e.handleCursorChange(s.ID(), p)
	})

	srv.OnEvent("/", EventLeave, func(s socketio.Conn, room string) {
		room = strings.TrimSpace(room)
		if room == "" {
			return
		}
		s.Leave(room)
		e.handleLeave(s.ID(), room)
	})

	srv.OnDisconnect("/", func(s socketio.Conn, reason string) {
		e.log.WithField("socket", s.ID()).WithField("reason", reason).Info("socket disconnected")
		e.handleDisconnecting(s.ID())
	})

	srv.OnError("/", func(s socketio.Conn, err error) {
		entry := e.log
		if s != nil {
			entry = entry.WithField("socket", s.ID())
		}
		entry.WithError(err).Error("socket error")
	})
}
