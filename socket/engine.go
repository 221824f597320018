package socket

import (
	"time"

	"github.com/Tharunkunamalla/CodeSync/debounce"
	"github.com/Tharunkunamalla/CodeSync/registry"
	"github.com/Tharunkunamalla/CodeSync/store"

	"github.com/sirupsen/logrus"
)

// emitter is the slice of socketio.Server the engine needs. Every socket
// joins a room named after its own ID on connect, so BroadcastToRoom also
// covers unicast.
type emitter interface {
	BroadcastToRoom(namespace string, room string, event string, args ...interface{}) bool
}

// Engine keeps the members of each room converged on a shared document.
// Edits are relayed to peers synchronously; persistence runs behind
// per-room debounce timers so a typing burst costs one store write.
type Engine struct {
	emit     emitter
	registry *registry.Registry
	rooms    *store.RoomStore
	code     *debounce.Coalescer
	language *debounce.Coalescer
	log      *logrus.Entry
}

func NewEngine(reg *registry.Registry, rooms *store.RoomStore, codeDelay, languageDelay time.Duration) *Engine {
	e := &Engine{
		registry: reg,
		rooms:    rooms,
		log:      logrus.WithField("component", "socket"),
	}
	e.code = debounce.NewCoalescer(codeDelay, e.saveCode)
	e.language = debounce.NewCoalescer(languageDelay, e.saveLanguage)
	return e
}

// Store failures are logged and swallowed: the live session continues in
// memory and the next edit re-arms the timer and tries again.
func (e *Engine) saveCode(roomID, code string) {
	if err := e.rooms.SaveCode(roomID, code); err != nil {
		e.log.WithError(err).WithField("room", roomID).Error("failed to save code")
	}
}

func (e *Engine) saveLanguage(roomID, language string) {
	if err := e.rooms.SaveLanguage(roomID, language); err != nil {
		e.log.WithError(err).WithField("room", roomID).Error("failed to save language")
	}
}

func (e *Engine) handleJoin(socketID string, p joinPayload) {
	e.registry.Register(socketID, p.Username)
	e.registry.JoinRoom(socketID, p.RoomID)

	clients := e.registry.MembersOf(p.RoomID)

	// First member in: bring the room up from storage, or create it. This
	// is the only path that bootstraps a room from the durable record;
	// later joiners get their state from peers via sync-code.
	if len(clients) == 1 {
		room, err := e.rooms.Get(p.RoomID)
		switch {
		case err != nil:
			e.log.WithError(err).WithField("room", p.RoomID).Error("failed to load room")
		case room != nil:
			e.emit.BroadcastToRoom("/", p.RoomID, EventCodeChange, codeChangeEvent{Code: room.Code})
			e.emit.BroadcastToRoom("/", p.RoomID, EventLanguageChange, languageChangeEvent{Language: room.Language})
		default:
			if _, err := e.rooms.CreateDefault(p.RoomID); err != nil {
				e.log.WithError(err).WithField("room", p.RoomID).Error("failed to create room")
			}
		}
	}

	// Every member, the newcomer included, gets the joined notification.
	// Existing peers react by syncing their local state to the new socket.
	joined := joinedEvent{Clients: clients, Username: p.Username, SocketID: socketID}
	for _, c := range clients {
		e.emit.BroadcastToRoom("/", c.SocketID, EventJoined, joined)
	}
}

func (e *Engine) handleCodeChange(socketID string, p codeChangePayload) {
	e.relayExcept(socketID, p.RoomID, EventCodeChange, codeChangeEvent{
		Code:     p.Code,
		Cursor:   p.Cursor,
		SocketID: socketID,
		Username: e.registry.Username(socketID),
	})
	e.code.Update(p.RoomID, p.Code)
}

func (e *Engine) handleLanguageChange(socketID string, p languageChangePayload) {
	// Sender included: the language must be visually consistent for everyone.
	e.emit.BroadcastToRoom("/", p.RoomID, EventLanguageChange, languageChangeEvent{Language: p.Language})
	e.language.Update(p.RoomID, p.Language)
}

// handleSyncCode is a pure relay: the carried state goes to the named
// target socket only. No deduplication, no ordering across peers; the
// last message to arrive wins on the client.
func (e *Engine) handleSyncCode(p syncPayload) {
	e.emit.BroadcastToRoom("/", p.SocketID, EventCodeChange, codeChangeEvent{Code: p.Code})
	if p.Language != "" {
		e.emit.BroadcastToRoom("/", p.SocketID, EventLanguageChange, languageChangeEvent{Language: p.Language})
	}
}

func (e *Engine) handleCursorChange(socketID string, p cursorPayload) {
	e.relayExcept(socketID, p.RoomID, EventCursorChange, cursorChangeEvent{
		SocketID: socketID,
		Cursor:   p.Cursor,
		Username: e.registry.Username(socketID),
	})
}

// handleDisconnecting runs while the socket's memberships are still
// visible. Pending debounced writes are flushed immediately so a departing
// socket's last edits are not lost to an unexpired window.
func (e *Engine) handleDisconnecting(socketID string) {
	username := e.registry.Username(socketID)
	for _, roomID := range e.registry.RoomsOf(socketID) {
		e.relayExcept(socketID, roomID, EventDisconnected, disconnectedEvent{
			SocketID: socketID,
			Username: username,
		})
		e.code.FlushNow(roomID)
		e.language.FlushNow(roomID)
	}
	e.registry.Unregister(socketID)
}

func (e *Engine) handleLeave(socketID, roomID string) {
	e.registry.LeaveRoom(socketID, roomID)
}

// relayExcept sends the event to every room member but the sender, via
// each member's self-ID room.
func (e *Engine) relayExcept(senderID, roomID, event string, arg interface{}) {
	for _, c := range e.registry.MembersOf(roomID) {
		if c.SocketID != senderID {
			e.emit.BroadcastToRoom("/", c.SocketID, event, arg)
		}
	}
}
