package socket

import "github.com/Tharunkunamalla/CodeSync/registry"

// Logical action identifiers shared with the editor client.
const (
	EventJoin           = "join"
	EventJoined         = "joined"
	EventCodeChange     = "code-change"
	EventLanguageChange = "language-change"
	EventSyncCode       = "sync-code"
	EventCursorChange   = "cursor-change"
	EventDisconnected   = "disconnected"
	EventLeave          = "leave"
)

type joinPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

type codeChangePayload struct {
	RoomID string      `json:"roomId"`
	Code   string      `json:"code"`
	Cursor interface{} `json:"cursor"`
}

type languageChangePayload struct {
	RoomID   string `json:"roomId"`
	Language string `json:"language"`
}

// syncPayload carries a peer's locally-held state to a newly joined socket.
type syncPayload struct {
	SocketID string `json:"socketId"`
	Code     string `json:"code"`
	Language string `json:"language"`
}

type cursorPayload struct {
	RoomID string      `json:"roomId"`
	Cursor interface{} `json:"cursor"`
}

type joinedEvent struct {
	Clients  []registry.Client `json:"clients"`
	Username string            `json:"username"`
	SocketID string            `json:"socketId"`
}

type codeChangeEvent struct {
	Code     string      `json:"code"`
	Cursor   interface{} `json:"cursor,omitempty"`
	SocketID string      `json:"socketId,omitempty"`
	Username string      `json:"username,omitempty"`
}

type languageChangeEvent struct {
	Language string `json:"language"`
}

type cursorChangeEvent struct {
	SocketID string      `json:"socketId"`
	Cursor   interface{} `json:"cursor"`
	Username string      `json:"username"`
}

type disconnectedEvent struct {
	SocketID string `json:"socketId"`
	Username string `json:"username"`
}
