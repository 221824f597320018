package registry

import "sync"

// Client identifies one live connection inside a room.
type Client struct {
	SocketID string `json:"socketId"`
	Username string `json:"username"`
}

// Registry tracks live connections: socket ID -> display name, and room
// membership in both directions. Usernames are not unique; consumers must
// tolerate duplicates. Lookups for unknown socket IDs return zero values,
// never errors, since disconnect races are expected.
type Registry struct {
	mu        sync.RWMutex
	usernames map[string]string          // socket ID -> display name
	rooms     map[string]map[string]bool // socket ID -> room -> true
	members   map[string][]string        // room -> socket IDs in join order
}

func NewRegistry() *Registry {
	return &Registry{
		usernames: map[string]string{},
		rooms:     map[string]map[string]bool{},
		members:   map[string][]string{},
	}
}

func (r *Registry) Register(socketID, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usernames[socketID] = username
}

// Unregister removes the connection and all of its memberships, returning
// the display name it had (empty if unknown).
func (r *Registry) Unregister(socketID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	username := r.usernames[socketID]
	delete(r.usernames, socketID)

	for room := range r.rooms[socketID] {
		r.members[room] = remove(r.members[room], socketID)
		if len(r.members[room]) == 0 {
			delete(r.members, room)
		}
	}
	delete(r.rooms, socketID)

	return username
}

func (r *Registry) Username(socketID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.usernames[socketID]
}

func (r *Registry) JoinRoom(socketID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[socketID] == nil {
		r.rooms[socketID] = make(map[string]bool)
	}
	if r.rooms[socketID][room] {
		return
	}
	r.rooms[socketID][room] = true
	r.members[room] = append(r.members[room], socketID)
}

func (r *Registry) LeaveRoom(socketID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[socketID] != nil {
		delete(r.rooms[socketID], room)
	}
	r.members[room] = remove(r.members[room], socketID)
	if len(r.members[room]) == 0 {
		delete(r.members, room)
	}
}

func (r *Registry) RoomsOf(socketID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := r.rooms[socketID]
	result := make([]string, 0, len(rooms))
	for room := range rooms {
		result = append(result, room)
	}
	return result
}

// MembersOf returns the room's current members in join order.
func (r *Registry) MembersOf(room string) []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.members[room]
	clients := make([]Client, 0, len(ids))
	for _, id := range ids {
		clients = append(clients, Client{SocketID: id, Username: r.usernames[id]})
	}
	return clients
}

func remove(ids []string, socketID string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != socketID {
			out = append(out, id)
		}
	}
	return out
}
