package session

import "sync"

// Identity is the user a connection claimed on authenticate. It is trusted
// as given; verification happens before the client reaches this server.
type Identity struct {
	UserID   string
	Username string
}

// ConnectionRegistry maps users to their live connection and connections
// to the identity they authenticated as.
type ConnectionRegistry struct {
	byUser map[string]Conn
	byConn map[string]Identity
	mutex  sync.RWMutex
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		byUser: make(map[string]Conn),
		byConn: make(map[string]Identity),
	}
}

// Authenticate binds conn to the identity. A previous connection of the same
// user loses its user binding (last connection wins) but keeps its identity.
func (r *ConnectionRegistry) Authenticate(conn Conn, id Identity) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if prev, ok := r.byConn[conn.ID()]; ok && prev.UserID != id.UserID {
		if bound, ok := r.byUser[prev.UserID]; ok && bound.ID() == conn.ID() {
			delete(r.byUser, prev.UserID)
		}
	}
	r.byUser[id.UserID] = conn
	r.byConn[conn.ID()] = id
}

func (r *ConnectionRegistry) Lookup(userID string) (Conn, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	conn, ok := r.byUser[userID]
	return conn, ok
}

// IdentityOf returns the identity conn authenticated as, if any.
func (r *ConnectionRegistry) IdentityOf(conn Conn) (Identity, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	id, ok := r.byConn[conn.ID()]
	return id, ok
}

// Forget drops conn. The user binding is only removed while it still points
// at conn, so a newer connection of the same user stays reachable.
func (r *ConnectionRegistry) Forget(conn Conn) (Identity, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	id, ok := r.byConn[conn.ID()]
	if !ok {
		return Identity{}, false
	}
	delete(r.byConn, conn.ID())
	if bound, exists := r.byUser[id.UserID]; exists && bound.ID() == conn.ID() {
		delete(r.byUser, id.UserID)
	}
	return id, true
}

// Count returns the number of users with a live connection.
func (r *ConnectionRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.byUser)
}
