package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer is a struct that contains the socket.io server and a map of socket connections.
// It is used to handle socket.io connections.
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track socket id -> socket connections
	Connections map[socket.SocketId]*socket.Socket
	mutex       sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		Connections: make(map[socket.SocketId]*socket.Socket),
	}
}

// Add methods to manage connections
func (s *SocketServer) AddConnection(client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Connections[client.Id()] = client
}

func (s *SocketServer) RemoveConnection(id socket.SocketId) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.Connections, id)
}

func (s *SocketServer) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.Connections)
}
