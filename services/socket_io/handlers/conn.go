package handlers

import (
	"log"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketConn adapts a socket.io client to the session layer
type SocketConn struct {
	client *socket.Socket
}

func NewSocketConn(client *socket.Socket) *SocketConn {
	return &SocketConn{client: client}
}

func (s *SocketConn) ID() string {
	return string(s.client.Id())
}

func (s *SocketConn) Emit(event string, payload any) {
	if err := s.client.Emit(event, payload); err != nil {
		log.Printf("[EMIT-ERROR] %s to %s: %v", event, s.client.Id(), err)
	}
}
