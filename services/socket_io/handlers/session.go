package handlers

import (
	"log"

	"Morris/services/session"
	socketio_types "Morris/services/socket_io/types"

	"github.com/zishang520/socket.io/v2/socket"
)

// Function to handle the identity claim of a connection.
func HandleAuthenticate(coordinator *session.Coordinator, conn session.Conn) func(args ...interface{}) {
	return func(args ...interface{}) {
		var req session.AuthenticateRequest
		if err := decodeArgs(args, &req); err != nil {
			log.Printf("[AUTH-ERROR] %s: %v", conn.ID(), err)
			emitInvalidPayload(conn)
			return
		}
		coordinator.Authenticate(conn, req)
	}
}

func HandleCreateRoom(coordinator *session.Coordinator, conn session.Conn) func(args ...interface{}) {
	return func(args ...interface{}) {
		coordinator.CreateRoom(conn)
	}
}

func HandleJoinMatchmaking(coordinator *session.Coordinator, conn session.Conn) func(args ...interface{}) {
	return func(args ...interface{}) {
		coordinator.JoinMatchmaking(conn)
	}
}

func HandleLeaveMatchmaking(coordinator *session.Coordinator, conn session.Conn) func(args ...interface{}) {
	return func(args ...interface{}) {
		coordinator.LeaveMatchmaking(conn)
	}
}

func HandleJoinRoom(coordinator *session.Coordinator, conn session.Conn) func(args ...interface{}) {
	return func(args ...interface{}) {
		var req session.JoinRoomRequest
		if err := decodeArgs(args, &req); err != nil {
			log.Printf("[JOIN-ERROR] %s: %v", conn.ID(), err)
			emitInvalidPayload(conn)
			return
		}
		coordinator.JoinRoom(conn, req)
	}
}

// HandleMakeMove forwards a proposed position to the room the connection plays in.
func HandleMakeMove(coordinator *session.Coordinator, conn session.Conn) func(args ...interface{}) {
	return func(args ...interface{}) {
		var req session.MoveRequest
		if err := decodeArgs(args, &req); err != nil {
			log.Printf("[MOVE-ERROR] %s: %v", conn.ID(), err)
			emitInvalidPayload(conn)
			return
		}
		coordinator.MakeMove(conn, req)
	}
}

// Function to handle socket.io client disconnections.
func HandleDisconnecting(coordinator *session.Coordinator, conn session.Conn,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[DISCONNECT] %s disconnecting", conn.ID())
		coordinator.Disconnect(conn)
		if sio != nil {
			sio.RemoveConnection(socket.SocketId(conn.ID()))
		}
	}
}
