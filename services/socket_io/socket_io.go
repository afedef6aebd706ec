package socket_io

import (
	"Morris/services/session"
	"Morris/services/socket_io/handlers"
	socketio_types "Morris/services/socket_io/types"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

func NewServer() *MySocketServer {
	return (*MySocketServer)(socketio_types.NewSocketServer())
}

// Start mounts the socket.io endpoint on router and routes every event of a
// connection to the coordinator.
func (sio *MySocketServer) Start(router *gin.Engine, coordinator *session.Coordinator, allowedOrigins []string) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(false)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      corsOrigin(allowedOrigins),
		Credentials: true,
	})

	server := (*socketio_types.SocketServer)(sio)
	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)
		conn := handlers.NewSocketConn(client)
		server.AddConnection(client)
		log.Printf("[CONNECT] %s connected, %d open connections", client.Id(), server.Count())

		client.On(session.EventAuthenticate, handlers.HandleAuthenticate(coordinator, conn))

		client.On(session.EventCreateRoom, handlers.HandleCreateRoom(coordinator, conn))

		client.On(session.EventJoinMatchmaking, handlers.HandleJoinMatchmaking(coordinator, conn))

		client.On(session.EventLeaveMatchmaking, handlers.HandleLeaveMatchmaking(coordinator, conn))

		client.On(session.EventJoinRoom, handlers.HandleJoinRoom(coordinator, conn))

		client.On(session.EventMakeMove, handlers.HandleMakeMove(coordinator, conn))

		// NOTE: will remove sio connection from map
		client.On("disconnecting", handlers.HandleDisconnecting(coordinator, conn, server))
	})

	handler := sio.Sio_server.ServeHandler(c)
	router.POST("/socket.io/*f", gin.WrapH(handler))
	router.GET("/socket.io/*f", gin.WrapH(handler))

	log.Println("Socket server started")
}

func corsOrigin(allowed []string) any {
	if len(allowed) == 1 {
		return allowed[0]
	}
	origins := make([]any, 0, len(allowed))
	for _, o := range allowed {
		origins = append(origins, o)
	}
	return origins
}

// Close disconnects every client
func (sio *MySocketServer) Close() {
	if sio.Sio_server == nil {
		return
	}
	sio.Sio_server.Close(nil)
	log.Println("Socket server closed")
}
