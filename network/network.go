package network

import (
	"context"
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"haxball/room"
	"haxball/session"
)

type Options struct {
	// AllowedOrigins lists the browser origins allowed to connect. Empty
	// allows any origin.
	AllowedOrigins []string
	SendBuffer     int
}

type Server struct {
	rooms    *room.Registry
	hub      *session.Hub
	opts     Options
	upgrader websocket.Upgrader
	engine   *gin.Engine
}

func NewServer(rooms *room.Registry, hub *session.Hub, opts Options) *Server {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 256
	}
	s := &Server{
		rooms: rooms,
		hub:   hub,
		opts:  opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origins are checked by the engine middleware
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	r := CreateEngine(opts.AllowedOrigins)
	r.GET("/rooms", s.listRooms)
	r.GET("/ws", s.serveWS)
	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// CreateEngine builds the gin engine with the health route and the origin
// checks shared by every other route.
func CreateEngine(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	if len(allowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "OPTIONS"},
		}))
		return r
	}

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")
		if slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))
	return r
}

func (s *Server) listRooms(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, s.rooms.List())
}

// serveWS upgrades the request and runs the read loop on the handler
// goroutine until the socket closes.
func (s *Server) serveWS(ctx *gin.Context) {
	ws, err := s.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade")
		return
	}

	conn := newConn(ws, s.opts.SendBuffer, log.Logger)
	client := s.hub.Connect(conn)
	conn.log = log.With().Str("conn", client.ID.String()).Logger()

	go conn.writePump()
	// the disconnect Leave must still reach the room once the request ends
	conn.readPump(context.WithoutCancel(ctx.Request.Context()), client)
}
