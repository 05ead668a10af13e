package network

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"haxball/session"
)

const (
	readLimit    = 1 << 16
	pongWait     = 60 * time.Second
	pingPeriod   = 25 * time.Second
	writeTimeout = 10 * time.Second
)

var (
	ErrSendBufferFull = errors.New("send buffer full")
	ErrConnClosed     = errors.New("connection closed")
)

type outbound struct {
	binary bool
	data   []byte
}

// Conn wraps a websocket with a bounded send queue. Send and SendFrame never
// block: when the queue is full the message is dropped.
type Conn struct {
	ws   *websocket.Conn
	send chan outbound
	done chan struct{}
	once sync.Once
	log  zerolog.Logger
}

func newConn(ws *websocket.Conn, buffer int, log zerolog.Logger) *Conn {
	return &Conn{
		ws:   ws,
		send: make(chan outbound, buffer),
		done: make(chan struct{}),
		log:  log,
	}
}

func (c *Conn) Send(b []byte) error {
	return c.enqueue(outbound{data: b})
}

func (c *Conn) SendFrame(b []byte) error {
	return c.enqueue(outbound{binary: true, data: b})
}

func (c *Conn) enqueue(m outbound) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}
	select {
	case c.send <- m:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (c *Conn) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case m := <-c.send:
			kind := websocket.TextMessage
			if m.binary {
				kind = websocket.BinaryMessage
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(kind, m.data); err != nil {
				c.log.Debug().Err(err).Msg("write")
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// readPump feeds text messages to client until the socket fails, then
// disconnects the client. Handlers run one at a time, in arrival order.
func (c *Conn) readPump(ctx context.Context, client *session.Client) {
	defer func() {
		client.Disconnect(ctx)
		c.close()
	}()

	c.ws.SetReadLimit(readLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, msg, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Msg("read")
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		client.Handle(ctx, msg)
	}
}
