package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"haxball/game"
	"haxball/geom"
	"haxball/protocol"
	"haxball/room"
)

// Client is the server side of one connection. Handle and Disconnect must be
// called from a single goroutine, the transport's read loop.
type Client struct {
	ID uuid.UUID

	hub     *Hub
	conn    room.Conn
	limiter *rate.Limiter
	log     zerolog.Logger

	nick     string
	room     *room.Room
	entityID uint32
	flags    game.Flags // client-owned bits only
}

func (c *Client) Nickname() string { return c.nick }

// Room returns the room the client is seated in, or nil.
func (c *Client) Room() *room.Room { return c.room }

// Handle dispatches one inbound envelope. Events over the rate limit are
// dropped without a reply.
func (c *Client) Handle(ctx context.Context, msg []byte) {
	if !c.limiter.Allow() {
		c.log.Debug().Msg("rate limited, dropping event")
		return
	}
	env, err := protocol.DecodeEnvelope(msg)
	if err != nil {
		c.log.Debug().Err(err).Msg("decode envelope")
		c.fail(protocol.CodeInvalidInput)
		return
	}

	switch env.T {
	case protocol.MsgSetNick:
		c.handleSetNick(ctx, env)
	case protocol.MsgSetRoom:
		c.handleSetRoom(ctx, env)
	case protocol.MsgMove:
		c.handleMove(ctx, env)
	case protocol.MsgSetFlags:
		flags, err := protocol.DecodePayload[game.Flags](env)
		if err != nil {
			c.fail(protocol.CodeInvalidInput)
			return
		}
		c.setFlags(ctx, flags&game.ClientFlags)
	case protocol.MsgEnableShooting:
		c.setFlags(ctx, c.flags|game.FlagShooting)
	case protocol.MsgDisableShooting:
		c.setFlags(ctx, c.flags&^game.FlagShooting)
	default:
		c.log.Debug().Str("type", env.T).Msg("unknown event")
		c.fail(protocol.CodeInvalidInput)
	}
}

func (c *Client) handleSetNick(ctx context.Context, env protocol.Envelope) {
	nick, err := protocol.DecodePayload[string](env)
	if err != nil {
		c.fail(protocol.CodeInvalidNick)
		return
	}
	switch err := c.hub.claim(c, nick); {
	case errors.Is(err, ErrInvalidNick):
		c.fail(protocol.CodeInvalidNick)
		return
	case errors.Is(err, ErrNickTaken):
		c.fail(protocol.CodeNickAlreadyExists)
		return
	}

	renamed := c.nick != "" && c.nick != nick
	c.nick = nick
	c.log = c.log.With().Str("nick", nick).Logger()
	c.reply(protocol.MsgAuthSuccess, nick)

	if renamed && c.room != nil {
		c.send(ctx, room.Rename{EntityID: c.entityID, Nickname: nick})
	}
}

func (c *Client) handleSetRoom(ctx context.Context, env protocol.Envelope) {
	if c.nick == "" {
		c.fail(protocol.CodeNotAuthenticated)
		return
	}
	req, err := protocol.DecodePayload[protocol.JoinRequest](env)
	if err != nil {
		c.fail(protocol.CodeInvalidInput)
		return
	}
	r, ok := c.hub.rooms.Get(req.Name)
	if !ok {
		c.fail(protocol.CodeRoomNotFound)
		return
	}
	if !r.CheckPassword(req.Password) {
		c.log.Info().Str("room", req.Name).Msg("wrong room password")
		return
	}

	c.leaveRoom(ctx)
	id, err := r.Enter(ctx, c.conn, c.nick)
	if err != nil {
		c.log.Warn().Err(err).Str("room", req.Name).Msg("join room")
		return
	}
	c.room, c.entityID, c.flags = r, id, 0
}

func (c *Client) handleMove(ctx context.Context, env protocol.Envelope) {
	mv, err := protocol.DecodePayload[protocol.Move](env)
	if err != nil {
		c.fail(protocol.CodeInvalidInput)
		return
	}
	var input geom.Vector2
	switch {
	case mv.Direction != nil:
		input, err = game.Direction(*mv.Direction).Vector()
		if err != nil {
			c.fail(protocol.CodeInvalidInput)
			return
		}
	case mv.Vector != nil && mv.Vector.IsFinite():
		input = *mv.Vector
	default:
		c.fail(protocol.CodeInvalidInput)
		return
	}
	if c.room == nil {
		return
	}
	c.send(ctx, room.Move{EntityID: c.entityID, Input: input})
}

func (c *Client) setFlags(ctx context.Context, flags game.Flags) {
	c.flags = flags
	if c.room == nil {
		return
	}
	c.send(ctx, room.SetFlags{EntityID: c.entityID, Flags: flags})
}

// Disconnect leaves the current room and frees the nickname.
func (c *Client) Disconnect(ctx context.Context) {
	c.leaveRoom(ctx)
	c.hub.release(c)
	c.log.Debug().Msg("client disconnected")
}

func (c *Client) leaveRoom(ctx context.Context) {
	if c.room == nil {
		return
	}
	c.send(ctx, room.Leave{EntityID: c.entityID})
	c.room, c.entityID = nil, 0
}

func (c *Client) send(ctx context.Context, cmd any) {
	if err := c.room.Send(ctx, cmd); err != nil {
		c.log.Warn().Err(err).Str("room", c.room.Name()).Msg("room command")
	}
}

func (c *Client) reply(event string, payload any) {
	b, err := protocol.Encode(event, payload)
	if err != nil {
		c.log.Error().Err(err).Str("event", event).Msg("encode reply")
		return
	}
	if err := c.conn.Send(b); err != nil {
		c.log.Debug().Err(err).Str("event", event).Msg("send reply")
	}
}

func (c *Client) fail(code string) {
	if err := c.conn.Send(protocol.EncodeError(code)); err != nil {
		c.log.Debug().Err(err).Str("code", code).Msg("send error")
	}
}
