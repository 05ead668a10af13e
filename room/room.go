package room

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"haxball/game"
	"haxball/geom"
	"haxball/protocol"
)

var passwordParams = &argon2id.Params{
	Memory:      16 * 1024,
	Iterations:  2,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// Room is one match. A single goroutine (Run) owns the roster: every command
// from Inbox and every tick runs on it, one at a time.
type Room struct {
	Inbox chan any

	name         string
	cfg          game.Config
	passwordHash string
	state        game.State
	ballID       uint32
	members      map[uint32]Conn
	nextID       uint32
	numPlayers   atomic.Int32
	quit         chan struct{}
	stopOnce     sync.Once
	log          zerolog.Logger
}

// New builds a room with its ball already on the board. The room does not
// tick until Run is started.
func New(name string, cfg game.Config) (*Room, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Room{
		Inbox:   make(chan any, 256),
		name:    name,
		cfg:     cfg,
		members: make(map[uint32]Conn),
		quit:    make(chan struct{}),
		log:     log.With().Str("room", name).Logger(),
	}

	r.nextID++
	ball, err := game.NewEntity(r.nextID, game.FlagBall, "")
	if err != nil {
		return nil, err
	}
	ball.Seat(game.TeamSpectator, r.cfg.Ball)
	ball.Info.Rect = ball.Info.Rect.WithCenter(r.cfg.Board.Center())
	r.ballID = ball.ID()
	r.state.Entities = []*game.Entity{ball}
	return r, nil
}

func (r *Room) Name() string { return r.name }

// NumPlayers returns the number of seated players, the ball excluded.
func (r *Room) NumPlayers() int {
	return int(r.numPlayers.Load())
}

func (r *Room) Locked() bool { return r.passwordHash != "" }

func (r *Room) Info() RoomInfo {
	return RoomInfo{Name: r.name, Players: r.NumPlayers(), Locked: r.Locked()}
}

// SetPassword locks the room. It must be called before Run.
func (r *Room) SetPassword(password string) error {
	if password == "" {
		r.passwordHash = ""
		return nil
	}
	hash, err := argon2id.CreateHash(password, passwordParams)
	if err != nil {
		return fmt.Errorf("hash room password: %w", err)
	}
	r.passwordHash = hash
	return nil
}

// CheckPassword is safe to call from any goroutine: the hash never changes
// once the room runs.
func (r *Room) CheckPassword(password string) bool {
	if r.passwordHash == "" {
		return true
	}
	match, err := argon2id.ComparePasswordAndHash(password, r.passwordHash)
	if err != nil {
		r.log.Error().Err(err).Msg("compare room password")
		return false
	}
	return match
}

func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

func (r *Room) Run() {
	ticker := time.NewTicker(r.cfg.Delay)
	defer ticker.Stop()

	r.log.Info().Dur("delay", r.cfg.Delay).Msg("room running")
	for {
		select {
		case <-r.quit:
			r.log.Info().Msg("room stopped")
			return
		case cmd := <-r.Inbox:
			r.guard(func() { r.handleCommand(cmd) })
		case <-ticker.C:
			r.guard(r.tick)
		}
	}
}

// guard keeps a failing handler from killing the room loop.
func (r *Room) guard(fn func()) {
	defer func() {
		if v := recover(); v != nil {
			r.log.Error().Interface("panic", v).Msg("room handler panicked")
		}
	}()
	fn()
}

// Send queues cmd for the room goroutine.
func (r *Room) Send(ctx context.Context, cmd any) error {
	select {
	case r.Inbox <- cmd:
		return nil
	case <-r.quit:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Join checks the password on the calling goroutine, then seats conn and
// waits for its entity id. A wrong password changes nothing in the room.
func (r *Room) Join(ctx context.Context, conn Conn, nickname, password string) (uint32, error) {
	if !r.CheckPassword(password) {
		return 0, ErrWrongPassword
	}
	return r.Enter(ctx, conn, nickname)
}

// Enter seats conn without a password check. Callers that already ran
// CheckPassword use it to avoid hashing twice.
func (r *Room) Enter(ctx context.Context, conn Conn, nickname string) (uint32, error) {
	reply := make(chan JoinResult, 1)
	if err := r.Send(ctx, Join{Conn: conn, Nickname: nickname, Reply: reply}); err != nil {
		return 0, err
	}
	select {
	case res := <-reply:
		return res.EntityID, res.Err
	case <-r.quit:
		return 0, ErrRoomClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		id, err := r.join(c.Conn, c.Nickname)
		if c.Reply != nil {
			c.Reply <- JoinResult{EntityID: id, Err: err}
		}
	case Leave:
		if err := r.leave(c.EntityID); err != nil {
			r.log.Warn().Err(err).Uint32("entity", c.EntityID).Msg("leave")
		}
	case Move:
		if err := r.move(c.EntityID, c.Input); err != nil {
			r.log.Debug().Err(err).Uint32("entity", c.EntityID).Msg("move")
		}
	case SetFlags:
		if err := r.setFlags(c.EntityID, c.Flags); err != nil {
			r.log.Debug().Err(err).Uint32("entity", c.EntityID).Msg("set flags")
		}
	case Rename:
		if err := r.rename(c.EntityID, c.Nickname); err != nil {
			r.log.Debug().Err(err).Uint32("entity", c.EntityID).Msg("rename")
		}
	default:
		r.log.Warn().Str("type", fmt.Sprintf("%T", cmd)).Msg("unknown room command")
	}
}

func (r *Room) join(conn Conn, nickname string) (uint32, error) {
	e, err := game.NewEntity(r.nextID+1, game.FlagPlayer, nickname)
	if err != nil {
		return 0, err
	}
	r.nextID++
	e.Seat(r.pickTeam(), r.cfg.Player)
	r.state.Entities = append(r.state.Entities, e)

	entered := protocol.RoomEntered{
		Room:     r.name,
		Welcome:  protocol.Welcome,
		EntityID: e.ID(),
		Config:   protocol.NewRoomConfig(&r.cfg),
	}
	if b, err := protocol.Encode(protocol.MsgRoomEntered, entered); err != nil {
		r.log.Error().Err(err).Msg("encode room entered")
	} else if err := conn.Send(b); err != nil {
		r.log.Debug().Err(err).Uint32("entity", e.ID()).Msg("send room entered")
	}

	r.members[e.ID()] = conn
	r.numPlayers.Add(1)
	r.log.Info().Str("nick", nickname).Uint32("entity", e.ID()).Stringer("team", e.Info.Team).Msg("player joined")

	r.rebuild()
	return e.ID(), nil
}

func (r *Room) leave(id uint32) error {
	if id == r.ballID {
		return ErrBallNotRemovable
	}
	i := r.index(id)
	if i < 0 {
		return ErrNotMember
	}
	r.state.Entities = slices.Delete(r.state.Entities, i, i+1)
	delete(r.members, id)
	r.numPlayers.Add(-1)
	r.log.Info().Uint32("entity", id).Msg("player left")

	r.rebuild()
	return nil
}

func (r *Room) move(id uint32, input geom.Vector2) error {
	e := r.entity(id)
	if e == nil || e.IsBall() {
		return ErrNotMember
	}
	_, err := game.ApplyMove(&r.cfg, e, input)
	return err
}

func (r *Room) setFlags(id uint32, flags game.Flags) error {
	e := r.entity(id)
	if e == nil || e.IsBall() {
		return ErrNotMember
	}
	if !e.SetClientFlags(flags) {
		return nil
	}
	r.broadcast(protocol.MsgNewFlags, protocol.NewFlags{Nickname: e.Info.Nickname, Flags: e.Info.Flags}, id)
	return nil
}

func (r *Room) rename(id uint32, nickname string) error {
	e := r.entity(id)
	if e == nil || e.IsBall() {
		return ErrNotMember
	}
	e.Info.Nickname = nickname
	r.publishRoster()
	return nil
}

// tick runs one physics step and publishes the resulting frame.
func (r *Room) tick() {
	game.Step(&r.cfg, &r.state)
	if len(r.state.Entities) == 0 || len(r.members) == 0 {
		return
	}
	frame := protocol.EncodeFrame(r.state.Entities)
	for id, c := range r.members {
		if err := c.SendFrame(frame); err != nil {
			r.log.Debug().Err(err).Uint32("entity", id).Msg("send frame")
		}
	}
}

// broadcast sends an event to every subscriber except the exclude entity
// (0 excludes nobody).
func (r *Room) broadcast(event string, payload any, exclude uint32) {
	b, err := protocol.Encode(event, payload)
	if err != nil {
		r.log.Error().Err(err).Str("event", event).Msg("encode broadcast")
		return
	}
	for id, c := range r.members {
		if id == exclude {
			continue
		}
		if err := c.Send(b); err != nil {
			r.log.Debug().Err(err).Uint32("entity", id).Str("event", event).Msg("send")
		}
	}
}

func (r *Room) index(id uint32) int {
	return slices.IndexFunc(r.state.Entities, func(e *game.Entity) bool { return e.ID() == id })
}

func (r *Room) entity(id uint32) *game.Entity {
	if i := r.index(id); i >= 0 {
		return r.state.Entities[i]
	}
	return nil
}
