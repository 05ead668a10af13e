package session

import (
	"errors"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"haxball/protocol"
	"haxball/room"
)

var (
	ErrNickTaken   = errors.New("nickname already in use")
	ErrInvalidNick = errors.New("invalid nickname")
)

type Options struct {
	InputRate  rate.Limit // events per second per connection
	InputBurst int
}

func DefaultOptions() Options {
	return Options{InputRate: 120, InputBurst: 30}
}

// Hub owns the nickname registry shared by every connection and hands out
// Clients.
type Hub struct {
	rooms *room.Registry
	opts  Options

	mu    sync.Mutex
	nicks map[string]*Client

	log zerolog.Logger
}

func NewHub(rooms *room.Registry, opts Options) *Hub {
	return &Hub{
		rooms: rooms,
		opts:  opts,
		nicks: make(map[string]*Client),
		log:   log.With().Str("component", "hub").Logger(),
	}
}

// Connect registers a fresh, unauthenticated client on conn.
func (h *Hub) Connect(conn room.Conn) *Client {
	id := uuid.New()
	c := &Client{
		ID:      id,
		hub:     h,
		conn:    conn,
		limiter: rate.NewLimiter(h.opts.InputRate, h.opts.InputBurst),
		log:     log.With().Str("conn", id.String()).Logger(),
	}
	c.log.Debug().Msg("client connected")
	return c
}

// NickInUse reports whether a connected client holds nick.
func (h *Hub) NickInUse(nick string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.nicks[nick]
	return ok
}

// claim moves c from its current nickname to nick.
func (h *Hub) claim(c *Client, nick string) error {
	if !ValidNick(nick) {
		return ErrInvalidNick
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if owner, ok := h.nicks[nick]; ok && owner != c {
		return ErrNickTaken
	}
	if c.nick != "" && c.nick != nick {
		delete(h.nicks, c.nick)
	}
	h.nicks[nick] = c
	return nil
}

func (h *Hub) release(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.nick != "" && h.nicks[c.nick] == c {
		delete(h.nicks, c.nick)
	}
}

// ValidNick accepts non-empty nicknames shorter than protocol.MaxNickLength
// characters.
func ValidNick(nick string) bool {
	return nick != "" && utf8.RuneCountInString(nick) < protocol.MaxNickLength
}
