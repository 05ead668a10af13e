package room

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"haxball/game"
)

// RoomInfo is returned by the API for the server list.
type RoomInfo struct {
	Name    string `json:"name"`
	Players int    `json:"players"`
	Locked  bool   `json:"locked"`
}

// Registry holds the rooms of one server process by name.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// Create builds, registers and starts a room.
func (m *Registry) Create(name string, cfg game.Config, password string) (*Room, error) {
	if name == "" {
		return nil, fmt.Errorf("room name is empty")
	}
	r, err := New(name, cfg)
	if err != nil {
		return nil, fmt.Errorf("room %q: %w", name, err)
	}
	if err := r.SetPassword(password); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrRoomExists, name)
	}
	m.rooms[name] = r
	go r.Run()
	return r, nil
}

func (m *Registry) Get(name string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[name]
	return r, ok
}

// List returns all rooms sorted by name.
func (m *Registry) List() []RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RoomInfo, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r.Info())
	}
	slices.SortFunc(out, func(a, b RoomInfo) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (m *Registry) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, r := range m.rooms {
		r.Stop()
		delete(m.rooms, name)
	}
}
