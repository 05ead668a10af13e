package protocol

import (
	"haxball/game"
	"haxball/geom"
)

// RoomConfig is the room-entered view of game.Config.
type RoomConfig struct {
	DelayMs     int64         `json:"delay"`
	Board       geom.Rect     `json:"board"`
	GateHeight  float64       `json:"gateHeight"`
	Goals       []geom.Rect   `json:"goals"`
	ShootPower  float64       `json:"shootPower"`
	Damping     float64       `json:"damping"`
	GateDamping float64       `json:"gateDamping"`
	MoveImpulse float64       `json:"moveImpulse"`
	Player      game.Template `json:"player"`
	Ball        game.Template `json:"ball"`
}

func NewRoomConfig(c *game.Config) RoomConfig {
	return RoomConfig{
		DelayMs:     c.Delay.Milliseconds(),
		Board:       c.Board,
		GateHeight:  c.GateHeight,
		Goals:       c.Goals,
		ShootPower:  c.ShootPower,
		Damping:     c.Damping,
		GateDamping: c.GateDamping,
		MoveImpulse: c.MoveImpulse,
		Player:      c.Player,
		Ball:        c.Ball,
	}
}

type RoomEntered struct {
	Room     string     `json:"room"`
	Welcome  string     `json:"welcome"`
	EntityID uint32     `json:"id"`
	Config   RoomConfig `json:"config"`
}

type RoomRebuild struct {
	Players []game.EntityInfo `json:"players"`
}

type NewFlags struct {
	Nickname string     `json:"nick"`
	Flags    game.Flags `json:"flags"`
}

type ServerError struct {
	Code string `json:"code"`
}
