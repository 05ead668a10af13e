package room

import (
	"haxball/game"
	"haxball/geom"
	"haxball/protocol"
)

// pickTeam balances the two sides. With no leaves in between this alternates
// left, right, left, right.
func (r *Room) pickTeam() game.Team {
	var left, right int
	for _, e := range r.state.Entities {
		switch {
		case e.IsBall():
		case e.Info.Team == game.TeamLeft:
			left++
		case e.Info.Team == game.TeamRight:
			right++
		}
	}
	if left <= right {
		return game.TeamLeft
	}
	return game.TeamRight
}

// rebuild runs after a join or leave: it renumbers every entity, moves
// everyone to the kick-off layout and publishes the roster.
func (r *Room) rebuild() {
	r.layout()
	r.publishRoster()
}

func (r *Room) layout() {
	hasOp := false
	for _, e := range r.state.Entities {
		if !e.IsBall() && e.Info.Flags.Has(game.FlagRoomOp) {
			hasOp = true
		}
	}

	slots := make(map[game.Team]int, 2)
	for _, e := range r.state.Entities {
		e.Velocity = geom.Vector2{}
		if e.IsBall() {
			e.Info.Number = 0
			e.Info.Rect = e.Info.Rect.WithCenter(r.cfg.Board.Center())
			continue
		}
		if !hasOp {
			e.Info.Flags |= game.FlagRoomOp
			hasOp = true
		}
		slot := slots[e.Info.Team]
		slots[e.Info.Team]++
		e.Info.Number = slot + 1
		e.Info.Rect = e.Info.Rect.WithCenter(r.spot(e.Info.Team, slot))
	}
}

// publishRoster sends the full roster to all subscribers without touching
// positions or velocities.
func (r *Room) publishRoster() {
	r.broadcast(protocol.MsgRoomRebuild, protocol.RoomRebuild{Players: r.roster()}, 0)
}

// spot is the kick-off center of the given team slot. Slots fill a grid in
// the left half of the board column by column; the right team is mirrored
// across the halfway line.
func (r *Room) spot(team game.Team, slot int) geom.Vector2 {
	cols, rows := int(r.cfg.Grid.X), int(r.cfg.Grid.Y)
	slot %= cols * rows
	col, row := slot/rows, slot%rows

	b := r.cfg.Board
	frac := geom.V(
		(float64(col)+0.5)/float64(2*cols),
		float64(row+1)/float64(rows+1),
	)
	c := b.Position().Add(frac.Mul(b.Size()))
	if team == game.TeamRight {
		c.X = 2*b.X + b.W - c.X
	}
	return c
}

func (r *Room) roster() []game.EntityInfo {
	out := make([]game.EntityInfo, len(r.state.Entities))
	for i, e := range r.state.Entities {
		out[i] = e.Info
	}
	return out
}
