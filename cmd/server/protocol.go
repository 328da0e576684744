package main

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"

	"blockarena/internal/game"
	"blockarena/internal/lobby"
	"blockarena/internal/playfield"
)

// connState tracks the one lobby/game a connection has joined, across
// successive lines on the same TCP connection.
type connState struct {
	conn     net.Conn
	registry *lobby.Registry
	clientID uint64

	currentLobby *lobby.Lobby
	wrapper      *game.GameWrapper
}

// handleLine parses and dispatches one protocol line. Unknown commands and a
// TICK from a client that hasn't joined yet are answered with "ERR"; a KEY
// before JOIN, or an unknown key, is ignored silently. This matches the
// placeholder nature of this line protocol (a real terminal client would
// speak something richer).
func (s *connState) handleLine(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch strings.ToUpper(fields[0]) {
	case "JOIN":
		s.handleJoin(fields[1:])
	case "KEY":
		s.handleKey(fields[1:])
	case "TICK":
		s.handleTick()
	default:
		s.reply("ERR unknown command")
	}
}

func (s *connState) handleJoin(args []string) {
	if len(args) < 3 {
		s.reply("ERR JOIN requires <lobby|NEW> <mode> <name>")
		return
	}
	lobbyID, modeStr, name := args[0], args[1], strings.Join(args[2:], " ")

	mode, ok := parseMode(modeStr)
	if !ok {
		s.reply("ERR unknown mode " + modeStr)
		return
	}

	var l *lobby.Lobby
	if strings.EqualFold(lobbyID, "NEW") {
		l = s.registry.Create()
	} else {
		l, ok = s.registry.Get(lobbyID)
		if !ok {
			s.reply("ERR no such lobby " + lobbyID)
			return
		}
	}

	if l.IsFull() {
		s.reply("ERR lobby full")
		return
	}
	l.AddClient(s.clientID, name)

	wrapper, ok := l.JoinGame(s.clientID, mode)
	if !ok {
		s.reply("ERR could not join game")
		return
	}

	s.currentLobby = l
	s.wrapper = wrapper
	s.reply(fmt.Sprintf("OK %s %d", l.ID, s.clientID))
}

func (s *connState) handleKey(args []string) {
	if s.wrapper == nil || len(args) == 0 {
		return
	}
	key, ok := parseKey(args[0])
	if !ok {
		return
	}
	s.wrapper.WithLock(func(g *game.Game) {
		g.KeyPress(s.clientID, key)
	})
}

func (s *connState) handleTick() {
	if s.wrapper == nil {
		s.reply("ERR not joined")
		return
	}
	data, err := json.Marshal(s.wrapper.Snapshot())
	if err != nil {
		s.reply("ERR " + err.Error())
		return
	}
	s.conn.Write(data)
	s.conn.Write([]byte("\n"))
}

func (s *connState) reply(msg string) {
	s.conn.Write([]byte(msg))
	s.conn.Write([]byte("\n"))
}

// close releases the connection's seat in its lobby, if any.
func (s *connState) close() {
	if s.currentLobby != nil {
		s.currentLobby.RemoveClient(s.clientID)
		s.registry.Forget(s.currentLobby.ID)
	}
}

func parseMode(s string) (playfield.Mode, bool) {
	switch strings.ToLower(s) {
	case "traditional":
		return playfield.ModeTraditional, true
	case "bottle":
		return playfield.ModeBottle, true
	case "ring":
		return playfield.ModeRing, true
	default:
		return 0, false
	}
}

func parseKey(s string) (game.Key, bool) {
	switch strings.ToLower(s) {
	case "d", "down":
		return game.KeyDown, true
	case "l", "left":
		return game.KeyLeft, true
	case "r", "right":
		return game.KeyRight, true
	case "u", "rotate":
		return game.KeyRotate, true
	case "f", "flip":
		return game.KeyFlip, true
	case "h", "hold":
		return game.KeyHold, true
	default:
		return game.KeyNone, false
	}
}
