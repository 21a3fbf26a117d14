package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pongarena/pongarena/game"
)

// tournamentLobbyConn is one participant waiting in a tournament for the
// bracket to fill and the all-ready barrier to pass.
type tournamentLobbyConn struct {
	s       *Server
	client  *Client
	session *TournamentSession
	name    string
	leave   func()
}

// handleTournamentLobby seats a participant in a waiting tournament and
// drives the four-player ready barrier that seeds both semifinals.
func (s *Server) handleTournamentLobby(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	client, ok := s.upgrade(w, r)
	if !ok {
		return
	}

	session, found := s.registry.Tournament(name)
	if !found || session.Tournament.Status() != game.TournamentWait {
		client.conn.Close()
		return
	}

	waitMsg, joined := session.Tournament.Join(client.identity.UserID, client.identity.Nickname)
	if !joined {
		client.conn.Close()
		return
	}

	// Semifinal A players listen on the a-side group, the rest on the
	// b-side group. Lobby membership changes go to both sides.
	group := lobbyGroupA(name)
	if waitMsg.Number == game.SlotPlayer3 || waitMsg.Number == game.SlotPlayer4 {
		group = lobbyGroupB(name)
	}
	leave, err := s.bus.Join(group, client.Deliver)
	if err != nil {
		s.log.Error("join lobby group", "tournament", name, "error", err)
		client.conn.Close()
		return
	}

	tl := &tournamentLobbyConn{s: s, client: client, session: session, name: name, leave: leave}
	client.onMessage = tl.handleMessage
	client.onClose = tl.handleDisconnect
	client.run()

	s.publishLobby(name, waitMsg)
}

// publishLobby sends a message to both halves of the lobby.
func (s *Server) publishLobby(name string, v any) {
	s.bus.Publish(lobbyGroupA(name), v)
	s.bus.Publish(lobbyGroupB(name), v)
}

func (tl *tournamentLobbyConn) handleMessage(msg ClientMessage) {
	if msg.MessageType != game.MsgTypeWait {
		return
	}
	// Participants may only ready themselves
	if msg.Nickname != tl.client.identity.Nickname {
		return
	}

	t := tl.session.Tournament
	if !t.TrySetReady(msg.Number, msg.Nickname) {
		return
	}
	if !t.AllReady() {
		return
	}

	// All four ready: seed both semifinals, each side learns its pairing
	tl.session.SeedSemifinalsOnce(func() {
		tl.s.bus.Publish(lobbyGroupA(tl.name), t.SeedSemifinal(game.RoundSemifinalA))
		tl.s.bus.Publish(lobbyGroupB(tl.name), t.SeedSemifinal(game.RoundSemifinalB))
	})
}

// handleDisconnect withdraws the participant unless the bracket already
// filled: once the tournament is ready, lobby connections close normally
// as players move to their round connections.
func (tl *tournamentLobbyConn) handleDisconnect() {
	defer tl.leave()

	t := tl.session.Tournament
	if t.Status() != game.TournamentWait {
		return
	}

	waitMsg, left := t.Leave(tl.client.identity.Nickname)
	if !left {
		return
	}
	tl.s.publishLobby(tl.name, waitMsg)

	if t.TotalPlayers() == 0 {
		tl.s.registry.RemoveTournament(tl.name)
	}
}
