package server

import (
	"context"
	"net/http"
	"unicode/utf8"

	"github.com/pongarena/pongarena/game"
)

// TournamentListMessage is the lobby list sent on connect.
type TournamentListMessage struct {
	GameList []game.WaitSummary `json:"game_list"`
}

// CreateResultMessage answers a create request.
type CreateResultMessage struct {
	MessageType string `json:"message_type"`
	Result      string `json:"result"`
}

// tournamentWaitConn is one connection browsing/creating tournaments.
type tournamentWaitConn struct {
	s      *Server
	client *Client

	// created flips after a successful create; further requests on the
	// same connection are ignored.
	created bool
}

// handleTournamentWait serves the tournament lobby list and create
// requests.
func (s *Server) handleTournamentWait(w http.ResponseWriter, r *http.Request) {
	client, ok := s.upgrade(w, r)
	if !ok {
		return
	}

	tw := &tournamentWaitConn{s: s, client: client}
	client.onMessage = tw.handleMessage

	client.DeliverJSON(TournamentListMessage{GameList: s.registry.WaitingTournaments()})
	client.run()
}

func (tw *tournamentWaitConn) handleMessage(msg ClientMessage) {
	if tw.created || msg.MessageType != game.MsgTypeCreate {
		return
	}

	result := game.ResultFail
	if tw.validName(msg.TournamentName) {
		t := game.NewTournament(msg.TournamentName, tw.client.identity.UserID, tw.client.identity.Nickname)
		if tw.s.registry.AddTournament(t) {
			result = game.ResultSuccess
			tw.created = true
			tw.s.log.Info("tournament created",
				"name", msg.TournamentName,
				"creator", tw.client.identity.Nickname)
		}
	}

	tw.client.DeliverJSON(CreateResultMessage{MessageType: game.MsgTypeCreate, Result: result})
}

// validName rejects empty, over-long and reserved names, names of active
// tournaments, and names already claimed in stored history.
func (tw *tournamentWaitConn) validName(name string) bool {
	if name == "" || utf8.RuneCountInString(name) > game.MaxTournamentNameLen {
		return false
	}
	if name == game.ReservedTournamentName {
		return false
	}
	if tw.s.registry.HasTournament(name) {
		return false
	}
	used, err := tw.s.store.TournamentNameUsed(context.Background(), name)
	if err != nil {
		tw.s.log.Error("tournament name lookup", "name", name, "error", err)
		return false
	}
	return !used
}
