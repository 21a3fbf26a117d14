package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pongarena/pongarena/game"
)

// matchConn is one participant's connection to a live match.
type matchConn struct {
	s       *Server
	client  *Client
	session *MatchSession

	// slot is the seat handed out at connect time; playing messages that
	// reference any other slot are dropped.
	slot string

	// persisted guards this connection against writing the match result
	// twice; combined with the winner-only rule it gives at-most-one
	// write per match.
	persisted bool

	leave func()
}

// handleMatch attaches a paired player to its match: hands out the seat,
// runs the ready barrier, relays input, and persists the result once.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	client, ok := s.upgrade(w, r)
	if !ok {
		return
	}

	// Only a waiting match that actually seats this user accepts the
	// connection.
	session, found := s.registry.Match(gameID)
	if !found || session.Match.Status() != game.StatusWait {
		client.conn.Close()
		return
	}
	player, number := session.Match.PlayerByID(client.identity.UserID)
	if player == nil {
		client.conn.Close()
		return
	}

	leave, err := s.bus.Join(session.Group, client.Deliver)
	if err != nil {
		s.log.Error("join match group", "game_id", gameID, "error", err)
		client.conn.Close()
		return
	}

	mc := &matchConn{s: s, client: client, session: session, slot: game.SlotLabels[number-1], leave: leave}
	client.onMessage = mc.handleMessage
	client.onClose = mc.handleDisconnect

	client.DeliverJSON(game.BuildReadyMessage(number, player.Nickname()))
	client.run()
}

func (mc *matchConn) handleMessage(msg ClientMessage) {
	m := mc.session.Match

	switch {
	// Ready barrier: the connection completing it starts play
	case msg.MessageType == game.MsgTypeReady && m.Status() == game.StatusWait:
		m.SetReady(msg.Number)
		if !m.AllReady() {
			return
		}
		mc.s.bus.Publish(mc.session.Group, m.BuildStartMessage())
		m.SetStatus(game.StatusPlaying)
		m.StampStart()
		mc.session.EnsureLoop(func() *Loop {
			return startLoop(loopConfig{
				bus:     mc.s.bus,
				group:   mc.session.Group,
				session: m,
				finish:  func() any { return m.BuildEndMessage() },
			})
		})

	case msg.MessageType == game.MsgTypePlaying && m.Status() == game.StatusPlaying:
		// A connection only ever drives its own seat
		if msg.Number != mc.slot {
			return
		}
		m.HandleInput(msg.Number, msg.Input)

	// The winner's connection reports completion and persists the result
	case msg.MessageType == game.MsgTypeEnd && m.Status() == game.StatusEnd && !mc.persisted:
		winnerID, loserID := m.WinnerLoserIDs()
		if mc.client.identity.UserID != winnerID {
			return
		}
		mc.persisted = true
		mc.persistResult(m, winnerID, loserID)
	}
}

func (mc *matchConn) persistResult(m *game.Match, winnerID, loserID string) {
	ctx := context.Background()
	err := mc.s.store.SaveMatch(ctx, m.Result())
	if err == nil {
		err = mc.s.store.RecordOutcome(ctx, winnerID, loserID)
	}
	if err != nil {
		mc.s.log.Error("persist match result", "game_id", mc.session.ID, "error", err)
	}
	mc.s.bus.Publish(mc.session.Group, m.BuildCompleteMessage(err != nil))
}

// handleDisconnect tears the match down. The first disconnect wins the
// registry removal; a concurrent second disconnect only leaves its group.
func (mc *matchConn) handleDisconnect() {
	if session, removed := mc.s.registry.RemoveMatch(mc.session.ID); removed {
		m := session.Match
		if m.Status() != game.StatusEnd {
			// Abandoned mid-match
			m.Fail()
			mc.s.bus.Publish(session.Group, m.BuildErrorMessage(mc.client.identity.Nickname))
		}
		// Wait for the driving loop before anyone releases membership
		session.StopLoop()
	}
	mc.leave()
}
