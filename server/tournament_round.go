package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pongarena/pongarena/game"
)

// msgTypeDiff marks the internal envelope a round loop publishes when the
// round ends. It never reaches a websocket: each member's deliver hook
// unpacks it and forwards the stay frame to the winner and the end frame
// to the loser.
const msgTypeDiff = "diff"

type diffEnvelope struct {
	MessageType string          `json:"message_type"`
	Stay        json.RawMessage `json:"stay"`
	End         json.RawMessage `json:"end"`
}

// tournamentRoundConn is one participant's connection to a bracket round.
type tournamentRoundConn struct {
	s       *Server
	client  *Client
	session *TournamentSession
	round   *game.Round
	number  int
	name    string

	// slot is the lane this participant holds inside the round; playing
	// messages that reference any other slot are dropped.
	slot string

	leaves []func()

	// winnerLeave is set once this participant wins a semifinal and
	// joins the winners group to wait for the final pairing.
	winnerLeave func()
}

// handleTournamentRound seats a participant in a bracket round: the
// round-ready barrier, input relay, advancing winners to the next round,
// and persisting the bracket once the final ends.
func (s *Server) handleTournamentRound(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	number, err := strconv.Atoi(chi.URLParam(r, "round"))

	client, ok := s.upgrade(w, r)
	if !ok {
		return
	}

	session, found := s.registry.Tournament(name)
	if err != nil || !found {
		client.conn.Close()
		return
	}
	t := session.Tournament

	// Semifinal connections arrive while the bracket is ready; the final
	// only accepts connections once the semifinals are underway.
	status := t.Status()
	validPhase := (status == game.TournamentReady && (number == game.RoundSemifinalA || number == game.RoundSemifinalB)) ||
		(status == game.TournamentPlaying && number == game.RoundFinal)
	round := t.Round(number)
	if !validPhase || round == nil {
		client.conn.Close()
		return
	}
	player, lane := round.PlayerByID(client.identity.UserID)
	if player == nil {
		client.conn.Close()
		return
	}

	tr := &tournamentRoundConn{
		s:       s,
		client:  client,
		session: session,
		round:   round,
		number:  number,
		name:    name,
		slot:    game.SlotLabels[lane-1],
	}

	leaveBroadcast, err := s.bus.Join(broadcastGroup(name), client.Deliver)
	if err != nil {
		s.log.Error("join tournament broadcast group", "tournament", name, "error", err)
		client.conn.Close()
		return
	}
	leaveRound, err := s.bus.Join(roundGroup(name, number), tr.deliverRound)
	if err != nil {
		s.log.Error("join round group", "tournament", name, "round", number, "error", err)
		leaveBroadcast()
		client.conn.Close()
		return
	}
	tr.leaves = append(tr.leaves, leaveBroadcast, leaveRound)

	client.onMessage = tr.handleMessage
	client.onClose = tr.handleDisconnect
	client.run()
}

// deliverRound forwards round-group payloads, splitting the end-of-round
// envelope into the winner's stay frame and the loser's end frame.
func (tr *tournamentRoundConn) deliverRound(payload []byte) {
	var diff diffEnvelope
	if json.Unmarshal(payload, &diff) == nil && diff.MessageType == msgTypeDiff {
		if tr.round.Winner() == tr.client.identity.Nickname {
			tr.client.Deliver(diff.Stay)
		} else {
			tr.client.Deliver(diff.End)
		}
		return
	}
	tr.client.Deliver(payload)
}

func (tr *tournamentRoundConn) handleMessage(msg ClientMessage) {
	t := tr.session.Tournament
	isFinal := tr.number == game.RoundFinal
	readyPhase := (t.Status() == game.TournamentReady && !isFinal) ||
		(t.Status() == game.TournamentPlaying && isFinal)

	switch {
	case msg.MessageType == game.MsgTypeReady && readyPhase:
		tr.round.SetRoundReady(tr.client.identity.UserID)
		if !tr.round.AllReady() {
			return
		}
		tr.ensureLoop()
		if !t.AllRoundReady() {
			return
		}
		if isFinal {
			tr.session.StartFinalOnce(func() {
				tr.s.bus.Publish(roundGroup(tr.name, game.RoundFinal), t.Round(game.RoundFinal).BuildStartMessage())
				t.StartRounds(true)
			})
		} else {
			// Both semifinal barriers passed: both rounds start together
			tr.session.StartSemifinalsOnce(func() {
				for _, n := range []int{game.RoundSemifinalA, game.RoundSemifinalB} {
					tr.s.bus.Publish(roundGroup(tr.name, n), t.Round(n).BuildStartMessage())
				}
				t.StartRounds(false)
				t.SetStatus(game.TournamentPlaying)
			})
		}

	case msg.MessageType == game.MsgTypePlaying && tr.round.Status() == game.StatusPlaying:
		// A connection only ever drives its own lane
		if msg.Number != tr.slot {
			return
		}
		tr.round.HandleInput(msg.Number, msg.Input)

	// The winner acknowledges the stay frame and moves up the bracket
	case msg.MessageType == game.MsgTypeStay && tr.round.Status() == game.StatusEnd:
		tr.nextMatch()
	}
}

// ensureLoop starts this round's driving loop. The loop stops on its own
// if the tournament drops into the error state.
func (tr *tournamentRoundConn) ensureLoop() {
	t := tr.session.Tournament
	round := tr.round
	tr.session.EnsureRoundLoop(tr.number, func() *Loop {
		return startLoop(loopConfig{
			bus:     tr.s.bus,
			group:   roundGroup(tr.name, tr.number),
			session: round,
			finish: func() any {
				stay, _ := json.Marshal(round.BuildStayMessage())
				end, _ := json.Marshal(round.BuildEndMessage())
				return diffEnvelope{MessageType: msgTypeDiff, Stay: stay, End: end}
			},
			aborted: func() bool { return t.Status() == game.TournamentError },
		})
	})
}

// nextMatch advances a round winner. A semifinal winner joins the winners
// group and, once both semifinals are done, seeds the final; the final's
// winner triggers bracket persistence and the completion broadcast.
func (tr *tournamentRoundConn) nextMatch() {
	t := tr.session.Tournament

	if tr.number == game.RoundFinal {
		tr.session.PersistOnce(func() {
			t.SetStatus(game.TournamentEnd)
			err := tr.persistBracket()
			tr.s.bus.Publish(broadcastGroup(tr.name), t.BuildCompleteMessage(err != nil))
		})
		return
	}

	if tr.winnerLeave == nil {
		leave, err := tr.s.bus.Join(winnersGroup(tr.name), tr.client.Deliver)
		if err != nil {
			tr.s.log.Error("join winners group", "tournament", tr.name, "error", err)
			return
		}
		tr.winnerLeave = leave
		tr.leaves = append(tr.leaves, leave)
	}

	r1, r2 := t.Round(game.RoundSemifinalA), t.Round(game.RoundSemifinalB)
	if r1.Status() == game.StatusEnd && r2.Status() == game.StatusEnd {
		tr.session.SeedFinalOnce(func() {
			tr.s.bus.Publish(winnersGroup(tr.name), t.SeedFinal(r1.Winner(), r2.Winner()))
		})
	}
}

// persistBracket writes all three round results and their win/loss
// counters. The first failure aborts so the completion broadcast can
// carry the error flag.
func (tr *tournamentRoundConn) persistBracket() error {
	ctx := context.Background()
	t := tr.session.Tournament
	for n := game.RoundSemifinalA; n <= game.RoundFinal; n++ {
		if err := tr.s.store.SaveTournamentMatch(ctx, t.ResultFor(n)); err != nil {
			tr.s.log.Error("persist tournament round", "tournament", tr.name, "round", n, "error", err)
			return err
		}
		winnerID, loserID := t.WinnerLoserIDs(n)
		if err := tr.s.store.RecordOutcome(ctx, winnerID, loserID); err != nil {
			tr.s.log.Error("record tournament outcome", "tournament", tr.name, "round", n, "error", err)
			return err
		}
	}
	return nil
}

// handleDisconnect tears down this participant's stake in the bracket.
// Leaving before the own round ended, or while still owed the final,
// aborts the whole tournament with an error broadcast.
func (tr *tournamentRoundConn) handleDisconnect() {
	defer func() {
		for _, leave := range tr.leaves {
			leave()
		}
	}()

	t := tr.session.Tournament

	other := game.RoundSemifinalA
	if tr.number == game.RoundSemifinalA {
		other = game.RoundSemifinalB
	}
	otherRound := t.Round(other)

	abandoned := tr.round.Status() != game.StatusEnd ||
		(tr.winnerLeave != nil && otherRound != nil && otherRound.Status() != game.StatusEnd)
	if abandoned && t.Status() != game.TournamentEnd && t.Status() != game.TournamentError {
		tr.round.Fail()
		t.SetStatus(game.TournamentError)
		tr.s.bus.Publish(broadcastGroup(tr.name), tr.round.BuildErrorMessage(tr.client.identity.Nickname))
	}

	if tr.round.Close() {
		tr.session.StopRoundLoop(tr.number)
	}

	switch t.Status() {
	case game.TournamentEnd, game.TournamentError:
		tr.s.registry.RemoveTournament(tr.name)
	}
}
