package server

import "net/http"

// handleMatchWait queues a connection for matchmaking. The connection is
// closed immediately when the nickname is already waiting; otherwise it
// stays open until a match id is delivered or the client gives up.
func (s *Server) handleMatchWait(w http.ResponseWriter, r *http.Request) {
	client, ok := s.upgrade(w, r)
	if !ok {
		return
	}

	waiter, ok := s.matchmaker.Enqueue(client.identity, client.Deliver)
	if !ok {
		s.log.Info("duplicate matchmaking entry rejected", "nickname", client.identity.Nickname)
		client.conn.Close()
		return
	}

	client.onClose = func() {
		s.matchmaker.Leave(waiter)
	}
	client.run()
}
