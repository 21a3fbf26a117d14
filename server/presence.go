package server

import (
	"context"
	"net/http"
)

// handlePresence keeps a connection open for the lifetime of a client
// session and mirrors it into the user directory's online flag.
func (s *Server) handlePresence(w http.ResponseWriter, r *http.Request) {
	client, ok := s.upgrade(w, r)
	if !ok {
		return
	}
	userID := client.identity.UserID

	if err := s.store.SetPresence(r.Context(), userID, true); err != nil {
		s.log.Error("set online", "user", userID, "error", err)
	}

	client.onClose = func() {
		if err := s.store.SetPresence(context.Background(), userID, false); err != nil {
			s.log.Error("set offline", "user", userID, "error", err)
		}
	}
	client.run()
}
