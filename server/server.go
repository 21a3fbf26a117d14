package server

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/pongarena/pongarena/store"
)

// Identity is a resolved participant: a stable user id plus the display
// name shown to opponents.
type Identity struct {
	UserID   string
	Nickname string
}

// ErrUnauthenticated is returned by resolvers when a connection carries
// no usable identity.
var ErrUnauthenticated = errors.New("server: unauthenticated connection")

// IdentityResolver maps an incoming request to a participant identity.
// This is the seam where the external authentication system plugs in.
type IdentityResolver interface {
	Resolve(r *http.Request) (Identity, error)
}

// QueryIdentityResolver trusts user_id/nickname request parameters.
// Suitable behind an authenticating proxy and for tests.
type QueryIdentityResolver struct{}

func (QueryIdentityResolver) Resolve(r *http.Request) (Identity, error) {
	id := r.URL.Query().Get("user_id")
	if id == "" {
		return Identity{}, ErrUnauthenticated
	}
	nickname := r.URL.Query().Get("nickname")
	if nickname == "" {
		nickname = id
	}
	return Identity{UserID: id, Nickname: nickname}, nil
}

// isValidOrigin checks if the origin is allowed to connect.
func isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No origin header - could be a non-browser client
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	// Same-origin, plus localhost for development
	if r.Host == originURL.Host {
		return true
	}
	return strings.HasPrefix(originURL.Host, "localhost:") ||
		strings.HasPrefix(originURL.Host, "127.0.0.1:") ||
		originURL.Host == "localhost" ||
		originURL.Host == "127.0.0.1"
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       isValidOrigin,
	EnableCompression: true,
}

// Server wires the registries, the matchmaker, the broadcast bus and the
// persistence store behind the websocket endpoints.
type Server struct {
	log        *slog.Logger
	store      store.Store
	bus        *Bus
	registry   *Registry
	matchmaker *Matchmaker
	resolver   IdentityResolver
}

// NewServer creates a server with its own registry and broadcast bus.
func NewServer(st store.Store, resolver IdentityResolver, log *slog.Logger) *Server {
	registry := NewRegistry()
	return &Server{
		log:        log,
		store:      st,
		bus:        NewBus(log),
		registry:   registry,
		matchmaker: NewMatchmaker(registry, log),
		resolver:   resolver,
	}
}

// Routes returns the websocket route table.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/ws/presence", s.handlePresence)
	r.Get("/ws/match/wait", s.handleMatchWait)
	r.Get("/ws/match/{gameID}", s.handleMatch)
	r.Get("/ws/tournament/wait", s.handleTournamentWait)
	r.Get("/ws/tournament/{name}", s.handleTournamentLobby)
	r.Get("/ws/tournament/{name}/{round}", s.handleTournamentRound)
	return r
}

// Shutdown tears down the broadcast bus.
func (s *Server) Shutdown() {
	if err := s.bus.Close(); err != nil {
		s.log.Error("bus close", "error", err)
	}
}

// upgrade resolves the identity and upgrades the connection. A request
// without identity is rejected before the upgrade.
func (s *Server) upgrade(w http.ResponseWriter, r *http.Request) (*Client, bool) {
	identity, err := s.resolver.Resolve(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", "error", err)
		return nil, false
	}
	return newClient(conn, identity, s.log), true
}

// Group names. One topic per match, per tournament lobby half, per
// bracket round, plus the tournament-wide broadcast and winners channels.
func matchGroup(id string) string       { return "match:" + id }
func lobbyGroupA(name string) string    { return "tournament:" + name + ":lobby:a" }
func lobbyGroupB(name string) string    { return "tournament:" + name + ":lobby:b" }
func broadcastGroup(name string) string { return "tournament:" + name + ":broadcast" }
func winnersGroup(name string) string   { return "tournament:" + name + ":winners" }

func roundGroup(name string, n int) string {
	return "tournament:" + name + ":round:" + strconv.Itoa(n)
}
