package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lazharichir/holdem/domain"
	"github.com/lazharichir/holdem/game"
	"github.com/lazharichir/holdem/server/connection"
	"github.com/lazharichir/holdem/server/events"
	"github.com/lazharichir/holdem/server/handlers"
	"github.com/lazharichir/holdem/table"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	helloPeriod = 10 * time.Second
	writeWait   = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, implement proper origin checks
	},
}

// Server represents the WebSocket server
type Server struct {
	registry   *table.Registry
	history    *game.History
	rules      domain.TableRules
	connMgr    *connection.Manager
	cmdRouter  *handlers.CommandRouter
	dispatcher *events.Dispatcher
	log        logrus.FieldLogger
}

// TableResponse represents a table in API responses
type TableResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	PlayerCount int      `json:"playerCount"`
	Players     []string `json:"players"`
	Status      string   `json:"status"`
	SmallBlind  int      `json:"smallBlind"`
	BigBlind    int      `json:"bigBlind"`
	BuyIn       int      `json:"buyIn"`
	HandNumber  int      `json:"handNumber"`
	CurrentHand string   `json:"currentHand,omitempty"`
}

// CreateTableRequest represents the request to create a new table. Zero
// values fall back to the configured rules.
type CreateTableRequest struct {
	Name       string `json:"name"`
	MaxPlayers int    `json:"maxPlayers"`
	SmallBlind int    `json:"smallBlind"`
	BigBlind   int    `json:"bigBlind"`
	BuyIn      int    `json:"buyIn"`
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// NewServer wires the transport to a registry. rules are the defaults for
// tables created over HTTP.
func NewServer(registry *table.Registry, history *game.History, rules domain.TableRules, log logrus.FieldLogger) *Server {
	connMgr := connection.NewManager()
	dispatcher := events.NewDispatcher(connMgr, log)
	cmdRouter := handlers.NewCommandRouter(registry, connMgr)

	registry.AddEventHandler(dispatcher.HandleEvent)

	return &Server{
		registry:   registry,
		history:    history,
		rules:      rules,
		connMgr:    connMgr,
		cmdRouter:  cmdRouter,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/api/tables", corsMiddleware(s.handleGetTables))
	mux.HandleFunc("/api/tables/create", corsMiddleware(s.handleCreateTable))
	mux.HandleFunc("/api/tables/{id}/history", corsMiddleware(s.handleGetHistory))
	return mux
}

// Run serves on addr until ctx is done, then shuts down
func (s *Server) Run(ctx context.Context, addr string) error {
	go s.connMgr.Start()
	defer s.connMgr.Stop()

	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "serving")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down")
	}
	return nil
}

// handleWebSocket handles incoming WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("error upgrading to websocket")
		return
	}

	client := &connection.Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	s.log.WithFields(logrus.Fields{"remote": r.RemoteAddr, "client_id": client.ID}).Info("client connected")

	s.connMgr.Register(client)

	go s.readPump(client)
	go s.writePump(client)
}

// readPump reads messages from the WebSocket connection
func (s *Server) readPump(client *connection.Client) {
	defer func() {
		s.connMgr.Disconnect(client)
		client.Conn.Close()
	}()

	log := s.log.WithField("client_id", client.ID)
	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Warn("unexpected close")
			}
			break
		}

		if err := s.cmdRouter.HandleCommand(client, message); err != nil {
			log.WithError(err).Info("command rejected")
			s.dispatcher.SendError(client.ID, err)
		}
	}
}

// writePump is the only writer of the connection. It also sends HELLO
// periodically so idle clients notice a dead link.
func (s *Server) writePump(client *connection.Client) {
	ticker := time.NewTicker(helloPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.log.WithError(err).WithField("client_id", client.ID).Warn("error writing message")
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.TextMessage, []byte("HELLO")); err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func tableResponse(t *domain.Table) TableResponse {
	resp := TableResponse{
		ID:          t.ID,
		Name:        t.Name,
		PlayerCount: len(t.Players),
		Players:     make([]string, 0, len(t.Players)),
		Status:      string(t.Status),
		SmallBlind:  t.Rules.SmallBlind,
		BigBlind:    t.Rules.BigBlind,
		BuyIn:       t.Rules.BuyIn,
		HandNumber:  t.HandCount,
	}
	for _, p := range t.Players {
		resp.Players = append(resp.Players, p.ID)
	}
	if t.InProgress() {
		resp.CurrentHand = t.Hand.ID
	}
	return resp
}

// handleGetTables returns a list of all tables
func (s *Server) handleGetTables(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	loops := s.registry.List()
	tableResponses := make([]TableResponse, 0, len(loops))
	for _, loop := range loops {
		loop.View(func(t *domain.Table) {
			tableResponses = append(tableResponses, tableResponse(t))
		})
	}
	writeJSON(w, http.StatusOK, tableResponses)
}

// handleCreateTable creates a new table
func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var createReq CreateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if createReq.Name == "" {
		http.Error(w, "Table name is required", http.StatusBadRequest)
		return
	}

	rules := s.rules
	if createReq.MaxPlayers > 0 {
		rules.MaxPlayers = createReq.MaxPlayers
	}
	if createReq.SmallBlind > 0 {
		rules.SmallBlind = createReq.SmallBlind
	}
	if createReq.BigBlind > 0 {
		rules.BigBlind = createReq.BigBlind
	}
	if createReq.BuyIn > 0 {
		rules.BuyIn = createReq.BuyIn
	}

	loop, err := s.registry.Create(createReq.Name, rules)
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		http.Error(w, ve.Error(), http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var response TableResponse
	loop.View(func(t *domain.Table) { response = tableResponse(t) })
	writeJSON(w, http.StatusCreated, response)
}

// handleGetHistory returns the per-hand action log of a table. Ended tables
// keep their history after they leave the registry.
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tableID := r.PathValue("id")
	th, err := s.history.Rebuild(tableID)
	if err != nil {
		s.log.WithError(err).WithField("table_id", tableID).Error("rebuilding history")
		http.Error(w, "could not load history", http.StatusInternalServerError)
		return
	}
	if _, err := s.registry.Get(tableID); err != nil && len(th.Hands) == 0 && len(th.Names) == 0 {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, th)
}
