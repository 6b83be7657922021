package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lazharichir/holdem/domain"
	domainevents "github.com/lazharichir/holdem/domain/events"
	"github.com/lazharichir/holdem/game"
	"github.com/lazharichir/holdem/server/events"
	"github.com/lazharichir/holdem/table"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *table.Registry, *httptest.Server) {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	store := domainevents.NewInMemoryEventStore()
	registry := table.NewRegistry(store, table.Settings{VoteWindow: time.Hour, Tick: time.Hour}, log)
	s := NewServer(registry, game.NewHistory(store), domain.DefaultRules(), log)

	go s.connMgr.Start()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		registry.Shutdown()
		s.connMgr.Stop()
	})
	return s, registry, ts
}

func TestServer_CreateAndListTables(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/tables/create", "application/json",
		strings.NewReader(`{"name":"main","smallBlind":5,"bigBlind":10,"buyIn":500}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created TableResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "main", created.Name)
	assert.Equal(t, 10, created.BigBlind)
	assert.Equal(t, 500, created.BuyIn)
	assert.Equal(t, "waiting", created.Status)
	assert.NotEmpty(t, created.ID)

	listResp, err := http.Get(ts.URL + "/api/tables")
	require.NoError(t, err)
	defer listResp.Body.Close()

	var tables []TableResponse
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&tables))
	require.Len(t, tables, 1)
	assert.Equal(t, created.ID, tables[0].ID)
	assert.Equal(t, "*", listResp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_CreateTableRejections(t *testing.T) {
	_, _, ts := newTestServer(t)

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"bad json", http.MethodPost, "{", http.StatusBadRequest},
		{"missing name", http.MethodPost, `{}`, http.StatusBadRequest},
		{"inverted blinds", http.MethodPost, `{"name":"x","smallBlind":5}`, http.StatusBadRequest},
		{"too many seats", http.MethodPost, `{"name":"x","maxPlayers":12}`, http.StatusBadRequest},
		{"preflight", http.MethodOptions, "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+"/api/tables/create", bytes.NewBufferString(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestServer_History(t *testing.T) {
	_, registry, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/tables/unknown/history")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	loop, err := registry.Create("h", domain.DefaultRules(), domain.WithTableID("tbl_h"))
	require.NoError(t, err)
	require.NoError(t, loop.Do(func(t *domain.Table) error {
		_, err := t.Join("alice", "Alice")
		return err
	}))

	resp, err = http.Get(ts.URL + "/api/tables/tbl_h/history")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var th game.TableHistory
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&th))
	assert.Equal(t, "tbl_h", th.TableID)
	assert.Equal(t, "Alice", th.Names["alice"])
}

type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, ts *httptest.Server) *wsClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &wsClient{t: t, conn: conn}
}

func (c *wsClient) send(cmd map[string]any) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteJSON(cmd))
}

// expect reads until an envelope with the given name arrives
func (c *wsClient) expect(name string) json.RawMessage {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, data, err := c.conn.ReadMessage()
		require.NoError(c.t, err, "waiting for %s", name)

		var env events.EventEnvelope
		if json.Unmarshal(data, &env) != nil {
			continue
		}
		if env.Name == name {
			return env.Payload
		}
	}
}

func TestServer_WebSocketPlay(t *testing.T) {
	_, registry, ts := newTestServer(t)
	_, err := registry.Create("ws", domain.DefaultRules(), domain.WithTableID("tbl_ws"))
	require.NoError(t, err)

	alice := dial(t, ts)
	alice.send(map[string]any{"name": "JOIN_TABLE", "tableId": "tbl_ws", "playerId": "alice", "playerName": "Alice"})
	var joined domainevents.PlayerJoined
	require.NoError(t, json.Unmarshal(alice.expect("PLAYER_JOINED"), &joined))
	assert.Equal(t, "alice", joined.PlayerID)
	assert.Equal(t, "Alice", joined.PlayerName)

	bob := dial(t, ts)
	bob.send(map[string]any{"name": "JOIN_TABLE", "tableId": "tbl_ws", "playerId": "bob"})

	var dealt domainevents.HoleCardsDealt
	require.NoError(t, json.Unmarshal(alice.expect("HOLE_CARDS_DEALT"), &dealt))
	assert.Equal(t, "alice", dealt.PlayerID, "hole cards only go to their owner")
	assert.Len(t, dealt.Cards, 2)

	// heads-up the small blind acts first
	alice.send(map[string]any{"name": "SUBMIT_ACTION", "tableId": "tbl_ws", "playerId": "alice", "action": "check"})
	var rejected events.ErrorPayload
	require.NoError(t, json.Unmarshal(alice.expect(events.ErrorName), &rejected))
	assert.Equal(t, "NotYourTurn", rejected.Reason)

	alice.send(map[string]any{"name": "SUBMIT_ACTION", "tableId": "tbl_ws", "playerId": "bob", "action": "fold"})
	require.NoError(t, json.Unmarshal(alice.expect(events.ErrorName), &rejected))
	assert.Contains(t, rejected.Message, "another player")

	bob.send(map[string]any{"name": "SUBMIT_ACTION", "tableId": "tbl_ws", "playerId": "bob", "action": "call"})
	var applied domainevents.ActionApplied
	require.NoError(t, json.Unmarshal(alice.expect("ACTION_APPLIED"), &applied))
	assert.Equal(t, "CALL", applied.Label)

	alice.send(map[string]any{"name": "REQUEST_VIEW", "tableId": "tbl_ws"})
	var view domain.HandView
	require.NoError(t, json.Unmarshal(alice.expect(events.ViewName), &view))
	assert.Equal(t, "alice", view.PlayerID)
	assert.True(t, view.MyTurn)
	assert.Equal(t, dealt.Cards, view.MyHole)
	assert.Contains(t, view.AvailableActions, "check")

	alice.send(map[string]any{"name": "DANCE"})
	require.NoError(t, json.Unmarshal(alice.expect(events.ErrorName), &rejected))
	assert.Contains(t, rejected.Message, "unknown command")
}
