package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/calvinwijaya/blackjack-be/internal/game"
	"github.com/calvinwijaya/blackjack-be/internal/store"
	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := log.New(io.Discard)
	hub := NewHub(logger)
	go hub.Run()

	handlers := NewHandlers(store.NewMemoryStore(), nil, hub, logger, 1000)
	router := mux.NewRouter()
	handlers.RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	var created struct {
		SessionID string   `json:"sessionId"`
		Game      GameView `json:"game"`
	}
	status := doJSON(t, http.MethodPost, srv.URL+"/api/session/new", nil, &created)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, created.SessionID)
	return created.SessionID
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	var created struct {
		SessionID string   `json:"sessionId"`
		Game      GameView `json:"game"`
	}
	status := doJSON(t, http.MethodPost, srv.URL+"/api/session/new", nil, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, game.StatusBetting, created.Game.Status)
	assert.Equal(t, 1000, created.Game.Chips)
	assert.Equal(t, 52, created.Game.CardsLeft)
	require.Len(t, created.Game.BetOptions, 3)
	for _, opt := range created.Game.BetOptions {
		assert.True(t, opt.Enabled, "all denominations fit a fresh balance")
	}

	base := srv.URL + "/api/session/" + created.SessionID

	var res commandResponse
	status = doJSON(t, http.MethodPost, base+"/bet", map[string]int{"amount": 50}, &res)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, res.Applied)
	assert.Equal(t, 950, res.Game.Chips)
	assert.Equal(t, 50, res.Game.CurrentBet)

	status = doJSON(t, http.MethodPost, base+"/deal", nil, &res)
	require.Equal(t, http.StatusOK, status)
	require.True(t, res.Applied)
	assert.Equal(t, game.StatusPlaying, res.Game.Status)
	assert.Len(t, res.Game.PlayerHand, 2)
	require.Len(t, res.Game.DealerHand, 2)
	assert.True(t, res.Game.CanDouble)
	assert.Equal(t, 48, res.Game.CardsLeft)

	status = doJSON(t, http.MethodGet, base, nil, &res.Game)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, game.StatusPlaying, res.Game.Status)

	status = doJSON(t, http.MethodDelete, base, nil, nil)
	require.Equal(t, http.StatusOK, status)

	status = doJSON(t, http.MethodGet, base, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHoleCardIsMasked(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)
	base := srv.URL + "/api/session/" + id

	var res commandResponse
	doJSON(t, http.MethodPost, base+"/bet", map[string]int{"amount": 10}, &res)
	status := doJSON(t, http.MethodPost, base+"/deal", nil, &res)
	require.Equal(t, http.StatusOK, status)
	require.True(t, res.Applied)

	up, hole := res.Game.DealerHand[0], res.Game.DealerHand[1]
	assert.False(t, up.Hidden)
	assert.NotEmpty(t, up.Rank)
	assert.True(t, hole.Hidden)
	assert.Empty(t, hole.Suit, "the hole card's identity stays server-side")
	assert.Empty(t, hole.Rank)
	assert.Equal(t, game.Card{Suit: up.Suit, Rank: up.Rank}.Value(), res.Game.DealerScore)
}

func TestInvalidCommandsAreReportedNotApplied(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)
	base := srv.URL + "/api/session/" + id

	var res commandResponse
	status := doJSON(t, http.MethodPost, base+"/bet", map[string]int{"amount": 5000}, &res)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, res.Applied, "bet over the balance is a no-op")
	assert.Equal(t, 1000, res.Game.Chips)

	status = doJSON(t, http.MethodPost, base+"/hit", nil, &res)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, res.Applied, "hit outside a round is a no-op")

	status = doJSON(t, http.MethodPost, base+"/deal", nil, &res)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, res.Applied, "deal without a bet is a no-op")
	assert.Equal(t, game.StatusBetting, res.Game.Status)
}

func TestHitAfterDeal(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)
	base := srv.URL + "/api/session/" + id

	var res commandResponse
	doJSON(t, http.MethodPost, base+"/bet", map[string]int{"amount": 50}, &res)
	doJSON(t, http.MethodPost, base+"/deal", nil, &res)

	status := doJSON(t, http.MethodPost, base+"/hit", nil, &res)
	require.Equal(t, http.StatusOK, status)
	require.True(t, res.Applied)
	assert.Len(t, res.Game.PlayerHand, 3)
	assert.False(t, res.Game.CanDouble, "any hit disables doubling")
	if res.Game.PlayerScore > 21 {
		assert.Equal(t, game.StatusPlayerBust, res.Game.Status)
		assert.True(t, res.Game.RoundOver)
	} else {
		assert.Equal(t, game.StatusPlaying, res.Game.Status)
	}
}

func TestStandSettlesTheRound(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)
	base := srv.URL + "/api/session/" + id

	var res commandResponse
	doJSON(t, http.MethodPost, base+"/bet", map[string]int{"amount": 100}, &res)
	doJSON(t, http.MethodPost, base+"/deal", nil, &res)

	status := doJSON(t, http.MethodPost, base+"/stand", nil, &res)
	require.Equal(t, http.StatusOK, status)
	require.True(t, res.Applied)
	assert.True(t, res.Game.RoundOver)
	assert.NotEmpty(t, res.Game.Message)
	for _, card := range res.Game.DealerHand {
		assert.False(t, card.Hidden, "settling reveals the hole card")
	}
	assert.GreaterOrEqual(t, res.Game.DealerScore, 17)

	// New round carries the settled balance into a fresh betting phase.
	chips := res.Game.Chips
	status = doJSON(t, http.MethodPost, base+"/new-round", nil, &res)
	require.Equal(t, http.StatusOK, status)
	require.True(t, res.Applied)
	assert.Equal(t, game.StatusBetting, res.Game.Status)
	assert.Equal(t, chips, res.Game.Chips)
	assert.Zero(t, res.Game.CurrentBet)
	assert.Equal(t, 52, res.Game.CardsLeft)
}

func TestUnknownSession(t *testing.T) {
	srv := newTestServer(t)

	status := doJSON(t, http.MethodPost, srv.URL+"/api/session/nope/hit", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStatsWithoutDatabase(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	status := doJSON(t, http.MethodGet, srv.URL+"/api/session/"+id+"/stats", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}
