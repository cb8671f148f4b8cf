package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/calvinwijaya/blackjack-be/internal/db"
	"github.com/calvinwijaya/blackjack-be/internal/game"
	"github.com/calvinwijaya/blackjack-be/internal/session"
	"github.com/calvinwijaya/blackjack-be/internal/store"
	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
)

// Handlers contains all the API handlers
type Handlers struct {
	store         store.Store
	database      *db.Database
	hub           *Hub
	logger        *log.Logger
	startingChips int
}

// NewHandlers creates a new instance of Handlers. database may be nil;
// the server then runs without result history.
func NewHandlers(store store.Store, database *db.Database, hub *Hub, logger *log.Logger, startingChips int) *Handlers {
	return &Handlers{
		store:         store,
		database:      database,
		hub:           hub,
		logger:        logger,
		startingChips: startingChips,
	}
}

// RegisterRoutes registers all API routes
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/session/new", h.NewSession).Methods("POST")
	r.HandleFunc("/api/session/{id}", h.GetSession).Methods("GET")
	r.HandleFunc("/api/session/{id}", h.DeleteSession).Methods("DELETE")
	r.HandleFunc("/api/session/{id}/bet", h.PlaceBet).Methods("POST")
	r.HandleFunc("/api/session/{id}/deal", h.Deal).Methods("POST")
	r.HandleFunc("/api/session/{id}/hit", h.Hit).Methods("POST")
	r.HandleFunc("/api/session/{id}/stand", h.Stand).Methods("POST")
	r.HandleFunc("/api/session/{id}/double", h.Double).Methods("POST")
	r.HandleFunc("/api/session/{id}/new-round", h.NewRound).Methods("POST")
	r.HandleFunc("/api/session/{id}/stats", h.GetStats).Methods("GET")

	r.HandleFunc("/ws", h.hub.WebSocketHandler)
}

// response helper function to send JSON responses
func response(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// error response helper function
func errorResponse(w http.ResponseWriter, status int, message string) {
	response(w, status, map[string]string{"error": message})
}

type commandResponse struct {
	Applied bool     `json:"applied"`
	Game    GameView `json:"game"`
}

// NewSession creates a new single-player session
func (h *Handlers) NewSession(w http.ResponseWriter, r *http.Request) {
	sess := session.New(h.startingChips)

	if err := h.store.SaveSession(sess); err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	if h.database != nil {
		if err := h.database.SaveSession(sess); err != nil {
			h.logger.Warn("failed to persist session", "session", sess.ID, "err", err)
		}
	}

	h.logger.Info("session created", "session", sess.ID, "chips", h.startingChips)
	response(w, http.StatusCreated, map[string]interface{}{
		"sessionId": sess.ID,
		"game":      NewGameView(sess.State()),
	})
}

// GetSession returns the current snapshot of a session
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	response(w, http.StatusOK, NewGameView(sess.State()))
}

// DeleteSession ends a session and removes it from the store
func (h *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteSession(sess.ID); err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	if h.database != nil {
		if err := h.database.DeleteSession(sess.ID); err != nil {
			h.logger.Warn("failed to delete persisted session", "session", sess.ID, "err", err)
		}
	}

	h.logger.Info("session deleted", "session", sess.ID)
	response(w, http.StatusOK, map[string]string{"message": "Session ended"})
}

// PlaceBet moves chips into the current bet
func (h *Handlers) PlaceBet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.applyCommand(w, r, func(g game.Game) (game.Game, bool, error) {
		next, applied := g.PlaceBet(req.Amount)
		return next, applied, nil
	})
}

// Deal starts the round by dealing the opening cards
func (h *Handlers) Deal(w http.ResponseWriter, r *http.Request) {
	h.applyCommand(w, r, game.Game.Deal)
}

// Hit draws one more card for the player
func (h *Handlers) Hit(w http.ResponseWriter, r *http.Request) {
	h.applyCommand(w, r, game.Game.Hit)
}

// Stand ends the player's turn and runs the dealer
func (h *Handlers) Stand(w http.ResponseWriter, r *http.Request) {
	h.applyCommand(w, r, game.Game.Stand)
}

// Double doubles the bet, draws once and runs the dealer
func (h *Handlers) Double(w http.ResponseWriter, r *http.Request) {
	h.applyCommand(w, r, game.Game.Double)
}

// NewRound resets the session to the betting phase, keeping the balance
func (h *Handlers) NewRound(w http.ResponseWriter, r *http.Request) {
	h.applyCommand(w, r, func(g game.Game) (game.Game, bool, error) {
		if g.Status != game.StatusBetting && !g.Status.RoundOver() {
			return g, false, nil
		}
		return g.NewRound(), true, nil
	})
}

// GetStats returns the aggregate round history for a session
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	if h.database == nil {
		errorResponse(w, http.StatusServiceUnavailable, "Result history is not enabled")
		return
	}

	stats, err := h.database.GetSessionStats(sess.ID)
	if err != nil {
		h.logger.Error("failed to load session stats", "session", sess.ID, "err", err)
		errorResponse(w, http.StatusInternalServerError, "Error retrieving session statistics")
		return
	}
	response(w, http.StatusOK, stats)
}

// applyCommand runs one engine transition for the session in the URL and
// writes the resulting snapshot. Invalid commands come back with
// applied=false and the unchanged state; deck exhaustion is a conflict.
func (h *Handlers) applyCommand(w http.ResponseWriter, r *http.Request, transition func(game.Game) (game.Game, bool, error)) {
	sess, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	before := sess.State()
	state, applied, err := sess.Apply(transition)
	if err != nil {
		if errors.Is(err, game.ErrDeckExhausted) {
			errorResponse(w, http.StatusConflict, "Deck exhausted, start a new round")
			return
		}
		h.logger.Error("command failed", "session", sess.ID, "err", err)
		errorResponse(w, http.StatusInternalServerError, "Command failed")
		return
	}

	if applied {
		h.recordProgress(sess, before, state)
		if h.hub != nil {
			h.hub.BroadcastToSession(sess.ID, Message{
				Type:      "gameUpdate",
				SessionID: sess.ID,
				Data:      NewGameView(state),
			})
		}
	}

	response(w, http.StatusOK, commandResponse{Applied: applied, Game: NewGameView(state)})
}

// recordProgress persists the session row after every applied command
// and a round result the first time a round reaches a terminal status.
func (h *Handlers) recordProgress(sess *session.Session, before, after game.Game) {
	if h.database == nil {
		return
	}

	if err := h.database.SaveSession(sess); err != nil {
		h.logger.Warn("failed to persist session", "session", sess.ID, "err", err)
	}

	if !after.Status.RoundOver() || before.Status.RoundOver() {
		return
	}
	err := h.database.SaveRoundResult(
		sess.ID,
		after.CurrentBet,
		after.Status,
		roundPayout(after.Status, after.CurrentBet),
		after.PlayerScore,
		after.DealerScore,
	)
	if err != nil {
		h.logger.Warn("failed to record round result", "session", sess.ID, "err", err)
	}
}

// roundPayout is what the terminal status credited back to the balance.
func roundPayout(status game.Status, bet int) int {
	switch status {
	case game.StatusPlayerWin, game.StatusDealerBust:
		return bet * 2
	case game.StatusPush:
		return bet
	}
	return 0
}

func (h *Handlers) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := mux.Vars(r)["id"]
	sess, err := h.store.GetSession(id)
	if err != nil {
		errorResponse(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return sess, true
}
