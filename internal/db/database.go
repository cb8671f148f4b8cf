package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/calvinwijaya/blackjack-be/internal/game"
	"github.com/calvinwijaya/blackjack-be/internal/session"
	_ "github.com/mattn/go-sqlite3"
)

// Database records sessions and finished rounds in sqlite. The server
// runs fine without one; chip balances are never restored from it, only
// historical results are kept.
type Database struct {
	db *sql.DB
}

type SessionStats struct {
	SessionID    string    `json:"sessionId"`
	RoundsPlayed int       `json:"roundsPlayed"`
	RoundsWon    int       `json:"roundsWon"`
	TotalWagered int       `json:"totalWagered"`
	NetWinnings  int       `json:"netWinnings"`
	LastPlayed   time.Time `json:"lastPlayed"`
}

// NewDatabase opens (or creates) the sqlite database at the given path
func NewDatabase(path string) (*Database, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

// initTables creates the necessary tables if they don't exist
func initTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			chips INTEGER NOT NULL,
			status TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating sessions table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS round_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			bet INTEGER NOT NULL,
			result TEXT NOT NULL,
			payout INTEGER NOT NULL,
			player_score INTEGER NOT NULL,
			dealer_score INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions (id)
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating round_results table: %w", err)
	}

	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// SaveSession upserts the session row with its latest balance and status
func (d *Database) SaveSession(sess *session.Session) error {
	state := sess.State()
	_, err := d.db.Exec(`
		INSERT INTO sessions (id, created_at, updated_at, chips, status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET updated_at = excluded.updated_at, chips = excluded.chips, status = excluded.status
	`, sess.ID, sess.CreatedAt, sess.UpdatedAt(), state.Chips, string(state.Status))
	return err
}

// DeleteSession removes a session row; its round results are kept
func (d *Database) DeleteSession(id string) error {
	_, err := d.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	return err
}

// SaveRoundResult records one finished round for a session
func (d *Database) SaveRoundResult(sessionID string, bet int, result game.Status, payout, playerScore, dealerScore int) error {
	_, err := d.db.Exec(`
		INSERT INTO round_results (session_id, bet, result, payout, player_score, dealer_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, sessionID, bet, string(result), payout, playerScore, dealerScore, time.Now())
	return err
}

// GetSessionStats aggregates the recorded rounds for a session
func (d *Database) GetSessionStats(sessionID string) (*SessionStats, error) {
	stats := &SessionStats{SessionID: sessionID}

	err := d.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN result IN (?, ?) THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(bet), 0),
		       COALESCE(SUM(payout - bet), 0)
		FROM round_results WHERE session_id = ?
	`, string(game.StatusPlayerWin), string(game.StatusDealerBust), sessionID).Scan(
		&stats.RoundsPlayed,
		&stats.RoundsWon,
		&stats.TotalWagered,
		&stats.NetWinnings,
	)
	if err != nil {
		return nil, fmt.Errorf("error aggregating round results: %w", err)
	}

	var lastPlayed sql.NullTime
	err = d.db.QueryRow(
		"SELECT MAX(created_at) FROM round_results WHERE session_id = ?", sessionID,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("error reading last played: %w", err)
	}
	if lastPlayed.Valid {
		stats.LastPlayed = lastPlayed.Time
	}

	return stats, nil
}
