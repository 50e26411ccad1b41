package model

import (
	"encoding/json"
	"time"
)

// Match is one arena game between two strategies.
type Match struct {
	ID         string     `json:"id"`
	Player1    string     `json:"player1"`
	Player2    string     `json:"player2"`
	Status     string     `json:"status"` // active, finished
	Winner     string     `json:"winner,omitempty"`
	Rounds     int        `json:"rounds"`
	Seed       int64      `json:"seed"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Round is the board after one resolved round of a match.
type Round struct {
	ID         string          `json:"id"`
	MatchID    string          `json:"match_id"`
	Number     int             `json:"number"`
	StateAfter json.RawMessage `json:"state_after"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Order is a single placement or attack/transfer issued during a round.
type Order struct {
	ID        string    `json:"id"`
	RoundID   string    `json:"round_id"`
	Player    string    `json:"player"`
	Kind      string    `json:"kind"` // place, attack/transfer
	From      int       `json:"from,omitempty"`
	To        int       `json:"to"`
	Armies    int       `json:"armies"`
	Outcome   string    `json:"outcome,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Order kinds.
const (
	OrderPlace          = "place"
	OrderAttackTransfer = "attack/transfer"
)

// Match statuses.
const (
	MatchActive   = "active"
	MatchFinished = "finished"
)
