package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/CarloMagno/Warlight/internal/model"
)

// MatchRepo handles match, round and order database operations.
type MatchRepo struct {
	db *sql.DB
}

// NewMatchRepo creates a MatchRepo.
func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// CreateMatch inserts a new active match. m.ID must be set; CreatedAt and
// Status are filled in from the database.
func (r *MatchRepo) CreateMatch(ctx context.Context, m *model.Match) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO matches (id, player1, player2, seed)
		 VALUES ($1, $2, $3, $4)
		 RETURNING status, created_at`,
		m.ID, m.Player1, m.Player2, m.Seed,
	).Scan(&m.Status, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create match: %w", err)
	}
	return nil
}

// SaveRound stores a resolved round and its orders in one transaction.
func (r *MatchRepo) SaveRound(ctx context.Context, matchID string, number int, stateAfter json.RawMessage, orders []model.Order) (*model.Round, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rd := model.Round{MatchID: matchID, Number: number, StateAfter: stateAfter}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO rounds (match_id, number, state_after)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		matchID, number, []byte(stateAfter),
	).Scan(&rd.ID, &rd.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert round: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO orders (round_id, player, kind, from_territory, to_territory, armies, outcome)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert order: %w", err)
	}
	defer stmt.Close()

	for _, o := range orders {
		_, err := stmt.ExecContext(ctx, rd.ID, o.Player, o.Kind, nullInt(o.From), o.To, o.Armies, nullStr(o.Outcome))
		if err != nil {
			return nil, fmt.Errorf("insert order: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit round: %w", err)
	}
	return &rd, nil
}

// FinishMatch marks a match finished with its winner ("" for a draw).
func (r *MatchRepo) FinishMatch(ctx context.Context, matchID, winner string, rounds int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE matches SET status = 'finished', winner = $2, rounds = $3, finished_at = now()
		 WHERE id = $1`,
		matchID, nullStr(winner), rounds)
	if err != nil {
		return fmt.Errorf("finish match: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish match %s: not found", matchID)
	}
	return nil
}

// FindMatch returns a match by ID, or nil if it does not exist.
func (r *MatchRepo) FindMatch(ctx context.Context, id string) (*model.Match, error) {
	var m model.Match
	var winner sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, player1, player2, status, winner, rounds, seed, created_at, finished_at
		 FROM matches WHERE id = $1`, id,
	).Scan(&m.ID, &m.Player1, &m.Player2, &m.Status, &winner, &m.Rounds, &m.Seed, &m.CreatedAt, &m.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find match: %w", err)
	}
	m.Winner = winner.String
	return &m, nil
}

// ListRounds returns the rounds of a match in play order.
func (r *MatchRepo) ListRounds(ctx context.Context, matchID string) ([]model.Round, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, match_id, number, state_after, created_at
		 FROM rounds WHERE match_id = $1 ORDER BY number`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var rounds []model.Round
	for rows.Next() {
		var rd model.Round
		var state []byte
		if err := rows.Scan(&rd.ID, &rd.MatchID, &rd.Number, &state, &rd.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		rd.StateAfter = json.RawMessage(state)
		rounds = append(rounds, rd)
	}
	return rounds, rows.Err()
}

// OrdersByRound returns the orders of a round in the order they were issued.
func (r *MatchRepo) OrdersByRound(ctx context.Context, roundID string) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, round_id, player, kind, from_territory, to_territory, armies, outcome, created_at
		 FROM orders WHERE round_id = $1 ORDER BY seq`, roundID)
	if err != nil {
		return nil, fmt.Errorf("orders by round: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		var from sql.NullInt64
		var outcome sql.NullString
		if err := rows.Scan(&o.ID, &o.RoundID, &o.Player, &o.Kind, &from, &o.To, &o.Armies, &outcome, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.From = int(from.Int64)
		o.Outcome = outcome.String
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ListFinished returns the most recently finished matches.
func (r *MatchRepo) ListFinished(ctx context.Context, limit int) ([]model.Match, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, player1, player2, status, winner, rounds, seed, created_at, finished_at
		 FROM matches WHERE status = 'finished' ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list finished matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		var m model.Match
		var winner sql.NullString
		if err := rows.Scan(&m.ID, &m.Player1, &m.Player2, &m.Status, &winner, &m.Rounds, &m.Seed, &m.CreatedAt, &m.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.Winner = winner.String
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(n int) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}
