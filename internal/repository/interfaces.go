package repository

import (
	"context"
	"encoding/json"

	"github.com/CarloMagno/Warlight/internal/model"
)

// MatchRepository defines match history operations.
type MatchRepository interface {
	CreateMatch(ctx context.Context, m *model.Match) error
	SaveRound(ctx context.Context, matchID string, number int, stateAfter json.RawMessage, orders []model.Order) (*model.Round, error)
	FinishMatch(ctx context.Context, matchID, winner string, rounds int) error
	FindMatch(ctx context.Context, id string) (*model.Match, error)
	ListRounds(ctx context.Context, matchID string) ([]model.Round, error)
	OrdersByRound(ctx context.Context, roundID string) ([]model.Order, error)
	ListFinished(ctx context.Context, limit int) ([]model.Match, error)
}

// MatchCache defines live match state operations (Redis).
type MatchCache interface {
	SetRoundState(ctx context.Context, matchID string, state json.RawMessage) error
	GetRoundState(ctx context.Context, matchID string) (json.RawMessage, error)
	SetOrders(ctx context.Context, matchID, player string, orders json.RawMessage) error
	GetOrders(ctx context.Context, matchID, player string) (json.RawMessage, error)
	MarkActive(ctx context.Context, matchID string) error
	ActiveMatches(ctx context.Context) ([]string, error)
	DeleteMatchData(ctx context.Context, matchID string, players []string) error
}
