package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Key patterns for Redis match state.
func stateKey(matchID string) string          { return "match:" + matchID + ":state" }
func ordersKey(matchID, player string) string { return "match:" + matchID + ":orders:" + player }

const activeKey = "matches:active"

// SetRoundState stores the board after the latest resolved round.
func (c *Client) SetRoundState(ctx context.Context, matchID string, state json.RawMessage) error {
	return c.rdb.Set(ctx, stateKey(matchID), []byte(state), c.ttl).Err()
}

// GetRoundState retrieves the latest board, or nil if none is stored.
func (c *Client) GetRoundState(ctx context.Context, matchID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, stateKey(matchID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get round state: %w", err)
	}
	return json.RawMessage(data), nil
}

// SetOrders stores a player's orders for the latest round.
func (c *Client) SetOrders(ctx context.Context, matchID, player string, orders json.RawMessage) error {
	return c.rdb.Set(ctx, ordersKey(matchID, player), []byte(orders), c.ttl).Err()
}

// GetOrders retrieves a player's latest orders, or nil if none are stored.
func (c *Client) GetOrders(ctx context.Context, matchID, player string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, ordersKey(matchID, player)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}
	return json.RawMessage(data), nil
}

// MarkActive adds a match to the set of matches in progress.
func (c *Client) MarkActive(ctx context.Context, matchID string) error {
	return c.rdb.SAdd(ctx, activeKey, matchID).Err()
}

// ActiveMatches returns the IDs of matches in progress.
func (c *Client) ActiveMatches(ctx context.Context) ([]string, error) {
	return c.rdb.SMembers(ctx, activeKey).Result()
}

// DeleteMatchData removes all Redis data for a match (on match end).
func (c *Client) DeleteMatchData(ctx context.Context, matchID string, players []string) error {
	keys := []string{stateKey(matchID)}
	for _, p := range players {
		keys = append(keys, ordersKey(matchID, p))
	}
	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, keys...)
	pipe.SRem(ctx, activeKey, matchID)
	_, err := pipe.Exec(ctx)
	return err
}
