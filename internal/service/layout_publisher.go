package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/config"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	ws "github.com/quizforge/quiz-cms-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
)

// LayoutPublisher announces persisted field changes to editors of a step.
type LayoutPublisher interface {
	PublishLayout(ctx context.Context, ev ws.LayoutEvent) error
}

// RedisLayoutPublisher fans layout events out over Redis PubSub so every
// server instance can relay them to its WebSocket clients.
type RedisLayoutPublisher struct {
	rdb *redis.Client
}

func NewRedisLayoutPublisher(rdb *redis.Client) *RedisLayoutPublisher {
	return &RedisLayoutPublisher{rdb: rdb}
}

func (p *RedisLayoutPublisher) PublishLayout(ctx context.Context, ev ws.LayoutEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal layout event: %w", err)
	}
	return p.rdb.Publish(ctx, config.CacheKey.StepLayoutChannel(ev.StepID), payload).Err()
}

func layoutEvent(change ws.LayoutChange, stepID, fieldID uuid.UUID, pos model.GridPosition) ws.LayoutEvent {
	return ws.LayoutEvent{
		Event:   ws.EventLayout,
		Change:  change,
		StepID:  stepID.String(),
		FieldID: fieldID.String(),
		Row:     pos.Row,
		Col:     pos.Col,
		RowSpan: pos.RowSpan,
		ColSpan: pos.ColSpan,
	}
}
