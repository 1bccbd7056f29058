package negotiation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	transcriptKeyPrefix = "negotiation_transcript:"
	transcriptTTL       = 24 * time.Hour
)

// TranscriptStore mirrors in-flight negotiation turns into Redis so a live
// transcript can be inspected while a run is in progress. The durable copy
// lives in the interaction log; this cache expires on its own.
type TranscriptStore struct {
	redis    *redis.Client
	tracer   trace.Tracer
	maxTurns int64
}

// NewTranscriptStore creates the Redis-backed transcript mirror. A nil
// client yields a nil store, and all methods on a nil store are no-ops.
func NewTranscriptStore(redisClient *redis.Client) *TranscriptStore {
	if redisClient == nil {
		return nil
	}
	return &TranscriptStore{
		redis:    redisClient,
		tracer:   otel.Tracer("quickcare.internal.negotiation.transcript"),
		maxTurns: 50,
	}
}

// Append records one turn under the negotiation id.
func (s *TranscriptStore) Append(ctx context.Context, negotiationID string, turn Turn) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if negotiationID == "" {
		return errors.New("negotiation: transcript negotiationID required")
	}

	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("negotiation: marshal transcript turn: %w", err)
	}

	ctx, span := s.tracer.Start(ctx, "negotiation.transcript.append")
	defer span.End()

	key := transcriptKey(negotiationID)
	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, transcriptTTL)
	if s.maxTurns > 0 {
		pipe.LTrim(ctx, key, -s.maxTurns, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("negotiation: append transcript turn: %w", err)
	}
	return nil
}

// List returns the turns recorded so far for a negotiation, oldest first.
func (s *TranscriptStore) List(ctx context.Context, negotiationID string) ([]Turn, error) {
	if s == nil || s.redis == nil {
		return nil, nil
	}
	if negotiationID == "" {
		return nil, errors.New("negotiation: transcript negotiationID required")
	}

	ctx, span := s.tracer.Start(ctx, "negotiation.transcript.list")
	defer span.End()

	raw, err := s.redis.LRange(ctx, transcriptKey(negotiationID), 0, -1).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("negotiation: list transcript turns: %w", err)
	}

	turns := make([]Turn, 0, len(raw))
	for _, item := range raw {
		var turn Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func transcriptKey(negotiationID string) string {
	return transcriptKeyPrefix + negotiationID
}
