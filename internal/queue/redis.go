package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/saisaravanan/judgeboard/internal/config"
	"github.com/saisaravanan/judgeboard/internal/domain"
)

// RedisQueue carries freshly produced evaluation records from the API
// to the ingest worker over a Redis stream with a consumer group.
type RedisQueue struct {
	client *redis.Client
	stream string
	group  string
	name   string
}

func NewRedisQueue(cfg *config.RedisConfig, workerCfg *config.WorkerConfig) (*RedisQueue, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	q := &RedisQueue{
		client: client,
		stream: workerCfg.StreamName,
		group:  workerCfg.ConsumerGroup,
		name:   workerCfg.ConsumerName,
	}

	// BUSYGROUP means another instance created the group first.
	err := client.XGroupCreateMkStream(ctx, q.stream, q.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		client.Close()
		return nil, fmt.Errorf("create consumer group: %w", err)
	}

	return q, nil
}

// Publish enqueues a single record.
func (q *RedisQueue) Publish(ctx context.Context, eval *domain.EvaluationRecord) error {
	return q.PublishBatch(ctx, []*domain.EvaluationRecord{eval})
}

// PublishBatch enqueues records in one pipelined round trip.
func (q *RedisQueue) PublishBatch(ctx context.Context, evals []*domain.EvaluationRecord) error {
	pipe := q.client.Pipeline()

	for _, eval := range evals {
		values, err := streamValues(eval)
		if err != nil {
			return err
		}
		pipe.XAdd(ctx, &redis.XAddArgs{Stream: q.stream, Values: values})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipeline exec: %w", err)
	}

	return nil
}

// judge_id rides alongside the JSON payload so stream entries can be
// inspected per judge without decoding.
func streamValues(eval *domain.EvaluationRecord) (map[string]interface{}, error) {
	data, err := json.Marshal(eval)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", eval.ID, err)
	}
	return map[string]interface{}{
		"judge_id": eval.JudgeID,
		"data":     string(data),
	}, nil
}

// Message pairs a stream entry id with its decoded record.
type Message struct {
	ID         string
	Evaluation *domain.EvaluationRecord
}

// Consume reads up to count pending entries for this consumer, blocking
// up to block. An empty poll returns (nil, nil).
func (q *RedisQueue) Consume(ctx context.Context, count int64, block time.Duration) ([]Message, error) {
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.group,
		Consumer: q.name,
		Streams:  []string{q.stream, ">"},
		Count:    count,
		Block:    block,
	}).Result()

	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("xreadgroup: %w", err)
	}

	var messages []Message
	for _, stream := range streams {
		for _, entry := range stream.Messages {
			if msg, ok := decodeMessage(entry); ok {
				messages = append(messages, msg)
			}
		}
	}

	return messages, nil
}

// Malformed entries are skipped rather than wedging the consumer.
func decodeMessage(entry redis.XMessage) (Message, bool) {
	data, ok := entry.Values["data"].(string)
	if !ok {
		return Message{}, false
	}

	var eval domain.EvaluationRecord
	if err := json.Unmarshal([]byte(data), &eval); err != nil {
		return Message{}, false
	}

	return Message{ID: entry.ID, Evaluation: &eval}, true
}

func (q *RedisQueue) Ack(ctx context.Context, messageIDs ...string) error {
	if len(messageIDs) == 0 {
		return nil
	}

	if err := q.client.XAck(ctx, q.stream, q.group, messageIDs...).Err(); err != nil {
		return fmt.Errorf("xack: %w", err)
	}

	return nil
}

// Len reports the stream depth for the health endpoint.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.XLen(ctx, q.stream).Result()
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}
