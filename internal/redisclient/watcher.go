package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/mohit83k/radiusd/internal/logger"
	"github.com/mohit83k/radiusd/internal/model"
)

// AccountingWatcher tails keyspace SET events and logs every accounting
// record written by the acct_store plugin. The server must run with
// notify-keyspace-events containing "E$".
type AccountingWatcher struct {
	client *redis.Client
	log    logger.Logger
}

// NewAccountingWatcher returns a watcher on client.
func NewAccountingWatcher(client *redis.Client, log logger.Logger) *AccountingWatcher {
	return &AccountingWatcher{client: client, log: log}
}

// Run blocks until ctx is cancelled.
func (w *AccountingWatcher) Run(ctx context.Context) error {
	pubsub := w.client.PSubscribe(ctx, "__keyevent@*__:set")
	defer pubsub.Close()

	w.log.Info("Started Redis subscriber for SET events")
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Shutting down Redis subscriber")
			return nil
		case msg, ok := <-ch:
			if !ok {
				return errors.New("redis subscription closed")
			}
			w.handleEvent(ctx, msg.Payload)
		}
	}
}

func (w *AccountingWatcher) handleEvent(ctx context.Context, key string) {
	if !strings.HasPrefix(key, AccountingKeyPrefix) {
		return
	}

	raw, err := w.client.Get(ctx, key).Result()
	if err != nil {
		w.log.WithFields(map[string]any{"key": key}).Error(fmt.Errorf("failed to read accounting record: %w", err))
		return
	}

	var rec model.AccountingRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		w.log.WithFields(map[string]any{"key": key}).Error(fmt.Errorf("failed to decode accounting record: %w", err))
		return
	}

	w.log.WithFields(map[string]any{
		"key":      key,
		"username": rec.Username,
		"status":   rec.AcctStatusType,
		"session":  rec.AcctSessionID,
		"client":   rec.ClientIP,
	}).Info("Received update for RADIUS accounting key")
}
