package notifier

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const subscribersKey = "notify:subscribers"

// SubscriberStore keeps the Telegram chat ids that opted in to broadcasts.
// Redis so the set survives worker restarts and is shared if the worker is
// ever scaled out.
type SubscriberStore struct {
	client *redis.Client
}

func NewSubscriberStore(addr, password string, db int) *SubscriberStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &SubscriberStore{client: rdb}
}

func (s *SubscriberStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SubscriberStore) Add(ctx context.Context, chatID int64) error {
	return s.client.SAdd(ctx, subscribersKey, strconv.FormatInt(chatID, 10)).Err()
}

func (s *SubscriberStore) Remove(ctx context.Context, chatID int64) error {
	return s.client.SRem(ctx, subscribersKey, strconv.FormatInt(chatID, 10)).Err()
}

func (s *SubscriberStore) List(ctx context.Context) ([]int64, error) {
	vals, err := s.client.SMembers(ctx, subscribersKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(vals))
	for _, v := range vals {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}
