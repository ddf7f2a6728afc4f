package database

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Redis struct {
	*redis.Client
	prefix string
}

func NewRedisClient(addr string, password string, db int, prefix string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MinIdleConns: 2,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Redis{Client: client, prefix: prefix}, nil
}

// Key joins parts under the configured prefix, e.g. timesheet:session:<id>.
func (r *Redis) Key(parts ...string) string {
	prefix := r.prefix
	if prefix == "" {
		prefix = "timesheet"
	}

	var sb strings.Builder
	sb.WriteString(prefix)
	for _, part := range parts {
		if part != "" {
			sb.WriteString(":")
			sb.WriteString(part)
		}
	}
	return sb.String()
}
