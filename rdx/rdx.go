package rdx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Conn wraps the Redis client used for list caching and event publishing.
// Redis is an accelerator here, never a dependency: every helper degrades to a
// no-op with a log line when Redis is down or unconfigured, so request
// handling keeps working without it.
type Conn struct {
	C *redis.Client
}

func Connect(addr string) *Conn {
	if addr == "" {
		return &Conn{}
	}
	return &Conn{C: redis.NewClient(&redis.Options{Addr: addr})}
}

func (c *Conn) Close() {
	if c != nil && c.C != nil {
		_ = c.C.Close()
	}
}

func (c *Conn) Set(key, value string, ttl time.Duration) {
	if c == nil || c.C == nil {
		return
	}
	if err := c.C.Set(context.Background(), key, value, ttl).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("redis set failed")
	}
}

func (c *Conn) Get(key string) (string, bool) {
	if c == nil || c.C == nil {
		return "", false
	}
	val, err := c.C.Get(context.Background(), key).Result()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).WithField("key", key).Warn("redis get failed")
		}
		return "", false
	}
	return val, true
}

func (c *Conn) Del(keys ...string) {
	if c == nil || c.C == nil || len(keys) == 0 {
		return
	}
	if err := c.C.Del(context.Background(), keys...).Err(); err != nil {
		logrus.WithError(err).Warn("redis del failed")
	}
}

func (c *Conn) Publish(channel string, payload []byte) {
	if c == nil || c.C == nil {
		return
	}
	if err := c.C.Publish(context.Background(), channel, payload).Err(); err != nil {
		logrus.WithError(err).WithField("channel", channel).Warn("redis publish failed")
	}
}
