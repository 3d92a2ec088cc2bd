// Gesco | 2026
// redis_test.go

package core

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/gesco-cm/gesco/internal/config"
)

func TestRedisOptions(t *testing.T) {
	c := qt.New(t)

	opts, err := redisOptions(config.RedisConfig{
		URL:          "redis://:secret@localhost:6379/2",
		PoolSize:     20,
		MinIdleConns: 4,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(opts.Addr, qt.Equals, "localhost:6379")
	c.Assert(opts.Password, qt.Equals, "secret")
	c.Assert(opts.DB, qt.Equals, 2)
	c.Assert(opts.PoolSize, qt.Equals, 20)
	c.Assert(opts.MinIdleConns, qt.Equals, 4)
	c.Assert(opts.PoolTimeout, qt.Equals, redisPoolWait)
	c.Assert(opts.ConnMaxIdleTime, qt.Equals, redisIdleExpiry)
}

func TestRedisOptionsBadURL(t *testing.T) {
	c := qt.New(t)

	_, err := redisOptions(config.RedisConfig{URL: "not-a-redis-url"})
	c.Assert(err, qt.ErrorMatches, "parse redis url: .*")
}
