package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL  = time.Minute
	redisPingTimeout = 5 * time.Second
	defaultRedisHost = "127.0.0.1"
	defaultRedisPort = "6379"
)

// redisSettings is what the plan cache needs from CacheConfig: where to connect and how long
// plan inputs stay fresh.
type redisSettings struct {
	options *redis.Options
	ttl     time.Duration
}

func newRedisSettings(cfg config.CacheConfig) (redisSettings, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return redisSettings{}, err
	}
	return redisSettings{options: opts, ttl: planCacheTTL(cfg.TTLSeconds)}, nil
}

// redisOptions prefers REDIS_URL. REDIS_PASSWORD fills in a URL that carries none.
func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		if opts.Password == "" {
			opts.Password = cfg.RedisPassword
		}
		return opts, nil
	}

	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = defaultRedisHost
	}
	if port == "" {
		port = defaultRedisPort
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func planCacheTTL(seconds int) time.Duration {
	if seconds <= 0 {
		return defaultCacheTTL
	}
	return time.Duration(seconds) * time.Second
}

func dialRedis(settings redisSettings) (*redis.Client, error) {
	client := redis.NewClient(settings.options)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s failed: %w", settings.options.Addr, err)
	}
	return client, nil
}

// unlinkMatching removes every key matching pattern, batch keys per UNLINK, and reports how
// many were removed.
func unlinkMatching(ctx context.Context, client *redis.Client, pattern string, batch int) (int, error) {
	if batch <= 0 {
		batch = plannerScanBatch
	}

	removed := 0
	keys := make([]string, 0, batch)
	flush := func() error {
		if len(keys) == 0 {
			return nil
		}
		n, err := client.Unlink(ctx, keys...).Result()
		if err != nil {
			return fmt.Errorf("redis unlink failed: %w", err)
		}
		removed += int(n)
		keys = keys[:0]
		return nil
	}

	iter := client.Scan(ctx, 0, pattern, int64(batch)).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == batch {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan failed: %w", err)
	}

	return removed, flush()
}
