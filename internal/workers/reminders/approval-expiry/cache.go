package approvalexpiry

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"time"

	"approval-reminders/internal/common/database"
	"approval-reminders/internal/common/logger"
	"approval-reminders/internal/common/metrics"
	"approval-reminders/internal/models"

	"github.com/redis/go-redis/v9"
)

// AccountResolver returns the display name for an account reference.
type AccountResolver interface {
	ResolveAccountName(ctx context.Context, uid string) (string, error)
}

// StoreResolver resolves names straight from the record store.
type StoreResolver struct {
	Lookup AccountLookup
}

func (r StoreResolver) ResolveAccountName(ctx context.Context, uid string) (string, error) {
	account, err := r.Lookup.QueryAccountByUID(ctx, uid)
	if err != nil {
		return "", err
	}
	return account.AccountName, nil
}

// CachedResolver is a read-through Redis cache in front of an AccountLookup.
// Cache errors are logged and fall through to the store. Misses are not cached.
type CachedResolver struct {
	lookup AccountLookup
	redis  *database.RedisClient
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

func NewCachedResolver(lookup AccountLookup, rc *database.RedisClient, ttl time.Duration, prefix string, log logger.Logger) *CachedResolver {
	return &CachedResolver{lookup: lookup, redis: rc, ttl: ttl, prefix: prefix, logger: log}
}

func (c *CachedResolver) key(uid string) string {
	return fmt.Sprintf("%s:account:%s", c.prefix, uid)
}

func (c *CachedResolver) ResolveAccountName(ctx context.Context, uid string) (string, error) {
	name, err := c.redis.Get(ctx, c.key(uid))
	switch {
	case err == nil:
		metrics.AccountCacheLookups.WithLabelValues("hit").Inc()
		return name, nil
	case goerrors.Is(err, redis.Nil):
		metrics.AccountCacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.AccountCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("Account cache read failed", map[string]interface{}{
			"uid":   uid,
			"error": err.Error(),
		})
	}

	account, err := c.lookup.QueryAccountByUID(ctx, uid)
	if err != nil {
		return "", err
	}

	if err := c.redis.Set(ctx, c.key(uid), account.AccountName, c.ttl); err != nil {
		c.logger.Warn("Account cache write failed", map[string]interface{}{
			"uid":   uid,
			"error": err.Error(),
		})
	}
	return account.AccountName, nil
}

// LastRunStore keeps the most recent RunSummary in Redis.
type LastRunStore struct {
	redis *database.RedisClient
	key   string
}

func NewLastRunStore(rc *database.RedisClient, prefix string) *LastRunStore {
	return &LastRunStore{redis: rc, key: prefix + ":last_run"}
}

// Record implements SummarySink.
func (l *LastRunStore) Record(ctx context.Context, summary *models.RunSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return l.redis.Set(ctx, l.key, data, 0)
}

// Load returns the stored summary, or nil when no run has been recorded.
func (l *LastRunStore) Load(ctx context.Context) (*models.RunSummary, error) {
	raw, err := l.redis.Get(ctx, l.key)
	if goerrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var summary models.RunSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, fmt.Errorf("decode last run: %w", err)
	}
	return &summary, nil
}

func (l *LastRunStore) Name() string {
	return "redis"
}
