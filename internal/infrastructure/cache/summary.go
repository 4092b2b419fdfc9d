package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"chapter-fund-ledger/internal/domain/ledger"
	"chapter-fund-ledger/internal/domain/ledgerevent"
	"chapter-fund-ledger/internal/infrastructure/logger"
)

var _ ledgerevent.Publisher = (*SummaryCache)(nil)

// loadTimeout bounds a shared summary load once it is detached from the
// request that started it.
const loadTimeout = 10 * time.Second

// SummaryCache keeps each club's fund summary in Redis for a short TTL.
// Concurrent misses for the same key share one load. Redis failures degrade
// to loading from the database.
type SummaryCache struct {
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group
	log   *logger.Logger
}

func NewSummaryCache(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *SummaryCache {
	if log == nil {
		log = logger.Nop()
	}
	return &SummaryCache{rdb: rdb, ttl: ttl, log: log.WithComponent(logger.ComponentCache)}
}

func summaryKey(clubID string, scope ledger.DonationScope) string {
	return "ledger:summary:" + clubID + ":" + string(scope)
}

func (c *SummaryCache) GetOrLoad(ctx context.Context, clubID string, scope ledger.DonationScope, load func(context.Context) (ledger.FundSummary, error)) (ledger.FundSummary, error) {
	key := summaryKey(clubID, scope)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var s ledger.FundSummary
		if jerr := json.Unmarshal(raw, &s); jerr == nil {
			return s, nil
		}
	case !errors.Is(err, redis.Nil):
		c.log.WarnContext(ctx, "summary cache read failed", logger.FieldClubID, clubID, logger.FieldError, err)
	}

	// The shared load outlives any one caller; each caller still stops
	// waiting when its own context ends.
	ch := c.group.DoChan(key, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		s, err := load(lctx)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(s)
		if err == nil {
			err = c.rdb.Set(lctx, key, payload, c.ttl).Err()
		}
		if err != nil {
			c.log.WarnContext(lctx, "summary cache write failed", logger.FieldClubID, clubID, logger.FieldError, err)
		}
		return s, nil
	})
	select {
	case <-ctx.Done():
		return ledger.FundSummary{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return ledger.FundSummary{}, res.Err
		}
		return res.Val.(ledger.FundSummary), nil
	}
}

// Invalidate drops every cached summary of the club.
func (c *SummaryCache) Invalidate(ctx context.Context, clubID string) error {
	return c.rdb.Del(ctx, summaryKey(clubID, ledger.ScopeApproved), summaryKey(clubID, ledger.ScopeAll)).Err()
}

// Publish invalidates the club's summary on any ledger change.
func (c *SummaryCache) Publish(ctx context.Context, e ledgerevent.Event) error {
	return c.Invalidate(ctx, e.ClubID)
}
