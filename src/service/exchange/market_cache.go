package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/altcoin-autosell/src/model"
	"time"
)

type MarketCacheInterface interface {
	SaveMarkets(exchange string, markets map[string]map[string]*model.Market) error
}

// RedisMarketCache exposes the latest price windows to operators. Entries
// expire and are never read back by the bot.
type RedisMarketCache struct {
	RDB *redis.Client
	Ctx *context.Context
	TTL time.Duration
}

func GetMarketCacheKey(exchange string, source string, target string) string {
	return fmt.Sprintf("market-%s-%s-%s", exchange, source, target)
}

func (r *RedisMarketCache) SaveMarkets(exchange string, markets map[string]map[string]*model.Market) error {
	_, err := r.RDB.Pipelined(*r.Ctx, func(pipe redis.Pipeliner) error {
		for source, targets := range markets {
			for target, market := range targets {
				encoded, err := json.Marshal(market.Snapshot())
				if err != nil {
					return err
				}
				pipe.Set(*r.Ctx, GetMarketCacheKey(exchange, source, target), string(encoded), r.TTL)
			}
		}

		return nil
	})

	return err
}
