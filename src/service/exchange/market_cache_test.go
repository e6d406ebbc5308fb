package exchange_test

import (
	"context"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"gitlab.com/open-soft/altcoin-autosell/src/model"
	"gitlab.com/open-soft/altcoin-autosell/src/service/exchange"
	"testing"
	"time"
)

func TestMarketCacheKey(t *testing.T) {
	assertion := assert.New(t)

	assertion.Equal("market-Cryptsy-DOGE-BTC", exchange.GetMarketCacheKey("Cryptsy", "DOGE", "BTC"))
}

func TestMarketCacheReportsUnreachableRedis(t *testing.T) {
	assertion := assert.New(t)

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	cache := exchange.RedisMarketCache{
		RDB: rdb,
		Ctx: &ctx,
		TTL: 15 * time.Second,
	}

	err := cache.SaveMarkets("Cryptsy", map[string]map[string]*model.Market{
		"DOGE": {"BTC": newMarket("132", "DOGE", "BTC", false)},
	})
	assertion.NotNil(err)
}
