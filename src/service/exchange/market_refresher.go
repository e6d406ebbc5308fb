package exchange

import (
	"context"
	"gitlab.com/open-soft/altcoin-autosell/src/client"
	"gitlab.com/open-soft/altcoin-autosell/src/utils"
	"log"
	"sync"
	"time"
)

const DefaultRefreshInterval = 5 * time.Second

// MarketRefresher is the only writer of its exchange's price windows.
type MarketRefresher struct {
	Exchange    client.MarketRefresherInterface
	Interval    time.Duration
	MarketCache MarketCacheInterface
	TimeService utils.TimeServiceInterface
}

func (r *MarketRefresher) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.Run(ctx)
	}()
}

func (r *MarketRefresher) Run(ctx context.Context) {
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	log.Printf("[%s] Market refresher is started, interval %s", r.Exchange.GetName(), interval)
	for r.TimeService.Wait(ctx, interval) {
		r.Refresh()
	}
	log.Printf("[%s] Market refresher is stopped", r.Exchange.GetName())
}

// Refresh runs one cycle. A failed fetch keeps the previous windows.
func (r *MarketRefresher) Refresh() (refreshed bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Printf("[%s] Market refresh panic: %v", r.Exchange.GetName(), recovered)
			refreshed = false
		}
	}()

	if err := r.Exchange.RefreshMarkets(); err != nil {
		log.Printf("[%s] Failed to refresh markets: %s", r.Exchange.GetName(), err.Error())
		return false
	}

	if r.MarketCache != nil {
		if err := r.MarketCache.SaveMarkets(r.Exchange.GetName(), r.Exchange.GetMarkets()); err != nil {
			log.Printf("[%s] Market cache: %s", r.Exchange.GetName(), err.Error())
		}
	}

	return true
}
