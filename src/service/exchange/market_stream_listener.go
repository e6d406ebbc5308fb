package exchange

import (
	"context"
	"gitlab.com/open-soft/altcoin-autosell/src/client"
	"gitlab.com/open-soft/altcoin-autosell/src/model"
	"gitlab.com/open-soft/altcoin-autosell/src/utils"
	"log"
	"sync"
	"time"
)

type MiniTickerConsumerInterface interface {
	client.ExchangeNameInterface
	ApplyMiniTickers(message []byte) (int, error)
	SampleMarkets() int
	GetMarkets() map[string]map[string]*model.Market
}

// MarketStreamListener replaces the polling refresher for venues with a
// ticker stream. Frames only update the latest tickers, the windows are
// sampled every Interval like the refresher does.
type MarketStreamListener struct {
	Exchange     MiniTickerConsumerInterface
	Address      string
	StreamClient client.StreamListenerInterface
	Interval     time.Duration
	MarketCache  MarketCacheInterface
	TimeService  utils.TimeServiceInterface
}

func (l *MarketStreamListener) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.Run(ctx)
	}()
}

func (l *MarketStreamListener) Run(ctx context.Context) {
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	log.Printf("[%s] Market stream is started: %s, interval %s", l.Exchange.GetName(), l.Address, interval)

	var stream sync.WaitGroup
	stream.Add(1)
	go func() {
		defer stream.Done()
		l.StreamClient.Listen(ctx, l.Address, l.OnMessage)
	}()

	for l.TimeService.Wait(ctx, interval) {
		l.Sample()
	}

	stream.Wait()
	log.Printf("[%s] Market stream is stopped", l.Exchange.GetName())
}

// OnMessage is called from the stream goroutine only.
func (l *MarketStreamListener) OnMessage(message []byte) {
	if _, err := l.Exchange.ApplyMiniTickers(message); err != nil {
		log.Printf("[%s] Market stream: %s", l.Exchange.GetName(), err.Error())
	}
}

// Sample pushes one price per market into the windows and publishes them.
func (l *MarketStreamListener) Sample() int {
	sampled := l.Exchange.SampleMarkets()

	if l.MarketCache != nil {
		if err := l.MarketCache.SaveMarkets(l.Exchange.GetName(), l.Exchange.GetMarkets()); err != nil {
			log.Printf("[%s] Market cache: %s", l.Exchange.GetName(), err.Error())
		}
	}

	return sampled
}
