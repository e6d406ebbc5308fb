package model

import (
	"sort"
	"sync"
)

// MarketSummary is a venue pair as reported by a market listing:
// primary currency priced in secondary currency.
type MarketSummary struct {
	MarketId            string
	PrimaryCurrency     string
	SecondaryCurrency   string
	LastPrice           float64
	DayHigh             float64
	TradeMinimum        float64
	ReverseTradeMinimum float64
}

func Reciprocal(value float64) float64 {
	if value <= 0 {
		return 0.00
	}

	return 1 / value
}

type MarketBook struct {
	lock    sync.RWMutex
	markets map[string]map[string]*Market
}

func NewMarketBook() *MarketBook {
	return &MarketBook{
		markets: make(map[string]map[string]*Market),
	}
}

// Apply pushes the summary prices into the forward market and the
// reciprocal prices into the reverse market, creating either one when the
// pair was not listed before.
func (b *MarketBook) Apply(summary MarketSummary) {
	forward := b.getOrCreate(
		summary.MarketId,
		summary.PrimaryCurrency,
		summary.SecondaryCurrency,
		false,
		summary.TradeMinimum,
	)
	forward.PushPrice(summary.LastPrice, summary.DayHigh)

	reverse := b.getOrCreate(
		summary.MarketId,
		summary.SecondaryCurrency,
		summary.PrimaryCurrency,
		true,
		summary.ReverseTradeMinimum,
	)
	reverse.PushPrice(Reciprocal(summary.LastPrice), Reciprocal(summary.DayHigh))
}

func (b *MarketBook) getOrCreate(marketId string, source string, target string, reverse bool, tradeMinimum float64) *Market {
	b.lock.RLock()
	market, ok := b.markets[source][target]
	b.lock.RUnlock()

	if ok {
		return market
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if market, ok = b.markets[source][target]; ok {
		return market
	}

	if _, ok = b.markets[source]; !ok {
		b.markets[source] = make(map[string]*Market)
	}

	market = NewMarket(marketId, source, target, reverse, tradeMinimum)
	b.markets[source][target] = market

	return market
}

func (b *MarketBook) GetMarket(source string, target string) (*Market, bool) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	market, ok := b.markets[source][target]

	return market, ok
}

// GetMarkets returns a copy of the index, market pointers are shared.
func (b *MarketBook) GetMarkets() map[string]map[string]*Market {
	b.lock.RLock()
	defer b.lock.RUnlock()

	markets := make(map[string]map[string]*Market, len(b.markets))
	for source, targets := range b.markets {
		copied := make(map[string]*Market, len(targets))
		for target, market := range targets {
			copied[target] = market
		}
		markets[source] = copied
	}

	return markets
}

func (b *MarketBook) GetCurrencies() []string {
	b.lock.RLock()
	defer b.lock.RUnlock()

	currencies := make([]string, 0, len(b.markets))
	for currency := range b.markets {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	return currencies
}

func (b *MarketBook) Len() int {
	b.lock.RLock()
	defer b.lock.RUnlock()

	count := 0
	for _, targets := range b.markets {
		count += len(targets)
	}

	return count
}
