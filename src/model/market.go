package model

import (
	"fmt"
	"sync"
)

const PriceWindowSize = 6
const PriceUnknown = -1.00
const DefaultTradeMinimum = 0.0000001

type PriceWindow [PriceWindowSize]float64

func NewPriceWindow() PriceWindow {
	var window PriceWindow
	for i := range window {
		window[i] = PriceUnknown
	}

	return window
}

// Push returns a window starting with price followed by the previous
// entries, the oldest one dropped.
func (w PriceWindow) Push(price float64) PriceWindow {
	var window PriceWindow
	window[0] = price
	copy(window[1:], w[:PriceWindowSize-1])

	return window
}

func (w PriceWindow) IsFlat() bool {
	for i := 1; i < PriceWindowSize; i++ {
		if w[i] != w[i-1] {
			return false
		}
	}

	return true
}

type MarketSnapshot struct {
	SourceCurrency string      `json:"source"`
	TargetCurrency string      `json:"target"`
	Prices         PriceWindow `json:"prices"`
	DayHigh        float64     `json:"dayHigh"`
	TradeMinimum   float64     `json:"tradeMinimum"`
}

func (s MarketSnapshot) GetLastPrice() float64 {
	return s.Prices[0]
}

// Market is one tradable pair of one exchange. A reverse market is the
// reciprocal view of a venue pair and stores inverted prices.
type Market struct {
	MarketId       string
	SourceCurrency string
	TargetCurrency string
	Reverse        bool
	TradeMinimum   float64

	lock    sync.RWMutex
	prices  PriceWindow
	dayHigh float64
}

func NewMarket(marketId string, source string, target string, reverse bool, tradeMinimum float64) *Market {
	if tradeMinimum <= 0 {
		tradeMinimum = DefaultTradeMinimum
	}

	return &Market{
		MarketId:       marketId,
		SourceCurrency: source,
		TargetCurrency: target,
		Reverse:        reverse,
		TradeMinimum:   tradeMinimum,
		prices:         NewPriceWindow(),
	}
}

func (m *Market) GetSymbol() string {
	return fmt.Sprintf("%s/%s", m.SourceCurrency, m.TargetCurrency)
}

func (m *Market) GetTradeMinimum() float64 {
	return m.TradeMinimum
}

func (m *Market) PushPrice(price float64, dayHigh float64) {
	m.lock.Lock()
	m.prices = m.prices.Push(price)
	m.dayHigh = dayHigh
	m.lock.Unlock()
}

func (m *Market) GetPrices() PriceWindow {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.prices
}

func (m *Market) GetDayHigh() float64 {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.dayHigh
}

func (m *Market) Snapshot() MarketSnapshot {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return MarketSnapshot{
		SourceCurrency: m.SourceCurrency,
		TargetCurrency: m.TargetCurrency,
		Prices:         m.prices,
		DayHigh:        m.dayHigh,
		TradeMinimum:   m.TradeMinimum,
	}
}
