package model_test

import (
	"github.com/stretchr/testify/assert"
	"gitlab.com/open-soft/altcoin-autosell/src/model"
	"sync"
	"testing"
)

func TestNewPriceWindowIsUnknown(t *testing.T) {
	assertion := assert.New(t)

	window := model.NewPriceWindow()
	for _, price := range window {
		assertion.Equal(model.PriceUnknown, price)
	}
	assertion.True(window.IsFlat())
}

func TestPriceWindowPushShiftsAndDropsOldest(t *testing.T) {
	assertion := assert.New(t)

	window := model.PriceWindow{1, 2, 3, 4, 5, 6}
	pushed := window.Push(0.5)

	assertion.Equal(model.PriceWindow{0.5, 1, 2, 3, 4, 5}, pushed)
	assertion.Equal(model.PriceWindow{1, 2, 3, 4, 5, 6}, window, "receiver must be untouched")
	assertion.False(pushed.IsFlat())
}

func TestMarketKeepsWindowAndDayHigh(t *testing.T) {
	assertion := assert.New(t)

	market := model.NewMarket("3", "LTC", "BTC", false, 0)
	assertion.Equal(model.DefaultTradeMinimum, market.GetTradeMinimum())
	assertion.Equal("LTC/BTC", market.GetSymbol())

	market.PushPrice(0.025, 0.026)
	market.PushPrice(0.024, 0.027)

	snapshot := market.Snapshot()
	assertion.Equal("LTC", snapshot.SourceCurrency)
	assertion.Equal("BTC", snapshot.TargetCurrency)
	assertion.Equal(0.024, snapshot.GetLastPrice())
	assertion.Equal(0.025, snapshot.Prices[1])
	assertion.Equal(model.PriceUnknown, snapshot.Prices[2])
	assertion.Equal(0.027, snapshot.DayHigh)
	assertion.Equal(0.027, market.GetDayHigh())
}

func TestMarketSnapshotIsConsistentUnderConcurrentPush(t *testing.T) {
	assertion := assert.New(t)

	market := model.NewMarket("1", "DOGE", "BTC", false, 0)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 1; i <= 1000; i++ {
			market.PushPrice(float64(i), float64(i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snapshot := market.Snapshot()
			if snapshot.Prices[0] > 0 {
				assertion.Equal(snapshot.Prices[0], snapshot.DayHigh)
			}
		}
	}()
	wg.Wait()

	assertion.Equal(1000.00, market.GetPrices()[0])
}

func TestMarketBookAppliesForwardAndReciprocal(t *testing.T) {
	assertion := assert.New(t)

	book := model.NewMarketBook()
	book.Apply(model.MarketSummary{
		MarketId:            "3",
		PrimaryCurrency:     "LTC",
		SecondaryCurrency:   "BTC",
		LastPrice:           0.025,
		DayHigh:             0.02,
		TradeMinimum:        0.1,
		ReverseTradeMinimum: 0,
	})

	forward, ok := book.GetMarket("LTC", "BTC")
	assertion.True(ok)
	assertion.False(forward.Reverse)
	assertion.Equal("3", forward.MarketId)
	assertion.Equal(0.1, forward.GetTradeMinimum())
	assertion.Equal(0.025, forward.GetPrices()[0])
	assertion.Equal(0.02, forward.GetDayHigh())

	reverse, ok := book.GetMarket("BTC", "LTC")
	assertion.True(ok)
	assertion.True(reverse.Reverse)
	assertion.Equal("3", reverse.MarketId)
	assertion.Equal(model.DefaultTradeMinimum, reverse.GetTradeMinimum())
	assertion.InDelta(40.0, reverse.GetPrices()[0], 1e-9)
	assertion.InDelta(50.0, reverse.GetDayHigh(), 1e-9)

	assertion.Equal(2, book.Len())
	assertion.Equal([]string{"BTC", "LTC"}, book.GetCurrencies())
}

func TestMarketBookZeroPriceHasZeroReciprocal(t *testing.T) {
	assertion := assert.New(t)

	book := model.NewMarketBook()
	book.Apply(model.MarketSummary{
		MarketId:          "28",
		PrimaryCurrency:   "Points",
		SecondaryCurrency: "BTC",
		LastPrice:         0,
		DayHigh:           0,
	})

	reverse, ok := book.GetMarket("BTC", "Points")
	assertion.True(ok)
	assertion.Equal(0.00, reverse.GetPrices()[0])
	assertion.Equal(0.00, reverse.GetDayHigh())
	assertion.Equal(0.00, model.Reciprocal(-1))
}

func TestMarketBookKeepsWindowAndAddsNewPairs(t *testing.T) {
	assertion := assert.New(t)

	book := model.NewMarketBook()
	book.Apply(model.MarketSummary{MarketId: "3", PrimaryCurrency: "LTC", SecondaryCurrency: "BTC", LastPrice: 0.025, DayHigh: 0.026})

	markets := book.GetMarkets()
	before := markets["LTC"]["BTC"]

	book.Apply(model.MarketSummary{MarketId: "3", PrimaryCurrency: "LTC", SecondaryCurrency: "BTC", LastPrice: 0.024, DayHigh: 0.026})
	book.Apply(model.MarketSummary{MarketId: "132", PrimaryCurrency: "DOGE", SecondaryCurrency: "BTC", LastPrice: 0.0000005, DayHigh: 0.0000006})

	after, ok := book.GetMarket("LTC", "BTC")
	assertion.True(ok)
	assertion.Same(before, after)
	assertion.Equal(model.PriceWindow{0.024, 0.025, -1, -1, -1, -1}, after.GetPrices())

	assertion.Len(markets, 2, "copied index must not see markets added later")
	assertion.Len(book.GetMarkets(), 3)

	doge, ok := book.GetMarket("DOGE", "BTC")
	assertion.True(ok)
	assertion.Equal(model.PriceWindow{0.0000005, -1, -1, -1, -1, -1}, doge.GetPrices())
}
