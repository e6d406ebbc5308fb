package exchange_test

import (
	"context"
	"github.com/stretchr/testify/mock"
	"gitlab.com/open-soft/altcoin-autosell/src/model"
	"sync"
	"time"
)

type ExchangeAPIMock struct {
	mock.Mock
	Name    string
	Markets map[string]map[string]*model.Market
}

func (m *ExchangeAPIMock) GetName() string {
	return m.Name
}
func (m *ExchangeAPIMock) GetMarkets() map[string]map[string]*model.Market {
	return m.Markets
}
func (m *ExchangeAPIMock) GetCurrencies() []string {
	currencies := make([]string, 0)
	for currency := range m.Markets {
		currencies = append(currencies, currency)
	}
	return currencies
}
func (m *ExchangeAPIMock) RefreshMarkets() error {
	args := m.Called()
	return args.Error(0)
}
func (m *ExchangeAPIMock) GetBalances() (map[string]float64, error) {
	args := m.Called()
	return args.Get(0).(map[string]float64), args.Error(1)
}
func (m *ExchangeAPIMock) GetPublicOrders(market *model.Market) (model.OrderBook, error) {
	args := m.Called(market)
	return args.Get(0).(model.OrderBook), args.Error(1)
}
func (m *ExchangeAPIMock) CreateOrder(market *model.Market, isBuy bool, amount float64, price float64) (model.Order, error) {
	args := m.Called(market, isBuy, amount, price)
	return args.Get(0).(model.Order), args.Error(1)
}

type MiniTickerConsumerMock struct {
	mock.Mock
	Markets map[string]map[string]*model.Market
}

func (m *MiniTickerConsumerMock) GetName() string {
	return "Binance"
}
func (m *MiniTickerConsumerMock) ApplyMiniTickers(message []byte) (int, error) {
	args := m.Called(message)
	return args.Int(0), args.Error(1)
}
func (m *MiniTickerConsumerMock) SampleMarkets() int {
	args := m.Called()
	return args.Int(0)
}
func (m *MiniTickerConsumerMock) GetMarkets() map[string]map[string]*model.Market {
	return m.Markets
}

type SellStrategyMock struct {
	mock.Mock
}

func (m *SellStrategyMock) ShouldSell(balance float64, market model.MarketSnapshot) bool {
	args := m.Called(balance, market.SourceCurrency, market.TargetCurrency)
	return args.Bool(0)
}

type MarketCacheMock struct {
	mock.Mock
}

func (m *MarketCacheMock) SaveMarkets(exchange string, markets map[string]map[string]*model.Market) error {
	args := m.Called(exchange, markets)
	return args.Error(0)
}

// TimeServiceStub never sleeps. Wait succeeds Waits times (unlimited when
// negative) while ctx is alive.
type TimeServiceStub struct {
	lock   sync.Mutex
	Now    int64
	Waits  int
	Delays []time.Duration
}

func (t *TimeServiceStub) Wait(ctx context.Context, duration time.Duration) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.Delays = append(t.Delays, duration)
	if ctx.Err() != nil {
		return false
	}

	if t.Waits == 0 {
		return false
	}
	if t.Waits > 0 {
		t.Waits--
	}

	return true
}
func (t *TimeServiceStub) GetNowUnix() int64 {
	return t.Now
}
func (t *TimeServiceStub) GetNowUnixMilli() int64 {
	return t.Now * 1000
}

type StreamClientStub struct {
	Messages [][]byte
	Address  string
}

func (s *StreamClientStub) Listen(ctx context.Context, address string, onMessage func(message []byte)) {
	s.Address = address
	for _, message := range s.Messages {
		if ctx.Err() != nil {
			return
		}
		onMessage(message)
	}
}

func newMarket(id string, source string, target string, reverse bool) *model.Market {
	market := model.NewMarket(id, source, target, reverse, 0)
	market.PushPrice(0.0000005, 0.000001)

	return market
}

func bidsAt(prices ...float64) model.OrderBook {
	book := model.OrderBook{Bids: make([]model.Order, 0), Asks: make([]model.Order, 0)}
	for _, price := range prices {
		book.Bids = append(book.Bids, model.Order{OrderId: model.OrderIdUnknown, IsBuy: true, Amount: 100, Price: price})
	}

	return book
}
