package client

import (
	"gitlab.com/open-soft/altcoin-autosell/src/model"
)

type ExchangeNameInterface interface {
	GetName() string
}

type MarketRefresherInterface interface {
	ExchangeNameInterface
	RefreshMarkets() error
	GetMarkets() map[string]map[string]*model.Market
}

// ExchangeAPIInterface is implemented once per venue. Every returned error
// is a *model.ExchangeError.
type ExchangeAPIInterface interface {
	MarketRefresherInterface
	GetCurrencies() []string
	GetBalances() (map[string]float64, error)
	GetPublicOrders(market *model.Market) (model.OrderBook, error)
	CreateOrder(market *model.Market, isBuy bool, amount float64, price float64) (model.Order, error)
}
