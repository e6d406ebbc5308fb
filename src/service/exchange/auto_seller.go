package exchange

import (
	"context"
	"gitlab.com/open-soft/altcoin-autosell/src/client"
	"gitlab.com/open-soft/altcoin-autosell/src/model"
	"gitlab.com/open-soft/altcoin-autosell/src/service/strategy"
	"gitlab.com/open-soft/altcoin-autosell/src/utils"
	"log"
	"sort"
)

type targetResult int

const (
	// try the next target currency
	targetNext targetResult = iota
	// a sell was attempted (or shutdown began), stop for this currency
	targetAbort
)

// AutoSeller runs passes over all exchanges until ctx is done. One
// exchange failing never stops the others.
type AutoSeller struct {
	Exchanges   []client.ExchangeAPIInterface
	Config      model.AutoSellConfig
	Strategy    strategy.SellStrategyInterface
	Formatter   *utils.Formatter
	TimeService utils.TimeServiceInterface
}

func (s *AutoSeller) Run(ctx context.Context) {
	for {
		s.RunPass(ctx)

		if !s.TimeService.Wait(ctx, s.Config.PollDelay) {
			return
		}
	}
}

func (s *AutoSeller) RunPass(ctx context.Context) {
	for _, exchange := range s.Exchanges {
		if ctx.Err() != nil {
			return
		}

		s.processExchange(ctx, exchange)
	}
}

func (s *AutoSeller) processExchange(ctx context.Context, exchange client.ExchangeAPIInterface) {
	balances, err := exchange.GetBalances()
	if err != nil {
		log.Printf("Failed to get %s balances: %s", exchange.GetName(), err.Error())
		return
	}

	markets := exchange.GetMarkets()

	currencies := make([]string, 0, len(balances))
	for currency := range balances {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	for _, currency := range currencies {
		currencyMarkets, ok := markets[currency]
		if !ok || !s.Config.IsSourceAllowed(currency) {
			continue
		}

		s.processCurrency(ctx, exchange, currency, balances[currency], currencyMarkets)
	}
}

func (s *AutoSeller) processCurrency(
	ctx context.Context,
	exchange client.ExchangeAPIInterface,
	currency string,
	balance float64,
	currencyMarkets map[string]*model.Market,
) {
	for _, target := range s.Config.TargetCurrencies {
		market, ok := currencyMarkets[target]
		if !ok || !s.Config.CanSellInto(currency, target) {
			continue
		}

		if s.processTarget(ctx, exchange, market, balance) == targetAbort {
			return
		}
	}
}

func (s *AutoSeller) processTarget(
	ctx context.Context,
	exchange client.ExchangeAPIInterface,
	market *model.Market,
	balance float64,
) targetResult {
	snapshot := market.Snapshot()
	currency := market.SourceCurrency
	target := market.TargetCurrency

	if s.Config.Verbose {
		log.Printf("Looking at %s to %s market on %s.", currency, target, exchange.GetName())
		log.Printf("Day's max = %s", s.Formatter.FormatFloat(snapshot.DayHigh))
	}

	if !s.Strategy.ShouldSell(balance, snapshot) {
		return targetNext
	}

	book, err := exchange.GetPublicOrders(market)
	if err != nil {
		log.Printf("Failed to get public orders for %s/%s on %s: %s", currency, target, exchange.GetName(), err.Error())
		return targetNext
	}

	sellPrice, ok := book.GetBestBid()
	if !ok {
		log.Printf("No buy orders for %s/%s on %s.", currency, target, exchange.GetName())
		return targetNext
	}

	if !s.TimeService.Wait(ctx, s.Config.RequestDelay) {
		return targetAbort
	}

	order, err := exchange.CreateOrder(market, false, balance, sellPrice)
	if err != nil {
		log.Printf(
			"Failed to create sell order for %s %s at %s %s on %s: %s",
			s.Formatter.FormatFloat(balance),
			currency,
			s.Formatter.FormatFloat(sellPrice),
			target,
			exchange.GetName(),
			err.Error(),
		)

		return targetAbort
	}

	log.Printf(
		"Created sell order %s for %s %s at %s %s on %s.",
		order.GetOrderId(),
		s.Formatter.FormatFloat(balance),
		currency,
		s.Formatter.FormatFloat(sellPrice),
		target,
		exchange.GetName(),
	)

	return targetAbort
}
