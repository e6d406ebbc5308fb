package model

import (
	"slices"
	"time"
)

var DefaultTargetCurrencies = []string{"BTC", "LTC"}

const DefaultPollDelay = 60 * time.Second
const DefaultRequestDelay = time.Second
const DefaultRefreshInterval = 5 * time.Second

// AutoSellConfig is built once at startup and never mutated.
type AutoSellConfig struct {
	TargetCurrencies []string
	SourceCurrencies []string
	PollDelay        time.Duration
	RequestDelay     time.Duration
	RefreshInterval  time.Duration
	Verbose          bool
}

func (c AutoSellConfig) IsTargetCurrency(currency string) bool {
	return slices.Contains(c.TargetCurrencies, currency)
}

func (c AutoSellConfig) IsSourceAllowed(currency string) bool {
	return len(c.SourceCurrencies) == 0 || slices.Contains(c.SourceCurrencies, currency)
}

// CanSellInto forbids selling a target currency into itself or into a
// target of the same or lower priority.
func (c AutoSellConfig) CanSellInto(currency string, target string) bool {
	currencyIndex := slices.Index(c.TargetCurrencies, currency)
	if currencyIndex < 0 {
		return true
	}

	return slices.Index(c.TargetCurrencies, target) < currencyIndex
}
