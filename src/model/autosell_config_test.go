package model_test

import (
	"github.com/stretchr/testify/assert"
	"gitlab.com/open-soft/altcoin-autosell/src/model"
	"testing"
)

func TestCanSellIntoRespectsTargetPriority(t *testing.T) {
	assertion := assert.New(t)

	config := model.AutoSellConfig{TargetCurrencies: []string{"BTC", "LTC"}}

	assertion.False(config.CanSellInto("BTC", "LTC"))
	assertion.False(config.CanSellInto("BTC", "BTC"))
	assertion.False(config.CanSellInto("LTC", "LTC"))
	assertion.True(config.CanSellInto("LTC", "BTC"))
	assertion.True(config.CanSellInto("DOGE", "BTC"))
	assertion.True(config.CanSellInto("DOGE", "LTC"))
}

func TestSourceAllowList(t *testing.T) {
	assertion := assert.New(t)

	open := model.AutoSellConfig{TargetCurrencies: model.DefaultTargetCurrencies}
	assertion.True(open.IsSourceAllowed("DOGE"))
	assertion.True(open.IsTargetCurrency("LTC"))
	assertion.False(open.IsTargetCurrency("DOGE"))

	restricted := model.AutoSellConfig{
		TargetCurrencies: model.DefaultTargetCurrencies,
		SourceCurrencies: []string{"DOGE"},
	}
	assertion.True(restricted.IsSourceAllowed("DOGE"))
	assertion.False(restricted.IsSourceAllowed("FTC"))
}
