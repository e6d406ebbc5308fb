package client

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"github.com/tidwall/gjson"
	"gitlab.com/open-soft/altcoin-autosell/src/model"
	"gitlab.com/open-soft/altcoin-autosell/src/utils"
	"math"
	"net/url"
	"strconv"
	"sync"
)

const CryptsyName = "Cryptsy"
const CryptsyDSN = "https://api.cryptsy.com/api"
const CryptsyMinPrice = 0.0000001

var cryptsyTradeMinimums = map[[2]string]float64{
	{"Points", "BTC"}: 0.1,
}

type Cryptsy struct {
	HttpClient    HttpClientInterface
	DSN           string
	ApiPublicKey  string
	ApiPrivateKey string
	Formatter     *utils.Formatter
	TimeService   utils.TimeServiceInterface

	markets   *model.MarketBook
	nonceLock sync.Mutex
	lastNonce int64
}

// NewCryptsy loads the market listing once, an error means the exchange
// can not be monitored.
func NewCryptsy(httpClient HttpClientInterface, dsn string, publicKey string, privateKey string) (*Cryptsy, error) {
	if dsn == "" {
		dsn = CryptsyDSN
	}

	cryptsy := &Cryptsy{
		HttpClient:    httpClient,
		DSN:           dsn,
		ApiPublicKey:  publicKey,
		ApiPrivateKey: privateKey,
		Formatter:     &utils.Formatter{},
		TimeService:   &utils.TimeHelper{},
		markets:       model.NewMarketBook(),
	}

	if err := cryptsy.RefreshMarkets(); err != nil {
		return nil, err
	}

	return cryptsy, nil
}

func (c *Cryptsy) GetName() string {
	return CryptsyName
}

func (c *Cryptsy) GetCurrencies() []string {
	return c.markets.GetCurrencies()
}

func (c *Cryptsy) GetMarkets() map[string]map[string]*model.Market {
	return c.markets.GetMarkets()
}

func (c *Cryptsy) GetTradeMinimum(source string, target string) float64 {
	if minimum, ok := cryptsyTradeMinimums[[2]string{source, target}]; ok {
		return minimum
	}

	return model.DefaultTradeMinimum
}

func (c *Cryptsy) RefreshMarkets() error {
	result, err := c.request("getmarkets", nil)
	if err != nil {
		return model.NewExchangeError(c.GetName(), "getmarkets", err)
	}

	list := result.Get("return")
	if !list.IsArray() {
		return model.NewExchangeError(c.GetName(), "getmarkets", errors.New("market list is missing"))
	}

	summaries := make([]model.MarketSummary, 0)
	for _, item := range list.Array() {
		summary, err := c.parseMarket(item)
		if err != nil {
			return model.NewExchangeError(c.GetName(), "getmarkets", err)
		}
		summaries = append(summaries, summary)
	}

	for _, summary := range summaries {
		c.markets.Apply(summary)
	}

	return nil
}

func (c *Cryptsy) parseMarket(item gjson.Result) (model.MarketSummary, error) {
	marketId := item.Get("marketid")
	primary := item.Get("primary_currency_code")
	secondary := item.Get("secondary_currency_code")
	if !marketId.Exists() || primary.String() == "" || secondary.String() == "" {
		return model.MarketSummary{}, errors.New(fmt.Sprintf("malformed market: %s", item.Raw))
	}

	lastPrice := item.Get("last_trade")
	if !lastPrice.Exists() {
		lastPrice = item.Get("lasttradeprice")
	}
	if !lastPrice.Exists() {
		return model.MarketSummary{}, errors.New(fmt.Sprintf("market %s has no last trade price", marketId.String()))
	}

	return model.MarketSummary{
		MarketId:            marketId.String(),
		PrimaryCurrency:     primary.String(),
		SecondaryCurrency:   secondary.String(),
		LastPrice:           lastPrice.Float(),
		DayHigh:             item.Get("high_trade").Float(),
		TradeMinimum:        c.GetTradeMinimum(primary.String(), secondary.String()),
		ReverseTradeMinimum: c.GetTradeMinimum(secondary.String(), primary.String()),
	}, nil
}

func (c *Cryptsy) GetBalances() (map[string]float64, error) {
	result, err := c.request("getinfo", nil)
	if err != nil {
		return nil, model.NewExchangeError(c.GetName(), "getinfo", err)
	}

	available := result.Get("return.balances_available")
	if !available.IsObject() {
		return nil, model.NewExchangeError(c.GetName(), "getinfo", errors.New("balances_available is missing"))
	}

	balances := make(map[string]float64)
	var parseErr error
	available.ForEach(func(currency, value gjson.Result) bool {
		balance, err := c.Formatter.ParseFloat(value.String())
		if err != nil {
			parseErr = errors.New(fmt.Sprintf("invalid %s balance %q", currency.String(), value.String()))
			return false
		}
		balances[currency.String()] = balance

		return true
	})

	if parseErr != nil {
		return nil, model.NewExchangeError(c.GetName(), "getinfo", parseErr)
	}

	return balances, nil
}

func (c *Cryptsy) GetPublicOrders(market *model.Market) (model.OrderBook, error) {
	params := url.Values{}
	params.Set("marketid", market.MarketId)

	result, err := c.request("marketorders", params)
	if err != nil {
		return model.OrderBook{}, model.NewExchangeError(c.GetName(), "marketorders", err)
	}

	orders := result.Get("return")
	if !orders.IsObject() {
		return model.OrderBook{}, model.NewExchangeError(c.GetName(), "marketorders", errors.New("order book is missing"))
	}

	bids, err := c.parseOrders(orders.Get("buyorders"), true, "buyprice")
	if err != nil {
		return model.OrderBook{}, model.NewExchangeError(c.GetName(), "marketorders", err)
	}
	asks, err := c.parseOrders(orders.Get("sellorders"), false, "sellprice")
	if err != nil {
		return model.OrderBook{}, model.NewExchangeError(c.GetName(), "marketorders", err)
	}

	return model.OrderBook{
		Bids: bids,
		Asks: asks,
	}, nil
}

func (c *Cryptsy) parseOrders(list gjson.Result, isBuy bool, priceField string) ([]model.Order, error) {
	orders := make([]model.Order, 0)
	if !list.Exists() || list.Type == gjson.Null {
		return orders, nil
	}

	for _, item := range list.Array() {
		quantity, err := c.Formatter.ParseFloat(item.Get("quantity").String())
		if err != nil {
			return nil, errors.New(fmt.Sprintf("invalid order quantity: %s", item.Raw))
		}
		price, err := c.Formatter.ParseFloat(item.Get(priceField).String())
		if err != nil {
			return nil, errors.New(fmt.Sprintf("invalid order %s: %s", priceField, item.Raw))
		}

		orders = append(orders, model.Order{
			OrderId: model.OrderIdUnknown,
			IsBuy:   isBuy,
			Amount:  quantity,
			Price:   price,
		})
	}

	return orders, nil
}

// CreateOrder flips the side for reverse markets, the venue only knows the
// primary/secondary direction.
func (c *Cryptsy) CreateOrder(market *model.Market, isBuy bool, amount float64, price float64) (model.Order, error) {
	if market.Reverse {
		isBuy = !isBuy
	}

	orderType := "Sell"
	if isBuy {
		orderType = "Buy"
	}

	params := url.Values{}
	params.Set("marketid", market.MarketId)
	params.Set("ordertype", orderType)
	params.Set("quantity", c.Formatter.FormatFloat(amount))
	params.Set("price", c.Formatter.FormatFloat(math.Max(CryptsyMinPrice, price)))

	result, err := c.request("createorder", params)
	if err != nil {
		return model.Order{}, model.NewExchangeError(c.GetName(), "createorder", err)
	}

	orderId := result.Get("orderid")
	if !orderId.Exists() {
		return model.Order{}, model.NewExchangeError(c.GetName(), "createorder", errors.New("orderid is missing"))
	}

	return model.Order{
		OrderId: orderId.String(),
		IsBuy:   isBuy,
		Amount:  amount,
		Price:   price,
	}, nil
}

func (c *Cryptsy) request(method string, params url.Values) (gjson.Result, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("method", method)
	params.Set("nonce", strconv.FormatInt(c.nextNonce(), 10))
	body := params.Encode()

	response, err := c.HttpClient.Post(c.DSN, []byte(body), c.GetHeaders(body))
	if err != nil {
		return gjson.Result{}, err
	}

	if !gjson.ValidBytes(response) {
		return gjson.Result{}, errors.New(fmt.Sprintf("%s: malformed response", method))
	}

	result := gjson.ParseBytes(response)
	if message := result.Get("error"); isTruthy(message) {
		return gjson.Result{}, errors.New(message.String())
	}

	return result, nil
}

func (c *Cryptsy) GetHeaders(body string) map[string]string {
	h := hmac.New(sha512.New, []byte(c.ApiPrivateKey))
	h.Write([]byte(body))

	return map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
		"Accept":       "application/json",
		"User-Agent":   "altcoin-autosell",
		"Key":          c.ApiPublicKey,
		"Sign":         hex.EncodeToString(h.Sum(nil)),
	}
}

// nextNonce is strictly increasing, the refresher and the scheduler sign
// requests concurrently.
func (c *Cryptsy) nextNonce() int64 {
	c.nonceLock.Lock()
	defer c.nonceLock.Unlock()

	nonce := c.TimeService.GetNowUnix()
	if nonce <= c.lastNonce {
		nonce = c.lastNonce + 1
	}
	c.lastNonce = nonce

	return nonce
}

func isTruthy(value gjson.Result) bool {
	switch value.Type {
	case gjson.True:
		return true
	case gjson.String:
		return value.Str != ""
	case gjson.Number:
		return value.Num != 0
	case gjson.JSON:
		if value.IsArray() {
			return len(value.Array()) > 0
		}

		return len(value.Map()) > 0
	}

	return false
}
