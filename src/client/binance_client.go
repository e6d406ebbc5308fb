package client

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"gitlab.com/open-soft/altcoin-autosell/src/model"
	"gitlab.com/open-soft/altcoin-autosell/src/utils"
	"net/url"
	"sort"
	"strconv"
	"sync"
)

const BinanceName = "Binance"
const BinanceDSN = "https://api.binance.com"
const BinanceStreamDSN = "wss://stream.binance.com:9443/ws/!miniTicker@arr"
const BinanceDepthLimit = 100
const BinanceRecvWindow = 5000

type BinanceSymbol struct {
	Symbol      string
	BaseAsset   string
	QuoteAsset  string
	MinQty      float64
	StepSize    float64
	TickSize    float64
	MinNotional float64
}

type Binance struct {
	HttpClient  HttpClientInterface
	DSN         string
	ApiKey      string
	ApiSecret   string
	Formatter   *utils.Formatter
	TimeService utils.TimeServiceInterface

	markets *model.MarketBook
	// filled once by the constructor, read-only afterwards
	symbols map[string]BinanceSymbol

	// last reported ticker per symbol, pushed into the windows by SampleMarkets
	latestLock sync.Mutex
	latest     map[string]model.MarketSummary
}

func NewBinance(httpClient HttpClientInterface, dsn string, apiKey string, apiSecret string) (*Binance, error) {
	if dsn == "" {
		dsn = BinanceDSN
	}

	binance := &Binance{
		HttpClient:  httpClient,
		DSN:         dsn,
		ApiKey:      apiKey,
		ApiSecret:   apiSecret,
		Formatter:   &utils.Formatter{},
		TimeService: &utils.TimeHelper{},
		markets:     model.NewMarketBook(),
		symbols:     make(map[string]BinanceSymbol),
		latest:      make(map[string]model.MarketSummary),
	}

	if err := binance.loadSymbols(); err != nil {
		return nil, err
	}

	if err := binance.RefreshMarkets(); err != nil {
		return nil, err
	}

	return binance, nil
}

func (b *Binance) GetName() string {
	return BinanceName
}

func (b *Binance) GetCurrencies() []string {
	return b.markets.GetCurrencies()
}

func (b *Binance) GetMarkets() map[string]map[string]*model.Market {
	return b.markets.GetMarkets()
}

func (b *Binance) loadSymbols() error {
	result, err := b.HttpClient.Get(fmt.Sprintf("%s/api/v3/exchangeInfo", b.DSN), map[string]string{})
	if err != nil {
		return model.NewExchangeError(b.GetName(), "exchangeInfo", err)
	}

	symbols := gjson.GetBytes(result, "symbols")
	if !symbols.IsArray() {
		return model.NewExchangeError(b.GetName(), "exchangeInfo", errors.New("symbols are missing"))
	}

	for _, item := range symbols.Array() {
		if item.Get("status").String() != "TRADING" {
			continue
		}

		symbol := BinanceSymbol{
			Symbol:     item.Get("symbol").String(),
			BaseAsset:  item.Get("baseAsset").String(),
			QuoteAsset: item.Get("quoteAsset").String(),
		}
		if symbol.Symbol == "" || symbol.BaseAsset == "" || symbol.QuoteAsset == "" {
			return model.NewExchangeError(b.GetName(), "exchangeInfo", errors.New(fmt.Sprintf("malformed symbol: %s", item.Raw)))
		}

		for _, filter := range item.Get("filters").Array() {
			switch filter.Get("filterType").String() {
			case "LOT_SIZE":
				symbol.MinQty = filter.Get("minQty").Float()
				symbol.StepSize = filter.Get("stepSize").Float()
			case "PRICE_FILTER":
				symbol.TickSize = filter.Get("tickSize").Float()
			case "MIN_NOTIONAL", "NOTIONAL":
				symbol.MinNotional = filter.Get("minNotional").Float()
			}
		}

		b.symbols[symbol.Symbol] = symbol
	}

	if len(b.symbols) == 0 {
		return model.NewExchangeError(b.GetName(), "exchangeInfo", errors.New("no trading symbols"))
	}

	return nil
}

func (b *Binance) RefreshMarkets() error {
	result, err := b.HttpClient.Get(fmt.Sprintf("%s/api/v3/ticker/24hr", b.DSN), map[string]string{})
	if err != nil {
		return model.NewExchangeError(b.GetName(), "ticker", err)
	}

	tickers := gjson.ParseBytes(result)
	if !tickers.IsArray() {
		return model.NewExchangeError(b.GetName(), "ticker", errors.New("ticker list is missing"))
	}

	summaries := make([]model.MarketSummary, 0)
	for _, item := range tickers.Array() {
		symbol, ok := b.symbols[item.Get("symbol").String()]
		if !ok {
			continue
		}

		summaries = append(summaries, b.toSummary(symbol, item.Get("lastPrice").Float(), item.Get("highPrice").Float()))
	}

	b.latestLock.Lock()
	for _, summary := range summaries {
		b.latest[summary.MarketId] = summary
	}
	b.latestLock.Unlock()

	for _, summary := range summaries {
		b.markets.Apply(summary)
	}

	return nil
}

// ApplyMiniTickers consumes one "!miniTicker@arr" stream message and returns
// the number of symbols updated. Only the latest ticker per symbol is kept,
// the price windows move in SampleMarkets.
func (b *Binance) ApplyMiniTickers(message []byte) (int, error) {
	var batch model.MiniTickerBatch
	if err := json.Unmarshal(message, &batch); err != nil {
		return 0, model.NewExchangeError(b.GetName(), "miniTicker", err)
	}

	b.latestLock.Lock()
	defer b.latestLock.Unlock()

	applied := 0
	for _, ticker := range batch {
		symbol, ok := b.symbols[ticker.Symbol]
		if !ok {
			continue
		}

		b.latest[symbol.Symbol] = b.toSummary(symbol, ticker.Close, ticker.High)
		applied++
	}

	return applied, nil
}

// SampleMarkets pushes the latest known ticker of every symbol into the
// windows, idle symbols repeat their last price. Returns the number of
// symbols pushed.
func (b *Binance) SampleMarkets() int {
	b.latestLock.Lock()
	summaries := make([]model.MarketSummary, 0, len(b.latest))
	for _, summary := range b.latest {
		summaries = append(summaries, summary)
	}
	b.latestLock.Unlock()

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].MarketId < summaries[j].MarketId
	})

	for _, summary := range summaries {
		b.markets.Apply(summary)
	}

	return len(summaries)
}

func (b *Binance) toSummary(symbol BinanceSymbol, lastPrice float64, dayHigh float64) model.MarketSummary {
	return model.MarketSummary{
		MarketId:            symbol.Symbol,
		PrimaryCurrency:     symbol.BaseAsset,
		SecondaryCurrency:   symbol.QuoteAsset,
		LastPrice:           lastPrice,
		DayHigh:             dayHigh,
		TradeMinimum:        symbol.MinQty,
		ReverseTradeMinimum: symbol.MinNotional,
	}
}

func (b *Binance) GetBalances() (map[string]float64, error) {
	query := b.signedQuery(url.Values{})
	result, err := b.HttpClient.Get(fmt.Sprintf("%s/api/v3/account?%s", b.DSN, query), b.GetHeaders())
	if err != nil {
		return nil, model.NewExchangeError(b.GetName(), "account", err)
	}

	if err := b.checkError(result); err != nil {
		return nil, model.NewExchangeError(b.GetName(), "account", err)
	}

	list := gjson.GetBytes(result, "balances")
	if !list.IsArray() {
		return nil, model.NewExchangeError(b.GetName(), "account", errors.New("balances are missing"))
	}

	balances := make(map[string]float64)
	for _, item := range list.Array() {
		free, err := b.Formatter.ParseFloat(item.Get("free").String())
		if err != nil {
			return nil, model.NewExchangeError(b.GetName(), "account", errors.New(fmt.Sprintf("invalid balance: %s", item.Raw)))
		}
		balances[item.Get("asset").String()] = free
	}

	return balances, nil
}

// GetPublicOrders returns the book in the market's own direction, reverse
// markets get the forward book inverted.
func (b *Binance) GetPublicOrders(market *model.Market) (model.OrderBook, error) {
	result, err := b.HttpClient.Get(fmt.Sprintf(
		"%s/api/v3/depth?symbol=%s&limit=%d",
		b.DSN,
		market.MarketId,
		BinanceDepthLimit,
	), map[string]string{})
	if err != nil {
		return model.OrderBook{}, model.NewExchangeError(b.GetName(), "depth", err)
	}

	if err := b.checkError(result); err != nil {
		return model.OrderBook{}, model.NewExchangeError(b.GetName(), "depth", err)
	}

	bids, err := b.parseDepth(gjson.GetBytes(result, "bids"), true)
	if err != nil {
		return model.OrderBook{}, model.NewExchangeError(b.GetName(), "depth", err)
	}
	asks, err := b.parseDepth(gjson.GetBytes(result, "asks"), false)
	if err != nil {
		return model.OrderBook{}, model.NewExchangeError(b.GetName(), "depth", err)
	}

	if !market.Reverse {
		return model.OrderBook{Bids: bids, Asks: asks}, nil
	}

	return model.OrderBook{
		Bids: invertOrders(asks, true),
		Asks: invertOrders(bids, false),
	}, nil
}

func (b *Binance) parseDepth(levels gjson.Result, isBuy bool) ([]model.Order, error) {
	orders := make([]model.Order, 0)
	if !levels.IsArray() {
		return nil, errors.New("depth levels are missing")
	}

	for _, level := range levels.Array() {
		row := level.Array()
		if len(row) < 2 {
			return nil, errors.New(fmt.Sprintf("malformed depth level: %s", level.Raw))
		}

		price, err := b.Formatter.ParseFloat(row[0].String())
		if err != nil {
			return nil, err
		}
		quantity, err := b.Formatter.ParseFloat(row[1].String())
		if err != nil {
			return nil, err
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

func invertOrders(orders []model.Order, isBuy bool) []model.Order {
	inverted := make([]model.Order, 0, len(orders))
	for _, order := range orders {
		if order.Price <= 0 {
			continue
		}

		inverted = append(inverted, model.Order{
			OrderId: order.OrderId,
			IsBuy:   isBuy,
			Amount:  order.Amount * order.Price,
			Price:   model.Reciprocal(order.Price),
		})
	}

	return inverted
}

// CreateOrder places a GTC limit order. On a reverse market selling amount
// of the quote asset becomes a buy of amount*price base asset at 1/price.
func (b *Binance) CreateOrder(market *model.Market, isBuy bool, amount float64, price float64) (model.Order, error) {
	symbol, ok := b.symbols[market.MarketId]
	if !ok {
		return model.Order{}, model.NewExchangeError(b.GetName(), "order", errors.New(fmt.Sprintf("unknown symbol %s", market.MarketId)))
	}

	quantity := amount
	limitPrice := price
	if market.Reverse {
		isBuy = !isBuy
		quantity = amount * price
		limitPrice = model.Reciprocal(price)
	}

	formattedQty := b.Formatter.FloorToStep(quantity, symbol.StepSize)
	formattedPrice := b.Formatter.RoundToTick(limitPrice, symbol.TickSize)
	if !formattedQty.IsPositive() || !formattedPrice.IsPositive() {
		return model.Order{}, model.NewExchangeError(b.GetName(), "order", errors.New(fmt.Sprintf(
			"[%s] invalid order quantity %s or price %s",
			symbol.Symbol,
			formattedQty.String(),
			formattedPrice.String(),
		)))
	}

	side := model.OrderSideSell
	if isBuy {
		side = model.OrderSideBuy
	}

	params := url.Values{}
	params.Set("symbol", symbol.Symbol)
	params.Set("side", side)
	params.Set("type", "LIMIT")
	params.Set("timeInForce", "GTC")
	params.Set("quantity", formattedQty.String())
	params.Set("price", formattedPrice.String())
	params.Set("newClientOrderId", uuid.New().String())

	headers := b.GetHeaders()
	headers["Content-Type"] = "application/x-www-form-urlencoded"

	result, err := b.HttpClient.Post(fmt.Sprintf("%s/api/v3/order", b.DSN), []byte(b.signedQuery(params)), headers)
	if err != nil {
		return model.Order{}, model.NewExchangeError(b.GetName(), "order", err)
	}

	if err := b.checkError(result); err != nil {
		return model.Order{}, model.NewExchangeError(b.GetName(), "order", err)
	}

	orderId := gjson.GetBytes(result, "orderId")
	if !orderId.Exists() {
		return model.Order{}, model.NewExchangeError(b.GetName(), "order", errors.New("orderId is missing"))
	}

	return model.Order{
		OrderId: orderId.String(),
		IsBuy:   isBuy,
		Amount:  formattedQty.InexactFloat64(),
		Price:   formattedPrice.InexactFloat64(),
	}, nil
}

func (b *Binance) checkError(result []byte) error {
	if !gjson.ValidBytes(result) {
		return errors.New("malformed response")
	}

	if message := gjson.GetBytes(result, "msg"); message.Exists() {
		return errors.New(fmt.Sprintf("%d: %s", gjson.GetBytes(result, "code").Int(), message.String()))
	}

	return nil
}

func (b *Binance) signedQuery(params url.Values) string {
	params.Set("recvWindow", strconv.Itoa(BinanceRecvWindow))
	params.Set("timestamp", strconv.FormatInt(b.TimeService.GetNowUnixMilli(), 10))
	query := params.Encode()

	return fmt.Sprintf("%s&signature=%s", query, b.signature(query))
}

func (b *Binance) signature(query string) string {
	h := hmac.New(sha256.New, []byte(b.ApiSecret))
	h.Write([]byte(query))

	return hex.EncodeToString(h.Sum(nil))
}

func (b *Binance) GetHeaders() map[string]string {
	return map[string]string{
		"X-MBX-APIKEY": b.ApiKey,
	}
}
