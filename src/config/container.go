package config

import (
	"context"
	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/altcoin-autosell/src/client"
	"gitlab.com/open-soft/altcoin-autosell/src/service/exchange"
	"gitlab.com/open-soft/altcoin-autosell/src/service/strategy"
	"gitlab.com/open-soft/altcoin-autosell/src/utils"
	"log"
	"os"
	"slices"
	"sync"
)

type ExchangeFactory struct {
	Name   string
	Keys   []string
	Create func(httpClient client.HttpClientInterface, dsn string, credentials map[string]string) (client.ExchangeAPIInterface, error)
}

func GetExchangeFactories() []ExchangeFactory {
	return []ExchangeFactory{
		{
			Name: client.CryptsyName,
			Keys: []string{"api_public_key", "api_private_key"},
			Create: func(httpClient client.HttpClientInterface, dsn string, credentials map[string]string) (client.ExchangeAPIInterface, error) {
				return client.NewCryptsy(httpClient, dsn, credentials["api_public_key"], credentials["api_private_key"])
			},
		},
		{
			Name: client.BinanceName,
			Keys: []string{"api_key", "api_secret"},
			Create: func(httpClient client.HttpClientInterface, dsn string, credentials map[string]string) (client.ExchangeAPIInterface, error) {
				return client.NewBinance(httpClient, dsn, credentials["api_key"], credentials["api_secret"])
			},
		},
	}
}

// LoadExchange returns nil when the exchange is not configured or can not
// be used; the reason is logged.
func LoadExchange(config *Config, httpClient client.HttpClientInterface, factory ExchangeFactory) client.ExchangeAPIInterface {
	if !config.HasSection(factory.Name) {
		return nil
	}

	credentials := make(map[string]string)
	for _, key := range factory.Keys {
		value, ok := config.GetCredential(factory.Name, key)
		if !ok {
			log.Printf("Missing %s.%s.", factory.Name, key)
			return nil
		}
		credentials[key] = value
	}

	exchangeApi, err := factory.Create(httpClient, config.GetString(factory.Name, "dsn", ""), credentials)
	if err != nil {
		log.Printf("Failed to create %s instance: %s", factory.Name, err.Error())
		return nil
	}

	currencies := exchangeApi.GetCurrencies()
	autoSell := config.AutoSell

	if !containsAny(currencies, autoSell.TargetCurrencies) {
		log.Printf("%s does not list any target_currencies, disabling.", exchangeApi.GetName())
		return nil
	}

	if len(autoSell.SourceCurrencies) > 0 && !containsAny(currencies, autoSell.SourceCurrencies) {
		log.Printf("%s does not list any source_currencies, disabling.", exchangeApi.GetName())
		return nil
	}

	log.Printf("Monitoring %s.", exchangeApi.GetName())

	return exchangeApi
}

func LoadExchanges(config *Config, httpClient client.HttpClientInterface, factories []ExchangeFactory) []client.ExchangeAPIInterface {
	exchanges := make([]client.ExchangeAPIInterface, 0)
	for _, factory := range factories {
		if exchangeApi := LoadExchange(config, httpClient, factory); exchangeApi != nil {
			exchanges = append(exchanges, exchangeApi)
		}
	}

	return exchanges
}

func containsAny(haystack []string, needles []string) bool {
	for _, needle := range needles {
		if slices.Contains(haystack, needle) {
			return true
		}
	}

	return false
}

type BackgroundTaskInterface interface {
	Start(ctx context.Context, wg *sync.WaitGroup)
}

type Container struct {
	Config          *Config
	HttpClient      client.HttpClientInterface
	RDB             *redis.Client
	Exchanges       []client.ExchangeAPIInterface
	AutoSeller      *exchange.AutoSeller
	BackgroundTasks []BackgroundTaskInterface
}

// InitServiceContainer fails with a ConfigError when no exchange is usable.
func InitServiceContainer(config *Config, factories []ExchangeFactory) (*Container, error) {
	httpClient := client.NewHttpClient(client.DefaultRequestTimeout)
	timeService := utils.TimeHelper{}
	formatter := utils.Formatter{}

	log.Printf("Selling to %v.", config.AutoSell.TargetCurrencies)
	if len(config.AutoSell.SourceCurrencies) > 0 {
		log.Printf("Selling from %v.", config.AutoSell.SourceCurrencies)
	}

	exchanges := LoadExchanges(config, httpClient, factories)
	if len(exchanges) == 0 {
		return nil, &ConfigError{Message: "No exchange sections defined!"}
	}

	var ctx = context.Background()
	var rdb *redis.Client
	var marketCache exchange.MarketCacheInterface
	if dsn := os.Getenv("REDIS_DSN"); dsn != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     dsn,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		})
		marketCache = &exchange.RedisMarketCache{
			RDB: rdb,
			Ctx: &ctx,
			TTL: config.AutoSell.RefreshInterval * 3,
		}
		log.Printf("Publishing markets to redis %s", dsn)
	}

	backgroundTasks := make([]BackgroundTaskInterface, 0)
	for _, exchangeApi := range exchanges {
		consumer, isStreaming := exchangeApi.(exchange.MiniTickerConsumerInterface)
		if isStreaming && config.GetBool(exchangeApi.GetName(), "stream", false) {
			backgroundTasks = append(backgroundTasks, &exchange.MarketStreamListener{
				Exchange:     consumer,
				Address:      config.GetString(exchangeApi.GetName(), "stream_dsn", client.BinanceStreamDSN),
				StreamClient: client.NewWebsocketClient(),
				Interval:     config.AutoSell.RefreshInterval,
				MarketCache:  marketCache,
				TimeService:  &timeService,
			})
			continue
		}

		backgroundTasks = append(backgroundTasks, &exchange.MarketRefresher{
			Exchange:    exchangeApi,
			Interval:    config.AutoSell.RefreshInterval,
			MarketCache: marketCache,
			TimeService: &timeService,
		})
	}

	return &Container{
		Config:     config,
		HttpClient: httpClient,
		RDB:        rdb,
		Exchanges:  exchanges,
		AutoSeller: &exchange.AutoSeller{
			Exchanges:   exchanges,
			Config:      config.AutoSell,
			Strategy:    &strategy.PriceDropStrategy{},
			Formatter:   &formatter,
			TimeService: &timeService,
		},
		BackgroundTasks: backgroundTasks,
	}, nil
}

func (c *Container) StartBackgroundTasks(ctx context.Context, wg *sync.WaitGroup) {
	for _, task := range c.BackgroundTasks {
		task.Start(ctx, wg)
	}
}

func (c *Container) Close() {
	if c.RDB != nil {
		_ = c.RDB.Close()
	}
}
