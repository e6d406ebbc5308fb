package model

// MiniTicker is one "24hrMiniTicker" stream entry. The event time is left
// out on purpose: encoding/json would fold the "e" event type into it.
type MiniTicker struct {
	Symbol string  `json:"s"`
	Close  float64 `json:"c,string"`
	High   float64 `json:"h,string"`
	Low    float64 `json:"l,string"`
}

type MiniTickerBatch []MiniTicker
