package model

const OrderIdUnknown = "N/A"

const OrderSideBuy = "BUY"
const OrderSideSell = "SELL"

type Order struct {
	OrderId string  `json:"orderId"`
	IsBuy   bool    `json:"isBuy"`
	Amount  float64 `json:"amount"`
	Price   float64 `json:"price"`
}

func (o Order) GetOrderId() string {
	return o.OrderId
}

func (o Order) GetPrice() float64 {
	return o.Price
}

func (o Order) GetSide() string {
	if o.IsBuy {
		return OrderSideBuy
	}

	return OrderSideSell
}

func (o Order) IsPlaced() bool {
	return o.OrderId != OrderIdUnknown && o.OrderId != ""
}

type OrderBook struct {
	Bids []Order `json:"bids"`
	Asks []Order `json:"asks"`
}

func (b OrderBook) IsEmpty() bool {
	return len(b.Bids) == 0 && len(b.Asks) == 0
}

// GetBestBid returns the highest resting buy price, ok is false for an empty side.
func (b OrderBook) GetBestBid() (float64, bool) {
	return maxPrice(b.Bids)
}

func (b OrderBook) GetBestAsk() (float64, bool) {
	if len(b.Asks) == 0 {
		return 0.00, false
	}

	best := b.Asks[0].Price
	for _, ask := range b.Asks[1:] {
		if ask.Price < best {
			best = ask.Price
		}
	}

	return best, true
}

func maxPrice(orders []Order) (float64, bool) {
	if len(orders) == 0 {
		return 0.00, false
	}

	best := orders[0].Price
	for _, order := range orders[1:] {
		if order.Price > best {
			best = order.Price
		}
	}

	return best, true
}
