package utils

import (
	"github.com/shopspring/decimal"
)

const FloatPrecision = 8

type Formatter struct {
}

// FormatFloat prints up to 8 decimals without trailing zeros: 0.00010000 -> 0.0001.
func (m *Formatter) FormatFloat(number float64) string {
	return decimal.NewFromFloat(number).Round(FloatPrecision).String()
}

// FloorToStep rounds quantity down to a multiple of step, step <= 0 keeps 8 decimals.
func (m *Formatter) FloorToStep(quantity float64, step float64) decimal.Decimal {
	value := decimal.NewFromFloat(quantity)
	if step <= 0 {
		return value.RoundFloor(FloatPrecision)
	}

	stepValue := decimal.NewFromFloat(step)

	return value.Div(stepValue).Floor().Mul(stepValue)
}

// RoundToTick rounds price to the nearest multiple of tick, tick <= 0 keeps 8 decimals.
func (m *Formatter) RoundToTick(price float64, tick float64) decimal.Decimal {
	value := decimal.NewFromFloat(price)
	if tick <= 0 {
		return value.Round(FloatPrecision)
	}

	tickValue := decimal.NewFromFloat(tick)

	return value.Div(tickValue).Round(0).Mul(tickValue)
}

func (m *Formatter) ParseFloat(value string) (float64, error) {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return 0.00, err
	}

	return parsed.InexactFloat64(), nil
}
