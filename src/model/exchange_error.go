package model

import (
	"errors"
	"fmt"
)

// ExchangeError is the only error type an exchange adapter returns.
// It covers authentication, transport and malformed response failures.
type ExchangeError struct {
	Exchange  string
	Operation string
	Err       error
}

func NewExchangeError(exchange string, operation string, err error) *ExchangeError {
	var exchangeError *ExchangeError
	if errors.As(err, &exchangeError) {
		return exchangeError
	}

	return &ExchangeError{
		Exchange:  exchange,
		Operation: operation,
		Err:       err,
	}
}

func (e *ExchangeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s failed", e.Exchange, e.Operation)
	}

	return fmt.Sprintf("%s %s: %s", e.Exchange, e.Operation, e.Err.Error())
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

func IsExchangeError(err error) bool {
	var exchangeError *ExchangeError
	return errors.As(err, &exchangeError)
}
