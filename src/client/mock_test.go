package client_test

import (
	"context"
	"github.com/stretchr/testify/mock"
	"strings"
	"time"
)

type HttpClientMock struct {
	mock.Mock
}

func (m *HttpClientMock) Post(url string, message []byte, headers map[string]string) ([]byte, error) {
	args := m.Called(url, message, headers)
	return args.Get(0).([]byte), args.Error(1)
}
func (m *HttpClientMock) Get(url string, headers map[string]string) ([]byte, error) {
	args := m.Called(url, headers)
	return args.Get(0).([]byte), args.Error(1)
}

type TimeServiceStub struct {
	Now int64
}

func (t *TimeServiceStub) Wait(ctx context.Context, duration time.Duration) bool {
	return ctx.Err() == nil
}
func (t *TimeServiceStub) GetNowUnix() int64 {
	return t.Now
}
func (t *TimeServiceStub) GetNowUnixMilli() int64 {
	return t.Now * 1000
}

func bodyContains(parts ...string) interface{} {
	return mock.MatchedBy(func(body []byte) bool {
		for _, part := range parts {
			if !strings.Contains(string(body), part) {
				return false
			}
		}

		return true
	})
}

func urlPrefix(prefix string) interface{} {
	return mock.MatchedBy(func(url string) bool {
		return strings.HasPrefix(url, prefix)
	})
}
