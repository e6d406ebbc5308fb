package utils

import (
	"context"
	"time"
)

type TimeServiceInterface interface {
	Wait(ctx context.Context, duration time.Duration) bool
	GetNowUnix() int64
	GetNowUnixMilli() int64
}

type TimeHelper struct {
}

// Wait sleeps for duration, returns false when ctx is done first.
func (t *TimeHelper) Wait(ctx context.Context, duration time.Duration) bool {
	if duration <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (t *TimeHelper) GetNowUnix() int64 {
	return time.Now().Unix()
}

func (t *TimeHelper) GetNowUnixMilli() int64 {
	return time.Now().UnixMilli()
}
