package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/iho/bachatbox/internal/domain"
)

// newTestRedisClient starts an in-process Redis and returns a client connected to it.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{
		Addr:        mr.Addr(),
		DialTimeout: time.Second,
	})

	return client, mr
}

func sampleTransaction(id string) *domain.Transaction {
	return &domain.Transaction{
		Timestamp:   time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		ID:          id,
		Description: "ARUTCHUDAR S (SBI)",
		Institution: "SBI",
		Amount:      decimal.RequireFromString("350"),
		Direction:   domain.DirectionExpense,
		Category:    domain.CategoryPayment,
		Source:      domain.SourceSMS,
	}
}
