//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/donaldgifford/dealhound/internal/store"
	domain "github.com/donaldgifford/dealhound/pkg/types"
)

func setupPostgres(t *testing.T) *store.PostgresSink {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("dealhound_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresSink(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

func TestPostgresSink_Ping(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestPostgresSink_MigrateIsIdempotent(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestPostgresSink_AppendAndList(t *testing.T) {
	s := setupPostgres(t)
	ctx := store.WithRunID(context.Background(), "run-123")

	base := time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("79.99")

	first := &domain.Observation{
		ObservedAt:   base,
		ProductName:  "Widget",
		Price:        &price,
		Availability: domain.InStock,
		URL:          "https://www.amazon.com/dp/B1",
	}
	second := &domain.Observation{
		ObservedAt:   base.Add(time.Hour),
		ProductName:  "Widget",
		Availability: domain.Unknown,
		URL:          "https://www.amazon.com/dp/B1",
	}
	other := &domain.Observation{
		ObservedAt:   base,
		ProductName:  "Gadget",
		Availability: domain.OutOfStock,
		URL:          "https://www.amazon.com/dp/B2",
	}

	for _, obs := range []*domain.Observation{first, second, other} {
		require.NoError(t, s.Append(ctx, obs))
	}

	url := "https://www.amazon.com/dp/B1"
	got, total, err := s.ListObservations(context.Background(), &store.ObservationQuery{URL: &url})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, got, 2)

	// Newest first.
	assert.True(t, got[0].ObservedAt.Equal(second.ObservedAt))
	assert.Nil(t, got[0].Price)
	assert.Equal(t, domain.Unknown, got[0].Availability)

	require.NotNil(t, got[1].Price)
	assert.Equal(t, "79.99", got[1].PriceString())
	assert.Equal(t, domain.InStock, got[1].Availability)

	all, total, err := s.ListObservations(context.Background(), &store.ObservationQuery{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, all, 1)
}
