package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domain "github.com/donaldgifford/dealhound/pkg/types"
)

const defaultPoolSize = 4

// PostgresSink records observations in PostgreSQL using pgxpool.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink connects to connString and verifies the connection.
func NewPostgresSink(ctx context.Context, connString string) (*PostgresSink, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresSink{pool: pool}, nil
}

// Close shuts down the connection pool.
func (s *PostgresSink) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresSink) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresSink) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// Append inserts one observation row tagged with the run id from ctx.
func (s *PostgresSink) Append(ctx context.Context, obs *domain.Observation) error {
	var price any
	if obs.Price != nil {
		price = obs.Price.StringFixed(2)
	}

	args := pgx.NamedArgs{
		"run_id":       RunIDFrom(ctx),
		"observed_at":  obs.ObservedAt,
		"product_name": obs.ProductName,
		"price":        price,
		"availability": string(obs.Availability),
		"url":          obs.URL,
	}

	if _, err := s.pool.Exec(ctx, queryInsertObservation, args); err != nil {
		return fmt.Errorf("inserting observation: %w", err)
	}
	return nil
}

// ListObservations returns matching observations, newest first, and the
// total count ignoring limit and offset.
func (s *PostgresSink) ListObservations(
	ctx context.Context,
	q *ObservationQuery,
) ([]domain.Observation, int, error) {
	dataSQL, countSQL, args := q.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting observations: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying observations: %w", err)
	}
	defer rows.Close()

	var out []domain.Observation
	for rows.Next() {
		var (
			obs   domain.Observation
			price *string
			avail string
		)
		if err := rows.Scan(&obs.ObservedAt, &obs.ProductName, &price, &avail, &obs.URL); err != nil {
			return nil, 0, fmt.Errorf("scanning observation: %w", err)
		}
		obs.Availability = domain.Availability(avail)
		if price != nil {
			d, err := decimal.NewFromString(*price)
			if err != nil {
				return nil, 0, fmt.Errorf("parsing stored price %q: %w", *price, err)
			}
			obs.Price = &d
		}
		out = append(out, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating observations: %w", err)
	}

	return out, total, nil
}
