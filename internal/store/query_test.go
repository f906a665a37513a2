package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestObservationQuery_ToSQL(t *testing.T) {
	t.Parallel()

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		query         ObservationQuery
		wantCountSQL  string
		wantArgs      []any
		wantDataHas   []string // substrings that must appear in dataSQL
		wantDataNotIn []string // substrings that must NOT appear
	}{
		{
			name:  "empty query uses defaults",
			query: ObservationQuery{},
			wantDataHas: []string{
				"FROM observations",
				"ORDER BY observed_at DESC",
				"LIMIT 50",
				"OFFSET 0",
			},
			wantDataNotIn: []string{"WHERE"},
			wantCountSQL:  "SELECT COUNT(*) FROM observations",
			wantArgs:      nil,
		},
		{
			name:         "url filter",
			query:        ObservationQuery{URL: ptr("https://www.amazon.com/dp/B1")},
			wantDataHas:  []string{"WHERE url = $1"},
			wantCountSQL: "SELECT COUNT(*) FROM observations WHERE url = $1",
			wantArgs:     []any{"https://www.amazon.com/dp/B1"},
		},
		{
			name: "all filters numbered in order",
			query: ObservationQuery{
				URL:          ptr("u"),
				Since:        &since,
				Availability: ptr("In Stock"),
			},
			wantDataHas: []string{
				"WHERE url = $1 AND observed_at >= $2 AND availability = $3",
			},
			wantCountSQL: "SELECT COUNT(*) FROM observations WHERE url = $1 AND observed_at >= $2 AND availability = $3",
			wantArgs:     []any{"u", since, "In Stock"},
		},
		{
			name:         "limit capped",
			query:        ObservationQuery{Limit: 10000, Offset: 20},
			wantDataHas:  []string{"LIMIT 500", "OFFSET 20"},
			wantCountSQL: "SELECT COUNT(*) FROM observations",
		},
		{
			name:         "negative offset clamped",
			query:        ObservationQuery{Limit: 5, Offset: -3},
			wantDataHas:  []string{"LIMIT 5", "OFFSET 0"},
			wantCountSQL: "SELECT COUNT(*) FROM observations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dataSQL, countSQL, args := tt.query.ToSQL()

			for _, s := range tt.wantDataHas {
				assert.Contains(t, dataSQL, s)
			}
			for _, s := range tt.wantDataNotIn {
				assert.NotContains(t, dataSQL, s)
			}
			assert.Equal(t, tt.wantCountSQL, countSQL)
			require.Len(t, args, len(tt.wantArgs))
			for i := range tt.wantArgs {
				assert.Equal(t, tt.wantArgs[i], args[i])
			}
		})
	}
}

func TestObservationQuery_EffectiveLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		limit int
		want  int
	}{
		{limit: 0, want: 50},
		{limit: -3, want: 50},
		{limit: 20, want: 20},
		{limit: 900, want: 500},
	}

	for _, tt := range tests {
		q := &ObservationQuery{Limit: tt.limit}
		assert.Equal(t, tt.want, q.EffectiveLimit(), "limit %d", tt.limit)
	}
}

func TestMigrationVersions(t *testing.T) {
	t.Parallel()

	versions, err := migrationVersions()
	require.NoError(t, err)
	require.NotEmpty(t, versions)
	assert.Equal(t, "001_create_observations.sql", versions[0])
}
