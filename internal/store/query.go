package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

const baseObservationsSelect = `SELECT observed_at, product_name, price::text, availability, url
FROM observations`

const countObservationsSelect = "SELECT COUNT(*) FROM observations"

// EffectiveLimit is the page size actually applied: zero or negative means
// the default, and values above the maximum are clamped.
func (q *ObservationQuery) EffectiveLimit() int {
	switch {
	case q.Limit <= 0:
		return defaultLimit
	case q.Limit > maxLimit:
		return maxLimit
	default:
		return q.Limit
	}
}

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for an
// observation query. It returns the data query, the count query and the
// positional parameters shared by both.
func (q *ObservationQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.URL != nil {
		conditions = append(conditions, fmt.Sprintf("url = $%d", paramIdx))
		args = append(args, *q.URL)
		paramIdx++
	}

	if q.Since != nil {
		conditions = append(conditions, fmt.Sprintf("observed_at >= $%d", paramIdx))
		args = append(args, *q.Since)
		paramIdx++
	}

	if q.Availability != nil {
		conditions = append(conditions, fmt.Sprintf("availability = $%d", paramIdx))
		args = append(args, *q.Availability)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := q.EffectiveLimit()
	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY observed_at DESC, id DESC LIMIT %d OFFSET %d",
		baseObservationsSelect, whereClause, limit, offset,
	)

	countSQL = countObservationsSelect + whereClause

	return dataSQL, countSQL, args
}
