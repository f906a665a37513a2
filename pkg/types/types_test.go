package domain_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/dealhound/pkg/types"
)

func TestObservation_PriceString(t *testing.T) {
	t.Parallel()

	p := decimal.RequireFromString("49.9")

	tests := []struct {
		name  string
		price *decimal.Decimal
		want  string
	}{
		{name: "absent price", price: nil, want: "N/A"},
		{name: "one decimal padded", price: &p, want: "49.90"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			obs := &domain.Observation{Price: tt.price}
			assert.Equal(t, tt.want, obs.PriceString())
			assert.Equal(t, tt.price != nil, obs.HasPrice())
		})
	}
}

func TestFail(t *testing.T) {
	t.Parallel()

	cause := errors.New("node detached")
	out := domain.Fail(domain.ReasonUnexpectedError, "https://www.amazon.com/dp/X", cause)

	assert.False(t, out.OK())
	require.NotNil(t, out.Failure)
	assert.Equal(t, "node detached", out.Failure.Detail)
	assert.ErrorIs(t, out.Failure, cause)
	assert.Contains(t, out.Failure.Error(), "unexpected_error")
}

func TestFail_NoCause(t *testing.T) {
	t.Parallel()

	out := domain.Fail(domain.ReasonMissingName, "https://www.amazon.com/dp/X", nil)
	require.NotNil(t, out.Failure)
	assert.Equal(t, "missing_name: https://www.amazon.com/dp/X", out.Failure.Error())
	assert.Nil(t, out.Failure.Unwrap())
}
