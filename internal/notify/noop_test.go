package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoOpNotifier_SendAlert(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n := NewNoOpNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	alert := testAlert("45.5")
	err := n.SendAlert(context.Background(), &alert)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "no channel configured")
	assert.Contains(t, buf.String(), "price=45.50")
}
