package helper

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-rag/internal/config"
)

func TestGenerateUUIDs(t *testing.T) {
	ids, err := GenerateUUIDs(3)
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.NotEqual(t, ids[0], ids[1])
	assert.Len(t, ids[2], 36)
}

func TestPrettyPrint(t *testing.T) {
	var buf bytes.Buffer
	PrettyPrint(&buf, map[string]int{"page": 2})
	assert.Equal(t, "{\n  \"page\": 2\n}\n", buf.String())
}

func TestRetry(t *testing.T) {
	cfg := config.RetryConfig{Attempts: 3, Delay: time.Millisecond, MaxDelay: time.Millisecond}
	transient := errors.New("503 service unavailable")

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), cfg, "test", func() error {
			calls++
			if calls < 3 {
				return transient
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error when exhausted", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), cfg, "test", func() error {
			calls++
			return transient
		})
		require.ErrorIs(t, err, transient)
		assert.Equal(t, 3, calls)
	})

	t.Run("single attempt by default", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), config.RetryConfig{}, "test", func() error {
			calls++
			return transient
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("context cancellation is not retried", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), cfg, "test", func() error {
			calls++
			return context.Canceled
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
