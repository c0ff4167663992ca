package rate_limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantErr bool
	}{
		{name: "rate", def: Definition{FillRate: 2, BucketSize: 1}},
		{name: "concurrency", def: Definition{MaxConcurrency: 1}},
		{name: "empty", def: Definition{}, wantErr: true},
		{name: "rate without bucket", def: Definition{FillRate: 1}, wantErr: true},
		{name: "negative", def: Definition{MaxConcurrency: -1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLimiter_Concurrency(t *testing.T) {
	l := NewLimiter(&Definition{MaxConcurrency: 1})
	release, err := l.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx)
	assert.Error(t, err, "second caller should block while the first holds the slot")

	release()
	release, err = l.Acquire(context.Background())
	require.NoError(t, err)
	release()
}

func TestLimiter_Rate(t *testing.T) {
	l := NewLimiter(&Definition{FillRate: 1, BucketSize: 1})
	release, err := l.Acquire(context.Background())
	require.NoError(t, err)
	release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx)
	assert.Error(t, err, "bucket is empty until the next token is due")
}

func TestLimiter_RateFailureReleasesSlot(t *testing.T) {
	l := NewLimiter(&Definition{FillRate: 0.1, BucketSize: 1, MaxConcurrency: 1})
	release, err := l.Acquire(context.Background())
	require.NoError(t, err)
	release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx)
	require.Error(t, err)

	// the slot taken before the token wait failed has been returned
	assert.True(t, l.slots.TryAcquire(1))
}
