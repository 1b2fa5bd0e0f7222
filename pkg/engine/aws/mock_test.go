package aws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pashabitz/liquidity/pkg/liquidity"
)

func TestMockSourceIsDeterministic(t *testing.T) {
	src := &MockSource{}

	first, err := src.Offerings(context.Background(), "m5.large")
	require.NoError(t, err)
	second, err := src.Offerings(context.Background(), "m5.large")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.LessOrEqual(t, len(first), 3)
	for _, o := range first {
		assert.True(t, o.Marketplace)
		assert.Equal(t, "m5.large", o.InstanceType)
		require.Len(t, o.PricingDetails, 1)
		assert.Positive(t, o.PricingDetails[0].Count)
	}
}

func TestMockSourceKnownKey(t *testing.T) {
	offers, err := (&MockSource{}).Offerings(context.Background(), "m5.large")
	require.NoError(t, err)
	require.Len(t, offers, 2)

	var total int64
	for _, o := range offers {
		total += o.Available()
	}
	assert.Equal(t, int64(10), total)
}

func TestMockSourceHonorsCancellation(t *testing.T) {
	src := &MockSource{Latency: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Offerings(ctx, "c5.large")
	assert.ErrorIs(t, err, context.Canceled)
}

var _ liquidity.Source = (*MockSource)(nil)
