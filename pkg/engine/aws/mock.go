package aws

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/pashabitz/liquidity/pkg/liquidity"
)

// MockSource serves deterministic synthetic marketplace offerings for offline runs.
type MockSource struct {
	// Latency is slept before each response to mimic a network round trip.
	Latency time.Duration
}

func NewMockSource() *MockSource {
	return &MockSource{Latency: 100 * time.Millisecond}
}

// Offerings returns between zero and three offerings for the key. The same key always yields the same offerings.
func (s *MockSource) Offerings(ctx context.Context, key liquidity.Key) ([]liquidity.Offering, error) {
	if s.Latency > 0 {
		select {
		case <-time.After(s.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	seed := h.Sum32()

	n := int(seed % 4)
	offerings := make([]liquidity.Offering, 0, n)
	for i := 0; i < n; i++ {
		count := int64((seed>>(8*i))%8) + 1
		offerings = append(offerings, liquidity.Offering{
			ReservedInstancesOfferingId: fmt.Sprintf("mock-%08x-%d", seed, i),
			InstanceType:                string(key),
			AvailabilityZone:            "us-east-1a",
			Duration:                    31536000,
			FixedPrice:                  float64(100 * count),
			CurrencyCode:                "USD",
			InstanceTenancy:             "default",
			OfferingClass:               "standard",
			OfferingType:                "All Upfront",
			ProductDescription:          "Linux/UNIX",
			Scope:                       "Availability Zone",
			Marketplace:                 true,
			RecurringCharges:            []liquidity.RecurringCharge{},
			PricingDetails: []liquidity.PricingDetail{
				{Count: count, Price: float64(90 * count)},
			},
		})
	}
	return offerings, nil
}
