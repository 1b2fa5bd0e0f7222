package liquidity

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/pashabitz/liquidity/pkg/config"
)

// Separator joins a family and a size into an instance-type-size key.
const Separator = config.KeySeparator

// Key identifies a concrete instance shape, e.g. "m5.large".
type Key string

// NewKey joins a family and size.
func NewKey(family, size string) Key {
	return Key(family + Separator + size)
}

// Family returns the family component of the key, or "" if the key has no separator.
func (k Key) Family() string {
	family, _, ok := strings.Cut(string(k), Separator)
	if !ok {
		return ""
	}
	return family
}

// Size returns the size component of the key.
func (k Key) Size() string {
	_, size, _ := strings.Cut(string(k), Separator)
	return size
}

// BelongsTo reports whether the key is an exact family match. "m5" does not match "m50.large".
func (k Key) BelongsTo(family string) bool {
	return strings.HasPrefix(string(k), family+Separator)
}

// PricingDetail is one price point of a marketplace offering.
type PricingDetail struct {
	Count int64   `json:"Count"`
	Price float64 `json:"Price"`
}

// RecurringCharge is carried through from the marketplace untouched.
type RecurringCharge struct {
	Amount    float64 `json:"Amount"`
	Frequency string  `json:"Frequency"`
}

// Offering is a reserved instance marketplace listing.
// Field names follow the EC2 API so documents written by other tooling load as-is.
// Only PricingDetails is interpreted; everything else is opaque metadata.
//
// An Offering decoded from JSON encodes back to exactly the record it was decoded from,
// unknown fields and zero values included.
type Offering struct {
	ReservedInstancesOfferingId string            `json:"ReservedInstancesOfferingId"`
	InstanceType                string            `json:"InstanceType"`
	AvailabilityZone            string            `json:"AvailabilityZone"`
	Duration                    int64             `json:"Duration"`
	FixedPrice                  float64           `json:"FixedPrice"`
	UsagePrice                  float64           `json:"UsagePrice"`
	CurrencyCode                string            `json:"CurrencyCode"`
	InstanceTenancy             string            `json:"InstanceTenancy"`
	OfferingClass               string            `json:"OfferingClass"`
	OfferingType                string            `json:"OfferingType"`
	ProductDescription          string            `json:"ProductDescription"`
	Scope                       string            `json:"Scope"`
	Marketplace                 bool              `json:"Marketplace"`
	RecurringCharges            []RecurringCharge `json:"RecurringCharges"`
	PricingDetails              []PricingDetail   `json:"PricingDetails"`

	raw json.RawMessage
}

// offeringFields has Offering's layout without its JSON methods.
type offeringFields Offering

func (o *Offering) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var fields offeringFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*o = Offering(fields)
	o.raw = slices.Clone(data)
	return nil
}

func (o Offering) MarshalJSON() ([]byte, error) {
	if len(o.raw) > 0 {
		return o.raw, nil
	}
	return json.Marshal(offeringFields(o))
}

// Available sums the instance counts across all price points.
func (o Offering) Available() int64 {
	var total int64
	for _, p := range o.PricingDetails {
		total += p.Count
	}
	return total
}

// Document maps instance-type-size keys to the offerings last fetched for them.
type Document map[Key][]Offering
