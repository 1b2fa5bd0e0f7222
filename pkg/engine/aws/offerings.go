package aws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/pashabitz/liquidity/pkg/liquidity"
)

// OfferingsClient is the read-only slice of the EC2 API used to list marketplace offerings.
type OfferingsClient interface {
	DescribeReservedInstancesOfferings(ctx context.Context, params *ec2.DescribeReservedInstancesOfferingsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeReservedInstancesOfferingsOutput, error)
}

// OfferingsFetchedMetric counts offerings returned by EC2, by instance type.
const OfferingsFetchedMetric = "liquidity.offerings.fetched"

// MarketplaceSource lists reserved instance offerings sold on the marketplace.
type MarketplaceSource struct {
	Client OfferingsClient
	Logger *slog.Logger
	Tracer trace.Tracer

	fetched metric.Int64Counter
}

// NewMarketplaceSource records its metrics on the global meter provider installed by telemetry.Init.
func NewMarketplaceSource(cfg aws.Config, logger *slog.Logger) *MarketplaceSource {
	return newMarketplaceSource(ec2.NewFromConfig(cfg), logger, otel.GetMeterProvider())
}

func newMarketplaceSource(client OfferingsClient, logger *slog.Logger, meters metric.MeterProvider) *MarketplaceSource {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if meters == nil {
		meters = otel.GetMeterProvider()
	}

	counter, err := meters.Meter("liquidity/aws").Int64Counter(OfferingsFetchedMetric,
		metric.WithDescription("Marketplace offerings returned by EC2"),
	)
	if err != nil {
		counter = noop.Int64Counter{}
	}

	return &MarketplaceSource{
		Client:  client,
		Logger:  logger,
		Tracer:  otel.Tracer("liquidity/aws"),
		fetched: counter,
	}
}

// Offerings walks every page of marketplace offerings for one instance-type-size.
func (s *MarketplaceSource) Offerings(ctx context.Context, key liquidity.Key) ([]liquidity.Offering, error) {
	ctx, span := s.Tracer.Start(ctx, "DescribeReservedInstancesOfferings", trace.WithAttributes(
		attribute.String("instance_type", string(key)),
	))
	defer span.End()

	input := &ec2.DescribeReservedInstancesOfferingsInput{
		InstanceType:       types.InstanceType(key),
		IncludeMarketplace: aws.Bool(true),
		Filters: []types.Filter{
			{
				Name:   aws.String("marketplace"),
				Values: []string{"true"},
			},
		},
	}

	var offerings []liquidity.Offering
	pages := 0
	paginator := ec2.NewDescribeReservedInstancesOfferingsPaginator(s.Client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			var apiErr smithy.APIError
			if errors.As(err, &apiErr) {
				s.Logger.Error("EC2 rejected offerings request", "key", key, "code", apiErr.ErrorCode(), "page", pages)
			}
			return nil, fmt.Errorf("failed to describe reserved instances offerings for %s: %w", key, err)
		}
		pages++

		for _, o := range page.ReservedInstancesOfferings {
			offerings = append(offerings, convertOffering(o))
		}
	}

	span.SetAttributes(attribute.Int("pages", pages), attribute.Int("offerings", len(offerings)))
	s.fetched.Add(ctx, int64(len(offerings)), metric.WithAttributes(attribute.String("instance_type", string(key))))
	s.Logger.Debug("Fetched marketplace offerings", "key", key, "pages", pages, "offerings", len(offerings))

	return offerings, nil
}

func convertOffering(o types.ReservedInstancesOffering) liquidity.Offering {
	out := liquidity.Offering{
		ReservedInstancesOfferingId: aws.ToString(o.ReservedInstancesOfferingId),
		InstanceType:                string(o.InstanceType),
		AvailabilityZone:            aws.ToString(o.AvailabilityZone),
		Duration:                    aws.ToInt64(o.Duration),
		FixedPrice:                  float64(aws.ToFloat32(o.FixedPrice)),
		UsagePrice:                  float64(aws.ToFloat32(o.UsagePrice)),
		CurrencyCode:                string(o.CurrencyCode),
		InstanceTenancy:             string(o.InstanceTenancy),
		OfferingClass:               string(o.OfferingClass),
		OfferingType:                string(o.OfferingType),
		ProductDescription:          string(o.ProductDescription),
		Scope:                       string(o.Scope),
		Marketplace:                 aws.ToBool(o.Marketplace),
		RecurringCharges:            make([]liquidity.RecurringCharge, 0, len(o.RecurringCharges)),
		PricingDetails:              make([]liquidity.PricingDetail, 0, len(o.PricingDetails)),
	}

	for _, p := range o.PricingDetails {
		out.PricingDetails = append(out.PricingDetails, liquidity.PricingDetail{
			Count: int64(aws.ToInt32(p.Count)),
			Price: aws.ToFloat64(p.Price),
		})
	}
	for _, rc := range o.RecurringCharges {
		out.RecurringCharges = append(out.RecurringCharges, liquidity.RecurringCharge{
			Amount:    aws.ToFloat64(rc.Amount),
			Frequency: string(rc.Frequency),
		})
	}
	return out
}
