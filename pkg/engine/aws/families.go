package aws

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/pashabitz/liquidity/pkg/config"
)

// InstanceTypesClient is the read-only slice of the EC2 API used to discover family sizes.
type InstanceTypesClient interface {
	DescribeInstanceTypes(ctx context.Context, params *ec2.DescribeInstanceTypesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstanceTypesOutput, error)
}

// SizeDiscoverer asks EC2 which sizes exist for an instance family in the current region.
type SizeDiscoverer struct {
	Client InstanceTypesClient
}

func NewSizeDiscoverer(cfg aws.Config) *SizeDiscoverer {
	return &SizeDiscoverer{Client: ec2.NewFromConfig(cfg)}
}

type discoveredSize struct {
	name  string
	vcpus int32
	metal bool
}

// Sizes returns the family's sizes ordered by vCPU count, bare metal last.
func (d *SizeDiscoverer) Sizes(ctx context.Context, family string) ([]string, error) {
	prefix := family + config.KeySeparator
	paginator := ec2.NewDescribeInstanceTypesPaginator(d.Client, &ec2.DescribeInstanceTypesInput{
		Filters: []types.Filter{
			{
				Name:   aws.String("instance-type"),
				Values: []string{prefix + "*"},
			},
		},
	})

	var found []discoveredSize
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe instance types for %s: %w", family, err)
		}

		for _, info := range page.InstanceTypes {
			name := string(info.InstanceType)
			// The wildcard filter is a glob; keep exact family matches only.
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			size := discoveredSize{
				name:  strings.TrimPrefix(name, prefix),
				metal: aws.ToBool(info.BareMetal),
			}
			if info.VCpuInfo != nil {
				size.vcpus = aws.ToInt32(info.VCpuInfo.DefaultVCpus)
			}
			found = append(found, size)
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].metal != found[j].metal {
			return !found[i].metal
		}
		if found[i].vcpus != found[j].vcpus {
			return found[i].vcpus < found[j].vcpus
		}
		return found[i].name < found[j].name
	})

	sizes := make([]string, 0, len(found))
	for _, s := range found {
		sizes = append(sizes, s.name)
	}
	return sizes, nil
}

// Discover resolves sizes for every named family. Families EC2 does not know are omitted.
func (d *SizeDiscoverer) Discover(ctx context.Context, families []string) (config.Families, error) {
	out := config.Families{}
	for _, family := range families {
		sizes, err := d.Sizes(ctx, family)
		if err != nil {
			return nil, err
		}
		if len(sizes) > 0 {
			out[family] = sizes
		}
	}
	return out, nil
}
