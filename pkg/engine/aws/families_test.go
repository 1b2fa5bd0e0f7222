package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pashabitz/liquidity/pkg/config"
)

type fakeInstanceTypesClient struct {
	byFilter map[string][]types.InstanceTypeInfo
	err      error
}

func (f *fakeInstanceTypesClient) DescribeInstanceTypes(ctx context.Context, params *ec2.DescribeInstanceTypesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstanceTypesOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ec2.DescribeInstanceTypesOutput{InstanceTypes: f.byFilter[params.Filters[0].Values[0]]}, nil
}

func typeInfo(name string, vcpus int32, metal bool) types.InstanceTypeInfo {
	return types.InstanceTypeInfo{
		InstanceType: types.InstanceType(name),
		BareMetal:    aws.Bool(metal),
		VCpuInfo:     &types.VCpuInfo{DefaultVCpus: aws.Int32(vcpus)},
	}
}

func TestSizesOrderedByVCPU(t *testing.T) {
	client := &fakeInstanceTypesClient{byFilter: map[string][]types.InstanceTypeInfo{
		"m5.*": {
			typeInfo("m5.metal", 96, true),
			typeInfo("m5.4xlarge", 16, false),
			typeInfo("m5.large", 2, false),
			typeInfo("m5.24xlarge", 96, false),
			typeInfo("m5.xlarge", 4, false),
		},
	}}
	d := &SizeDiscoverer{Client: client}

	sizes, err := d.Sizes(context.Background(), "m5")
	require.NoError(t, err)
	assert.Equal(t, []string{"large", "xlarge", "4xlarge", "24xlarge", "metal"}, sizes)
}

func TestDiscoverSkipsUnknownFamilies(t *testing.T) {
	client := &fakeInstanceTypesClient{byFilter: map[string][]types.InstanceTypeInfo{
		"c5.*": {typeInfo("c5.large", 2, false)},
	}}
	d := &SizeDiscoverer{Client: client}

	got, err := d.Discover(context.Background(), []string{"c5", "zz9"})
	require.NoError(t, err)
	assert.Equal(t, config.Families{"c5": {"large"}}, got)
}

func TestDiscoverPropagatesErrors(t *testing.T) {
	d := &SizeDiscoverer{Client: &fakeInstanceTypesClient{err: errors.New("UnauthorizedOperation")}}

	_, err := d.Discover(context.Background(), []string{"m5"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UnauthorizedOperation")
}
