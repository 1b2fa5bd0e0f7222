package commands

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pashabitz/liquidity/pkg/config"
	"github.com/pashabitz/liquidity/pkg/engine/report"
	"github.com/pashabitz/liquidity/pkg/liquidity"
	"github.com/pashabitz/liquidity/pkg/logging"
)

const cachedDocument = `{
  "m5.large": [{"InstanceType": "m5.large", "PricingDetails": [{"Count": 3}]}],
  "c5.large": [{"InstanceType": "c5.large", "PricingDetails": [{"Count": 7}]}]
}`

func writeCache(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "database.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	// Flag values outlive a single Execute; reset the ones tests toggle.
	require.NoError(t, rootCmd.PersistentFlags().Set("mock", "false"))
	familiesDiscover, familiesWrite = false, false
	reportFormat = report.FormatTable
	scoreRefresh = nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.Execute()
	runCleanups()
	return out.String(), err
}

func TestScoreFromCache(t *testing.T) {
	cache := writeCache(t, cachedDocument)

	out, err := execute(t, "score", "--cache", cache)
	require.NoError(t, err)
	assert.Equal(t, "0.42857142857142855\n", out)

	out, err = execute(t, "score", "c5", "--cache", cache)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestScoreUnknownFamily(t *testing.T) {
	cache := writeCache(t, cachedDocument)

	_, err := execute(t, "score", "r5", "--cache", cache)
	assert.ErrorIs(t, err, liquidity.ErrUnknownFamily)
}

func TestScoreWithoutCapacity(t *testing.T) {
	cache := filepath.Join(t.TempDir(), "missing.json")

	_, err := execute(t, "score", "--cache", cache)
	assert.ErrorIs(t, err, liquidity.ErrNoCapacity)

	_, statErr := os.Stat(cache)
	assert.True(t, os.IsNotExist(statErr), "scoring must not create the cache")
}

func TestReportCSV(t *testing.T) {
	cache := writeCache(t, cachedDocument)

	out, err := execute(t, "report", "--format", "csv", "--cache", cache)
	require.NoError(t, err)
	assert.Equal(t, "Family,Available,Liquidity,CachedSizes,ConfiguredSizes\n"+
		"c5,7,1.0000,1,9\n"+
		"m5,3,0.4286,1,9\n", out)
}

func TestReportRejectsUnknownFormat(t *testing.T) {
	cache := writeCache(t, cachedDocument)

	_, err := execute(t, "report", "--format", "xml", "--cache", cache)
	assert.Error(t, err)
}

func TestCorruptCache(t *testing.T) {
	cache := writeCache(t, "{not json")

	_, err := execute(t, "report", "--format", "table", "--cache", cache)
	assert.ErrorContains(t, err, "failed to open cache")
}

func TestInvalidS3Location(t *testing.T) {
	_, err := execute(t, "score", "--cache", "s3://bucket-only")
	assert.ErrorContains(t, err, "must name a bucket and an object key")
}

func TestFamiliesListsDefaults(t *testing.T) {
	out, err := execute(t, "families", "m5")
	require.NoError(t, err)
	assert.Equal(t, "m5: large, xlarge, 2xlarge, 4xlarge, 8xlarge, 12xlarge, 16xlarge, 24xlarge, metal\n", out)

	_, err = execute(t, "families", "r5")
	assert.ErrorContains(t, err, `family "r5" is not configured`)
}

func TestFamiliesWriteNeedsDiscover(t *testing.T) {
	_, err := execute(t, "families", "--write")
	assert.ErrorContains(t, err, "--write requires --discover")
}

func TestMockRefreshThenScore(t *testing.T) {
	cache := filepath.Join(t.TempDir(), "database.json")

	out, err := execute(t, "refresh", "m5", "--mock", "--cache", cache)
	require.NoError(t, err)
	assert.Equal(t, "m5: 69 available\n", out)

	body, err := os.ReadFile(cache)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"m5.metal"`)
	assert.Contains(t, string(body), `"m5.xlarge": []`)
	assert.NotContains(t, string(body), `"c5.large"`)

	out, err = execute(t, "score", "m5", "--cache", cache)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	// c5 was never fetched.
	out, err = execute(t, "score", "c5", "--cache", cache)
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestConnectedLogShowsAccount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "liquidity.log")
	l, closer, err := logging.New(config.LogConfig{Level: "info", Format: "text", Output: path})
	require.NoError(t, err)

	prev := logger
	logger = l
	t.Cleanup(func() { logger = prev })

	logConnected("123456789012")
	require.NoError(t, closer.Close())

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "aws_account=123456789012")
	assert.NotContains(t, string(body), "REDACTED")
}

func TestMockRefreshRejectsUnknownFamily(t *testing.T) {
	cache := filepath.Join(t.TempDir(), "database.json")

	_, err := execute(t, "refresh", "r5", "--mock", "--cache", cache)
	assert.ErrorIs(t, err, liquidity.ErrUnknownFamily)
}
