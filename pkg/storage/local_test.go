package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(filepath.Join(t.TempDir(), "nested"))

	require.NoError(t, store.Put(ctx, "database.json", []byte(`{"a":1}`)))
	require.NoError(t, store.Put(ctx, "database.json", []byte(`{"b":2}`)))

	data, err := store.Get(ctx, "database.json")
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(data))

	entries, err := os.ReadDir(store.Root)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestLocalStoreMissingKey(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	_, err := store.Get(context.Background(), "database.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		raw     string
		want    Location
		wantErr bool
	}{
		{raw: "database.json", want: Location{Root: ".", Key: "database.json"}},
		{raw: "/var/lib/liquidity/db.json", want: Location{Root: "/var/lib/liquidity", Key: "db.json"}},
		{raw: "s3://bucket/cache/db.json", want: Location{Bucket: "bucket", Key: "cache/db.json"}},
		{raw: "s3://bucket", wantErr: true},
		{raw: "s3://bucket/dir/", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseLocation(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "s3://b/k.json", Location{Bucket: "b", Key: "k.json"}.String())
	assert.Equal(t, filepath.Join("dir", "k.json"), Location{Root: "dir", Key: "k.json"}.String())
}
