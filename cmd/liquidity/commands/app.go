package commands

import (
	"context"
	"fmt"

	"github.com/pashabitz/liquidity/pkg/engine"
	awsengine "github.com/pashabitz/liquidity/pkg/engine/aws"
	"github.com/pashabitz/liquidity/pkg/liquidity"
	"github.com/pashabitz/liquidity/pkg/storage"
)

// newAWSClient authenticates against AWS and logs the caller's account.
func newAWSClient(ctx context.Context) (*awsengine.Client, error) {
	client, err := awsengine.NewClient(ctx, cfg.Region, cfg.Profile, cfg.Verbose, logger)
	if err != nil {
		return nil, err
	}
	account, err := client.VerifyIdentity(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w (check AWS credentials or run 'aws configure')", err)
	}
	logConnected(account)
	return client, nil
}

// logConnected reports the caller's account. The "account" key is redacted by the logger, so it is not used here.
func logConnected(account string) {
	logger.Info("Connected to AWS", "aws_account", account, "region", cfg.Region)
}

// openEngine opens the cache document and wraps it in an engine.
// An AWS session is only created when the cache lives in S3 or offerings must be fetched from EC2.
func openEngine(ctx context.Context, fetch bool) (*engine.Engine, error) {
	loc, err := storage.ParseLocation(cfg.Cache)
	if err != nil {
		return nil, err
	}

	live := fetch && !cfg.Mock

	var client *awsengine.Client
	if loc.IsS3() || live {
		if client, err = newAWSClient(ctx); err != nil {
			return nil, err
		}
	}

	var blobs storage.BlobStore
	if loc.IsS3() {
		blobs = storage.NewS3Store(client.Config, loc.Bucket)
	} else {
		blobs = storage.NewLocalStore(loc.Root)
	}

	opts := []liquidity.Option{
		liquidity.WithDocumentKey(loc.Key),
		liquidity.WithLogger(logger),
	}
	switch {
	case live:
		opts = append(opts, liquidity.WithSource(awsengine.NewMarketplaceSource(client.Config, logger)))
	case fetch:
		logger.Warn("Mock mode: offerings are synthetic")
		opts = append(opts, liquidity.WithSource(awsengine.NewMockSource()))
	}

	store, err := liquidity.Open(ctx, blobs, cfg.Families, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache %s: %w", loc, err)
	}
	logger.Debug("Cache opened", "location", loc.String(), "keys", len(store.Keys()))

	return engine.New(store, engine.WithLogger(logger)), nil
}
