package source

import (
	"context"
	"fmt"

	"github.com/dd0wney/cluso-chaingraph/pkg/config"
)

// Open builds the source selected by cfg.Kind
func Open(ctx context.Context, cfg config.SourceConfig) (Source, error) {
	switch cfg.Kind {
	case config.SourceFile:
		return NewFileSource(cfg.Path), nil
	case config.SourcePostgres:
		return NewPostgresSource(ctx, cfg.DatabaseURL)
	case config.SourceS3:
		return NewS3Source(ctx, S3Options{
			Bucket:          cfg.Bucket,
			Key:             cfg.Key,
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		})
	case config.SourceSynthetic:
		return NewGenerator(GeneratorOptions{
			Wallets:      cfg.Wallets,
			Contracts:    cfg.Contracts,
			Transactions: cfg.Transactions,
			Seed:         cfg.Seed,
		}), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}
