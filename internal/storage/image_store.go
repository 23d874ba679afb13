// Package storage persists uploaded product images.
package storage

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/craftelio/storefront/internal/config"
)

// ImageStore saves and removes image files addressed by their public URL.
type ImageStore interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// NewImageStore selects the backend named by cfg.Driver.
func NewImageStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (ImageStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalImageStore(cfg.WebRoot), nil
	case "s3":
		return NewS3ImageStore(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
