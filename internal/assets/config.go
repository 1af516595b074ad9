package assets

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// FromConfig builds a manager over the configured directories, in order, with
// the S3 source (when a bucket is set) above them all.
func FromConfig(cfg config.AssetsConfig) (*Manager, error) {
	m := NewManager()
	for _, dir := range cfg.Dirs {
		m.AddSource(NewDirSource(dir))
		logger.Info("asset directory added", zap.String("dir", dir))
	}
	if cfg.S3.Enabled() {
		src, err := NewS3Source(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.Prefix)
		if err != nil {
			return nil, fmt.Errorf("s3 asset source: %w", err)
		}
		m.AddSource(src)
		logger.Info("s3 asset source added",
			zap.String("bucket", cfg.S3.Bucket),
			zap.String("prefix", cfg.S3.Prefix),
		)
	}
	return m, nil
}
