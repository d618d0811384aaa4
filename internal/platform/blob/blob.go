// Package blob stores certificate files in an object store addressed by opaque keys
package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"certifica/internal/platform/config"
	"certifica/internal/platform/logger"
)

// ErrNotFound is returned by Stat when the key does not exist
var ErrNotFound = errors.New("blob: object not found")

// Info describes a stored object
type Info struct {
	Key         string
	Size        int64
	ContentType string
	ModTime     time.Time
}

// Store is the object store seam used by the pipeline and the processor
// Delete of a missing key succeeds
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
	Delete(ctx context.Context, key string) error
	Stat(ctx context.Context, key string) (Info, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Health(ctx context.Context) error
}

// Config selects and configures a driver
type Config struct {
	Driver        string // s3, local or mem
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PathStyle     bool
	PublicBaseURL string
	LocalDir      string
	PresignTTL    time.Duration
}

// FromConfig reads BLOB_* settings
func FromConfig(cfg config.Conf) Config {
	c := cfg.Prefix("BLOB_")
	return Config{
		Driver:        c.MayEnum("DRIVER", "s3", "s3", "local", "mem"),
		Bucket:        c.MayString("BUCKET", "certificates"),
		Region:        c.MayString("REGION", "us-east-1"),
		Endpoint:      c.MayString("ENDPOINT", ""),
		AccessKey:     c.MayString("ACCESS_KEY_ID", ""),
		SecretKey:     c.MayString("SECRET_ACCESS_KEY", ""),
		PathStyle:     c.MayBool("PATH_STYLE", false),
		PublicBaseURL: c.MayString("PUBLIC_BASE_URL", ""),
		LocalDir:      c.MayString("LOCAL_DIR", "./data/blobs"),
		PresignTTL:    c.MayDuration("PRESIGN_TTL", 15*time.Minute),
	}
}

// Open builds the configured driver
func Open(ctx context.Context, c Config) (Store, error) {
	log := logger.Named("blob")
	switch c.Driver {
	case "s3", "":
		s, err := NewS3(ctx, c)
		if err != nil {
			return nil, err
		}
		log.Info().Str("bucket", c.Bucket).Str("endpoint", c.Endpoint).Bool("path_style", c.PathStyle).Msg("s3 blob store ready")
		return s, nil
	case "local":
		s, err := NewLocal(c.LocalDir, c.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		log.Info().Str("dir", c.LocalDir).Msg("local blob store ready")
		return s, nil
	case "mem":
		log.Warn().Msg("in-memory blob store; objects vanish on restart")
		return NewMem(c.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("blob: unknown driver %q", c.Driver)
	}
}

// joinURL appends key to base with exactly one slash between them
func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// checkKey rejects keys that could escape a bucket or directory
func checkKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") || strings.ContainsRune(key, '\\') {
		return fmt.Errorf("blob: invalid key %q", key)
	}
	return nil
}
