package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Local keeps objects on the filesystem under a root directory
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates dir when missing; baseURL defaults to a file:// URL of dir
func NewLocal(dir, baseURL string) (*Local, error) {
	if dir == "" {
		return nil, errors.New("blob: local dir is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("blob: resolve %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create %s: %w", abs, err)
	}
	if baseURL == "" {
		baseURL = "file://" + filepath.ToSlash(abs)
	}
	return &Local{dir: abs, baseURL: baseURL}, nil
}

func (l *Local) path(key string) string { return filepath.Join(l.dir, filepath.FromSlash(key)) }

// Put writes through a temp file so readers never see a partial object
func (l *Local) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	p := l.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("local put %s: %w", key, err)
	}
	tmp := p + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("local put %s: %w", key, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("local put %s: %w", key, err)
	}
	return joinURL(l.baseURL, key), nil
}

// Delete removes key; a missing file is not an error
func (l *Local) Delete(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := os.Remove(l.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("local delete %s: %w", key, err)
	}
	return nil
}

// Stat sniffs the content type since the filesystem does not keep one
func (l *Local) Stat(_ context.Context, key string) (Info, error) {
	if err := checkKey(key); err != nil {
		return Info{}, err
	}
	p := l.path(key)
	fi, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Info{}, ErrNotFound
		}
		return Info{}, fmt.Errorf("local stat %s: %w", key, err)
	}
	ct := ""
	if m, err := mimetype.DetectFile(p); err == nil {
		ct = m.String()
	}
	return Info{Key: key, Size: fi.Size(), ContentType: ct, ModTime: fi.ModTime()}, nil
}

// PresignGet cannot sign; it returns the plain URL with an expiry hint
func (l *Local) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if _, err := l.Stat(ctx, key); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s?expires=%d", joinURL(l.baseURL, key), time.Now().Add(ttl).Unix()), nil
}

// Health checks the root directory is still writable
func (l *Local) Health(context.Context) error {
	f, err := os.CreateTemp(l.dir, ".health-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
