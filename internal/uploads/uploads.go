// Package uploads stores product image blobs and hands back the public URL
// they are served under.
package uploads

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/shopcraft/storefront/internal/clock"
	"github.com/shopcraft/storefront/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type BlobStore interface {
	Put(ctx context.Context, filename string, data []byte) (string, error)
}

// LocalStore writes blobs to a directory on local disk. The directory is
// served statically by the HTTP server under the configured base URL.
type LocalStore struct {
	dir     string
	baseURL string
	log     *zap.Logger
	clock   clock.Clock
}

type Params struct {
	fx.In

	Cfg   config.Config
	Log   *zap.Logger
	Clock clock.Clock
}

func NewLocalStore(p Params) (BlobStore, error) {
	if err := os.MkdirAll(p.Cfg.UploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalStore{
		dir:     p.Cfg.UploadsDir,
		baseURL: strings.TrimSuffix(p.Cfg.UploadsBaseURL, "/"),
		log:     p.Log.Named("uploads.local"),
		clock:   p.Clock,
	}, nil
}

func (s *LocalStore) Put(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := s.uniqueName(filename)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}

	s.log.Debug("blob stored",
		zap.String("filename", name),
		zap.Int("size", len(data)),
	)
	return s.baseURL + "/" + name, nil
}

// uniqueName prefixes the client-supplied filename so concurrent uploads of
// the same file never collide. Any path components are stripped.
func (s *LocalStore) uniqueName(filename string) string {
	base := path.Base(filepath.ToSlash(filename))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	suffix := rand.Int63n(1 << 31)
	return fmt.Sprintf("%d-%d-%s", s.clock.Now().UnixMilli(), suffix, base)
}

var Module = fx.Module("uploads",
	fx.Provide(NewLocalStore),
)
