package uploads

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopcraft/storefront/internal/clock"
	"github.com/shopcraft/storefront/internal/config"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (BlobStore, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := NewLocalStore(Params{
		Cfg: config.Config{
			UploadsDir:     dir,
			UploadsBaseURL: "/uploads",
		},
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, dir
}

func TestPutWritesBlobAndReturnsURL(t *testing.T) {
	store, dir := newTestStore(t)

	url, err := store.Put(context.Background(), "photo.jpg", []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, "-photo.jpg") {
		t.Fatalf("unexpected url %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("unexpected blob contents %q", data)
	}
}

func TestPutStripsPathComponents(t *testing.T) {
	store, _ := newTestStore(t)

	url, err := store.Put(context.Background(), "../../etc/passwd", []byte("x"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if strings.Contains(url, "..") {
		t.Fatalf("expected path components stripped, got %q", url)
	}
	if !strings.HasSuffix(url, "-passwd") {
		t.Fatalf("expected base name kept, got %q", url)
	}
}

func TestPutUniqueNames(t *testing.T) {
	store, _ := newTestStore(t)

	first, err := store.Put(context.Background(), "same.jpg", []byte("a"))
	if err != nil {
		t.Fatalf("first put: %v", err)
	}
	second, err := store.Put(context.Background(), "same.jpg", []byte("b"))
	if err != nil {
		t.Fatalf("second put: %v", err)
	}
	if first == second {
		t.Fatalf("expected unique blob names, got %q twice", first)
	}
}

func TestPutHonorsContextCancellation(t *testing.T) {
	store, _ := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Put(ctx, "late.jpg", []byte("x")); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}
