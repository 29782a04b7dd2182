package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/stipple/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := newCache(true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("newCache(true) = %T, want NullCache", c)
	}

	c, err = newCache(false)
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("newCache(false) = %T, want *FileCache", c)
	}
	if filepath.Base(fc.Dir()) != appName {
		t.Errorf("cache dir = %q, want suffix %q", fc.Dir(), appName)
	}
}

func TestCacheKeyerScopedByVersion(t *testing.T) {
	opts := cache.PointsKeyOpts{Count: 10}
	scoped := cacheKeyer().PointsKey("img", opts)
	plain := cache.NewDefaultKeyer().PointsKey("img", opts)
	if scoped == plain {
		t.Error("CLI cache keys should differ from unscoped keys")
	}
}
