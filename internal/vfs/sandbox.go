package vfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/sandboxfs/bridge/internal/infrastructure/logging"
)

// lockSuffix names the advisory lock taken for a disk-backed sandbox so two
// daemons never serve the same origin store concurrently. The lock file
// lives beside the store directory, not inside it, so store contents stay
// exactly what clients wrote.
const lockSuffix = ".lock"

// Options configures a sandbox store.
type Options struct {
	// Root is the on-disk directory holding per-origin stores. Empty means
	// an in-memory store.
	Root string

	// Origin names the store within Root; it is sanitized into a directory
	// name.
	Origin string

	// Quota is the advertised storage quota in bytes; zero means the host
	// reports none.
	Quota uint64

	Logger *logging.Logger
}

// Sandbox owns the live handle graph for one origin-private store. It is
// the only long-lived object in the storage layer; everything else is
// re-derived from its root per operation.
type Sandbox struct {
	fs       afero.Fs
	basePath string // non-empty when disk-backed
	quota    uint64
	lock     *flock.Flock
	logger   *logging.Logger
}

// Open opens (creating if necessary) the sandbox store described by opts.
func Open(opts Options) (*Sandbox, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	if opts.Root == "" {
		logger.Info("opened in-memory sandbox store",
			zap.String("origin", opts.Origin),
			zap.Uint64("quota", opts.Quota),
		)
		return &Sandbox{
			fs:     afero.NewMemMapFs(),
			quota:  opts.Quota,
			logger: logger,
		}, nil
	}

	dir := filepath.Join(opts.Root, sanitizeOrigin(opts.Origin))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	lock := flock.New(dir + lockSuffix)
	err := retry.Do(
		func() error {
			ok, err := lock.TryLock()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("sandbox store %s is locked by another process", dir)
			}
			return nil
		},
		retry.Attempts(10),
		retry.Delay(50*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	logger.Info("opened sandbox store",
		zap.String("dir", dir),
		zap.String("origin", opts.Origin),
		zap.Uint64("quota", opts.Quota),
	)

	return &Sandbox{
		fs:       afero.NewBasePathFs(afero.NewOsFs(), dir),
		basePath: dir,
		quota:    opts.Quota,
		lock:     lock,
		logger:   logger,
	}, nil
}

// Root returns a fresh handle to the sandbox root directory.
func (s *Sandbox) Root() DirectoryHandle {
	return &dirHandle{fs: s.fs, path: "/"}
}

// Check verifies the store is reachable, failing with ErrUnsupported when
// the root cannot be enumerated.
func (s *Sandbox) Check() error {
	if _, err := s.Root().Entries(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return nil
}

// Estimate reports a point-in-time storage estimate: the configured quota,
// the current usage, and the remaining headroom.
func (s *Sandbox) Estimate(ctx context.Context) (DiskUsage, error) {
	usage, err := s.usage(ctx)
	if err != nil {
		return DiskUsage{}, err
	}

	estimate := DiskUsage{Usage: &usage}
	if s.quota > 0 {
		quota := s.quota
		available := uint64(0)
		if quota > usage {
			available = quota - usage
		}
		estimate.Quota = &quota
		estimate.Available = &available
	}
	return estimate, nil
}

// usage sums file sizes under the root. Disk-backed stores take the fast
// path over the real directory; in-memory stores walk the handle graph.
func (s *Sandbox) usage(ctx context.Context) (uint64, error) {
	if s.basePath == "" {
		stats, err := ComputeStats(ctx, s.Root(), "/", s.logger)
		if err != nil {
			return 0, err
		}
		return stats.TotalSize, nil
	}

	var total atomic.Uint64
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, s.basePath, func(p string, d os.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total.Add(uint64(info.Size()))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total.Load(), nil
}

// Close releases the sandbox's advisory lock. The store itself outlives
// the daemon.
func (s *Sandbox) Close() error {
	if s.lock != nil {
		return s.lock.Unlock()
	}
	return nil
}

// sanitizeOrigin maps an origin (e.g. "https://example.com:8443") onto a
// safe directory name.
func sanitizeOrigin(origin string) string {
	if origin == "" {
		return "default"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, origin)
}
