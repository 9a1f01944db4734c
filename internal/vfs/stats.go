package vfs

import (
	"context"

	"go.uber.org/zap"

	"github.com/sandboxfs/bridge/internal/infrastructure/logging"
)

// ComputeStats recursively accumulates file count, folder count, and total
// byte size for the subtree under dir. logical is dir's own path and is
// echoed into the result.
//
// A file whose size cannot be read still counts toward FileCount but
// contributes nothing to TotalSize; an unreadable subdirectory counts as a
// folder and its contents are skipped. Both cases are logged.
func ComputeStats(ctx context.Context, dir DirectoryHandle, logical string, logger *logging.Logger) (DirectoryStats, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	stats := DirectoryStats{Path: logical}
	if err := accumulateStats(ctx, dir, logical, logger, &stats); err != nil {
		return DirectoryStats{}, err
	}
	return stats, nil
}

func accumulateStats(ctx context.Context, dir DirectoryHandle, logical string, logger *logging.Logger, stats *DirectoryStats) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := dir.Entries()
	if err != nil {
		return err
	}

	for _, entry := range entries {
		childPath := JoinLogical(logical, entry.Name)

		if entry.IsDir {
			stats.FolderCount++
			child, err := dir.Directory(entry.Name, false)
			if err == nil {
				err = accumulateStats(ctx, child, childPath, logger, stats)
			}
			if err != nil {
				if cerr := ctx.Err(); cerr != nil {
					return cerr
				}
				logger.Warn("skipping unreadable subtree in stats",
					zap.String("path", childPath),
					zap.Error(err),
				)
			}
			continue
		}

		stats.FileCount++
		file, err := dir.File(entry.Name, false)
		if err == nil {
			var size int64
			size, err = file.Size()
			if err == nil {
				stats.TotalSize += uint64(size)
			}
		}
		if err != nil {
			logger.Warn("could not size file",
				zap.String("path", childPath),
				zap.Error(err),
			)
		}
	}
	return nil
}
