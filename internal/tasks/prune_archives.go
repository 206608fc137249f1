package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// ArchivePruner deletes archived uploads past the retention window and
// reports how many files were removed.
type ArchivePruner interface {
	Prune(retentionDays int) (int, error)
}

// ArchivePruneTask deletes archived TSV uploads older than the configured
// retention period.
type ArchivePruneTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for archive prune tasks.
func (t ArchivePruneTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prune_archives",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ArchivePruneProcessor creates a processor function for ArchivePruneTask.
func ArchivePruneProcessor(pruner ArchivePruner) backlite.QueueProcessor[ArchivePruneTask] {
	return func(ctx context.Context, task ArchivePruneTask) error {
		if pruner == nil {
			return fmt.Errorf("archive pruner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 30
		}

		removed, err := pruner.Prune(retentionDays)
		if err != nil {
			return fmt.Errorf("prune archives: %w", err)
		}

		log.Printf("[TASK] Pruned %d archived uploads older than %d days", removed, retentionDays)
		return nil
	}
}

// NewArchivePruneQueue creates a backlite queue for archive prune tasks.
func NewArchivePruneQueue(pruner ArchivePruner) backlite.Queue {
	return backlite.NewQueue(ArchivePruneProcessor(pruner))
}
