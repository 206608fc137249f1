// Package audit archives raw TSV uploads so every bulk import can be traced
// back to the exact bytes that produced it.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/comforterslodge/lodge/internal/utils"
)

// Archiver stores upload copies under AuditDir with UUID4-prefixed names so
// repeated uploads of the same file never collide.
type Archiver struct {
	AuditDir string
}

func NewArchiver(auditDir string) *Archiver {
	return &Archiver{
		AuditDir: auditDir,
	}
}

// SaveUpload writes the raw upload bytes and returns the archive path.
func (a *Archiver) SaveUpload(filename string, data []byte) (string, error) {
	if err := a.ensureAuditDir(); err != nil {
		return "", fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s", uuid.New().String(), utils.SanitizeFilename(filename))
	path := filepath.Join(a.AuditDir, name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}
	return path, nil
}

// Prune deletes archived uploads older than the retention window. Called at
// startup; retention of zero or less disables pruning.
func (a *Archiver) Prune(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(a.AuditDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read audit directory: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(a.AuditDir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// ensureAuditDir creates the audit directory if it doesn't exist.
func (a *Archiver) ensureAuditDir() error {
	if _, err := os.Stat(a.AuditDir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	return nil
}
