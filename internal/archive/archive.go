// Package archive moves a generated assets directory aside so the next
// compile starts from an empty destination.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vladimirpanonopm/levelc/internal"
)

// Dir is the directory, next to the archived one, that holds archives.
const Dir = "archive"

const timestampFormat = "20060102-150405"

// ArchiveAssets moves assetsDir to <parent>/archive/<name>-<timestamp> and
// returns the new path. Characters of the directory name that are unsafe in
// file names become underscores.
func ArchiveAssets(assetsDir string) (string, error) {
	return archiveAt(assetsDir, time.Now())
}

func archiveAt(assetsDir string, now time.Time) (string, error) {
	info, err := os.Stat(assetsDir)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("assets directory does not exist: %s", assetsDir)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat assets directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", assetsDir)
	}

	clean := filepath.Clean(assetsDir)
	archiveDir := filepath.Join(filepath.Dir(clean), Dir)
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := internal.SanitizeFilename(filepath.Base(clean))
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s", base, now.Format(timestampFormat)))

	// Same-second archives get a microsecond suffix
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s", base, now.Format(timestampFormat+".000000")))
	}
	if _, err := os.Stat(archivePath); err == nil {
		return "", fmt.Errorf("archive already exists: %s", archivePath)
	}

	if err := os.Rename(clean, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive assets directory: %w", err)
	}
	return archivePath, nil
}
