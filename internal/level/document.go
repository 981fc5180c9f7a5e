package level

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vladimirpanonopm/levelc/internal"
	"github.com/vladimirpanonopm/levelc/internal/fileutil"
)

const (
	filePrefix     = "level_"
	sourceSuffix   = ".txt"
	documentSuffix = ".json"

	// AudioExt is the extension of generated audio assets.
	AudioExt = ".wav"
)

// Document is the compiled form of one source file.
type Document struct {
	LevelID string `json:"levelId"`
	Cards   []Card `json:"cards"`
}

// LevelIDFromPath derives the level identifier from a source path:
// "lessons/level_7.txt" yields "7".
func LevelIDFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, sourceSuffix)
	return strings.TrimPrefix(base, filePrefix)
}

// FileName returns the output file name for a level identifier.
func FileName(levelID string) string {
	return filePrefix + levelID + documentSuffix
}

// IsSourceFile reports whether name looks like a level source document.
func IsSourceFile(name string) bool {
	return strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, sourceSuffix)
}

// AudioAssetName names the card audio asset after the trimmed display text,
// so recompiling the same text always targets the same file.
func AudioAssetName(displayText string) string {
	return internal.HashName(strings.TrimSpace(displayText)) + AudioExt
}

// Encode renders the document as two-space indented JSON without HTML
// escaping, so Hebrew and Cyrillic stay readable.
func Encode(doc Document) ([]byte, error) {
	if doc.Cards == nil {
		doc.Cards = []Card{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode level %s: %w", doc.LevelID, err)
	}
	return buf.Bytes(), nil
}

// Write encodes the document and atomically replaces level_<id>.json in dir.
// It returns the written path.
func Write(dir string, doc Document) (string, error) {
	data, err := Encode(doc)
	if err != nil {
		return "", err
	}

	if err := fileutil.EnsureDir(dir); err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(doc.LevelID))
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write level %s: %w", doc.LevelID, err)
	}
	return path, nil
}
