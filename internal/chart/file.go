package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileTimeLayout stamps generated chart file names.
const FileTimeLayout = "2006-01-02_15-04-05"

// FileName returns "<prefix>_<timestamp>.svg".
func FileName(prefix string, at time.Time) string {
	return fmt.Sprintf("%s_%s.svg", prefix, at.Format(FileTimeLayout))
}

// Save writes svg into dir, creating it if needed, and returns the file path.
func Save(dir, prefix string, svg []byte, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}
	path := filepath.Join(dir, FileName(prefix, at))
	if err := os.WriteFile(path, svg, 0644); err != nil {
		return "", fmt.Errorf("write chart: %w", err)
	}
	return path, nil
}
