// Package backup copies a file to a timestamped sibling before it gets
// overwritten. Backups are write-once; the tool never reads them back.
package backup

import (
	"fmt"
	"os"
	"time"
)

const DefaultLayout = "20060102_150405"

// Writer stamps and copies. Now is injectable so tests get stable names.
type Writer struct {
	Layout string
	Now    func() time.Time
}

func NewWriter(layout string) *Writer {
	if layout == "" {
		layout = DefaultLayout
	}
	return &Writer{Layout: layout, Now: time.Now}
}

// Backup copies path to <path>.bak_<stamp> and returns the new path. A
// missing source is not an error: the first save of a brand-new file has
// nothing to preserve, so it returns ("", nil). Any other failure must abort
// the save that follows.
func (w *Writer) Backup(path string) (string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("backup: stat %s: %w", path, err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("backup: read %s: %w", path, err)
	}
	bak := fmt.Sprintf("%s.bak_%s", path, w.Now().Format(w.Layout))
	if err := os.WriteFile(bak, raw, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("backup: write %s: %w", bak, err)
	}
	return bak, nil
}
