package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// setBaseNames are the spawn-setbase files some server builds keep next to
// Monster.txt. They are not edited here, only cross-checked.
var setBaseNames = []string{"MonsterSetBase.txt", "MonsterSetBaseCS.txt"}

// SetBaseFile is the cross-check result for one setbase file.
type SetBaseFile struct {
	Name    string
	Present bool
	Missing []int // monster indices that never appear in the file
}

// SetBaseReport scans the setbase files for monster indices that are defined
// in the table but never placed. Purely informational; nothing is written.
func (s *Session) SetBaseReport() ([]SetBaseFile, error) {
	var report []SetBaseFile
	for _, name := range setBaseNames {
		path := filepath.Join(s.Folder, name)
		raw, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			report = append(report, SetBaseFile{Name: name})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("setbase: read %s: %w", path, err)
		}

		tokens := make(map[string]bool)
		for _, line := range strings.Split(string(raw), "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") {
				continue
			}
			for _, tok := range strings.Fields(trimmed) {
				tokens[tok] = true
			}
		}

		f := SetBaseFile{Name: name, Present: true}
		for _, m := range s.Monsters.Records() {
			if !tokens[strconv.Itoa(m.Index)] {
				f.Missing = append(f.Missing, m.Index)
			}
		}
		report = append(report, f)
	}
	return report, nil
}

// WriteSetBaseSuggestions writes MonsterSetBase.suggestions.txt next to the
// data files, listing the missing indices per setbase file. Returns the
// suggestions path.
func (s *Session) WriteSetBaseSuggestions(report []SetBaseFile) (string, error) {
	var b strings.Builder
	b.WriteString("# Suggested entries for missing monster indices\n")
	for _, f := range report {
		if !f.Present || len(f.Missing) == 0 {
			continue
		}
		fmt.Fprintf(&b, "# From file: %s\n", f.Name)
		for _, idx := range f.Missing {
			name := s.Monsters.Resolve(idx).DisplayName()
			fmt.Fprintf(&b, "MISSING_INDEX\t%d\t# add a setbase line for %q\n", idx, name)
		}
		b.WriteString("\n")
	}

	path := filepath.Join(s.Folder, "MonsterSetBase.suggestions.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("setbase: write %s: %w", path, err)
	}
	s.log.Info("setbase suggestions written", zap.String("path", path))
	return path, nil
}
