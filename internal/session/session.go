// Package session holds the in-memory editing state for one opened folder
// and orchestrates load / edit / validate / regenerate / save across the
// stores. The UI layers never touch the stores directly.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/backup"
	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/config"
	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/data"
	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/listgen"
	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/spawn"
	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/validate"
)

// MissingFilesError reports which of the three required files are absent
// from the opened folder.
type MissingFilesError struct {
	Paths []string
}

func (e *MissingFilesError) Error() string {
	return "missing files: " + strings.Join(e.Paths, ", ")
}

type FileStatus int

const (
	StatusSaved FileStatus = iota
	StatusFailed
)

func (s FileStatus) String() string {
	if s == StatusSaved {
		return "saved"
	}
	return "failed"
}

// FileResult is SaveAll's per-file outcome.
type FileResult struct {
	Name       string
	BackupPath string // empty when the file did not exist yet or was not reached
	Status     FileStatus
	Err        error
}

// Stats feeds the status line.
type Stats struct {
	Monsters int
	Maps     int
	Spots    int
	Spawns   int
	Encoding string
}

// Session owns the loaded tables. Single-threaded by design: every call
// comes from one UI goroutine or one CLI invocation.
type Session struct {
	cfg     *config.Config
	log     *zap.Logger
	schema  *data.Schema
	backups *backup.Writer

	Folder   string
	Monsters *data.MonsterTable
	Spawns   *spawn.Document

	dirty map[string]bool
}

func New(cfg *config.Config, log *zap.Logger) (*Session, error) {
	schema := data.DefaultSchema()
	if cfg.Schema.Path != "" {
		s, err := data.LoadSchema(cfg.Schema.Path)
		if err != nil {
			return nil, err
		}
		schema = s
	}
	return &Session{
		cfg:     cfg,
		log:     log,
		schema:  schema,
		backups: backup.NewWriter(cfg.Backup.TimestampLayout),
		dirty:   make(map[string]bool),
	}, nil
}

func (s *Session) Schema() *data.Schema { return s.schema }

func (s *Session) MonsterPath() string { return filepath.Join(s.Folder, s.cfg.Files.MonsterTable) }
func (s *Session) ListPath() string    { return filepath.Join(s.Folder, s.cfg.Files.MonsterList) }
func (s *Session) SpawnPath() string   { return filepath.Join(s.Folder, s.cfg.Files.MonsterSpawn) }

// LoadFolder opens a folder containing the three data files. All three must
// exist. A parse failure aborts the whole load and leaves any previously
// loaded state untouched — the session never holds a partially loaded table.
func (s *Session) LoadFolder(dir string) error {
	paths := []string{
		filepath.Join(dir, s.cfg.Files.MonsterTable),
		filepath.Join(dir, s.cfg.Files.MonsterList),
		filepath.Join(dir, s.cfg.Files.MonsterSpawn),
	}
	var missing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return &MissingFilesError{Paths: missing}
	}

	monsters, err := data.ParseMonsterFile(paths[0], s.schema)
	if err != nil {
		return err
	}
	spawns, err := spawn.ParseSpawnFile(paths[2])
	if err != nil {
		return err
	}

	s.Folder = dir
	s.Monsters = monsters
	s.Spawns = spawns
	s.dirty = make(map[string]bool)
	s.log.Info("folder loaded",
		zap.String("folder", dir),
		zap.Int("monsters", monsters.Count()),
		zap.Int("maps", spawns.MapCount()),
		zap.Int("spawns", spawns.SpawnCount()),
		zap.String("encoding", monsters.Encoding()))
	return nil
}

func (s *Session) Loaded() bool { return s.Monsters != nil }

// Dirty reports whether the named file has unsaved edits.
func (s *Session) Dirty(name string) bool { return s.dirty[name] }

func (s *Session) DirtyAny() bool {
	for _, d := range s.dirty {
		if d {
			return true
		}
	}
	return false
}

func (s *Session) markMonstersDirty() {
	s.dirty[s.cfg.Files.MonsterTable] = true
	// the display list derives from the table, so it needs regenerating too
	s.dirty[s.cfg.Files.MonsterList] = true
}

// NewMonster creates a record at the next free index.
func (s *Session) NewMonster() (*data.Monster, error) {
	idx := s.Monsters.NextFreeIndex()
	m, err := s.Monsters.AddNew(fmt.Sprintf("New Monster %d", idx))
	if err != nil {
		return nil, err
	}
	s.markMonstersDirty()
	s.log.Info("monster added", zap.Int("index", m.Index))
	return m, nil
}

// DuplicateMonster clones a record onto the next free index.
func (s *Session) DuplicateMonster(index int) (*data.Monster, error) {
	m, err := s.Monsters.Duplicate(index)
	if err != nil {
		return nil, err
	}
	s.markMonstersDirty()
	s.log.Info("monster duplicated", zap.Int("source", index), zap.Int("index", m.Index))
	return m, nil
}

// DeleteMonster removes a record; its source line disappears on save.
func (s *Session) DeleteMonster(index int) error {
	if !s.Monsters.Remove(index) {
		return fmt.Errorf("delete monster %d: no such record", index)
	}
	s.markMonstersDirty()
	s.log.Info("monster deleted", zap.Int("index", index))
	return nil
}

// ApplyMonster replaces the record at oldIndex with the edited one.
func (s *Session) ApplyMonster(oldIndex int, rec data.Monster) error {
	if err := s.Monsters.Replace(oldIndex, rec); err != nil {
		return err
	}
	s.markMonstersDirty()
	return nil
}

func (s *Session) markSpawnsDirty() { s.dirty[s.cfg.Files.MonsterSpawn] = true }

func (s *Session) AddSpot(mapNumber, typ int, description string) (*spawn.Spot, error) {
	sp, err := s.Spawns.AddSpot(mapNumber, typ, description)
	if err != nil {
		return nil, err
	}
	s.markSpawnsDirty()
	return sp, nil
}

func (s *Session) RemoveSpot(mapNumber, spotIdx int) error {
	if err := s.Spawns.RemoveSpot(mapNumber, spotIdx); err != nil {
		return err
	}
	s.markSpawnsDirty()
	return nil
}

func (s *Session) AddSpawn(mapNumber, spotIdx int, sp spawn.Spawn) error {
	if err := s.Spawns.AddSpawn(mapNumber, spotIdx, sp); err != nil {
		return err
	}
	s.markSpawnsDirty()
	return nil
}

func (s *Session) ReplaceSpawn(mapNumber, spotIdx, row int, sp spawn.Spawn) error {
	if err := s.Spawns.ReplaceSpawn(mapNumber, spotIdx, row, sp); err != nil {
		return err
	}
	s.markSpawnsDirty()
	return nil
}

func (s *Session) RemoveSpawn(mapNumber, spotIdx, row int) error {
	if err := s.Spawns.RemoveSpawn(mapNumber, spotIdx, row); err != nil {
		return err
	}
	s.markSpawnsDirty()
	return nil
}

// Validate runs the dry-run checks. Never writes.
func (s *Session) Validate() []validate.Finding {
	return validate.Check(s.Monsters, s.Spawns, s.cfg.Limits)
}

// RegenerateDisplayList schedules a full rebuild of MonsterList.xml from the
// current table on the next save. The previous on-disk list is never
// consulted.
func (s *Session) RegenerateDisplayList() {
	s.dirty[s.cfg.Files.MonsterList] = true
	s.log.Info("display list regeneration scheduled", zap.Int("monsters", s.Monsters.Count()))
}

// PreviewListDiff returns a unified diff between the on-disk display list
// and what a regeneration would write.
func (s *Session) PreviewListDiff() (string, error) {
	existing, err := os.ReadFile(s.ListPath())
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("read %s: %w", s.ListPath(), err)
	}
	return listgen.Diff(existing, s.Monsters)
}

// SaveAll writes every dirty file in fixed order: backup first, then an
// atomic write-new-then-rename. A failed backup aborts that file before the
// original is touched. One file failing never blocks the others; each file
// gets its own result, and only files that actually saved have their dirty
// flag cleared.
func (s *Session) SaveAll() []FileResult {
	type job struct {
		name  string
		path  string
		write func(path string) error
	}
	jobs := []job{
		{s.cfg.Files.MonsterTable, s.MonsterPath(), func(p string) error { return s.Monsters.WriteFile(p) }},
		{s.cfg.Files.MonsterList, s.ListPath(), func(p string) error { return writeAtomic(p, listgen.Render(s.Monsters)) }},
		{s.cfg.Files.MonsterSpawn, s.SpawnPath(), func(p string) error { return s.Spawns.WriteFile(p) }},
	}

	var results []FileResult
	for _, j := range jobs {
		if !s.dirty[j.name] {
			continue
		}
		bak, err := s.backups.Backup(j.path)
		if err == nil {
			err = j.write(j.path)
		}
		if err != nil {
			results = append(results, FileResult{Name: j.name, BackupPath: bak, Status: StatusFailed, Err: err})
			s.log.Error("save failed", zap.String("file", j.name), zap.Error(err))
			continue
		}
		s.dirty[j.name] = false
		results = append(results, FileResult{Name: j.name, BackupPath: bak, Status: StatusSaved})
		s.log.Info("file saved", zap.String("file", j.name), zap.String("backup", bak))
	}
	return results
}

// Stats summarizes the loaded session for the status line.
func (s *Session) Stats() Stats {
	st := Stats{}
	if s.Monsters != nil {
		st.Monsters = s.Monsters.Count()
		st.Encoding = s.Monsters.Encoding()
	}
	if s.Spawns != nil {
		st.Maps = s.Spawns.MapCount()
		st.Spots = s.Spawns.SpotCount()
		st.Spawns = s.Spawns.SpawnCount()
	}
	return st
}

func writeAtomic(path string, out []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
