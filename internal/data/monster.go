package data

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ErrIndexExists is returned by mutators when a record would collide with an
// existing monster index.
var ErrIndexExists = errors.New("monster index already exists")

// Monster is one row of Monster.txt. Stats holds every int column except the
// leading Index, keyed by schema column name, so custom server layouts flow
// through without code changes.
type Monster struct {
	Index int
	Name  string
	Stats map[string]int

	line int    // slot in the source file, -1 for records added this session
	raw  string // verbatim source line, cleared once the record is edited
}

// Stat returns the named stat, 0 when absent.
func (m *Monster) Stat(name string) int { return m.Stats[name] }

// CloneStats returns a copy of the stat map.
func (m *Monster) CloneStats() map[string]int {
	out := make(map[string]int, len(m.Stats))
	for k, v := range m.Stats {
		out[k] = v
	}
	return out
}

// Resolution is the outcome of resolving a spawn's monster index against the
// table. An unresolved index stays visibly unresolved instead of decaying to
// an empty name.
type Resolution struct {
	Monster *Monster // nil when the index is not in the table
	Raw     int
}

func (r Resolution) Known() bool { return r.Monster != nil }

func (r Resolution) DisplayName() string {
	if r.Monster == nil {
		return "(unknown)"
	}
	return r.Monster.Name
}

// MonsterTable is the in-memory Monster.txt. Records are kept sorted by
// Index; the original file lines are retained so serialization patches data
// rows in place and leaves comments, blank lines and row order untouched.
type MonsterTable struct {
	schema      *Schema
	records     []*Monster
	byIndex     map[int]*Monster
	rawLines    []string
	parsedLines map[int]bool // line slots that held a data row at parse time
	encName     string
}

// NewMonsterTable returns an empty table, for building a file from scratch.
func NewMonsterTable(schema *Schema) *MonsterTable {
	return &MonsterTable{
		schema:      schema,
		byIndex:     make(map[int]*Monster),
		parsedLines: make(map[int]bool),
		encName:     "utf-8",
	}
}

// ParseMonsterFile reads and fully interprets a Monster.txt. The parse is
// fail-closed: a row with the wrong column count or a non-numeric value in a
// numeric column aborts with the offending line number, so a later save can
// never destroy data the tool did not understand. Duplicate indices are kept
// (the validator reports them); blank lines and // comments, including inline
// comments outside double quotes, are passed through untouched.
func ParseMonsterFile(path string, schema *Schema) (*MonsterTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("monster table: read %s: %w", path, err)
	}
	text, encName, err := decodeLegacy(raw)
	if err != nil {
		return nil, fmt.Errorf("monster table %s: %w", path, err)
	}

	t := NewMonsterTable(schema)
	t.encName = encName
	t.rawLines = splitLines(text)

	for i, ln := range t.rawLines {
		s := strings.TrimSpace(ln)
		if s == "" || strings.HasPrefix(s, "//") {
			continue
		}
		cleaned := stripInlineComment(ln)
		if strings.TrimSpace(cleaned) == "" {
			continue
		}
		tokens, err := splitFields(cleaned)
		if err != nil {
			return nil, fmt.Errorf("monster table %s line %d: %w", path, i+1, err)
		}
		rec, err := schema.parseTokens(tokens)
		if err != nil {
			return nil, fmt.Errorf("monster table %s line %d: %w", path, i+1, err)
		}
		rec.line = i
		rec.raw = ln
		t.records = append(t.records, &rec)
		t.byIndex[rec.Index] = &rec
		t.parsedLines[i] = true
	}

	sort.SliceStable(t.records, func(a, b int) bool { return t.records[a].Index < t.records[b].Index })
	return t, nil
}

// Schema returns the column layout the table was parsed with.
func (t *MonsterTable) Schema() *Schema { return t.schema }

// Encoding reports the file encoding detected at parse time.
func (t *MonsterTable) Encoding() string { return t.encName }

// Records returns the records sorted by Index. Callers must not mutate
// through the returned pointers; edits go through Replace.
func (t *MonsterTable) Records() []*Monster { return t.records }

func (t *MonsterTable) Count() int { return len(t.records) }

// Get returns the record with the given index, nil if absent.
func (t *MonsterTable) Get(index int) *Monster { return t.byIndex[index] }

// Resolve looks up a monster index without losing the unresolved case.
func (t *MonsterTable) Resolve(index int) Resolution {
	return Resolution{Monster: t.byIndex[index], Raw: index}
}

// NextFreeIndex returns the smallest index not present in the table.
func (t *MonsterTable) NextFreeIndex() int {
	idx := 0
	for t.byIndex[idx] != nil {
		idx++
	}
	return idx
}

// Add inserts a record created this session. The index must be free.
func (t *MonsterTable) Add(rec Monster) (*Monster, error) {
	if t.byIndex[rec.Index] != nil {
		return nil, fmt.Errorf("add monster %d: %w", rec.Index, ErrIndexExists)
	}
	rec.line = -1
	rec.raw = ""
	if rec.Stats == nil {
		rec.Stats = make(map[string]int)
	}
	m := &rec
	t.records = append(t.records, m)
	t.byIndex[rec.Index] = m
	t.resort()
	return m, nil
}

// AddNew creates a fresh record at the next free index. Stats are copied from
// the first record so the new monster starts from something playable; the
// spawn weight resets to 1 like the legacy tool did.
func (t *MonsterTable) AddNew(name string) (*Monster, error) {
	rec := Monster{Index: t.NextFreeIndex(), Name: name, Stats: make(map[string]int)}
	if len(t.records) > 0 {
		rec.Stats = t.records[0].CloneStats()
	}
	if _, ok := t.schema.byName["Rate"]; ok {
		rec.Stats["Rate"] = 1
	}
	return t.Add(rec)
}

// Duplicate clones an existing record onto the next free index.
func (t *MonsterTable) Duplicate(index int) (*Monster, error) {
	src := t.byIndex[index]
	if src == nil {
		return nil, fmt.Errorf("duplicate monster %d: no such record", index)
	}
	rec := Monster{
		Index: t.NextFreeIndex(),
		Name:  src.Name + " (Copy)",
		Stats: src.CloneStats(),
	}
	return t.Add(rec)
}

// Remove deletes the record with the given index. Its source line, if any,
// disappears on the next serialization.
func (t *MonsterTable) Remove(index int) bool {
	m := t.byIndex[index]
	if m == nil {
		return false
	}
	delete(t.byIndex, index)
	for i, r := range t.records {
		if r == m {
			t.records = append(t.records[:i], t.records[i+1:]...)
			break
		}
	}
	return true
}

// Replace swaps the record at oldIndex for rec, keeping its position in the
// source file. Renaming onto an occupied index is rejected.
func (t *MonsterTable) Replace(oldIndex int, rec Monster) error {
	old := t.byIndex[oldIndex]
	if old == nil {
		return fmt.Errorf("replace monster %d: no such record", oldIndex)
	}
	if rec.Index != oldIndex && t.byIndex[rec.Index] != nil {
		return fmt.Errorf("replace monster %d with %d: %w", oldIndex, rec.Index, ErrIndexExists)
	}
	rec.line = old.line
	rec.raw = "" // force reformat of the patched line
	if rec.Stats == nil {
		rec.Stats = make(map[string]int)
	}
	*old = rec
	if rec.Index != oldIndex {
		delete(t.byIndex, oldIndex)
		t.byIndex[rec.Index] = old
		t.resort()
	}
	return nil
}

func (t *MonsterTable) resort() {
	sort.SliceStable(t.records, func(a, b int) bool { return t.records[a].Index < t.records[b].Index })
}

// Serialize renders the table back to file bytes in the original encoding.
// Unedited rows keep their exact source bytes; edited rows are reformatted in
// place; new rows are appended; rows of deleted records vanish. A serialize
// straight after a parse reproduces the input byte for byte.
func (t *MonsterTable) Serialize() ([]byte, error) {
	lines := make([]string, len(t.rawLines))
	copy(lines, t.rawLines)

	claimed := make(map[int]bool, len(t.records))
	var appended []string
	for _, m := range t.records {
		if m.line < 0 {
			appended = append(appended, t.schema.formatLine(m))
			continue
		}
		if m.raw != "" {
			lines[m.line] = m.raw
		} else {
			lines[m.line] = t.schema.formatLine(m)
		}
		claimed[m.line] = true
	}

	var b strings.Builder
	for i, ln := range lines {
		if t.parsedLines[i] && !claimed[i] {
			continue // record deleted this session
		}
		b.WriteString(ln)
		b.WriteByte('\n')
	}
	for _, ln := range appended {
		b.WriteString(ln)
		b.WriteByte('\n')
	}
	return encodeLegacy(b.String(), t.encName)
}

// WriteFile serializes and atomically replaces path (write-new-then-rename,
// never an in-place truncate).
func (t *MonsterTable) WriteFile(path string) error {
	out, err := t.Serialize()
	if err != nil {
		return fmt.Errorf("monster table: serialize: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return fmt.Errorf("monster table: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("monster table: replace %s: %w", path, err)
	}
	return nil
}

func (s *Schema) parseTokens(tokens []string) (Monster, error) {
	if len(tokens) != len(s.fields) {
		return Monster{}, fmt.Errorf("expected %d columns, got %d", len(s.fields), len(tokens))
	}
	m := Monster{Stats: make(map[string]int, len(s.fields)-2)}
	for i, f := range s.fields {
		tok := tokens[i]
		if f.Kind == KindString {
			m.Name = tok
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return Monster{}, fmt.Errorf("column %s: %q is not a number", f.Name, tok)
		}
		if i == 0 {
			m.Index = v
		} else {
			m.Stats[f.Name] = v
		}
	}
	return m, nil
}

func (s *Schema) formatLine(m *Monster) string {
	parts := make([]string, 0, len(s.fields))
	for i, f := range s.fields {
		switch {
		case f.Kind == KindString:
			parts = append(parts, `"`+m.Name+`"`)
		case i == 0:
			parts = append(parts, strconv.Itoa(m.Index))
		default:
			parts = append(parts, strconv.Itoa(m.Stats[f.Name]))
		}
	}
	return strings.Join(parts, "\t")
}

// splitLines splits on \n without eating \r, so CRLF files round-trip.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// stripInlineComment cuts a trailing // comment that sits outside double
// quotes, mirroring how the game server tokenizes these files.
func stripInlineComment(line string) string {
	inQuote := false
	for i := 0; i+1 < len(line); i++ {
		switch {
		case line[i] == '"':
			inQuote = !inQuote
		case !inQuote && line[i] == '/' && line[i+1] == '/':
			return strings.TrimRight(line[:i], " \t\r")
		}
	}
	return strings.TrimRight(line, " \t\r")
}

// splitFields tokenizes a data row: whitespace separated, double quotes group
// a token that may contain spaces.
func splitFields(s string) ([]string, error) {
	var (
		out     []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t' || r == '\r'):
			if started {
				out = append(out, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	if started {
		out = append(out, cur.String())
	}
	return out, nil
}
