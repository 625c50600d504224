package data

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// FieldKind is the declared type of a Monster.txt column.
type FieldKind string

const (
	KindInt    FieldKind = "int"
	KindString FieldKind = "string"
)

// Field describes one Monster.txt column: its name, type and the range the
// game server accepts. The same schema drives the parser, the validator and
// the edit form, so a range is declared exactly once.
type Field struct {
	Name   string    `yaml:"name"`
	Kind   FieldKind `yaml:"kind"`
	Min    int       `yaml:"min"`
	Max    int       `yaml:"max"`
	InList bool      `yaml:"in_list"` // emitted as a MonsterList.xml attribute
}

// Schema is the ordered column layout of Monster.txt. Column 0 is always the
// integer Index; exactly one string column (the monster name) is allowed.
type Schema struct {
	fields []Field
	byName map[string]int
}

const maxStat = math.MaxInt32

// DefaultSchema returns the stock 28-column layout used by LTP-style servers.
// Rate is a server-side spawn weight and never appears in the display list.
func DefaultSchema() *Schema {
	fields := []Field{
		{Name: "Index", Kind: KindInt, Min: 0, Max: 65535, InList: true},
		{Name: "Rate", Kind: KindInt, Min: 0, Max: maxStat},
		{Name: "Name", Kind: KindString, InList: true},
		{Name: "Level", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "Life", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "Mana", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "DamageMin", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "DamageMax", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "Defense", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "MagicDefense", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "AttackRate", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "DefenseRate", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "MoveRange", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "AttackType", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "AttackRange", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "ViewRange", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "MoveSpeed", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "AttackSpeed", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "RegenTime", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "Attribute", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "ItemRate", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "MoneyRate", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "MaxItemLevel", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "MonsterSkill", Kind: KindInt, Min: 0, Max: maxStat, InList: true},
		{Name: "IceRes", Kind: KindInt, Min: 0, Max: 255, InList: true},
		{Name: "PoisonRes", Kind: KindInt, Min: 0, Max: 255, InList: true},
		{Name: "LightRes", Kind: KindInt, Min: 0, Max: 255, InList: true},
		{Name: "FireRes", Kind: KindInt, Min: 0, Max: 255, InList: true},
	}
	s, err := newSchema(fields)
	if err != nil {
		panic(err) // built-in layout is static
	}
	return s
}

// LoadSchema loads a column schema override from YAML.
func LoadSchema(path string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	var f struct {
		Fields []Field `yaml:"fields"`
	}
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("schema: parse %s: %w", path, err)
	}
	s, err := newSchema(f.Fields)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return s, nil
}

func newSchema(fields []Field) (*Schema, error) {
	if len(fields) < 2 {
		return nil, fmt.Errorf("need at least an index and a name column, got %d fields", len(fields))
	}
	if fields[0].Kind != KindInt {
		return nil, fmt.Errorf("first column %q must be an int index", fields[0].Name)
	}
	byName := make(map[string]int, len(fields))
	strings := 0
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		switch f.Kind {
		case KindInt:
		case KindString:
			strings++
		default:
			return nil, fmt.Errorf("column %q: unknown kind %q", f.Name, f.Kind)
		}
		if _, dup := byName[f.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", f.Name)
		}
		byName[f.Name] = i
	}
	if strings != 1 {
		return nil, fmt.Errorf("exactly one string (name) column required, got %d", strings)
	}
	return &Schema{fields: fields, byName: byName}, nil
}

// Fields returns the columns in file order.
func (s *Schema) Fields() []Field { return s.fields }

// NameField returns the single string column.
func (s *Schema) NameField() Field {
	for _, f := range s.fields {
		if f.Kind == KindString {
			return f
		}
	}
	return Field{} // unreachable, newSchema guarantees one
}

// StatFields returns the int columns excluding the leading index.
func (s *Schema) StatFields() []Field {
	out := make([]Field, 0, len(s.fields)-2)
	for i, f := range s.fields {
		if i == 0 || f.Kind != KindInt {
			continue
		}
		out = append(out, f)
	}
	return out
}
