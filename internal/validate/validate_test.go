package validate

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/config"
	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/data"
	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/spawn"
)

func table(t *testing.T, indices ...int) *data.MonsterTable {
	t.Helper()
	tbl := data.NewMonsterTable(data.DefaultSchema())
	for _, idx := range indices {
		if _, err := tbl.Add(data.Monster{Index: idx, Name: "Test"}); err != nil {
			t.Fatalf("Add(%d): %v", idx, err)
		}
	}
	return tbl
}

func doc(spawns ...spawn.Spawn) *spawn.Document {
	spot := &spawn.Spot{Type: 1, Description: "test"}
	for i := range spawns {
		spot.Spawns = append(spot.Spawns, &spawns[i])
	}
	return &spawn.Document{Maps: []*spawn.Map{{Number: 0, Name: "Lorencia", Spots: []*spawn.Spot{spot}}}}
}

func TestCheck_CleanTables(t *testing.T) {
	t.Parallel()

	lim := config.Default().Limits
	findings := Check(table(t, 1, 2, 3), doc(spawn.Spawn{Index: 2, StartX: spawn.Int(10), Count: spawn.Int(0)}), lim)
	if len(findings) != 0 {
		t.Errorf("findings = %v, want none", findings)
	}
}

func TestCheck_UnknownReferenceIsExactlyOneError(t *testing.T) {
	t.Parallel()

	lim := config.Default().Limits
	findings := Check(table(t, 1, 2, 3), doc(spawn.Spawn{Index: 99}), lim)
	if len(findings) != 1 {
		t.Fatalf("findings = %v, want exactly one", findings)
	}
	f := findings[0]
	if f.Severity != SeverityError {
		t.Errorf("Severity = %v, want error", f.Severity)
	}
	if f.Subject != "map 0 spot 0 spawn 0" {
		t.Errorf("Subject = %q", f.Subject)
	}
	if !strings.Contains(f.Message, "99") || !strings.Contains(f.Message, "unknown") {
		t.Errorf("Message = %q, want the raw index kept visible", f.Message)
	}
}

func TestCheck_NegativeCountWarns(t *testing.T) {
	t.Parallel()

	lim := config.Default().Limits
	findings := Check(table(t, 1), doc(spawn.Spawn{Index: 1, Count: spawn.Int(-1)}), lim)
	if len(findings) != 1 || findings[0].Severity != SeverityWarning {
		t.Fatalf("findings = %v, want one warning", findings)
	}
	if !strings.Contains(findings[0].Message, "Count=-1") {
		t.Errorf("Message = %q", findings[0].Message)
	}
}

func TestCheck_CoordinateAndDirBounds(t *testing.T) {
	t.Parallel()

	lim := config.Default().Limits
	findings := Check(table(t, 1), doc(spawn.Spawn{
		Index:  1,
		StartX: spawn.Int(300),
		Dir:    spawn.Int(8),
	}), lim)
	if len(findings) != 2 {
		t.Fatalf("findings = %v, want StartX and Dir warnings", findings)
	}
	if !strings.Contains(findings[0].Message, "StartX=300") {
		t.Errorf("first = %q, want StartX out of bounds", findings[0].Message)
	}
	if !strings.Contains(findings[1].Message, "Dir=8") {
		t.Errorf("second = %q, want Dir out of range", findings[1].Message)
	}

	// -1 means a random direction and is fine.
	if f := Check(table(t, 1), doc(spawn.Spawn{Index: 1, Dir: spawn.Int(-1)}), lim); len(f) != 0 {
		t.Errorf("Dir=-1 flagged: %v", f)
	}
}

func TestCheck_DuplicateMonsterIndexWarns(t *testing.T) {
	t.Parallel()

	row := "5\t1\t\"Twin\"\t1\t15\t0\t3\t5\t1\t1\t8\t2\t3\t0\t1\t4\t400\t1600\t5\t0\t60\t70\t2\t0\t0\t0\t0\t0\n"
	path := filepath.Join(t.TempDir(), "Monster.txt")
	if err := os.WriteFile(path, []byte(row+row), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tbl, err := data.ParseMonsterFile(path, data.DefaultSchema())
	if err != nil {
		t.Fatalf("ParseMonsterFile: %v", err)
	}

	findings := Check(tbl, nil, config.Default().Limits)
	if len(findings) != 1 {
		t.Fatalf("findings = %v, want one duplicate warning", findings)
	}
	if findings[0].Severity != SeverityWarning || findings[0].Message != "duplicate index" {
		t.Errorf("finding = %v", findings[0])
	}
}

func TestCheck_NegativeMapNumberWarns(t *testing.T) {
	t.Parallel()

	d := &spawn.Document{Maps: []*spawn.Map{{Number: -2, Name: "broken"}}}
	findings := Check(table(t), d, config.Default().Limits)
	if len(findings) != 1 || findings[0].Subject != "map -2" {
		t.Errorf("findings = %v, want one negative-map warning", findings)
	}
}

func TestCheck_Deterministic(t *testing.T) {
	t.Parallel()

	lim := config.Default().Limits
	tbl := table(t, 1, 3)
	d := doc(spawn.Spawn{Index: 99}, spawn.Spawn{Index: 3, Count: spawn.Int(-5)})
	a := Check(tbl, d, lim)
	b := Check(tbl, d, lim)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("two runs differ:\n%v\n%v", a, b)
	}
}

func TestErrors_CountsOnlyErrors(t *testing.T) {
	t.Parallel()

	findings := []Finding{
		{SeverityWarning, "monster 1", "x"},
		{SeverityError, "map 0 spot 0 spawn 0", "y"},
		{SeverityError, "map 0 spot 0 spawn 1", "z"},
	}
	if got := Errors(findings); got != 2 {
		t.Errorf("Errors = %d, want 2", got)
	}
	if got := Errors(nil); got != 0 {
		t.Errorf("Errors(nil) = %d, want 0", got)
	}
}
