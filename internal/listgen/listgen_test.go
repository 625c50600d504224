package listgen

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/data"
)

const sampleMonsterFile = "0\t1\t\"Slime\"\t1\t15\t0\t3\t5\t1\t1\t8\t2\t3\t0\t1\t4\t400\t1600\t5\t0\t60\t70\t2\t0\t0\t0\t0\t0\n" +
	"7\t1\t\"Rock & Roll\"\t17\t400\t0\t55\t65\t25\t25\t80\t25\t3\t0\t2\t4\t400\t2200\t7\t0\t60\t80\t5\t0\t3\t0\t0\t0\n" +
	"2\t5\t\"Budge Dragon\"\t4\t60\t0\t10\t13\t3\t3\t18\t5\t3\t0\t1\t5\t400\t1800\t5\t0\t60\t70\t3\t0\t0\t0\t0\t0\n"

func sampleTable(t *testing.T) *data.MonsterTable {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Monster.txt")
	if err := os.WriteFile(path, []byte(sampleMonsterFile), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	tbl, err := data.ParseMonsterFile(path, data.DefaultSchema())
	if err != nil {
		t.Fatalf("ParseMonsterFile: %v", err)
	}
	return tbl
}

func TestRender_Content(t *testing.T) {
	t.Parallel()

	out := string(Render(sampleTable(t)))
	if !strings.Contains(out, `Index="0"`) {
		t.Error("Slime row missing")
	}
	if !strings.Contains(out, `Name="Slime"`) {
		t.Error("Slime name missing")
	}
	if !strings.Contains(out, "<MonsterList>") || !strings.Contains(out, "</MonsterList>") {
		t.Error("root element missing")
	}
	if strings.Contains(out, "Rate=") {
		t.Error("Rate is server-side and must not reach the display list")
	}
}

func TestRender_SortedByIndex(t *testing.T) {
	t.Parallel()

	out := string(Render(sampleTable(t)))
	i0 := strings.Index(out, `Index="0"`)
	i2 := strings.Index(out, `Index="2"`)
	i7 := strings.Index(out, `Index="7"`)
	if !(i0 < i2 && i2 < i7) {
		t.Errorf("rows not sorted by index: positions %d %d %d", i0, i2, i7)
	}
}

func TestRender_NameAttributeLastAndEscaped(t *testing.T) {
	t.Parallel()

	out := string(Render(sampleTable(t)))
	if !strings.Contains(out, `Name="Rock &amp; Roll"/>`) {
		t.Errorf("ampersand not escaped or Name not the last attribute:\n%s", out)
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	tbl := sampleTable(t)
	if !bytes.Equal(Render(tbl), Render(tbl)) {
		t.Error("two renders of the same table differ")
	}
}

func TestDiff_EmptyWhenCurrent(t *testing.T) {
	t.Parallel()

	tbl := sampleTable(t)
	text, err := Diff(Render(tbl), tbl)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if text != "" {
		t.Errorf("diff against a fresh render should be empty, got:\n%s", text)
	}
}

func TestDiff_ReportsStaleList(t *testing.T) {
	t.Parallel()

	tbl := sampleTable(t)
	stale := bytes.Replace(Render(tbl), []byte(`Name="Slime"`), []byte(`Name="Slimy"`), 1)
	text, err := Diff(stale, tbl)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if !strings.Contains(text, "-") || !strings.Contains(text, `Name="Slime"`) {
		t.Errorf("diff should show the corrected name, got:\n%s", text)
	}
	if !strings.Contains(text, "MonsterList.xml (generated)") {
		t.Error("diff header missing")
	}
}
