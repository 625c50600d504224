package spawn

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleSpawnFile = `<?xml version="1.0" encoding="utf-8"?>
<MonsterSpawn>
  <Map Number="0" Name="Lorencia">
    <Spot Type="1" Description="Town edge">
      <Spawn Index="0" StartX="130" StartY="130" EndX="140" EndY="140" Dir="-1" Count="10"/>
      <Spawn Index="1" StartX="10" StartY="10" EndX="20" EndY="20" Dir="-1" Count="5"/>
      <Spawn Index="0" StartX="130" StartY="130" EndX="140" EndY="140" Dir="-1" Count="10"/>
    </Spot>
    <Spot Type="0" Description="Fixed guard">
      <Spawn Index="7" StartX="62" StartY="130" Dir="2"/>
    </Spot>
  </Map>
  <Map Number="1" Name="Dungeon">
    <Spot Type="1" Description="Entrance">
      <Spawn Index="2" StartX="200" StartY="40" EndX="210" EndY="50" Count="3" Value="30"/>
    </Spot>
  </Map>
</MonsterSpawn>
`

func parseSampleDoc(t *testing.T) *Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), "MonsterSpawn.xml")
	if err := os.WriteFile(path, []byte(sampleSpawnFile), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	doc, err := ParseSpawnFile(path)
	if err != nil {
		t.Fatalf("ParseSpawnFile: %v", err)
	}
	return doc
}

func TestParseSpawnFile_Counts(t *testing.T) {
	t.Parallel()

	doc := parseSampleDoc(t)
	if doc.MapCount() != 2 {
		t.Errorf("MapCount = %d, want 2", doc.MapCount())
	}
	if doc.SpotCount() != 3 {
		t.Errorf("SpotCount = %d, want 3", doc.SpotCount())
	}
	if doc.SpawnCount() != 5 {
		t.Errorf("SpawnCount = %d, want 5", doc.SpawnCount())
	}

	m := doc.FindMap(0)
	if m == nil || m.Name != "Lorencia" {
		t.Fatalf("FindMap(0) = %v, want Lorencia", m)
	}
	if doc.FindMap(3) != nil {
		t.Error("FindMap(3) should be nil")
	}
}

func TestParseSpawnFile_DuplicatesKeptAbsentAttrsStayNil(t *testing.T) {
	t.Parallel()

	doc := parseSampleDoc(t)
	town := doc.FindMap(0).Spots[0]
	if !reflect.DeepEqual(town.Spawns[0], town.Spawns[2]) {
		t.Error("duplicate placements should survive as two equal rows")
	}

	guard := doc.FindMap(0).Spots[1].Spawns[0]
	if guard.Index != 7 {
		t.Errorf("Index = %d, want 7", guard.Index)
	}
	if guard.Count != nil || guard.Value != nil || guard.EndX != nil {
		t.Error("absent attributes must stay nil, not decay to zero")
	}
	if guard.Dir == nil || *guard.Dir != 2 {
		t.Errorf("Dir = %v, want 2", guard.Dir)
	}
}

func TestSerialize_Deterministic(t *testing.T) {
	t.Parallel()

	doc := parseSampleDoc(t)
	a, err := doc.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	b, err := doc.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two serializations of the same document differ")
	}
	if !strings.HasPrefix(string(a), "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n") {
		t.Errorf("missing XML declaration:\n%s", a[:60])
	}
}

func TestSerialize_RoundTripIsStable(t *testing.T) {
	t.Parallel()

	doc := parseSampleDoc(t)
	first, err := doc.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	path := filepath.Join(t.TempDir(), "MonsterSpawn.xml")
	if err := os.WriteFile(path, first, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	reparsed, err := ParseSpawnFile(path)
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	second, err := reparsed.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("regenerated file is not stable:\n%s\nvs\n%s", first, second)
	}

	// Nothing lost or merged on the way through.
	if reparsed.SpawnCount() != doc.SpawnCount() {
		t.Errorf("SpawnCount after round trip = %d, want %d", reparsed.SpawnCount(), doc.SpawnCount())
	}
}

func TestSerialize_AbsentAttrsNotEmitted(t *testing.T) {
	t.Parallel()

	doc := parseSampleDoc(t)
	out, err := doc.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	for _, ln := range strings.Split(string(out), "\n") {
		if strings.Contains(ln, `Index="7"`) {
			if strings.Contains(ln, "Count=") || strings.Contains(ln, "Value=") {
				t.Errorf("guard spawn grew attributes it never had: %s", ln)
			}
		}
	}
}

func TestParseSpawnFile_Malformed(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"truncated markup":      "<MonsterSpawn><Map Number=\"0\">",
		"non-numeric attribute": strings.Replace(sampleSpawnFile, `Count="10"`, `Count="lots"`, 1),
	}
	for name, content := range cases {
		content := content
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "MonsterSpawn.xml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := ParseSpawnFile(path); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestMutators(t *testing.T) {
	t.Parallel()

	doc := parseSampleDoc(t)

	if _, err := doc.AddSpot(1, 0, "Boss room"); err != nil {
		t.Fatalf("AddSpot: %v", err)
	}
	if doc.SpotCount() != 4 {
		t.Errorf("SpotCount = %d, want 4", doc.SpotCount())
	}
	if err := doc.AddSpawn(1, 1, Spawn{Index: 9, StartX: Int(100), StartY: Int(100), Dir: Int(-1)}); err != nil {
		t.Fatalf("AddSpawn: %v", err)
	}
	if err := doc.ReplaceSpawn(1, 1, 0, Spawn{Index: 9, StartX: Int(101), StartY: Int(100)}); err != nil {
		t.Fatalf("ReplaceSpawn: %v", err)
	}
	got := doc.FindMap(1).Spots[1].Spawns[0]
	if *got.StartX != 101 {
		t.Errorf("StartX = %d, want 101", *got.StartX)
	}
	if got.Dir != nil {
		t.Error("ReplaceSpawn must overwrite the whole row, Dir should be gone")
	}
	if err := doc.RemoveSpawn(1, 1, 0); err != nil {
		t.Fatalf("RemoveSpawn: %v", err)
	}
	if err := doc.RemoveSpot(1, 1); err != nil {
		t.Fatalf("RemoveSpot: %v", err)
	}
	if doc.SpotCount() != 3 {
		t.Errorf("SpotCount = %d, want 3 after removal", doc.SpotCount())
	}
}

func TestMutators_RangeErrors(t *testing.T) {
	t.Parallel()

	doc := parseSampleDoc(t)
	if _, err := doc.AddSpot(99, 0, "nowhere"); err == nil {
		t.Error("AddSpot on unknown map should fail")
	}
	if err := doc.AddSpawn(0, 5, Spawn{Index: 1}); err == nil {
		t.Error("AddSpawn on missing spot should fail")
	}
	if err := doc.ReplaceSpawn(0, 0, 9, Spawn{Index: 1}); err == nil {
		t.Error("ReplaceSpawn on missing row should fail")
	}
	if err := doc.RemoveSpawn(0, 0, -1); err == nil {
		t.Error("RemoveSpawn on negative row should fail")
	}
	if err := doc.RemoveSpot(0, 7); err == nil {
		t.Error("RemoveSpot on missing spot should fail")
	}
}

func TestEachSpawn_DocumentOrder(t *testing.T) {
	t.Parallel()

	doc := parseSampleDoc(t)
	var indices []int
	doc.EachSpawn(func(_ *Map, _ int, _ int, sp *Spawn) {
		indices = append(indices, sp.Index)
	})
	want := []int{0, 1, 0, 7, 2}
	if !reflect.DeepEqual(indices, want) {
		t.Errorf("visit order = %v, want %v", indices, want)
	}
}
