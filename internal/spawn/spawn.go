// Package spawn models MonsterSpawn.xml: maps contain spots, spots contain
// spawn entries referencing monster indices from Monster.txt.
package spawn

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
)

const header = "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<!-- Generated by Phantasm LTP Monster Editor -->\n"

// Document is the whole spawn file. Maps keep file order; nothing is merged
// or re-sorted, duplicate placements included.
type Document struct {
	XMLName xml.Name `xml:"MonsterSpawn"`
	Maps    []*Map   `xml:"Map"`
}

type Map struct {
	Number int     `xml:"Number,attr"`
	Name   string  `xml:"Name,attr"`
	Spots  []*Spot `xml:"Spot"`
}

type Spot struct {
	Type        int      `xml:"Type,attr"`
	Description string   `xml:"Description,attr"`
	Spawns      []*Spawn `xml:"Spawn"`
}

// Spawn is one placement. Everything but the monster index is optional in
// the wild; optional attributes stay absent on round-trip instead of
// materializing as zeroes.
type Spawn struct {
	Index    int  `xml:"Index,attr"`
	Distance *int `xml:"Distance,attr,omitempty"`
	StartX   *int `xml:"StartX,attr,omitempty"`
	StartY   *int `xml:"StartY,attr,omitempty"`
	EndX     *int `xml:"EndX,attr,omitempty"`
	EndY     *int `xml:"EndY,attr,omitempty"`
	Dir      *int `xml:"Dir,attr,omitempty"`
	Count    *int `xml:"Count,attr,omitempty"`
	Value    *int `xml:"Value,attr,omitempty"`
}

// Int is a literal helper for optional attributes.
func Int(v int) *int { return &v }

// ParseSpawnFile reads and fully interprets a MonsterSpawn.xml. Malformed
// markup or a non-numeric attribute aborts the parse; no partial document is
// returned.
func ParseSpawnFile(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spawn table: read %s: %w", path, err)
	}
	var doc Document
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("spawn table: parse %s: %w", path, err)
	}
	return &doc, nil
}

// Serialize renders the document with the legacy attribute order and
// two-space indent. Output depends only on the in-memory document, so
// serializing twice yields identical bytes.
func (d *Document) Serialize() ([]byte, error) {
	body, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("spawn table: marshal: %w", err)
	}
	var b bytes.Buffer
	b.WriteString(header)
	b.Write(body)
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// WriteFile serializes and atomically replaces path.
func (d *Document) WriteFile(path string) error {
	out, err := d.Serialize()
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return fmt.Errorf("spawn table: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("spawn table: replace %s: %w", path, err)
	}
	return nil
}

// FindMap returns the map with the given number, nil if absent.
func (d *Document) FindMap(number int) *Map {
	for _, m := range d.Maps {
		if m.Number == number {
			return m
		}
	}
	return nil
}

func (d *Document) MapCount() int { return len(d.Maps) }

func (d *Document) SpotCount() int {
	n := 0
	for _, m := range d.Maps {
		n += len(m.Spots)
	}
	return n
}

func (d *Document) SpawnCount() int {
	n := 0
	for _, m := range d.Maps {
		for _, s := range m.Spots {
			n += len(s.Spawns)
		}
	}
	return n
}

// EachSpawn visits every spawn in document order.
func (d *Document) EachSpawn(fn func(m *Map, spotIdx int, row int, sp *Spawn)) {
	for _, m := range d.Maps {
		for si, s := range m.Spots {
			for ri, sp := range s.Spawns {
				fn(m, si, ri, sp)
			}
		}
	}
}

// AddSpot appends a spot to the given map.
func (d *Document) AddSpot(mapNumber, typ int, description string) (*Spot, error) {
	m := d.FindMap(mapNumber)
	if m == nil {
		return nil, fmt.Errorf("map %d not in spawn file", mapNumber)
	}
	s := &Spot{Type: typ, Description: description}
	m.Spots = append(m.Spots, s)
	return s, nil
}

// RemoveSpot deletes a spot and all its spawns.
func (d *Document) RemoveSpot(mapNumber, spotIdx int) error {
	mp := d.FindMap(mapNumber)
	if mp == nil {
		return fmt.Errorf("map %d not in spawn file", mapNumber)
	}
	if spotIdx < 0 || spotIdx >= len(mp.Spots) {
		return fmt.Errorf("map %d has no spot %d", mapNumber, spotIdx)
	}
	mp.Spots = append(mp.Spots[:spotIdx], mp.Spots[spotIdx+1:]...)
	return nil
}

// AddSpawn appends a spawn entry to a spot.
func (d *Document) AddSpawn(mapNumber, spotIdx int, sp Spawn) error {
	s, err := d.spot(mapNumber, spotIdx)
	if err != nil {
		return err
	}
	s.Spawns = append(s.Spawns, &sp)
	return nil
}

// ReplaceSpawn overwrites one spawn row in place.
func (d *Document) ReplaceSpawn(mapNumber, spotIdx, row int, sp Spawn) error {
	s, err := d.spot(mapNumber, spotIdx)
	if err != nil {
		return err
	}
	if row < 0 || row >= len(s.Spawns) {
		return fmt.Errorf("map %d spot %d has no spawn row %d", mapNumber, spotIdx, row)
	}
	*s.Spawns[row] = sp
	return nil
}

// RemoveSpawn deletes one spawn row.
func (d *Document) RemoveSpawn(mapNumber, spotIdx, row int) error {
	s, err := d.spot(mapNumber, spotIdx)
	if err != nil {
		return err
	}
	if row < 0 || row >= len(s.Spawns) {
		return fmt.Errorf("map %d spot %d has no spawn row %d", mapNumber, spotIdx, row)
	}
	s.Spawns = append(s.Spawns[:row], s.Spawns[row+1:]...)
	return nil
}

func (d *Document) spot(mapNumber, spotIdx int) (*Spot, error) {
	m := d.FindMap(mapNumber)
	if m == nil {
		return nil, fmt.Errorf("map %d not in spawn file", mapNumber)
	}
	if spotIdx < 0 || spotIdx >= len(m.Spots) {
		return nil, fmt.Errorf("map %d has no spot %d", mapNumber, spotIdx)
	}
	return m.Spots[spotIdx], nil
}
