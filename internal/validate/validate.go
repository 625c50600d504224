// Package validate runs the dry-run checks: spawn → monster reference
// resolution and numeric range checks. It only reads; findings are plain
// data for the caller to surface.
package validate

import (
	"fmt"

	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/config"
	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/data"
	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/spawn"
)

type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Finding is one validation result. Subject pinpoints the record
// ("monster 42", "map 0 spot 1 spawn 3") so the UI can jump to it.
type Finding struct {
	Severity Severity
	Subject  string
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s: %s", f.Severity, f.Subject, f.Message)
}

// Check validates the tables against each other and against the configured
// limits. Deterministic and side-effect free: identical inputs yield
// identical findings in identical order, and neither table is touched.
func Check(t *data.MonsterTable, doc *spawn.Document, lim config.LimitsConfig) []Finding {
	var out []Finding

	seen := make(map[int]bool, t.Count())
	for _, m := range t.Records() {
		subject := fmt.Sprintf("monster %d", m.Index)
		if seen[m.Index] {
			out = append(out, Finding{SeverityWarning, subject, "duplicate index"})
		}
		seen[m.Index] = true
		if m.Index < lim.IndexMin || m.Index > lim.IndexMax {
			out = append(out, Finding{SeverityWarning, subject,
				fmt.Sprintf("index outside allowed range %d..%d", lim.IndexMin, lim.IndexMax)})
		}
		for _, f := range t.Schema().StatFields() {
			v := m.Stat(f.Name)
			if v < f.Min || v > f.Max {
				out = append(out, Finding{SeverityWarning, subject,
					fmt.Sprintf("%s=%d outside declared range %d..%d", f.Name, v, f.Min, f.Max)})
			}
		}
	}

	if doc == nil {
		return out
	}
	for _, mp := range doc.Maps {
		if mp.Number < 0 {
			out = append(out, Finding{SeverityWarning, fmt.Sprintf("map %d", mp.Number),
				"negative map number"})
		}
	}
	doc.EachSpawn(func(mp *spawn.Map, spotIdx, row int, sp *spawn.Spawn) {
		subject := fmt.Sprintf("map %d spot %d spawn %d", mp.Number, spotIdx, row)
		if res := t.Resolve(sp.Index); !res.Known() {
			out = append(out, Finding{SeverityError, subject,
				fmt.Sprintf("monster index %d (unknown)", sp.Index)})
		}
		if sp.Count != nil && *sp.Count < 0 {
			out = append(out, Finding{SeverityWarning, subject,
				fmt.Sprintf("Count=%d is negative", *sp.Count)})
		}
		coord := func(name string, v *int) {
			if v != nil && (*v < lim.CoordMin || *v > lim.CoordMax) {
				out = append(out, Finding{SeverityWarning, subject,
					fmt.Sprintf("%s=%d outside map bounds %d..%d", name, *v, lim.CoordMin, lim.CoordMax)})
			}
		}
		coord("StartX", sp.StartX)
		coord("StartY", sp.StartY)
		coord("EndX", sp.EndX)
		coord("EndY", sp.EndY)
		if sp.Dir != nil && (*sp.Dir < lim.DirMin || *sp.Dir > lim.DirMax) {
			out = append(out, Finding{SeverityWarning, subject,
				fmt.Sprintf("Dir=%d outside %d..%d", *sp.Dir, lim.DirMin, lim.DirMax)})
		}
	})
	return out
}

// Errors reports how many findings are error severity.
func Errors(findings []Finding) int {
	n := 0
	for _, f := range findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}
