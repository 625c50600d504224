// Package listgen derives MonsterList.xml from the monster table. The list
// is a projection: it is always rebuilt whole from the table and never read
// back, so the table stays the single source of truth.
package listgen

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/data"
)

const header = "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<!-- Generated by Phantasm LTP Monster Editor -->\n"

// Render projects the table into display-list bytes. Pure: the same table
// always renders byte-identically (records sorted by Index, fixed attribute
// order ending with Name), which keeps regeneration idempotent and
// diff-friendly.
func Render(t *data.MonsterTable) []byte {
	var b bytes.Buffer
	b.WriteString(header)
	b.WriteString("<MonsterList>\n")
	for _, m := range t.Records() {
		b.WriteString("  <Monster")
		fmt.Fprintf(&b, ` Index="%d"`, m.Index)
		for _, f := range t.Schema().StatFields() {
			if !f.InList {
				continue
			}
			fmt.Fprintf(&b, ` %s="%d"`, f.Name, m.Stat(f.Name))
		}
		fmt.Fprintf(&b, ` Name="%s"`, escapeAttr(m.Name))
		b.WriteString("/>\n")
	}
	b.WriteString("</MonsterList>\n")
	return b.Bytes()
}

// Diff returns a unified diff between the on-disk list and a fresh render,
// empty when they already match.
func Diff(existing []byte, t *data.MonsterTable) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(existing)),
		B:        difflib.SplitLines(string(Render(t))),
		FromFile: "MonsterList.xml (existing)",
		ToFile:   "MonsterList.xml (generated)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("display list diff: %w", err)
	}
	return text, nil
}

func escapeAttr(s string) string {
	var b bytes.Buffer
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}
