package data

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Monster.txt files in the wild predate UTF-8: central-European servers ship
// cp1250, western ones cp1252. The probe order mirrors what the legacy
// tooling tried; latin-1 decodes any byte so it closes the ladder.
var legacyCharmaps = []struct {
	name string
	cm   *charmap.Charmap
}{
	{"cp1250", charmap.Windows1250},
	{"cp1252", charmap.Windows1252},
	{"latin-1", charmap.ISO8859_1},
}

// decodeLegacy converts raw file bytes to a UTF-8 string and reports which
// encoding succeeded, so a later save can round-trip the original bytes.
func decodeLegacy(raw []byte) (text, encName string, err error) {
	if utf8.Valid(raw) {
		return string(raw), "utf-8", nil
	}
	for _, c := range legacyCharmaps {
		decoded, derr := c.cm.NewDecoder().Bytes(raw)
		if derr != nil {
			continue
		}
		if strings.ContainsRune(string(decoded), utf8.RuneError) {
			continue // byte with no mapping in this codepage
		}
		return string(decoded), c.name, nil
	}
	return "", "", fmt.Errorf("no known encoding decodes the file cleanly")
}

// encodeLegacy converts UTF-8 text back to the encoding the file was read
// with. Characters the codepage cannot express are replaced rather than
// failing the save.
func encodeLegacy(text, encName string) ([]byte, error) {
	if encName == "" || encName == "utf-8" {
		return []byte(text), nil
	}
	for _, c := range legacyCharmaps {
		if c.name != encName {
			continue
		}
		enc := encoding.ReplaceUnsupported(c.cm.NewEncoder())
		out, err := enc.Bytes([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", encName, err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown encoding %q", encName)
}
